package game

import (
	"math/rand/v2"

	"quizroom/domain"
)

// The candidate set every room draws from. Kept deliberately small; rooms
// get the whole set in a fresh random order.
var questionBank = []domain.Question{
	{
		Prompt:  "What is the capital of South Korea?",
		Options: []string{"Seoul", "Busan", "Daegu", "Incheon"},
		Correct: "Seoul",
	},
	{
		Prompt:  "What is 2 + 2?",
		Options: []string{"3", "4", "5", "6"},
		Correct: "4",
	},
	{
		Prompt:  "Which is the largest ocean on Earth?",
		Options: []string{"Atlantic", "Indian", "Pacific", "Arctic"},
		Correct: "Pacific",
	},
	{
		Prompt:  "Which component acts as the brain of a computer?",
		Options: []string{"RAM", "CPU", "GPU", "SSD"},
		Correct: "CPU",
	},
	{
		Prompt:  "How many days are in a common year?",
		Options: []string{"364", "365", "366", "367"},
		Correct: "365",
	},
	{
		Prompt:  "Which planet is known as the Red Planet?",
		Options: []string{"Venus", "Mars", "Jupiter", "Saturn"},
		Correct: "Mars",
	},
	{
		Prompt:  "What is the chemical formula of water?",
		Options: []string{"O2", "H2O", "CO2", "NaCl"},
		Correct: "H2O",
	},
	{
		Prompt:  "How many continents are there?",
		Options: []string{"5", "6", "7", "8"},
		Correct: "7",
	},
}

// QuestionBank returns the candidate questions in an unbiased random
// permutation (Fisher-Yates via rand.Shuffle).
type QuestionBank struct {
	shuffle func(n int, swap func(i, j int))
}

func NewQuestionBank() *QuestionBank {
	return &QuestionBank{shuffle: rand.Shuffle}
}

func (qb *QuestionBank) Generate() []domain.Question {
	questions := make([]domain.Question, len(questionBank))
	copy(questions, questionBank)

	qb.shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	return questions
}
