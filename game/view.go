package game

import (
	"time"

	"quizroom/domain"
)

// Clients poll the room document, so the client-facing shape must not carry
// the correct options.
type QuestionView struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

type RoomView struct {
	Id                string           `json:"id"`
	Name              string           `json:"name"`
	Host              string           `json:"host"`
	Players           []string         `json:"players"`
	MaxPlayers        int              `json:"maxPlayers"`
	Phase             domain.RoomPhase `json:"phase"`
	Questions         []QuestionView   `json:"questions"`
	CurrentQuestion   int              `json:"currentQuestion"`
	Scores            map[string]int   `json:"scores"`
	CreatedAt         time.Time        `json:"createdAt"`
	StartedAt         time.Time        `json:"startedAt"`
	QuestionStartedAt time.Time        `json:"questionStartedAt"`
}

func NewRoomView(r domain.Room) RoomView {
	questions := make([]QuestionView, 0, len(r.Questions))
	for _, q := range r.Questions {
		questions = append(questions, QuestionView{Prompt: q.Prompt, Options: q.Options})
	}

	return RoomView{
		Id:                r.Id,
		Name:              r.Name,
		Host:              r.Host,
		Players:           r.Players,
		MaxPlayers:        r.MaxPlayers,
		Phase:             r.Phase,
		Questions:         questions,
		CurrentQuestion:   r.CurrentQuestion,
		Scores:            r.Scores,
		CreatedAt:         r.CreatedAt,
		StartedAt:         r.StartedAt,
		QuestionStartedAt: r.QuestionStartedAt,
	}
}
