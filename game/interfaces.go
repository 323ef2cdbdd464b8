package game

import (
	"context"

	"quizroom/domain"
)

type QuestionGenerator interface {
	Generate() []domain.Question
}

type UniqueIdGenerator interface {
	Generate() string
}

// ProfileUpdater is the completion side of the profile service. AddGameResult
// must be idempotent-safe to call once per player per room and serialized
// per user id on its side.
type ProfileUpdater interface {
	AddGameResult(ctx context.Context, userId string, scoreDelta int) error
}
