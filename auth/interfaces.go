package auth

import (
	"context"
	"time"

	"quizroom/domain"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

type TokenManager interface {
	Generate(id string, now time.Time) (string, error)
	Verify(token string) (string, error)
}

// ProfileCreator is the slice of the profile service signup needs: every
// new account gets a zeroed UserProfile.
type ProfileCreator interface {
	Create(ctx context.Context, profile domain.UserProfile) error
}
