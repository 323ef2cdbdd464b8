package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"quizroom/domain"
	"quizroom/storage"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func credKey(email string) string { return "cred:" + email }

type Service struct {
	store          storage.KeyValueStore
	serializer     *storage.KeyedSerializer
	profiles       ProfileCreator
	passwordHasher PasswordHasher
	tokenManager   TokenManager

	now   func() time.Time
	newId func() string
}

func NewService(store storage.KeyValueStore, serializer *storage.KeyedSerializer, profiles ProfileCreator, passwordHasher PasswordHasher, tokenManager TokenManager) *Service {
	return &Service{
		store:          store,
		serializer:     serializer,
		profiles:       profiles,
		passwordHasher: passwordHasher,
		tokenManager:   tokenManager,
		now:            time.Now,
		newId:          uuid.NewString,
	}
}

func (as *Service) Signup(ctx context.Context, email, password, name string) (domain.UserProfile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if !emailPattern.MatchString(email) {
		return domain.UserProfile{}, ErrInvalidEmailFormat
	}
	if name == "" {
		return domain.UserProfile{}, ErrMissingName
	}
	if utf8.RuneCountInString(password) < 8 {
		return domain.UserProfile{}, ErrWeakPassword
	}
	if utf8.RuneCountInString(password) > 128 {
		return domain.UserProfile{}, ErrPasswordTooLong
	}

	passwordHash, err := as.passwordHasher.Hash(password)
	if err != nil {
		return domain.UserProfile{}, err
	}

	profile := domain.UserProfile{
		Id:        as.newId(),
		Email:     email,
		Name:      name,
		CreatedAt: as.now(),
	}

	// Serialized per credential key so two signups racing on the same
	// email cannot both pass the existence check.
	err = as.serializer.Do(credKey(email), func() error {
		var existing domain.Credential
		err := as.store.Get(ctx, credKey(email), &existing)
		if err == nil {
			return domain.ErrDuplicateEmail
		}
		if !errors.Is(err, storage.ErrKeyNotFound) {
			return err
		}

		if err := as.profiles.Create(ctx, profile); err != nil {
			return err
		}
		return as.store.Set(ctx, credKey(email), domain.Credential{
			UserId:       profile.Id,
			PasswordHash: passwordHash,
		})
	})
	if err != nil {
		return domain.UserProfile{}, err
	}

	return profile, nil
}

func (as *Service) Login(ctx context.Context, email, password string) (string, domain.UserProfile, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var cred domain.Credential
	err := as.store.Get(ctx, credKey(email), &cred)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return "", domain.UserProfile{}, domain.ErrUserNotFound
		}
		return "", domain.UserProfile{}, err
	}

	match, err := as.passwordHasher.Compare(cred.PasswordHash, password)
	if err != nil {
		return "", domain.UserProfile{}, err
	}
	if !match {
		return "", domain.UserProfile{}, domain.ErrIncorrectPassword
	}

	token, err := as.tokenManager.Generate(cred.UserId, as.now())
	if err != nil {
		return "", domain.UserProfile{}, err
	}

	var profile domain.UserProfile
	if err := as.store.Get(ctx, "user:"+cred.UserId, &profile); err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return "", domain.UserProfile{}, domain.ErrUserNotFound
		}
		return "", domain.UserProfile{}, err
	}

	return token, profile, nil
}

// Resolve returns the user id a bearer token authenticates, or an error.
func (as *Service) Resolve(token string) (string, error) {
	return as.tokenManager.Verify(token)
}
