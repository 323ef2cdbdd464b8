package profile

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/rs/zerolog"

	"quizroom/domain"
	"quizroom/storage"
)

var ErrDuplicateProfile = errors.New("profile-already-exists")

func userKey(id string) string { return "user:" + id }

type Service struct {
	store      storage.KeyValueStore
	serializer *storage.KeyedSerializer
	log        zerolog.Logger
}

func NewService(store storage.KeyValueStore, serializer *storage.KeyedSerializer, log zerolog.Logger) *Service {
	return &Service{store: store, serializer: serializer, log: log}
}

func (s *Service) Create(ctx context.Context, profile domain.UserProfile) error {
	return s.serializer.Do(userKey(profile.Id), func() error {
		var existing domain.UserProfile
		err := s.store.Get(ctx, userKey(profile.Id), &existing)
		if err == nil {
			return ErrDuplicateProfile
		}
		if !errors.Is(err, storage.ErrKeyNotFound) {
			return err
		}

		return s.store.Set(ctx, userKey(profile.Id), profile)
	})
}

func (s *Service) Get(ctx context.Context, id string) (domain.UserProfile, error) {
	var profile domain.UserProfile

	err := s.store.Get(ctx, userKey(id), &profile)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return domain.UserProfile{}, domain.ErrUserNotFound
		}
		return domain.UserProfile{}, err
	}

	return profile, nil
}

// AddGameResult folds one finished room into the user's cumulative stats.
// Serialized per user key: the same user can finish two rooms at once and
// both increments must land.
func (s *Service) AddGameResult(ctx context.Context, id string, scoreDelta int) error {
	return s.serializer.Do(userKey(id), func() error {
		var profile domain.UserProfile
		err := s.store.Get(ctx, userKey(id), &profile)
		if err != nil {
			if errors.Is(err, storage.ErrKeyNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		profile.TotalScore += scoreDelta
		profile.GamesPlayed++

		return s.store.Set(ctx, userKey(id), profile)
	})
}

// Rankings scans every profile and orders them by total score descending.
// Ties break toward the older account so repeated calls over unchanged
// data return the same order.
func (s *Service) Rankings(ctx context.Context, n int) (top, full []domain.UserProfile, err error) {
	raws, err := s.store.GetByPrefix(ctx, "user:")
	if err != nil {
		return nil, nil, err
	}

	profiles := make([]domain.UserProfile, 0, len(raws))
	for _, raw := range raws {
		var profile domain.UserProfile
		if err := json.Unmarshal(raw, &profile); err != nil {
			s.log.Warn().Err(err).Msg("skipping malformed profile document")
			continue
		}
		profiles = append(profiles, profile)
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		if profiles[i].TotalScore != profiles[j].TotalScore {
			return profiles[i].TotalScore > profiles[j].TotalScore
		}
		return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
	})

	if n > len(profiles) {
		n = len(profiles)
	}

	return profiles[:n], profiles, nil
}
