package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"quizroom/domain"
	"quizroom/storage"
)

const (
	maxMessageLength    = 200
	maxRetainedMessages = 100
)

var (
	ErrEmptyMessage    = errors.New("empty-message")
	ErrMessageTooLong  = errors.New("message-too-long")
	ErrTooManyMessages = errors.New("too-many-messages")
)

func chatKey(roomId string) string { return "chat:" + roomId }

// Service is the per-room chat log. It is independent of the game phase:
// messages can flow before, during, and after a quiz, and a room that was
// never created still has an (empty) log.
type Service struct {
	store      storage.KeyValueStore
	serializer *storage.KeyedSerializer
	now        func() time.Time

	limitersMu sync.Mutex
	limiters   map[string]*rate.Limiter
}

func NewService(store storage.KeyValueStore, serializer *storage.KeyedSerializer) *Service {
	return &Service{
		store:      store,
		serializer: serializer,
		now:        time.Now,
		limiters:   make(map[string]*rate.Limiter),
	}
}

func (s *Service) allow(userId string) bool {
	s.limitersMu.Lock()
	limiter, ok := s.limiters[userId]
	if !ok {
		limiter = rate.NewLimiter(1, 5)
		s.limiters[userId] = limiter
	}
	s.limitersMu.Unlock()

	return limiter.Allow()
}

func (s *Service) Append(ctx context.Context, roomId, authorId, body string) (domain.ChatMessage, error) {
	body = strings.TrimSpace(body)

	if body == "" {
		return domain.ChatMessage{}, ErrEmptyMessage
	}
	if utf8.RuneCountInString(body) > maxMessageLength {
		return domain.ChatMessage{}, ErrMessageTooLong
	}
	if !s.allow(authorId) {
		return domain.ChatMessage{}, ErrTooManyMessages
	}

	var message domain.ChatMessage

	err := s.serializer.Do(chatKey(roomId), func() error {
		var messages []domain.ChatMessage
		err := s.store.Get(ctx, chatKey(roomId), &messages)
		if err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
			return err
		}

		now := s.now()
		id := now.UnixMilli()
		// Two appends inside the same millisecond would collide; bump past
		// the current tail so ids stay strictly increasing per room.
		if n := len(messages); n > 0 && id <= messages[n-1].Id {
			id = messages[n-1].Id + 1
		}

		message = domain.ChatMessage{
			Id:        id,
			UserId:    authorId,
			Message:   body,
			Timestamp: now,
		}

		messages = append(messages, message)
		if len(messages) > maxRetainedMessages {
			messages = messages[len(messages)-maxRetainedMessages:]
		}

		return s.store.Set(ctx, chatKey(roomId), messages)
	})
	if err != nil {
		return domain.ChatMessage{}, err
	}

	return message, nil
}

func (s *Service) List(ctx context.Context, roomId string) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage

	err := s.store.Get(ctx, chatKey(roomId), &messages)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return []domain.ChatMessage{}, nil
		}
		return nil, err
	}

	return messages, nil
}
