package game

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"quizroom/domain"
	"quizroom/storage"
)

const pointsPerCorrectAnswer = 10

// Room size bounds. The lower bound is a rule of the game (a quiz against
// nobody is not a room); the upper bound keeps a single room document small.
const (
	minRoomPlayers = 2
	maxRoomPlayers = 20
)

func roomKey(id string) string { return "room:" + id }

// Service owns the room state machine: waiting -> playing -> finished,
// never backward. Every mutating operation runs its whole
// load-validate-compute-store cycle inside the per-room serializer, which
// is what keeps concurrent joins and answers from corrupting the document.
// Reads go straight to the store; a slightly stale snapshot is fine since
// clients re-poll.
type Service struct {
	store      storage.KeyValueStore
	serializer *storage.KeyedSerializer
	questions  QuestionGenerator
	profiles   ProfileUpdater
	idGen      UniqueIdGenerator

	// answerWindow > 0 makes the server reject submissions arriving later
	// than answerWindow after the current question opened.
	answerWindow time.Duration

	now func() time.Time
	log zerolog.Logger
}

func NewService(store storage.KeyValueStore, serializer *storage.KeyedSerializer, questions QuestionGenerator, profiles ProfileUpdater, idGen UniqueIdGenerator, answerWindow time.Duration, log zerolog.Logger) *Service {
	return &Service{
		store:        store,
		serializer:   serializer,
		questions:    questions,
		profiles:     profiles,
		idGen:        idGen,
		answerWindow: answerWindow,
		now:          time.Now,
		log:          log,
	}
}

func (s *Service) load(ctx context.Context, roomId string) (domain.Room, error) {
	var room domain.Room
	err := s.store.Get(ctx, roomKey(roomId), &room)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return domain.Room{}, ErrRoomNotFound
		}
		return domain.Room{}, err
	}
	return room, nil
}

func (s *Service) Create(ctx context.Context, requesterId, name string, maxPlayers int) (domain.Room, error) {
	if maxPlayers < minRoomPlayers || maxPlayers > maxRoomPlayers {
		return domain.Room{}, ErrInvalidMaxPlayers
	}

	questions := s.questions.Generate()

	room := domain.Room{
		Id:         s.idGen.Generate(),
		Name:       name,
		Host:       requesterId,
		Players:    []string{requesterId},
		MaxPlayers: maxPlayers,
		Phase:      domain.PhaseWaiting,
		Questions:  questions,
		Scores:     map[string]int{requesterId: 0},
		Answered:   map[string][]bool{requesterId: make([]bool, len(questions))},
		CreatedAt:  s.now(),
	}

	// Fresh uuid, nobody else can be racing on this key yet.
	if err := s.store.Set(ctx, roomKey(room.Id), room); err != nil {
		return domain.Room{}, err
	}

	return room, nil
}

func (s *Service) Get(ctx context.Context, roomId string) (domain.Room, error) {
	return s.load(ctx, roomId)
}

func (s *Service) Join(ctx context.Context, roomId, requesterId string) (domain.Room, error) {
	var room domain.Room

	err := s.serializer.Do(roomKey(roomId), func() error {
		r, err := s.load(ctx, roomId)
		if err != nil {
			return err
		}

		if r.Phase != domain.PhaseWaiting {
			return ErrGameAlreadyStarted
		}

		// Fullness wins over membership: a member re-joining a room at
		// capacity is turned away like anyone else.
		if len(r.Players) >= r.MaxPlayers {
			return ErrRoomFull
		}

		// Re-joining is a no-op: no duplicate entry, no score reset.
		if r.HasPlayer(requesterId) {
			room = r
			return nil
		}

		r.Players = append(r.Players, requesterId)
		r.Scores[requesterId] = 0
		r.Answered[requesterId] = make([]bool, len(r.Questions))

		if err := s.store.Set(ctx, roomKey(roomId), r); err != nil {
			return err
		}
		room = r
		return nil
	})
	if err != nil {
		return domain.Room{}, err
	}

	return room, nil
}

func (s *Service) Start(ctx context.Context, roomId, requesterId string) (domain.Room, error) {
	var room domain.Room

	err := s.serializer.Do(roomKey(roomId), func() error {
		r, err := s.load(ctx, roomId)
		if err != nil {
			return err
		}

		if r.Host != requesterId {
			return ErrNotHost
		}
		if r.Phase != domain.PhaseWaiting {
			return ErrGameAlreadyStarted
		}

		now := s.now()
		r.Phase = domain.PhasePlaying
		r.CurrentQuestion = 0
		r.StartedAt = now
		r.QuestionStartedAt = now

		if err := s.store.Set(ctx, roomKey(roomId), r); err != nil {
			return err
		}
		room = r
		return nil
	})
	if err != nil {
		return domain.Room{}, err
	}

	return room, nil
}

// SubmitAnswer grants the fixed award when the submitted text matches the
// current question's correct option. Each player is scored at most once per
// question: the first submission, right or wrong, consumes the attempt.
func (s *Service) SubmitAnswer(ctx context.Context, roomId, requesterId, answer string) (correct bool, score int, err error) {
	err = s.serializer.Do(roomKey(roomId), func() error {
		r, err := s.load(ctx, roomId)
		if err != nil {
			return err
		}

		if r.Phase != domain.PhasePlaying {
			return ErrGameNotInProgress
		}
		if !r.HasPlayer(requesterId) {
			return ErrNotAMember
		}
		if s.answerWindow > 0 && s.now().Sub(r.QuestionStartedAt) > s.answerWindow {
			return ErrAnswerWindowClosed
		}

		question := r.Questions[r.CurrentQuestion]
		correct = answer == question.Correct

		if !r.Answered[requesterId][r.CurrentQuestion] {
			r.Answered[requesterId][r.CurrentQuestion] = true
			if correct {
				r.Scores[requesterId] += pointsPerCorrectAnswer
			}
			if err := s.store.Set(ctx, roomKey(roomId), r); err != nil {
				return err
			}
		}

		score = r.Scores[requesterId]
		return nil
	})
	if err != nil {
		return false, 0, err
	}

	return correct, score, nil
}

func (s *Service) Advance(ctx context.Context, roomId, requesterId string) (domain.Room, error) {
	var room domain.Room
	finished := false

	err := s.serializer.Do(roomKey(roomId), func() error {
		r, err := s.load(ctx, roomId)
		if err != nil {
			return err
		}

		if r.Host != requesterId {
			return ErrNotHost
		}
		if r.Phase != domain.PhasePlaying {
			return ErrGameNotInProgress
		}

		r.CurrentQuestion++
		if r.CurrentQuestion >= len(r.Questions) {
			r.Phase = domain.PhaseFinished
			finished = true
		} else {
			r.QuestionStartedAt = s.now()
		}

		if err := s.store.Set(ctx, roomKey(roomId), r); err != nil {
			return err
		}
		room = r
		return nil
	})
	if err != nil {
		return domain.Room{}, err
	}

	// The room is persisted as finished before any profile write, so a
	// retried Advance hits ErrGameNotInProgress above and the aggregation
	// cannot run twice. A failed profile write is logged, not retried: the
	// game outcome itself is already durable.
	if finished {
		for _, playerId := range room.Players {
			if err := s.profiles.AddGameResult(ctx, playerId, room.Scores[playerId]); err != nil {
				s.log.Error().Err(err).
					Str("room_id", room.Id).
					Str("player_id", playerId).
					Msg("failed to record game result")
			}
		}
	}

	return room, nil
}
