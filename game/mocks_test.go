package game

import (
	"context"

	"github.com/stretchr/testify/mock"

	"quizroom/domain"
)

// --- QuestionGenerator ---

type MockQuestionGenerator struct {
	mock.Mock
}

func (m *MockQuestionGenerator) Generate() []domain.Question {
	args := m.Called()
	return args.Get(0).([]domain.Question)
}

// --- UniqueIdGenerator ---

type MockUniqueIdGenerator struct {
	mock.Mock
}

func (m *MockUniqueIdGenerator) Generate() string {
	args := m.Called()
	return args.String(0)
}

// --- ProfileUpdater ---

type MockProfileUpdater struct {
	mock.Mock
}

func (m *MockProfileUpdater) AddGameResult(ctx context.Context, userId string, scoreDelta int) error {
	args := m.Called(ctx, userId, scoreDelta)
	return args.Error(0)
}

// --- RoomService ---

type MockRoomService struct {
	mock.Mock
}

func (m *MockRoomService) Create(ctx context.Context, requesterId, name string, maxPlayers int) (domain.Room, error) {
	args := m.Called(ctx, requesterId, name, maxPlayers)
	return args.Get(0).(domain.Room), args.Error(1)
}

func (m *MockRoomService) Join(ctx context.Context, roomId, requesterId string) (domain.Room, error) {
	args := m.Called(ctx, roomId, requesterId)
	return args.Get(0).(domain.Room), args.Error(1)
}

func (m *MockRoomService) Start(ctx context.Context, roomId, requesterId string) (domain.Room, error) {
	args := m.Called(ctx, roomId, requesterId)
	return args.Get(0).(domain.Room), args.Error(1)
}

func (m *MockRoomService) SubmitAnswer(ctx context.Context, roomId, requesterId, answer string) (bool, int, error) {
	args := m.Called(ctx, roomId, requesterId, answer)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *MockRoomService) Advance(ctx context.Context, roomId, requesterId string) (domain.Room, error) {
	args := m.Called(ctx, roomId, requesterId)
	return args.Get(0).(domain.Room), args.Error(1)
}

func (m *MockRoomService) Get(ctx context.Context, roomId string) (domain.Room, error) {
	args := m.Called(ctx, roomId)
	return args.Get(0).(domain.Room), args.Error(1)
}
