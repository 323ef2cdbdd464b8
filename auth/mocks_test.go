package auth

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"quizroom/domain"
)

// --- PasswordHasher ---

type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(hash, password string) (bool, error) {
	args := m.Called(hash, password)
	return args.Bool(0), args.Error(1)
}

// --- TokenManager ---

type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) Generate(id string, now time.Time) (string, error) {
	args := m.Called(id, now)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) Verify(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

// --- ProfileCreator ---

type MockProfileCreator struct {
	mock.Mock
}

func (m *MockProfileCreator) Create(ctx context.Context, profile domain.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// --- AuthService ---

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, email, password, name string) (domain.UserProfile, error) {
	args := m.Called(ctx, email, password, name)
	return args.Get(0).(domain.UserProfile), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, domain.UserProfile, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Get(1).(domain.UserProfile), args.Error(2)
}

func (m *MockAuthService) Resolve(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}
