package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dsemenov/chatboard/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Register(ctx context.Context, user *models.User, chats models.ChatCollection) error {
	args := m.Called(ctx, user, chats)
	if args.Error(0) == nil {
		user.CreatedAt = time.Now().UTC()
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockChatRepository is a mock implementation of repository.ChatRepository.
type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) Upsert(ctx context.Context, userID string, chats models.ChatCollection) error {
	args := m.Called(ctx, userID, chats)
	return args.Error(0)
}

func (m *MockChatRepository) GetByUserID(ctx context.Context, userID string) (models.ChatCollection, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.ChatCollection), args.Error(1)
}

// MockSessionRepository is a mock implementation of repository.SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	if args.Error(0) == nil {
		session.CreatedAt = time.Now().UTC()
	}
	return args.Error(0)
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCodeStore is a mock implementation of CodeStore.
type MockCodeStore struct {
	mock.Mock
}

func (m *MockCodeStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCodeStore) GetDel(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

// MockNotifier records delivered codes.
type MockNotifier struct {
	SentTo   []string
	Codes    []string
	FailWith error
}

func (m *MockNotifier) SendCode(_ context.Context, user *models.User, code string) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.SentTo = append(m.SentTo, user.ID)
	m.Codes = append(m.Codes, code)
	return nil
}
