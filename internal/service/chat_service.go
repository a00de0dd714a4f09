package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dsemenov/chatboard/internal/models"
	apierrors "github.com/dsemenov/chatboard/internal/pkg/errors"
	"github.com/dsemenov/chatboard/internal/repository"
)

// ChatService defines the interface for chat collection persistence.
type ChatService interface {
	// Save replaces the user's entire chat collection. Concurrent saves are
	// last-writer-wins; there is no merge or conflict detection.
	Save(ctx context.Context, userID string, chats models.ChatCollection) error
	Get(ctx context.Context, userID string) (models.ChatCollection, error)
}

type chatService struct {
	chats  repository.ChatRepository
	logger *slog.Logger
}

// NewChatService creates a new chat service.
func NewChatService(chats repository.ChatRepository, logger *slog.Logger) ChatService {
	return &chatService{chats: chats, logger: logger}
}

// Save upserts the chat collection document for a user.
func (s *chatService) Save(ctx context.Context, userID string, chats models.ChatCollection) error {
	if err := s.chats.Upsert(ctx, userID, chats); err != nil {
		if errors.Is(err, repository.ErrUserMissing) {
			return apierrors.NewNotFoundError("User")
		}
		s.logger.Error("failed to save chats", slog.String("user_id", userID), slog.Any("error", err))
		return apierrors.ErrStorageUnavailable
	}
	return nil
}

// Get returns the user's chat collection, empty when nothing was saved yet.
func (s *chatService) Get(ctx context.Context, userID string) (models.ChatCollection, error) {
	chats, err := s.chats.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to fetch chats", slog.String("user_id", userID), slog.Any("error", err))
		return nil, apierrors.ErrStorageUnavailable
	}
	return chats, nil
}
