// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dsemenov/chatboard/internal/models"
	apierrors "github.com/dsemenov/chatboard/internal/pkg/errors"
	"github.com/dsemenov/chatboard/internal/pkg/ulid"
	"github.com/dsemenov/chatboard/internal/repository"
)

// defaultChatID is the key of the chat seeded at registration.
const defaultChatID = "default"

// AccountService defines the interface for user registration and lookup.
type AccountService interface {
	Register(ctx context.Context, req RegisterRequest) (*models.User, models.ChatCollection, error)
	Lookup(ctx context.Context, userID string) (*models.User, models.ChatCollection, error)
}

// RegisterRequest is the request for creating a new account.
type RegisterRequest struct {
	Nickname string  `json:"nickname" validate:"required,min=1,max=64"`
	About    *string `json:"about,omitempty" validate:"omitempty,max=1024"`
	Avatar   *string `json:"avatar,omitempty"`
}

type accountService struct {
	users    repository.UserRepository
	chats    repository.ChatRepository
	validate *validator.Validate
	logger   *slog.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(users repository.UserRepository, chats repository.ChatRepository, logger *slog.Logger) AccountService {
	return &accountService{
		users:    users,
		chats:    chats,
		validate: validator.New(),
		logger:   logger,
	}
}

// Register creates a user with a freshly minted ID and seeds its chat
// collection with a single welcome chat. Both writes happen in one
// transaction, so a failed seed never leaves an orphaned user.
func (s *accountService) Register(ctx context.Context, req RegisterRequest) (*models.User, models.ChatCollection, error) {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := strings.ToLower(verrs[0].Field())
			return nil, nil, apierrors.NewValidationError(field, field+" is invalid")
		}
		return nil, nil, apierrors.NewValidationError("nickname", "nickname is required")
	}

	user := &models.User{
		ID:       ulid.New(),
		Nickname: req.Nickname,
		About:    req.About,
		Avatar:   req.Avatar,
	}

	chats := models.ChatCollection{
		defaultChatID: {
			Title: "New chat",
			Messages: []models.Message{
				{
					Role:    "assistant",
					Content: fmt.Sprintf("Welcome, %s! Ask me anything to get started.", user.Nickname),
				},
			},
			CreatedAt: time.Now().UTC(),
		},
	}

	if err := s.users.Register(ctx, user, chats); err != nil {
		s.logger.Error("failed to register user", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, nil, apierrors.ErrStorageUnavailable
	}

	return user, chats, nil
}

// Lookup fetches a user and their chat collection. A user who never saved
// chats gets an empty collection, not an error.
func (s *accountService) Lookup(ctx context.Context, userID string) (*models.User, models.ChatCollection, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to fetch user", slog.String("user_id", userID), slog.Any("error", err))
		return nil, nil, apierrors.ErrStorageUnavailable
	}
	if user == nil {
		return nil, nil, apierrors.NewNotFoundError("User")
	}

	chats, err := s.chats.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to fetch chats", slog.String("user_id", userID), slog.Any("error", err))
		return nil, nil, apierrors.ErrStorageUnavailable
	}

	return user, chats, nil
}
