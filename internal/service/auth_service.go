package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/dsemenov/chatboard/internal/config"
	"github.com/dsemenov/chatboard/internal/database"
	"github.com/dsemenov/chatboard/internal/models"
	apierrors "github.com/dsemenov/chatboard/internal/pkg/errors"
	"github.com/dsemenov/chatboard/internal/repository"
)

// CodeStore holds one-time auth codes with a TTL. Implemented by
// database.Redis.
type CodeStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetDel(ctx context.Context, key string) (string, error)
}

// AuthService defines the one-time-code login flow and session lifecycle.
type AuthService interface {
	// RequestCode issues a single-use code for the user and hands it to the
	// notifier. The code is never returned to the HTTP caller.
	RequestCode(ctx context.Context, userID string) error
	// Verify exchanges a valid code for a new session.
	Verify(ctx context.Context, userID, code string) (*models.Session, error)
	// Validate resolves a session token to its user. Expired sessions are
	// removed lazily on touch.
	Validate(ctx context.Context, token string) (*models.User, error)
	// Logout invalidates a session token. Idempotent.
	Logout(ctx context.Context, token string) error
}

type authService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	codes    CodeStore
	notifier Notifier
	cfg      config.AuthConfig
	logger   *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	codes CodeStore,
	notifier Notifier,
	cfg config.AuthConfig,
	logger *slog.Logger,
) AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		codes:    codes,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
	}
}

func codeKey(userID string) string {
	return "authcode:" + userID
}

// generateCode returns a 6-digit numeric code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// RequestCode issues a one-time code for an existing user. Re-requesting
// overwrites any outstanding code.
func (s *authService) RequestCode(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to fetch user", slog.String("user_id", userID), slog.Any("error", err))
		return apierrors.ErrStorageUnavailable
	}
	if user == nil {
		return apierrors.NewNotFoundError("User")
	}

	code, err := generateCode()
	if err != nil {
		s.logger.Error("failed to generate auth code", slog.Any("error", err))
		return apierrors.ErrInternal
	}

	if err := s.codes.Set(ctx, codeKey(userID), code, s.cfg.CodeTTL); err != nil {
		s.logger.Error("failed to store auth code", slog.String("user_id", userID), slog.Any("error", err))
		return apierrors.ErrStorageUnavailable
	}

	if err := s.notifier.SendCode(ctx, user, code); err != nil {
		s.logger.Error("failed to deliver auth code", slog.String("user_id", userID), slog.Any("error", err))
		return apierrors.ErrInternal.WithMessage("Failed to deliver code")
	}

	return nil
}

// Verify checks the single-use code and creates a session on success.
func (s *authService) Verify(ctx context.Context, userID, code string) (*models.Session, error) {
	stored, err := s.codes.GetDel(ctx, codeKey(userID))
	if err != nil {
		if database.IsNil(err) {
			return nil, apierrors.ErrUnauthorized.WithMessage("Invalid or expired code")
		}
		s.logger.Error("failed to read auth code", slog.String("user_id", userID), slog.Any("error", err))
		return nil, apierrors.ErrStorageUnavailable
	}
	if stored != code {
		// The code was consumed by GetDel, so a mistyped code requires a
		// fresh request-auth round.
		return nil, apierrors.ErrUnauthorized.WithMessage("Invalid or expired code")
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(s.cfg.SessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		s.logger.Error("failed to create session", slog.String("user_id", userID), slog.Any("error", err))
		return nil, apierrors.ErrStorageUnavailable
	}

	return session, nil
}

// Validate resolves a session token to its owning user.
func (s *authService) Validate(ctx context.Context, token string) (*models.User, error) {
	session, err := s.sessions.GetByID(ctx, token)
	if err != nil {
		s.logger.Error("failed to fetch session", slog.Any("error", err))
		return nil, apierrors.ErrStorageUnavailable
	}
	if session == nil {
		return nil, apierrors.ErrUnauthorized.WithMessage("Invalid session")
	}
	if session.Expired(time.Now().UTC()) {
		if err := s.sessions.Delete(ctx, session.ID); err != nil {
			s.logger.Warn("failed to delete expired session", slog.Any("error", err))
		}
		return nil, apierrors.ErrUnauthorized.WithMessage("Session expired")
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		s.logger.Error("failed to fetch user", slog.String("user_id", session.UserID), slog.Any("error", err))
		return nil, apierrors.ErrStorageUnavailable
	}
	if user == nil {
		return nil, apierrors.ErrUnauthorized.WithMessage("Invalid session")
	}

	return user, nil
}

// Logout removes the session row. Unknown tokens still succeed.
func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		s.logger.Error("failed to delete session", slog.Any("error", err))
		return apierrors.ErrStorageUnavailable
	}
	return nil
}
