package service

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dsemenov/chatboard/internal/config"
	"github.com/dsemenov/chatboard/internal/models"
	apierrors "github.com/dsemenov/chatboard/internal/pkg/errors"
)

// CompletionService proxies a transcript to the configured AI completion
// provider and returns the assistant's reply. Nothing is persisted here and
// failed calls are never retried.
type CompletionService interface {
	Complete(ctx context.Context, messages []models.Message) (*models.Message, error)
}

type completionService struct {
	cfg    config.AIConfig
	client *http.Client
	logger *slog.Logger
}

// NewCompletionService creates a completion service.
func NewCompletionService(cfg config.AIConfig, logger *slog.Logger) CompletionService {
	return &completionService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type completionRequest struct {
	Model    string           `json:"model"`
	Messages []models.Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message models.Message `json:"message"`
	} `json:"choices"`
}

// Complete forwards the messages verbatim to the provider's chat-completions
// endpoint.
func (s *completionService) Complete(ctx context.Context, messages []models.Message) (*models.Message, error) {
	body, err := json.Marshal(completionRequest{
		Model:    s.cfg.Model,
		Messages: messages,
	})
	if err != nil {
		return nil, apierrors.ErrInternal
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, apierrors.ErrInternal
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("completion request failed", slog.Any("error", err))
		return nil, apierrors.ErrBadGateway
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("completion provider returned error", slog.Int("status", resp.StatusCode))
		return nil, apierrors.ErrBadGateway
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		s.logger.Error("failed to decode completion response", slog.Any("error", err))
		return nil, apierrors.ErrBadGateway
	}
	if len(out.Choices) == 0 {
		s.logger.Error("completion response contained no choices")
		return nil, apierrors.ErrBadGateway
	}

	return &out.Choices[0].Message, nil
}
