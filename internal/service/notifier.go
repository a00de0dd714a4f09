package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dsemenov/chatboard/internal/config"
	"github.com/dsemenov/chatboard/internal/models"
)

// Notifier delivers one-time auth codes to users out of band.
type Notifier interface {
	SendCode(ctx context.Context, user *models.User, code string) error
}

// TelegramNotifier delivers codes through the Telegram Bot API.
type TelegramNotifier struct {
	cfg    config.BotConfig
	client *http.Client
}

// NewTelegramNotifier creates a Telegram-backed notifier.
func NewTelegramNotifier(cfg config.BotConfig) *TelegramNotifier {
	return &TelegramNotifier{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// SendCode posts the code to the configured bot chat.
func (n *TelegramNotifier) SendCode(ctx context.Context, user *models.User, code string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID: n.cfg.ChatID,
		Text:   fmt.Sprintf("Login code for %s: %s", user.Nickname, code),
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.cfg.APIURL, n.cfg.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram sendMessage failed with status %s", resp.Status)
	}
	return nil
}

// LogNotifier writes codes to the server log. Used in environments without a
// configured bot; not suitable for production.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// SendCode logs the code instead of delivering it.
func (n *LogNotifier) SendCode(_ context.Context, user *models.User, code string) error {
	n.logger.Info("auth code issued",
		slog.String("user_id", user.ID),
		slog.String("code", code),
	)
	return nil
}
