// Package notifier delivers alert messages to chat services.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const defaultTelegramURL = "https://api.telegram.org"

// Telegram sends messages through the Telegram Bot API.
type Telegram struct {
	token      string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// TelegramOption configures a Telegram notifier.
type TelegramOption func(*Telegram)

// WithBaseURL points the notifier at a different Bot API host.
func WithBaseURL(url string) TelegramOption {
	return func(t *Telegram) {
		t.baseURL = url
	}
}

// WithHTTPClient sets the client used for Bot API calls.
func WithHTTPClient(client *http.Client) TelegramOption {
	return func(t *Telegram) {
		t.httpClient = client
	}
}

func NewTelegram(token string, logger *zap.Logger, opts ...TelegramOption) *Telegram {
	t := &Telegram{
		token:      token,
		baseURL:    defaultTelegramURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// Notify posts message to chatID. Missing credentials make it a logged no-op.
func (t *Telegram) Notify(ctx context.Context, chatID, message string) error {
	if t.token == "" || chatID == "" {
		t.logger.Debug("telegram credentials missing, skipping notification")
		return nil
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: message})
	if err != nil {
		return errors.Wrap(err, "marshal telegram message")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build telegram request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "send telegram message")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errors.Errorf("telegram returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
