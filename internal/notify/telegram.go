package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const defaultTelegramAPI = "https://api.telegram.org"

// telegramNotifier sends messages to a Telegram chat via the Bot API.
type telegramNotifier struct {
	apiBase string
	token   string
	chatID  string
	client  *http.Client
	logger  zerolog.Logger
}

// NewTelegramNotifier creates a Telegram-backed notifier.
func NewTelegramNotifier(token, chatID string, logger zerolog.Logger) Notifier {
	return &telegramNotifier{
		apiBase: defaultTelegramAPI,
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger.With().Str("notifier", "telegram").Logger(),
	}
}

func (n *telegramNotifier) Notify(ctx context.Context, message string) error {
	payload := map[string]string{
		"chat_id":    n.chatID,
		"text":       message,
		"parse_mode": "Markdown",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Error().Err(err).Msg("failed to send telegram message")
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		n.logger.Error().
			Int("status", resp.StatusCode).
			Str("response", string(respBody)).
			Msg("telegram rejected message")
		return fmt.Errorf("telegram rejected message: status %d", resp.StatusCode)
	}

	n.logger.Debug().Msg("telegram message sent")
	return nil
}
