package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTelegramNotifier(apiBase string) Notifier {
	return &telegramNotifier{
		apiBase: apiBase,
		token:   "test-token",
		chatID:  "12345",
		client:  &http.Client{Timeout: 2 * time.Second},
		logger:  zerolog.Nop(),
	}
}

func TestTelegramNotifier_Notify(t *testing.T) {
	var gotPath string
	var gotPayload map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	n := newTestTelegramNotifier(server.URL)
	err := n.Notify(context.Background(), "*New product*: Widget")

	require.NoError(t, err)
	assert.Equal(t, "/bottest-token/sendMessage", gotPath)
	assert.Equal(t, "12345", gotPayload["chat_id"])
	assert.Equal(t, "*New product*: Widget", gotPayload["text"])
	assert.Equal(t, "Markdown", gotPayload["parse_mode"])
}

func TestTelegramNotifier_RejectedMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok": false, "description": "chat not found"}`))
	}))
	defer server.Close()

	n := newTestTelegramNotifier(server.URL)
	err := n.Notify(context.Background(), "message")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestLogNotifier_NeverFails(t *testing.T) {
	n := NewLogNotifier(zerolog.Nop())

	assert.NoError(t, n.Notify(context.Background(), "anything"))
}

func TestNewProductMessage(t *testing.T) {
	msg := NewProductMessage("Widget", 9.99, "https://shop.example.com/product/A1")

	assert.Contains(t, msg, "Widget")
	assert.Contains(t, msg, "$9.99")
	assert.Contains(t, msg, "https://shop.example.com/product/A1")
}
