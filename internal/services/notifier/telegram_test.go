package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTelegram_Notify(t *testing.T) {
	var got sendMessageRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken/sendMessage", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	tg := NewTelegram("token", zap.NewNop(), WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	require.NoError(t, tg.Notify(context.Background(), "42", "BTC hit High Sell 1"))

	assert.Equal(t, "42", got.ChatID)
	assert.Equal(t, "BTC hit High Sell 1", got.Text)
}

func TestTelegram_NotifyFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"ok":false,"description":"bot was blocked"}`))
	}))
	defer server.Close()

	tg := NewTelegram("token", zap.NewNop(), WithBaseURL(server.URL))
	err := tg.Notify(context.Background(), "42", "msg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestTelegram_NotifyWithoutCredentials(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	require.NoError(t, NewTelegram("", zap.NewNop(), WithBaseURL(server.URL)).Notify(context.Background(), "42", "msg"))
	require.NoError(t, NewTelegram("token", zap.NewNop(), WithBaseURL(server.URL)).Notify(context.Background(), "", "msg"))
	assert.Zero(t, calls)
}
