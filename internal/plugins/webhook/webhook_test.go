package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/clawquant/internal/domain/registry"
)

func TestSendText(t *testing.T) {
	t.Parallel()

	var got Message
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	hook, err := New(Config{URL: srv.URL, Token: "tok"}, srv.Client())
	require.NoError(t, err)

	require.NoError(t, hook.SendText(context.Background(), "BUY AAPL", "desk"))
	assert.Equal(t, Message{Text: "BUY AAPL", ChannelID: "desk"}, got)
	assert.Equal(t, "Bearer tok", auth)
}

func TestSendText_NoToken(t *testing.T) {
	t.Parallel()

	var auth = "unset"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	hook, err := New(Config{URL: srv.URL}, srv.Client())
	require.NoError(t, err)
	require.NoError(t, hook.SendText(context.Background(), "x", ""))
	assert.Empty(t, auth)
}

func TestSendText_ErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	hook, err := New(Config{URL: srv.URL}, srv.Client())
	require.NoError(t, err)
	assert.EqualError(t, hook.SendText(context.Background(), "x", ""), "webhook: endpoint returned 502 Bad Gateway")
}

func TestNew_InvalidURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "not a url", "ftp://example.com", "/relative"} {
		_, err := New(Config{URL: raw}, nil)
		assert.Error(t, err, raw)
	}
}

func TestFactory_DecodesDuration(t *testing.T) {
	t.Parallel()

	instance, err := Factory(context.Background(), registry.Deps{}, registry.Config{
		"url":     "https://hooks.example.com/cq",
		"timeout": "3s",
	})
	require.NoError(t, err)
	hook := instance.(*Hook)
	assert.Equal(t, 3*time.Second, hook.client.Timeout)
	assert.Equal(t, "https://hooks.example.com/cq", hook.url)

	instance, err = Factory(context.Background(), registry.Deps{}, registry.Config{"url": "https://x.example"})
	require.NoError(t, err)
	assert.Equal(t, defaultTimeout, instance.(*Hook).client.Timeout)

	_, err = Factory(context.Background(), registry.Deps{}, registry.Config{})
	assert.Error(t, err)
}
