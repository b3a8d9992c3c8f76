// Package webhook is an output integration that POSTs messages as JSON.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/felixgeelhaar/clawquant/internal/domain/registry"
)

// PluginName is the descriptor name.
const PluginName = "webhook"

const defaultTimeout = 10 * time.Second

// Config is the plugin's decoded settings. Timeout accepts Go duration
// strings such as "5s".
type Config struct {
	URL     string        `config:"url"`
	Token   string        `config:"token"`
	Timeout time.Duration `config:"timeout"`
}

// Message is the JSON body sent for each text.
type Message struct {
	Text      string `json:"text"`
	ChannelID string `json:"channel_id,omitempty"`
}

// Hook posts to one endpoint.
type Hook struct {
	url    string
	token  string
	client *http.Client
}

// New validates cfg and creates a Hook. When client is nil one is created
// with cfg.Timeout.
func New(cfg Config, client *http.Client) (*Hook, error) {
	u, err := url.Parse(strings.TrimSpace(cfg.URL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("url must be an absolute http(s) URL, got %q", cfg.URL)
	}
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Hook{url: u.String(), token: strings.TrimSpace(cfg.Token), client: client}, nil
}

// Factory builds the hook for registry.Build.
func Factory(_ context.Context, deps registry.Deps, cfg registry.Config) (any, error) {
	var c Config
	if err := cfg.Decode(&c); err != nil {
		return nil, err
	}
	hook, err := New(c, deps.HTTPClient)
	if err != nil {
		return nil, err
	}
	return hook, nil
}

// SendText implements registry.TextSender.
func (h *Hook) SendText(ctx context.Context, text, channelID string) error {
	body, err := json.Marshal(Message{Text: text, ChannelID: channelID})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook: endpoint returned %s", resp.Status)
	}
	return nil
}

var _ registry.TextSender = (*Hook)(nil)
