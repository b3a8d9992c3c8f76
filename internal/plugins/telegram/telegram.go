// Package telegram is an output integration for the Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/felixgeelhaar/clawquant/internal/domain/registry"
)

// PluginName is the descriptor name.
const PluginName = "telegram"

// DefaultBaseURL is the Bot API root.
const DefaultBaseURL = "https://api.telegram.org"

// Directions a bot can be configured for.
const (
	DirectionIn   = "in"
	DirectionOut  = "out"
	DirectionBoth = "both"
)

var (
	// ErrInboundOnly is returned by SendText when direction is "in".
	ErrInboundOnly = errors.New("telegram bot is configured for inbound messages only")
	// ErrNoChat is returned when neither the call nor the config names a chat.
	ErrNoChat = errors.New("no telegram chat_id configured")
)

// Config is the plugin's decoded settings.
type Config struct {
	BotToken  string `config:"bot_token"`
	ChatID    string `config:"chat_id"`
	Direction string `config:"direction"`
	BaseURL   string `config:"base_url"`
}

// Bot sends messages with sendMessage.
type Bot struct {
	cfg    Config
	client *http.Client
}

// New validates cfg and creates a Bot. A nil client gets a 15s timeout.
func New(cfg Config, client *http.Client) (*Bot, error) {
	cfg.BotToken = strings.TrimSpace(cfg.BotToken)
	if cfg.BotToken == "" {
		return nil, errors.New("bot_token is required")
	}
	switch cfg.Direction {
	case "":
		cfg.Direction = DirectionBoth
	case DirectionIn, DirectionOut, DirectionBoth:
	default:
		return nil, fmt.Errorf("unknown direction %q", cfg.Direction)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Bot{cfg: cfg, client: client}, nil
}

// Factory builds the bot for registry.Build.
func Factory(_ context.Context, deps registry.Deps, cfg registry.Config) (any, error) {
	var c Config
	if err := cfg.Decode(&c); err != nil {
		return nil, err
	}
	bot, err := New(c, deps.HTTPClient)
	if err != nil {
		return nil, err
	}
	return bot, nil
}

type sendMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendText implements registry.TextSender. channelID overrides the
// configured chat.
func (b *Bot) SendText(ctx context.Context, text, channelID string) error {
	if b.cfg.Direction == DirectionIn {
		return ErrInboundOnly
	}
	chat := channelID
	if chat == "" {
		chat = b.cfg.ChatID
	}
	if chat == "" {
		return ErrNoChat
	}

	payload, err := json.Marshal(sendMessage{ChatID: chat, Text: text})
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(b.cfg.BaseURL, "/"), b.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		// The URL carries the token; keep it out of logs.
		return fmt.Errorf("telegram sendMessage: %w", redact(err, b.cfg.BotToken))
	}
	defer func() { _ = resp.Body.Close() }()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("telegram sendMessage: %s", resp.Status)
	}
	if !out.OK {
		return fmt.Errorf("telegram sendMessage: %s", out.Description)
	}
	return nil
}

func redact(err error, token string) error {
	return errors.New(strings.ReplaceAll(err.Error(), token, "<token>"))
}

var _ registry.TextSender = (*Bot)(nil)
