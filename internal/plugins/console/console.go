// Package console is an output integration that prints messages.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/felixgeelhaar/clawquant/internal/domain/registry"
)

// PluginName is the descriptor name.
const PluginName = "console"

// Config is the plugin's decoded settings.
type Config struct {
	Prefix string `config:"prefix"`
}

// Output writes one line per message.
type Output struct {
	mu     sync.Mutex
	w      io.Writer
	prefix string
}

// New creates an Output writing to w, or stdout when w is nil.
func New(cfg Config, w io.Writer) *Output {
	if w == nil {
		w = os.Stdout
	}
	return &Output{w: w, prefix: strings.TrimSpace(cfg.Prefix)}
}

// Factory builds the output for registry.Build.
func Factory(_ context.Context, deps registry.Deps, cfg registry.Config) (any, error) {
	var c Config
	if err := cfg.Decode(&c); err != nil {
		return nil, err
	}
	return New(c, deps.Out), nil
}

// SendText implements registry.TextSender.
func (o *Output) SendText(_ context.Context, text, channelID string) error {
	var b strings.Builder
	if o.prefix != "" {
		b.WriteString(o.prefix + " ")
	}
	if channelID != "" {
		fmt.Fprintf(&b, "#%s ", channelID)
	}
	b.WriteString(text)

	o.mu.Lock()
	defer o.mu.Unlock()
	_, err := fmt.Fprintln(o.w, b.String())
	return err
}

var _ registry.TextSender = (*Output)(nil)
