// Package notifications sends a scheduled text message through every output
// integration.
package notifications

import (
	"context"

	"github.com/felixgeelhaar/clawquant/internal/domain/registry"
	"github.com/felixgeelhaar/clawquant/internal/domain/task"
	"github.com/felixgeelhaar/clawquant/internal/ports"
)

// PluginName is the descriptor name; HandlerName is what schedulers invoke.
const (
	PluginName  = "notifications"
	HandlerName = "notifications.send"
)

// Handler fans a message out to the output adapters of the registry.
type Handler struct {
	deps registry.Deps
}

// New creates a Handler. deps.Registry must be the registry it runs in.
func New(deps registry.Deps) *Handler {
	return &Handler{deps: deps}
}

// Factory builds the handler for registry.Build. It has no settings.
func Factory(_ context.Context, deps registry.Deps, _ registry.Config) (any, error) {
	return New(deps), nil
}

// Name implements task.Handler.
func (h *Handler) Name() string { return HandlerName }

// Run sends params["message"] to every output adapter, optionally to
// params["channel_id"]. One success is enough for a success result.
func (h *Handler) Run(ctx context.Context, params task.Params) task.Result {
	message := params.String("message")
	if message == "" {
		return task.MissingParam("message")
	}
	channelID := params.String("channel_id")

	report := registry.FanOut(ctx, h.deps, registry.CapabilityOutput,
		func(ctx context.Context, out registry.TextSender) error {
			return out.SendText(ctx, message, channelID)
		})

	if !report.AnySucceeded() {
		return task.Failure("No compatible output adapters available for text notifications")
	}
	if len(report.Failures) > 0 {
		logger := h.deps.Logger
		if logger == nil {
			logger = ports.DiscardLogger{}
		}
		logger.Warn(ctx, "notification partially delivered",
			ports.F("delivered", report.Succeeded),
			ports.F("failed", len(report.Failures)),
		)
	}
	return task.Success("Delivered notification via %d output adapter(s)", report.Succeeded)
}

var _ task.Handler = (*Handler)(nil)
