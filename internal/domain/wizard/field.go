package wizard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/clawquant/internal/domain/plugin"
	"github.com/felixgeelhaar/clawquant/internal/ports"
)

// ResolveField prompts for one field and returns its new value. ok is false
// when the answer leaves the field without a value, in which case the caller
// keeps current or omits the key. The only error returned for operator input
// is ports.ErrCancelled.
func ResolveField(ctx context.Context, p ports.Prompter, f plugin.Field, current any) (any, bool, error) {
	def := f.Default()
	if plugin.HasValue(current) {
		def = current
	}

	switch f.Type() {
	case plugin.FieldSecret:
		return resolveSecret(ctx, p, f, current)
	case plugin.FieldChoice:
		return resolveChoice(ctx, p, f, def)
	case plugin.FieldBoolean:
		yes, err := p.Confirm(ctx, f.Label()+"?", truthy(def))
		if err != nil {
			return nil, false, err
		}
		return yes, true, nil
	case plugin.FieldNumber:
		answer, err := p.Text(ctx, ports.TextPrompt{Message: f.Label() + ":", Default: formatScalar(def)})
		if err != nil {
			return nil, false, err
		}
		if n, ok := ParseNumber(answer); ok {
			return n, true, nil
		}
		return def, def != nil, nil
	case plugin.FieldList:
		answer, err := p.Text(ctx, ports.TextPrompt{
			Message: f.Label() + " (comma-separated):",
			Default: formatList(def),
		})
		if err != nil {
			return nil, false, err
		}
		return ParseList(answer), true, nil
	default:
		answer, err := p.Text(ctx, ports.TextPrompt{
			Message:     f.Label() + ":",
			Default:     formatScalar(def),
			Placeholder: f.Description(),
		})
		if err != nil {
			return nil, false, err
		}
		if strings.TrimSpace(answer) == "" {
			return nil, false, nil
		}
		return answer, true, nil
	}
}

func resolveSecret(ctx context.Context, p ports.Prompter, f plugin.Field, current any) (any, bool, error) {
	message := f.Label() + ":"
	if plugin.HasValue(current) {
		message = f.Label() + " (leave blank to keep current):"
	}
	answer, err := p.Password(ctx, message)
	if err != nil {
		return nil, false, err
	}
	if strings.TrimSpace(answer) == "" {
		return nil, false, nil
	}
	return answer, true, nil
}

// resolveChoice re-prompts until something is selected.
func resolveChoice(ctx context.Context, p ports.Prompter, f plugin.Field, def any) (any, bool, error) {
	choices := f.Choices()
	options := make([]ports.Option, 0, len(choices))
	for _, c := range choices {
		options = append(options, ports.Option{Label: c, Value: c})
	}
	for {
		answer, err := p.Select(ctx, f.Label()+":", options, formatScalar(def))
		if err != nil {
			return nil, false, err
		}
		if answer != "" {
			return answer, true, nil
		}
	}
}

// ParseNumber parses a decimal. Integral values come back as int.
func ParseNumber(s string) (any, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, false
	}
	return plugin.NormalizeNumber(n), true
}

// ParseList splits s on commas, trims each item and drops empty ones. The
// result is never nil.
func ParseList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func formatScalar(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func formatList(v any) string {
	switch list := v.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(list, ", ")
	case []any:
		items := make([]string, 0, len(list))
		for _, item := range list {
			items = append(items, fmt.Sprint(item))
		}
		return strings.Join(items, ", ")
	}
	return fmt.Sprint(v)
}

// truthy mirrors how a loosely typed default reads as a yes/no answer. No
// default means yes.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case float64:
		return val != 0
	case []string:
		return len(val) > 0
	}
	return true
}
