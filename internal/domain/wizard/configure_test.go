package wizard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/clawquant/internal/domain/plugin"
	"github.com/felixgeelhaar/clawquant/internal/testutil/mocks"
)

func TestConfigureOne(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.fs.AddFile(home+"/config.yaml", "ai:\n  providers:\n    openai:\n      model: o3\nlogging:\n  level: info\n")
	p := mocks.NewPrompter(
		mocks.Default(), // configure: token missing
		mocks.Reply("tok"),
		mocks.Reply("42"),
		mocks.Reply("out"),
	)

	res, err := h.wizard(t, p).ConfigureOne(context.Background(), home, "telegram")
	require.NoError(t, err)
	assert.Equal(t, "telegram", res.Plugin.Name())
	assert.Equal(t, map[string]any{"bot_token": "tok", "chat_id": "42", "direction": "out"}, res.Values)
	assert.Equal(t, home+"/config.yaml", res.ConfigPath)

	doc := h.document(t)
	assert.Equal(t, "o3", doc.Node(plugin.CategoryAIProvider, "openai")["model"], "other plugins untouched")
	assert.Equal(t, []any{map[string]any{"chat_id": "42", "direction": "out"}}, doc.Node(plugin.CategoryIntegration, "telegram")["channels"])
	assert.Equal(t, map[string]string{"TELEGRAM_BOT_TOKEN": "tok"}, h.secrets.All())
}

func TestConfigureOne_Unknown(t *testing.T) {
	t.Parallel()

	h := newHarness()
	_, err := h.wizard(t, mocks.NewPrompter()).ConfigureOne(context.Background(), home, "nope")
	require.Error(t, err)
	assert.True(t, plugin.IsNotFound(err))
	assert.Empty(t, h.opened)
}

func TestConfigureOne_NoConfig(t *testing.T) {
	t.Parallel()

	h := newHarness()
	res, err := h.wizard(t, mocks.NewPrompter()).ConfigureOne(context.Background(), home, "notifications")
	require.NoError(t, err)
	assert.True(t, res.NoConfig)
	assert.Zero(t, h.fs.Writes())
}

func TestConfigureOne_Cancelled(t *testing.T) {
	t.Parallel()

	h := newHarness()
	res, err := h.wizard(t, mocks.NewPrompter(mocks.Default(), mocks.Cancel())).ConfigureOne(context.Background(), home, "openai")
	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.Zero(t, h.fs.Writes())
	assert.Zero(t, h.secrets.Puts())
}

func TestSummary(t *testing.T) {
	t.Parallel()

	desc, err := testCatalog(t).Get("telegram")
	require.NoError(t, err)

	lines := Summary(desc, map[string]any{
		"direction": "both",
		"bot_token": "123:abc",
		"chat_id":   "42",
		"extra":     "ignored",
	})

	var got []string
	for _, l := range lines {
		got = append(got, l.String())
	}
	assert.Equal(t, []string{"bot_token: ********", "chat_id: 42", "direction: both"}, got)

	yahoo, err := testCatalog(t).Get("yahoo")
	require.NoError(t, err)
	assert.Equal(t, []SummaryLine{{Key: "symbols", Value: "[AAPL, MSFT]"}, {Key: "interval", Value: "60"}},
		Summary(yahoo, map[string]any{"symbols": []string{"AAPL", "MSFT"}, "interval": 60}))
}
