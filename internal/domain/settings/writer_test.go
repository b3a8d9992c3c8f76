package settings

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/felixgeelhaar/clawquant/internal/domain/plugin"
	"github.com/felixgeelhaar/clawquant/internal/testutil/mocks"
)

func descriptors(t testing.TB, cat *plugin.Catalog, names ...string) []plugin.Descriptor {
	t.Helper()
	out := make([]plugin.Descriptor, 0, len(names))
	for _, n := range names {
		d, err := cat.Get(n)
		require.NoError(t, err)
		out = append(out, d)
	}
	return out
}

func TestBuild_SplitsSecrets(t *testing.T) {
	t.Parallel()

	cat := testCatalog(t)
	doc, secrets := Build(Document{}, cat, descriptors(t, cat, "openai", "telegram", "notifications"), Snapshot{
		"openai":   {"api_key": "sk-123", "model": "gpt-4o"},
		"telegram": {"bot_token": "123:abc", "chat_id": "42", "direction": "both"},
	})

	assert.Equal(t, SecretValues{"OPENAI_API_KEY": "sk-123", "TELEGRAM_BOT_TOKEN": "123:abc"}, secrets)

	assert.Equal(t, map[string]any{
		"enabled": true,
		"api_key": "${OPENAI_API_KEY}",
		"model":   "gpt-4o",
	}, doc.Node(plugin.CategoryAIProvider, "openai"))

	assert.Equal(t, map[string]any{
		"enabled":   true,
		"bot_token": "${TELEGRAM_BOT_TOKEN}",
		"channels":  []any{map[string]any{"chat_id": "42", "direction": "both"}},
	}, doc.Node(plugin.CategoryIntegration, "telegram"))

	assert.Equal(t, map[string]any{"enabled": true}, doc.Node(plugin.CategoryTaskHandler, "notifications"))

	data, err := doc.Marshal()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sk-123")
	assert.NotContains(t, string(data), "123:abc")
}

func TestBuild_EmptySecretIsNotStored(t *testing.T) {
	t.Parallel()

	cat := testCatalog(t)
	doc, secrets := Build(Document{}, cat, descriptors(t, cat, "openai"), Snapshot{
		"openai": {"api_key": "  ", "model": "gpt-4o"},
	})

	assert.Empty(t, secrets)
	assert.NotContains(t, doc.Node(plugin.CategoryAIProvider, "openai"), "api_key")
}

func TestBuild_OnlySelectedProviderPersisted(t *testing.T) {
	t.Parallel()

	cat := testCatalog(t)
	base, err := ParseDocument([]byte(existingYAML))
	require.NoError(t, err)

	doc, _ := Build(base, cat, descriptors(t, cat, "anthropic"), Snapshot{
		"anthropic": {"api_key": "ak"},
	})

	providers := doc.Section(plugin.CategoryAIProvider)
	assert.Len(t, providers, 1)
	assert.Equal(t, true, doc.Node(plugin.CategoryAIProvider, "anthropic")["enabled"])

	assert.Nil(t, doc.Node(plugin.CategoryMarketData, "yahoo"), "deselected known plugin removed")
	assert.NotNil(t, doc.Node(plugin.CategoryIntegration, "legacy_slack"), "unknown plugin kept")
	assert.Equal(t, map[string]any{"level": "debug"}, doc["logging"], "unrelated keys kept")

	assert.NotNil(t, base.Node(plugin.CategoryAIProvider, "openai"), "base is not modified")
}

func TestBuild_ChannelsOnlyWhenPresent(t *testing.T) {
	t.Parallel()

	cat := testCatalog(t)
	doc, _ := Build(Document{}, cat, descriptors(t, cat, "telegram"), Snapshot{
		"telegram": {"bot_token": "t"},
	})
	assert.NotContains(t, doc.Node(plugin.CategoryIntegration, "telegram"), "channels")

	doc, _ = Build(Document{}, cat, descriptors(t, cat, "telegram"), Snapshot{
		"telegram": {"direction": "in"},
	})
	assert.Equal(t, []any{map[string]any{"direction": "in"}}, doc.Node(plugin.CategoryIntegration, "telegram")["channels"])
}

func TestBuild_Idempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cat := testCatalog(t)
	secrets := mocks.NewSecretStore(map[string]string{
		"OPENAI_API_KEY":     "sk-123",
		"TELEGRAM_BOT_TOKEN": "123:abc",
	})

	first, err := ParseDocument([]byte(existingYAML))
	require.NoError(t, err)

	enabledNames := func(doc Document) []plugin.Descriptor {
		set := LoadEnabled(doc)
		var out []plugin.Descriptor
		for _, d := range cat.All() {
			switch d.Category() {
			case plugin.CategoryAIProvider, plugin.CategoryMarketData, plugin.CategoryIntegration:
				if !set.Has(d.Category(), d.Name()) {
					continue
				}
			}
			out = append(out, d)
		}
		return out
	}

	snap, err := LoadExistingValues(ctx, first, secrets, cat)
	require.NoError(t, err)
	second, secretsOut := Build(first, cat, enabledNames(first), snap)
	require.NoError(t, secrets.Put(ctx, secretsOut))

	snap, err = LoadExistingValues(ctx, second, secrets, cat)
	require.NoError(t, err)
	third, _ := Build(second, cat, enabledNames(second), snap)

	a, err := second.Marshal()
	require.NoError(t, err)
	b, err := third.Marshal()
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestApply_UpdatesOneNode(t *testing.T) {
	t.Parallel()

	cat := testCatalog(t)
	doc, err := ParseDocument([]byte(existingYAML))
	require.NoError(t, err)

	openai, err := cat.Get("openai")
	require.NoError(t, err)
	secrets := Apply(doc, openai, map[string]any{"api_key": "sk-new", "model": "o3"})

	assert.Equal(t, SecretValues{"OPENAI_API_KEY": "sk-new"}, secrets)
	assert.Equal(t, "o3", doc.Node(plugin.CategoryAIProvider, "openai")["model"])
	assert.NotNil(t, doc.Node(plugin.CategoryAIProvider, "anthropic"))
}

// Persisting values and loading them back yields the same non-secret values
// and the original secret via the store, and the plain document never holds
// the secret text.
func TestRoundTripProperty(t *testing.T) {
	cat := testCatalog(t)
	telegram, err := cat.Get("telegram")
	require.NoError(t, err)
	yahoo, err := cat.Get("yahoo")
	require.NoError(t, err)

	token := rapid.StringMatching(`[A-Za-z0-9:_-]{8,40}`)
	word := rapid.StringMatching(`[A-Za-z0-9]{1,12}`)

	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		secret := "sk-" + token.Draw(rt, "bot_token")
		chatID := word.Draw(rt, "chat_id")
		direction := rapid.SampledFrom([]string{"in", "out", "both"}).Draw(rt, "direction")
		symbols := rapid.SliceOfN(word, 0, 5).Draw(rt, "symbols")
		interval := rapid.IntRange(-1000, 1000).Draw(rt, "interval")

		values := Snapshot{
			"telegram": {"bot_token": secret, "chat_id": chatID, "direction": direction},
			"yahoo":    {"symbols": symbols, "interval": interval},
		}

		fs := mocks.NewFileSystem()
		store := mocks.NewSecretStore(nil)
		ws := NewWorkspace("/home/cq", fs, store)

		doc, secrets := Build(Document{}, cat, []plugin.Descriptor{telegram, yahoo}, values)
		if err := ws.Save(ctx, doc, secrets); err != nil {
			rt.Fatal(err)
		}
		if strings.Contains(fs.Content(ws.ConfigPath()), secret) {
			rt.Fatalf("secret %q leaked into config.yaml", secret)
		}

		state, err := ws.Load(ctx, cat)
		if err != nil {
			rt.Fatal(err)
		}
		got := state.Values
		if got["telegram"]["bot_token"] != secret {
			rt.Fatalf("bot_token = %v, want %q", got["telegram"]["bot_token"], secret)
		}
		if got["telegram"]["chat_id"] != chatID || got["telegram"]["direction"] != direction {
			rt.Fatalf("telegram values = %v", got["telegram"])
		}
		if got["yahoo"]["interval"] != interval {
			rt.Fatalf("interval = %v, want %d", got["yahoo"]["interval"], interval)
		}
		if fmt.Sprint(got["yahoo"]["symbols"]) != fmt.Sprint(symbols) {
			rt.Fatalf("symbols = %v, want %v", got["yahoo"]["symbols"], symbols)
		}
	})
}
