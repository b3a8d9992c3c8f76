package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/clawquant/internal/adapters/filesystem"
	"github.com/felixgeelhaar/clawquant/internal/adapters/secrets"
	"github.com/felixgeelhaar/clawquant/internal/testutil"
	"github.com/felixgeelhaar/clawquant/internal/testutil/mocks"
)

func TestWorkspace_Paths(t *testing.T) {
	t.Parallel()

	ws := NewWorkspace("/home/cq", mocks.NewFileSystem(), mocks.NewSecretStore(nil))
	assert.Equal(t, "/home/cq", ws.Home())
	assert.Equal(t, filepath.Join("/home/cq", "config.yaml"), ws.ConfigPath())
	assert.Equal(t, filepath.Join("/home/cq", "plugins"), ws.PluginsDir())
}

func TestWorkspace_LoadMissing(t *testing.T) {
	t.Parallel()

	ws := NewWorkspace("/home/cq", mocks.NewFileSystem(), mocks.NewSecretStore(nil))
	doc, err := ws.LoadDocument()
	require.NoError(t, err)
	assert.Empty(t, doc)

	state, err := ws.Load(context.Background(), testCatalog(t))
	require.NoError(t, err)
	assert.True(t, state.Enabled.Empty("ai_provider"))
	assert.Len(t, state.Values, testCatalog(t).Len())
}

func TestWorkspace_SaveOnDisk(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	home := filepath.Join(t.TempDir(), ".clawquant")
	fs := filesystem.NewRealFileSystem()
	store := secrets.NewHomeDotenvStore(fs, home)
	ws := NewWorkspace(home, fs, store)
	cat := testCatalog(t)

	doc, secretValues := Build(Document{}, cat, descriptors(t, cat, "openai"), Snapshot{
		"openai": {"api_key": "sk-123", "model": "gpt-4o"},
	})
	require.NoError(t, ws.Save(ctx, doc, secretValues))

	testutil.AssertFileContains(t, ws.ConfigPath(), "${OPENAI_API_KEY}")
	testutil.AssertFileNotContains(t, ws.ConfigPath(), "sk-123")
	testutil.AssertFileContains(t, filepath.Join(home, ".env"), `OPENAI_API_KEY="sk-123"`)
	testutil.AssertFileMode(t, ws.ConfigPath(), 0o600)
	testutil.AssertFileMode(t, filepath.Join(home, ".env"), 0o600)

	state, err := ws.Load(ctx, cat)
	require.NoError(t, err)
	assert.Equal(t, "sk-123", state.Values["openai"]["api_key"])
	assert.True(t, state.Enabled.Has("ai_provider", "openai"))
}

func TestWorkspace_SaveSecretsFailureWritesNothing(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	store := mocks.NewSecretStore(nil)
	store.PutErr = os.ErrPermission
	ws := NewWorkspace("/home/cq", fs, store)

	err := ws.Save(context.Background(), Document{"a": 1}, SecretValues{"K": "v"})
	require.ErrorIs(t, err, os.ErrPermission)
	assert.Equal(t, 0, fs.Writes())
}

func TestWorkspace_UpdatePlugin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fs := mocks.NewFileSystem()
	fs.AddFile("/home/cq/config.yaml", existingYAML)
	store := mocks.NewSecretStore(nil)
	ws := NewWorkspace("/home/cq", fs, store)

	telegram, err := testCatalog(t).Get("telegram")
	require.NoError(t, err)
	require.NoError(t, ws.UpdatePlugin(ctx, telegram, map[string]any{
		"bot_token": "999:zzz", "chat_id": "7", "direction": "in",
	}))

	assert.Equal(t, map[string]string{"TELEGRAM_BOT_TOKEN": "999:zzz"}, store.All())
	doc, err := ws.LoadDocument()
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"chat_id": "7", "direction": "in"}},
		doc.Node("integration", "telegram")["channels"])
	assert.Equal(t, "gpt-4o-mini", doc.Node("ai_provider", "openai")["model"], "other plugins untouched")
	assert.Equal(t, os.FileMode(0o600), fs.Mode("/home/cq/config.yaml"))
}
