package cli

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/goldi-lab/gift/internal/config"
	"github.com/goldi-lab/gift/internal/logging"
	"github.com/goldi-lab/gift/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayload(t *testing.T) {
	assert.Nil(t, ParsePayload(""))
	assert.Equal(t, "en", ParsePayload("en"))
	assert.Equal(t, float64(3), ParsePayload("3"))
	assert.Equal(t, map[string]any{"automatonId": float64(1)}, ParsePayload(`{"automatonId": 1}`))
}

func TestLoadConfig_FromDir(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadConfig(Options{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFile), []byte("history:\n  max_versions: 5\n"), 0o644))
	cfg, err = LoadConfig(Options{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.History.MaxVersions)
}

func TestOpenStore_Backends(t *testing.T) {
	mr := miniredis.RunT(t)
	key := base64.StdEncoding.EncodeToString(make([]byte, 32))

	tests := []struct {
		name   string
		mutate func(*config.Config)
		locker bool
	}{
		{"file", func(c *config.Config) {}, false},
		{"memory", func(c *config.Config) { c.Store.Backend = config.BackendMemory }, false},
		{"badger", func(c *config.Config) {
			c.Store.Backend = config.BackendBadger
			c.Store.Path = ".gift/db"
		}, false},
		{"redis with lock", func(c *config.Config) {
			c.Store.Backend = config.BackendRedis
			c.Store.Redis.Addr = mr.Addr()
			c.Store.Redis.Lock = true
		}, true},
		{"encrypted and flattened", func(c *config.Config) {
			c.Store.EncryptionKey = key
			c.Store.Flatten = true
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			cfg := config.Default()
			tt.mutate(&cfg)

			b, err := OpenStore(cfg, t.TempDir(), logging.NewNop())
			require.NoError(t, err)
			defer b.Close()
			assert.Equal(t, tt.locker, b.Locker != nil)

			sess := domain.NewSession("s")
			sess.State.Current.Editor.Inputs = []string{"x0"}
			require.NoError(t, b.Store.Save(ctx, "s", sess))

			loaded, err := b.Store.Load(ctx, "s")
			require.NoError(t, err)
			assert.Equal(t, []string{"x0"}, loaded.State.Current.Editor.Inputs)

			ids, err := b.Store.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"s"}, ids)
		})
	}
}

func TestOpenStore_RelativePath(t *testing.T) {
	dir := t.TempDir()
	b, err := OpenStore(config.Default(), dir, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, b.Store.Save(context.Background(), "s", domain.NewSession("s")))
	assert.FileExists(t, filepath.Join(dir, ".gift", "sessions", "s.json"))
}

func TestOpenStore_Unknown(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = "sqlite"
	_, err := OpenStore(cfg, t.TempDir(), logging.NewNop())
	assert.Error(t, err)
}

func TestScript_Apply(t *testing.T) {
	ctx := context.Background()
	app, err := NewApp(Options{Dir: t.TempDir()})
	require.NoError(t, err)
	defer app.Close()

	script, err := ParseScript([]byte(`
session: light
actions:
  - type: ADDGLOBALINPUT
  - type: NEWAUTOMATON
  - type: ADDNODE
    payload: {automatonId: 1}
  - type: ADDNODE
    payload:
      automatonId: 1
`))
	require.NoError(t, err)
	assert.Equal(t, "light", script.Session)

	sess, err := script.Apply(ctx, app.Manager, script.Session)
	require.NoError(t, err)
	assert.Equal(t, 3, sess.State.CurrentVersion)
	assert.Len(t, sess.State.Current.Editor.Nodes, 2)

	ids, err := app.Manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"light"}, ids)
}

func TestScript_StopsAtFirstError(t *testing.T) {
	ctx := context.Background()
	app, err := NewApp(Options{Dir: t.TempDir()})
	require.NoError(t, err)
	defer app.Close()

	script, err := ParseScript([]byte(`
actions:
  - type: NEWAUTOMATON
  - type: REMOVENODE
    payload: {nodeId: 99}
  - type: ADDGLOBALOUTPUT
`))
	require.NoError(t, err)

	sess, err := script.Apply(ctx, app.Manager, app.SessionID())
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "action 2")
	assert.Len(t, sess.State.Current.Editor.Automatons, 1)
	assert.Empty(t, sess.State.Current.Editor.Outputs)
}

func TestParseScript_Invalid(t *testing.T) {
	_, err := ParseScript([]byte("actions: []"))
	assert.ErrorIs(t, err, ErrEmptyScript)

	_, err = ParseScript([]byte("actions:\n  - payload: 1\n"))
	assert.Error(t, err)

	_, err = ParseScript([]byte("actions: [oops"))
	assert.Error(t, err)
}

func TestCreateEngine_UsesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.History.MaxVersions = 7
	eng := createEngine(cfg, logging.NewNop(), true)
	assert.Equal(t, 7, eng.MaxVersions())
}
