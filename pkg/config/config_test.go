package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultFileName)

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), again)
}

func TestLoadConfigTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[engine]
max_results = 3
min_confidence = 0.6

[dict]
languages = ["en"]
active_languages = ["en"]

[storage]
backend = "sqlite"
path = "/tmp/words.db"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Engine.MaxResults)
	assert.Equal(t, 0.6, cfg.Engine.MinConfidence)
	assert.Equal(t, 2, cfg.Engine.MaxEditDistance, "missing keys keep defaults")
	assert.Equal(t, []string{"en"}, cfg.Dict.Languages)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, 64, cfg.Server.MaxLimit)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[engine]
max_results = "lots"
context_window = 8

[server]
max_limit = 10
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Engine.MaxResults, "bad value falls back to default")
	assert.Equal(t, 8, cfg.Engine.ContextWindow)
	assert.Equal(t, 10, cfg.Server.MaxLimit)
}

func TestLoadConfigUnparsable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[engine\nmax_results = ")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
engine:
  max_results: 7
dict:
  active_languages: [id]
storage:
  backend: redis
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Engine.MaxResults)
	assert.Equal(t, []string{"id"}, cfg.Dict.ActiveLanguages)
	assert.Equal(t, "file", cfg.Storage.Backend, "unsupported backend is reset")

	out := filepath.Join(t.TempDir(), "saved.yml")
	require.NoError(t, SaveConfig(cfg, out))
	back, err := LoadConfig(out)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestLoadConfigWithPriority(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, "[server]\nmax_token = 30\n")

	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 30, cfg.Server.MaxToken)
}

func TestWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, SaveConfig(DefaultConfig(), path))

	w := NewWatcher(path, DefaultConfig())
	changed := make(chan *Config, 4)
	w.OnChange(func(c *Config) { changed <- c })
	require.NoError(t, w.Start())
	defer w.Close()

	cfg := DefaultConfig()
	cfg.Dict.ActiveLanguages = []string{"id"}
	require.NoError(t, SaveConfig(cfg, path))

	select {
	case got := <-changed:
		assert.Equal(t, []string{"id"}, got.Dict.ActiveLanguages)
		assert.Equal(t, []string{"id"}, w.Config().Dict.ActiveLanguages)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the change")
	}
}

func TestWatcherReloadKeepsConfigOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "engine: [unclosed")

	w := NewWatcher(path, DefaultConfig())
	w.Reload()
	assert.Equal(t, DefaultConfig(), w.Config())
}
