package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "definitions", cfg.DefinitionsKey)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Loader.AllowHTTP)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "valid default config", modify: func(c *Config) {}},
		{name: "defs key", modify: func(c *Config) { c.DefinitionsKey = "$defs" }},
		{name: "unknown definitions key", modify: func(c *Config) { c.DefinitionsKey = "components" }, wantErr: true},
		{name: "missing store path", modify: func(c *Config) { c.Store.Path = " " }, wantErr: true},
		{name: "missing server addr", modify: func(c *Config) { c.Server.Addr = "" }, wantErr: true},
		{name: "bad log level", modify: func(c *Config) { c.Log.Level = "loud" }, wantErr: true},
		{name: "negative timeout", modify: func(c *Config) { c.Loader.Timeout = -time.Second }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(&Config{
		DefinitionsKey: "$defs",
		Store:          StoreConfig{Path: "/tmp/s.json"},
		Loader:         LoaderConfig{AllowHTTP: true},
	})
	assert.Equal(t, "$defs", cfg.DefinitionsKey)
	assert.Equal(t, "/tmp/s.json", cfg.Store.Path)
	assert.True(t, cfg.Loader.AllowHTTP)
	assert.Equal(t, "127.0.0.1:8470", cfg.Server.Addr)

	cfg.Merge(nil)
	assert.Equal(t, "$defs", cfg.DefinitionsKey)
}

func TestLoaderLayering(t *testing.T) {
	home := t.TempDir()
	work := filepath.Join(t.TempDir(), "project", "sub")
	require.NoError(t, os.MkdirAll(work, 0o755))

	userDir := filepath.Join(home, UserConfigDir)
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, UserConfigFile), []byte("log:\n  level: debug\nserver:\n  addr: 0.0.0.0:9000\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(work), ProjectConfigFile), []byte("definitionsKey: $defs\n"), 0o644))

	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("server:\n  addr: 127.0.0.1:1234\n"), 0o644))

	loader := NewLoader(quietLogger(), WithHomeDir(home), WithWorkDir(work))
	cfg, err := loader.Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "$defs", cfg.DefinitionsKey)
	assert.Equal(t, "127.0.0.1:1234", cfg.Server.Addr)

	_, err = loader.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoaderLaterLayersKeepEarlierValues(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()

	userDir := filepath.Join(home, UserConfigDir)
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, UserConfigFile), []byte("server:\n  shutdownTimeout: 3s\nblocks:\n  defaultIcon: puzzle\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(work, ProjectConfigFile), []byte("store:\n  path: project.json\n"), 0o644))

	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("log:\n  level: warn\n"), 0o644))

	cfg, err := NewLoader(quietLogger(), WithHomeDir(home), WithWorkDir(work)).Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "puzzle", cfg.Blocks.DefaultIcon)
	assert.Equal(t, "project.json", cfg.Store.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:8470", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Loader.Timeout)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Blocks.DefaultIcon = "puzzle"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
