// Package config loads the designer configuration: defaults, then a user
// file, then a project file, then an explicit --config file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gravio-la/forms-designer-sub000/pkg/jsonschema"
)

// Config is the complete designer configuration.
type Config struct {
	DefinitionsKey string       `yaml:"definitionsKey"`
	Store          StoreConfig  `yaml:"store"`
	Server         ServerConfig `yaml:"server"`
	Log            LogConfig    `yaml:"log"`
	Blocks         BlocksConfig `yaml:"blocks"`
	Loader         LoaderConfig `yaml:"loader"`
}

// StoreConfig configures snapshot persistence.
type StoreConfig struct {
	// Path is the snapshot file.
	Path string `yaml:"path"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	// AllowedOrigins is passed to the websocket upgrader.
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// LogConfig configures slog.
type LogConfig struct {
	Level string `yaml:"level"`
}

// BlocksConfig configures building block extraction.
type BlocksConfig struct {
	DefaultIcon string `yaml:"defaultIcon"`
}

// LoaderConfig configures document loading.
type LoaderConfig struct {
	AllowHTTP bool          `yaml:"allowHTTP"`
	Timeout   time.Duration `yaml:"timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DefinitionsKey: jsonschema.KeyDefinitions,
		Store: StoreConfig{
			Path: filepath.Join(".formdesigner", "session.json"),
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8470",
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"localhost:*", "127.0.0.1:*"},
		},
		Log: LogConfig{
			Level: "info",
		},
		Blocks: BlocksConfig{
			DefaultIcon: "block",
		},
		Loader: LoaderConfig{
			AllowHTTP: false,
			Timeout:   30 * time.Second,
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if !jsonschema.IsDefinitionsKey(c.DefinitionsKey) {
		return fmt.Errorf("definitionsKey must be %q or %q, got %q", jsonschema.KeyDefinitions, jsonschema.KeyDefs, c.DefinitionsKey)
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store.path is required")
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr is required")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Loader.Timeout < 0 {
		return fmt.Errorf("loader.timeout must not be negative")
	}
	return nil
}

// LoadFromFile decodes a YAML file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	layer, err := readLayer(path)
	if err != nil {
		return nil, err
	}
	config := DefaultConfig()
	config.Merge(layer)
	return config, nil
}

// readLayer decodes a YAML file into a zero Config so that Merge only sees
// the keys the file sets.
func readLayer(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	layer := &Config{}
	if err := yaml.Unmarshal(data, layer); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return layer, nil
}

// SaveToFile writes the configuration as YAML.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Merge overlays other onto c; non-zero values in other win.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.DefinitionsKey != "" {
		c.DefinitionsKey = other.DefinitionsKey
	}
	if other.Store.Path != "" {
		c.Store.Path = other.Store.Path
	}
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
	if other.Server.ShutdownTimeout != 0 {
		c.Server.ShutdownTimeout = other.Server.ShutdownTimeout
	}
	if len(other.Server.AllowedOrigins) > 0 {
		c.Server.AllowedOrigins = other.Server.AllowedOrigins
	}
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Blocks.DefaultIcon != "" {
		c.Blocks.DefaultIcon = other.Blocks.DefaultIcon
	}
	if other.Loader.AllowHTTP {
		c.Loader.AllowHTTP = true
	}
	if other.Loader.Timeout != 0 {
		c.Loader.Timeout = other.Loader.Timeout
	}
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log.level %q is not one of debug, info, warn, error", level)
	}
}
