// Package config the configuration
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shiroyk/weburl/server"
	"github.com/shiroyk/weburl/store"
	"gopkg.in/yaml.v3"
)

// DefaultPath the default configuration file path
const DefaultPath = "~/.config/weburl/config.yml"

// DefaultJSTimeout the default timeout of running a script
const DefaultJSTimeout = 30 * time.Second

type configKey struct{}

// NewContext returns a context that contains the given Config.
func NewContext(ctx context.Context, config Config) context.Context {
	return context.WithValue(ctx, configKey{}, config)
}

// FromContext returns the Config stored in ctx by NewContext, or the default
// Config if there is none.
func FromContext(ctx context.Context) Config {
	if config, ok := ctx.Value(configKey{}).(Config); ok {
		return config
	}
	return DefaultConfig()
}

// Config The weburl configuration
type Config struct {
	// Server the HTTP API
	Server server.Options `yaml:"server"`

	// Store the parse cache, disabled if the path is empty
	Store store.Options `yaml:"store"`

	// JS the script runtime
	JS JSOptions `yaml:"js"`

	// Log the logger
	Log LogOptions `yaml:"log"`
}

// JSOptions the script runtime options
type JSOptions struct {
	Timeout time.Duration `yaml:"timeout"`
}

// LogOptions the logger options
type LogOptions struct {
	// Level one of debug, info, warn, error
	Level string `yaml:"level"`
}

// SlogLevel returns the slog.Level of the configured level, defaults to info.
func (o LogOptions) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// DefaultConfig The default configuration
func DefaultConfig() Config {
	return Config{
		Server: server.Options{
			Address: server.DefaultAddress,
			Timeout: server.DefaultTimeout,
		},
		Store: store.Options{
			Path: store.DefaultPath,
			TTL:  store.DefaultTTL,
		},
		JS: JSOptions{
			Timeout: DefaultJSTimeout,
		},
		Log: LogOptions{
			Level: "info",
		},
	}
}

// ReadConfig read configuration from the file.
// If the configuration file is not existing returns the default configuration.
func ReadConfig(path string) (config Config, err error) {
	file, err := ExpandPath(path)
	if err != nil {
		return config, err
	}
	config = DefaultConfig()
	data, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, err
	}
	if err = yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("read config %s: %w", file, err)
	}
	return config, nil
}

// WriteConfig writes the default configuration to the file, the file must not exist.
func WriteConfig(path string) error {
	file, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if _, err = os.Stat(file); err == nil {
		return fmt.Errorf("configuration file %s is already exists", file)
	}
	if err = os.MkdirAll(filepath.Dir(file), os.ModePerm); err != nil {
		return err
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0o600)
}

// ExpandPath expands path "." or "~"
func ExpandPath(path string) (string, error) {
	// expand local directory
	if path == "." || strings.HasPrefix(path, "./") {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return filepath.Join(cwd, path[1:]), nil
	}
	// expand ~ as shortcut for home directory
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
