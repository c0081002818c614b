package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lsifkit/shardgraph/pkg/gitlog"
)

// Config holds the settings shared by every command. Values come from flags,
// SHARDGRAPH_* environment variables and an optional config file, in that
// order of precedence.
type Config struct {
	LogLevel   string        `mapstructure:"log-level"`
	LogFormat  string        `mapstructure:"log-format"`
	GitTimeout time.Duration `mapstructure:"git-timeout"`
}

func defaultConfig() Config {
	return Config{
		LogLevel:   "warn",
		LogFormat:  "text",
		GitTimeout: gitlog.DefaultTimeout,
	}
}

func newViper() *viper.Viper {
	v := viper.New()

	defaults := defaultConfig()
	v.SetDefault("log-level", defaults.LogLevel)
	v.SetDefault("log-format", defaults.LogFormat)
	v.SetDefault("git-timeout", defaults.GitTimeout)

	v.SetEnvPrefix("SHARDGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// loadConfig reads the optional config file and decodes the merged settings.
func loadConfig(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.GitTimeout <= 0 {
		return Config{}, fmt.Errorf("git-timeout must be positive, got %s", cfg.GitTimeout)
	}

	return cfg, nil
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", level)
}

// newLogger builds the logger of a command. Logs go to w, never to the
// command output.
func newLogger(cfg Config, w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", cfg.LogFormat)
}
