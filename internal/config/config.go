// Package config loads boardwatch's credentials and settings.
//
// Settings come from environment variables, optionally overlaid on a
// boardwatch.toml file in the working directory or ~/.config/boardwatch.
// Environment always wins. The Trello key and token are required;
// everything else has a default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds everything the server needs at startup.
type Config struct {
	// APIKey is the Trello API key (300 req/10s quota applies per key).
	APIKey string
	// Token is the Trello member token (100 req/10s quota per token).
	Token string
	// AttachmentDir is where downloaded attachments are written.
	AttachmentDir string
	// LogLevel is a zap level name (debug, info, warn, error).
	LogLevel string
}

// Load reads configuration from the environment and any config file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("boardwatch")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/boardwatch")

	_ = v.BindEnv("api_key", "TRELLO_API_KEY")
	_ = v.BindEnv("token", "TRELLO_TOKEN")
	_ = v.BindEnv("attachment_dir", "BOARDWATCH_ATTACHMENT_DIR")
	_ = v.BindEnv("log_level", "LOG_LEVEL")

	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// No config file is fine; env vars carry everything.
	}

	cfg := &Config{
		APIKey:        v.GetString("api_key"),
		Token:         v.GetString("token"),
		AttachmentDir: v.GetString("attachment_dir"),
		LogLevel:      v.GetString("log_level"),
	}
	if cfg.AttachmentDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		cfg.AttachmentDir = filepath.Join(home, ".boardwatch", "attachments")
	}
	return cfg, nil
}

// Validate reports missing required settings.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("TRELLO_API_KEY is required")
	}
	if c.Token == "" {
		return errors.New("TRELLO_TOKEN is required")
	}
	return nil
}
