// Package config loads bot configuration from file and environment.
package config

import (
	"fmt"
	"time"
)

// Config is the full bot configuration.
type Config struct {
	// Telegram review channel.
	Telegram TelegramConfig `mapstructure:"telegram"`

	// Database is the sqlite path for durable state. Empty runs the
	// bot with in-memory persistence only (no crash recovery).
	Database DatabaseConfig `mapstructure:"database"`

	// Timezone is the reference timezone for the content calendar and
	// the cron timetable.
	Timezone string `mapstructure:"timezone"`

	// APIs for the external collaborators.
	Content  APIConfig `mapstructure:"content"`
	Image    APIConfig `mapstructure:"image"`
	Insights APIConfig `mapstructure:"insights"`

	X  XConfig  `mapstructure:"x"`
	IG IGConfig `mapstructure:"ig"`

	// CallTimeout bounds every external collaborator call.
	CallTimeout time.Duration `mapstructure:"callTimeout"`

	// PendingTTL is how long a draft waits for review.
	PendingTTL time.Duration `mapstructure:"pendingTTL"`

	LogFormat string `mapstructure:"logFormat"`
	Debug     bool   `mapstructure:"debug"`

	// Location is resolved from Timezone during validation.
	Location *time.Location `mapstructure:"-"`
}

type TelegramConfig struct {
	Token       string `mapstructure:"token"`
	AdminChatID int64  `mapstructure:"adminChatId"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type APIConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"apiKey"`
}

type XConfig struct {
	BaseURL     string `mapstructure:"baseUrl"`
	BearerToken string `mapstructure:"bearerToken"`
}

type IGConfig struct {
	BaseURL     string `mapstructure:"baseUrl"`
	AccessToken string `mapstructure:"accessToken"`
	UserID      string `mapstructure:"userId"`
}

// Validate checks required fields and resolves the timezone.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required")
	}
	if c.Telegram.AdminChatID == 0 {
		return fmt.Errorf("telegram.adminChatId is required")
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	c.Location = loc
	if c.CallTimeout <= 0 {
		return fmt.Errorf("callTimeout must be positive")
	}
	return nil
}
