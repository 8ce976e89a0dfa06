package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Loader reads and merges configuration from a file (optional) and
// SNSBOT_-prefixed environment variables.
type Loader struct {
	lock       sync.Mutex
	configFile string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(configFile string) LoaderOption {
	return func(l *Loader) { l.configFile = configFile }
}

// Load builds the configuration using a fresh Loader.
func Load(opts ...LoaderOption) (*Config, error) {
	loader := NewLoader(opts...)
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// NewLoader creates a Loader and applies the given options.
func NewLoader(opts ...LoaderOption) *Loader {
	loader := &Loader{}
	for _, opt := range opts {
		opt(loader)
	}
	return loader
}

// Load initializes viper, reads the config file when present, applies
// defaults and environment overrides, and validates the result.
func (l *Loader) Load() (*Config, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	v := viper.New()
	l.setDefaults(v)

	v.SetEnvPrefix("SNSBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("snsbot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/snsbot")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && l.configFile != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (l *Loader) setDefaults(v *viper.Viper) {
	v.SetDefault("timezone", "Asia/Seoul")
	v.SetDefault("callTimeout", 15*time.Second)
	v.SetDefault("pendingTTL", 30*time.Minute)
	v.SetDefault("logFormat", "text")
	v.SetDefault("database.path", "snsbot.db")
	v.SetDefault("x.baseUrl", "https://api.twitter.com")
	v.SetDefault("ig.baseUrl", "https://graph.facebook.com/v19.0")
}
