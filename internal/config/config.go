package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all cursorwatch configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Monitor MonitorConfig `mapstructure:"monitor"`
	Storage StorageConfig `mapstructure:"storage"`
	Notify  NotifyConfig  `mapstructure:"notify"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds billing API credentials.
type APIConfig struct {
	SessionToken string `mapstructure:"session_token"`
}

// MonitorConfig defines threshold and polling behavior.
type MonitorConfig struct {
	ThresholdUSD        float64 `mapstructure:"threshold_usd"`
	PollIntervalMinutes int     `mapstructure:"poll_interval_minutes"`
	CooldownMinutes     int     `mapstructure:"cooldown_minutes"`
}

// PollInterval returns the poll interval as a duration.
func (m MonitorConfig) PollInterval() time.Duration {
	return time.Duration(m.PollIntervalMinutes) * time.Minute
}

// Cooldown returns the minimum interval between notifications. When
// not configured it defaults to the poll interval.
func (m MonitorConfig) Cooldown() time.Duration {
	if m.CooldownMinutes <= 0 {
		return m.PollInterval()
	}
	return time.Duration(m.CooldownMinutes) * time.Minute
}

// StorageConfig defines database settings.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// NotifyConfig defines notification channels.
type NotifyConfig struct {
	Console ChannelConfig `mapstructure:"console"`
	Desktop ChannelConfig `mapstructure:"desktop"`
	Slack   SlackConfig   `mapstructure:"slack"`
	Webhook WebhookConfig `mapstructure:"webhook"`
}

// ChannelConfig is a simple on/off channel toggle.
type ChannelConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// SlackConfig defines Slack webhook settings.
type SlackConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	WebhookURL string `mapstructure:"webhook_url"`
	Channel    string `mapstructure:"channel"`
}

// WebhookConfig defines generic webhook settings.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Secret  string `mapstructure:"secret"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Dir returns the default configuration directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".cursorwatch"), nil
}

// Load reads configuration from file and environment variables.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Defaults
	home, _ := os.UserHomeDir()
	v.SetDefault("storage.path", filepath.Join(home, ".cursorwatch", "cursorwatch.db"))
	v.SetDefault("monitor.threshold_usd", 0.50)
	v.SetDefault("monitor.poll_interval_minutes", 5)
	v.SetDefault("monitor.cooldown_minutes", 0)
	v.SetDefault("notify.console.enabled", true)
	v.SetDefault("notify.desktop.enabled", false)
	v.SetDefault("notify.slack.channel", "#cursor-costs")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Environment variables
	v.SetEnvPrefix("CURSORWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration at startup so a bad threshold or
// interval fails fast instead of at tick time.
func (c *Config) Validate() error {
	if c.Monitor.ThresholdUSD <= 0 {
		return errors.New("monitor.threshold_usd must be greater than zero")
	}
	if c.Monitor.PollIntervalMinutes < 1 {
		return errors.New("monitor.poll_interval_minutes must be at least 1")
	}
	if c.Monitor.CooldownMinutes < 0 {
		return errors.New("monitor.cooldown_minutes must not be negative")
	}
	if c.Notify.Slack.Enabled && c.Notify.Slack.WebhookURL == "" {
		return errors.New("notify.slack.webhook_url is required when slack is enabled")
	}
	if c.Notify.Webhook.Enabled && c.Notify.Webhook.URL == "" {
		return errors.New("notify.webhook.url is required when webhook is enabled")
	}
	return nil
}
