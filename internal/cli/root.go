package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/emreakca/cursorwatch/internal/config"
	"github.com/emreakca/cursorwatch/pkg/cursor"
	"github.com/emreakca/cursorwatch/pkg/model"
	"github.com/emreakca/cursorwatch/pkg/monitor"
	"github.com/emreakca/cursorwatch/pkg/notify"
	"github.com/emreakca/cursorwatch/pkg/storage"
)

// Version is set at build time via ldflags.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "cursorwatch",
	Short: "Cursor spending monitor with threshold notifications",
	Long: `cursorwatch polls the Cursor dashboard billing API, tracks spending
relative to a session baseline, and notifies you when spending increases
by more than a configured threshold. Notifications respect a cooldown
interval and can be snoozed.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.cursorwatch/config.yaml)")
}

// loadConfig loads the configuration.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// newLogger creates a structured logger from config.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}

// initStorage creates a storage backend from config.
func initStorage(cfg *config.Config) (storage.Storage, error) {
	return storage.NewSQLite(cfg.Storage.Path)
}

// initNotifiers creates notification channels from config.
func initNotifiers(cfg *config.Config) []notify.Notifier {
	var notifiers []notify.Notifier

	if cfg.Notify.Console.Enabled {
		notifiers = append(notifiers, notify.NewConsoleNotifier())
	}

	if cfg.Notify.Desktop.Enabled {
		notifiers = append(notifiers, notify.NewDesktopNotifier())
	}

	if cfg.Notify.Slack.Enabled && cfg.Notify.Slack.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewSlackNotifier(
			cfg.Notify.Slack.WebhookURL,
			cfg.Notify.Slack.Channel,
		))
	}

	if cfg.Notify.Webhook.Enabled && cfg.Notify.Webhook.URL != "" {
		notifiers = append(notifiers, notify.NewWebhookNotifier(
			cfg.Notify.Webhook.URL,
			cfg.Notify.Webhook.Secret,
		))
	}

	return notifiers
}

// initMonitor creates a fully wired monitor.
func initMonitor(cfg *config.Config) (*monitor.Monitor, storage.Storage, error) {
	logger := newLogger(cfg)

	store, err := initStorage(cfg)
	if err != nil {
		return nil, nil, err
	}

	client := cursor.NewClient(cfg.API.SessionToken)
	m := monitor.New(client, store, initNotifiers(cfg), monitor.Config{
		ThresholdCents: model.ToCents(cfg.Monitor.ThresholdUSD),
		PollInterval:   cfg.Monitor.PollInterval(),
		Cooldown:       cfg.Monitor.Cooldown(),
	}, logger)

	return m, store, nil
}
