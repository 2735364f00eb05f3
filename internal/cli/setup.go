package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/emreakca/cursorwatch/internal/config"
	"github.com/emreakca/cursorwatch/pkg/cursor"
	"github.com/emreakca/cursorwatch/pkg/model"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the monitor and test the API connection",
	Long: `Writes the cursorwatch config file. The session token can be passed
directly with --token, or extracted from a cURL command copied from the
browser's DevTools with --curl-file (use "-" to read from stdin).`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
	setupCmd.Flags().String("token", "", "WorkosCursorSessionToken value")
	setupCmd.Flags().String("curl-file", "", "file containing a cURL command to extract the token from (\"-\" for stdin)")
	setupCmd.Flags().Float64("threshold", 0.50, "notification threshold in USD")
	setupCmd.Flags().Int("interval", 5, "poll interval in minutes")
	setupCmd.Flags().Int("cooldown", 0, "notification cooldown in minutes (0 = poll interval)")
	setupCmd.Flags().Bool("desktop", false, "enable desktop notifications")
	setupCmd.Flags().String("slack-url", "", "Slack webhook URL")
	setupCmd.Flags().String("slack-channel", "#cursor-costs", "Slack channel")
	setupCmd.Flags().String("webhook-url", "", "generic webhook URL")
	setupCmd.Flags().String("webhook-secret", "", "HMAC secret for webhook signing")
	setupCmd.Flags().Bool("force", false, "overwrite an existing config file")
	setupCmd.Flags().Bool("skip-test", false, "skip the connection test")
}

// tokenPattern matches the session cookie wherever it appears in a
// pasted cURL command (cookie header or -b flag).
var tokenPattern = regexp.MustCompile(`WorkosCursorSessionToken=([^;'"\s]+)`)

// ExtractSessionToken pulls the session token out of a cURL command
// copied from the browser. Returns "" when no token is present.
func ExtractSessionToken(curl string) string {
	m := tokenPattern.FindStringSubmatch(curl)
	if m == nil {
		return ""
	}
	return m[1]
}

func runSetup(cmd *cobra.Command, _ []string) error {
	token, _ := cmd.Flags().GetString("token")
	curlFile, _ := cmd.Flags().GetString("curl-file")

	if token == "" && curlFile != "" {
		var (
			data []byte
			err  error
		)
		if curlFile == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(curlFile)
		}
		if err != nil {
			return fmt.Errorf("read curl command: %w", err)
		}
		token = ExtractSessionToken(string(data))
		if token == "" {
			return errors.New("could not extract WorkosCursorSessionToken from the cURL command")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Extracted session token: %s...\n", truncate(token, 20))
	}

	if token == "" {
		return errors.New("a session token is required: pass --token or --curl-file")
	}

	path := cfgFile
	if path == "" {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists, use --force to overwrite", path)
	}

	threshold, _ := cmd.Flags().GetFloat64("threshold")
	interval, _ := cmd.Flags().GetInt("interval")
	cooldown, _ := cmd.Flags().GetInt("cooldown")
	desktop, _ := cmd.Flags().GetBool("desktop")
	slackURL, _ := cmd.Flags().GetString("slack-url")
	slackChannel, _ := cmd.Flags().GetString("slack-channel")
	webhookURL, _ := cmd.Flags().GetString("webhook-url")
	webhookSecret, _ := cmd.Flags().GetString("webhook-secret")

	file := setupFile{}
	file.API.SessionToken = token
	file.Monitor.ThresholdUSD = threshold
	file.Monitor.PollIntervalMinutes = interval
	file.Monitor.CooldownMinutes = cooldown
	file.Notify.Console.Enabled = true
	file.Notify.Desktop.Enabled = desktop
	file.Notify.Slack.Enabled = slackURL != ""
	file.Notify.Slack.WebhookURL = slackURL
	file.Notify.Slack.Channel = slackChannel
	file.Notify.Webhook.Enabled = webhookURL != ""
	file.Notify.Webhook.URL = webhookURL
	file.Notify.Webhook.Secret = webhookSecret

	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", path)

	if skip, _ := cmd.Flags().GetBool("skip-test"); skip {
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Testing connection...")
	client := cursor.NewClient(token)
	snap, err := client.FetchUsage(cmd.Context(), time.Now())
	if err != nil {
		if errors.Is(err, cursor.ErrUnauthorized) {
			return errors.New("connection test failed: session token is expired or invalid")
		}
		return fmt.Errorf("connection test failed: %w", err)
	}

	total := snap.EffectiveTotalCents()
	if total > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Connection successful. Current spending: $%.2f\n", model.Dollars(total))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Connection successful. No usage data found.")
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Start monitoring with: cursorwatch run")

	return nil
}

// setupFile mirrors the config layout for the written yaml file.
type setupFile struct {
	API struct {
		SessionToken string `yaml:"session_token"`
	} `yaml:"api"`
	Monitor struct {
		ThresholdUSD        float64 `yaml:"threshold_usd"`
		PollIntervalMinutes int     `yaml:"poll_interval_minutes"`
		CooldownMinutes     int     `yaml:"cooldown_minutes,omitempty"`
	} `yaml:"monitor"`
	Notify struct {
		Console struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"console"`
		Desktop struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"desktop"`
		Slack struct {
			Enabled    bool   `yaml:"enabled"`
			WebhookURL string `yaml:"webhook_url,omitempty"`
			Channel    string `yaml:"channel,omitempty"`
		} `yaml:"slack"`
		Webhook struct {
			Enabled bool   `yaml:"enabled"`
			URL     string `yaml:"url,omitempty"`
			Secret  string `yaml:"secret,omitempty"`
		} `yaml:"webhook"`
	} `yaml:"notify"`
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
