package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start monitoring Cursor spending",
	Long: `Polls the billing API on the configured interval and notifies when
spending increases past the threshold. With --once, performs exactly one
check and exits.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("once", false, "perform a single check and exit")
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.API.SessionToken == "" {
		return errors.New("no session token configured, run 'cursorwatch setup' first")
	}

	m, store, err := initMonitor(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	once, _ := cmd.Flags().GetBool("once")
	if once {
		return m.Tick(cmd.Context())
	}

	// Stopping only cancels scheduling; an in-flight tick finishes and
	// persists before Run returns.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return m.Run(ctx)
}
