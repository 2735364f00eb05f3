package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var snoozeCmd = &cobra.Command{
	Use:   "snooze [duration]",
	Short: "Suppress notifications for a while",
	Long: `Suppresses all notifications for the given duration (e.g. 45m, 2h),
independently of the cooldown. Use --clear to lift an active snooze.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSnooze,
}

func init() {
	rootCmd.AddCommand(snoozeCmd)
	snoozeCmd.Flags().Bool("clear", false, "clear an active snooze")
}

func runSnooze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := initStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	state, err := store.LoadState(cmd.Context())
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	if clear, _ := cmd.Flags().GetBool("clear"); clear {
		state.SnoozeUntil = time.Time{}
		if err := store.SaveState(cmd.Context(), state); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
		fmt.Println("Snooze cleared.")
		return nil
	}

	if len(args) == 0 {
		return errors.New("a duration is required, e.g. 'cursorwatch snooze 45m'")
	}
	d, err := time.ParseDuration(args[0])
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", args[0], err)
	}
	if d <= 0 {
		return errors.New("snooze duration must be positive")
	}

	state.SnoozeUntil = time.Now().Add(d)
	if err := store.SaveState(cmd.Context(), state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	fmt.Printf("Notifications snoozed until %s.\n", state.SnoozeUntil.Local().Format(time.RFC1123))
	return nil
}
