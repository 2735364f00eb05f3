package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Start a new monitoring session",
	Long: `Clears the persisted state and history. The next check establishes a
fresh baseline from the current account total.`,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := initStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Reset(cmd.Context()); err != nil {
		return fmt.Errorf("reset state: %w", err)
	}

	fmt.Println("Session reset. The next check will establish a new baseline.")
	return nil
}
