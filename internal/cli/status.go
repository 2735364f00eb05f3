package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/emreakca/cursorwatch/pkg/model"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the persisted monitor state",
	Long:  `Prints the current session state and recent spending history without polling the API.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().Int("history", 10, "number of recent history points to show")
}

func runStatus(cmd *cobra.Command, _ []string) error {
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

	if !state.Started() {
		fmt.Println("No monitoring session started. Use 'cursorwatch run' to begin.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Session started:\t%s\n", state.SessionStart.Local().Format(time.RFC1123))
	fmt.Fprintf(w, "Baseline:\t$%.2f\n", model.Dollars(state.BaselineCents))
	fmt.Fprintf(w, "Session spending:\t$%.2f\n", model.Dollars(state.SpendingCents))
	if state.LastNotifyAt.IsZero() {
		fmt.Fprintf(w, "Last notification:\tnever\n")
	} else {
		fmt.Fprintf(w, "Last notification:\t%s\n", state.LastNotifyAt.Local().Format(time.RFC1123))
	}
	if state.Snoozed(time.Now()) {
		fmt.Fprintf(w, "Snoozed until:\t%s\n", state.SnoozeUntil.Local().Format(time.RFC1123))
	}
	if state.LastError != "" {
		fmt.Fprintf(w, "Last error:\t%s\n", state.LastError)
	}
	w.Flush()

	limit, _ := cmd.Flags().GetInt("history")
	points, err := store.History(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if len(points) == 0 {
		return nil
	}

	fmt.Println("\nRecent spending:")
	for _, p := range points {
		fmt.Printf("  %s  $%.2f\n", p.At.Local().Format("2006-01-02 15:04:05"), model.Dollars(p.AmountCents))
	}

	return nil
}
