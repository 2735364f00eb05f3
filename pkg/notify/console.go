package notify

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ConsoleNotifier prints alerts to a writer, stdout by default.
type ConsoleNotifier struct {
	out io.Writer
}

// NewConsoleNotifier creates a console notifier writing to stdout.
func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{out: os.Stdout}
}

// NewConsoleNotifierTo creates a console notifier writing to w.
func NewConsoleNotifierTo(w io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: w}
}

func (c *ConsoleNotifier) Name() string { return "console" }

func (c *ConsoleNotifier) Send(_ context.Context, alert Alert) error {
	if _, err := fmt.Fprintf(c.out, "🔔 %s - %s\n",
		alert.At.Format("2006-01-02 15:04:05"), alert.Message); err != nil {
		return fmt.Errorf("write console alert: %w", err)
	}

	for _, ev := range alert.RecentEvents {
		label := ev.Model
		if label == "" {
			label = "unknown"
		}
		if _, err := fmt.Fprintf(c.out, "  • %s - $%.3f (%s)\n",
			ev.At.Format("15:04:05"), ev.CostUSD, label); err != nil {
			return fmt.Errorf("write event context: %w", err)
		}
	}
	return nil
}
