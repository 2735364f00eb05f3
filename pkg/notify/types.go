package notify

import (
	"context"
	"fmt"
	"time"
)

// Alert is a spending-increase notification.
type Alert struct {
	Message      string    `json:"message"`
	IncreaseUSD  float64   `json:"increase_usd"`
	TotalUSD     float64   `json:"total_usd"`
	At           time.Time `json:"at"`
	RecentEvents []Event   `json:"recent_events,omitempty"`
}

// Event is a recent priced usage event included for context.
type Event struct {
	At      time.Time `json:"at"`
	CostUSD float64   `json:"cost_usd"`
	Model   string    `json:"model,omitempty"`
}

// NewAlert builds an alert with the standard two-decimal message.
func NewAlert(increaseUSD, totalUSD float64, at time.Time) Alert {
	return Alert{
		Message:     fmt.Sprintf("Spending increased by $%.2f (Total: $%.2f)", increaseUSD, totalUSD),
		IncreaseUSD: increaseUSD,
		TotalUSD:    totalUSD,
		At:          at,
	}
}

// Notifier delivers alerts to one channel. A failing channel must not
// prevent delivery on the others; callers log errors and move on.
type Notifier interface {
	// Name returns the notifier identifier.
	Name() string

	// Send delivers an alert. Implementations must be safe for concurrent use.
	Send(ctx context.Context, alert Alert) error
}
