package model

import (
	"math"
	"time"
)

// MonitorState is the persisted state of one monitoring session.
// All money amounts are integer cents; conversion to dollars happens
// only at display boundaries.
type MonitorState struct {
	BaselineCents  int64     `json:"baseline_cents"`
	SpendingCents  int64     `json:"spending_cents"`
	LastKnownCents int64     `json:"last_known_cents"`
	LastNotifyAt   time.Time `json:"last_notify_at"`
	SnoozeUntil    time.Time `json:"snooze_until,omitempty"`
	SessionStart   time.Time `json:"session_start"`
	LastError      string    `json:"last_error,omitempty"`
}

// Started reports whether a session baseline has been established.
func (s MonitorState) Started() bool {
	return !s.SessionStart.IsZero()
}

// Snoozed reports whether notifications are snoozed at the given instant.
func (s MonitorState) Snoozed(now time.Time) bool {
	return !s.SnoozeUntil.IsZero() && now.Before(s.SnoozeUntil)
}

// UsageEvent is a single priced API call from the billing endpoint.
type UsageEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	PriceCents int64     `json:"price_cents"`
	ModelLabel string    `json:"model_label,omitempty"`
}

// UsageSnapshot is the result of one billing poll. HasTotal is false
// when the invoice carried no aggregate line item, in which case the
// effective total falls back to the sum of event prices.
type UsageSnapshot struct {
	TotalCents int64        `json:"total_cents"`
	HasTotal   bool         `json:"has_total"`
	Events     []UsageEvent `json:"events,omitempty"`
	FetchedAt  time.Time    `json:"fetched_at"`
}

// EffectiveTotalCents returns the invoice total, falling back to the
// sum of individual event prices when no aggregate is present. A
// snapshot with neither is worth zero cents, not an error.
func (s UsageSnapshot) EffectiveTotalCents() int64 {
	if s.HasTotal {
		return s.TotalCents
	}
	var sum int64
	for _, e := range s.Events {
		sum += e.PriceCents
	}
	return sum
}

// HistoryPoint is one entry of the trailing session-spending history.
type HistoryPoint struct {
	ID          string    `json:"id"`
	At          time.Time `json:"at"`
	AmountCents int64     `json:"amount_cents"`
}

// Dollars converts integer cents to a dollar amount for display.
func Dollars(cents int64) float64 {
	return float64(cents) / 100
}

// ToCents converts a dollar amount to integer cents, rounding half away from zero.
func ToCents(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}
