package monitor

import (
	"time"

	"github.com/emreakca/cursorwatch/pkg/model"
)

// GateConfig holds the two notification gates: the minimum spending
// increase and the minimum interval between consecutive notifications.
type GateConfig struct {
	ThresholdCents int64
	Cooldown       time.Duration
}

// Reason explains a gate decision.
type Reason string

const (
	ReasonFired          Reason = "fired"
	ReasonNoIncrease     Reason = "no_increase"
	ReasonBelowThreshold Reason = "below_threshold"
	ReasonCooldown       Reason = "cooldown"
	ReasonSnoozed        Reason = "snoozed"
)

// Decision is the outcome of one gate evaluation.
type Decision struct {
	Fire          bool
	Reason        Reason
	IncreaseCents int64
}

// Evaluate runs the notification gates for one poll. Last-known
// spending advances on every evaluation, fired or not, so suppressed
// increases are not re-reported later. A fire requires the increase to
// meet the threshold AND the cooldown to have elapsed; an active snooze
// suppresses unconditionally. Snooze expiry is detected lazily here and
// cleared exactly once.
func Evaluate(state model.MonitorState, spendingCents int64, cfg GateConfig, now time.Time) (model.MonitorState, Decision) {
	increase := spendingCents - state.LastKnownCents
	state.LastKnownCents = spendingCents

	if state.Snoozed(now) {
		return state, Decision{Reason: ReasonSnoozed, IncreaseCents: increase}
	}
	if !state.SnoozeUntil.IsZero() {
		state.SnoozeUntil = time.Time{}
	}

	if increase <= 0 {
		return state, Decision{Reason: ReasonNoIncrease, IncreaseCents: increase}
	}
	if increase < cfg.ThresholdCents {
		return state, Decision{Reason: ReasonBelowThreshold, IncreaseCents: increase}
	}
	if !state.LastNotifyAt.IsZero() && now.Sub(state.LastNotifyAt) < cfg.Cooldown {
		return state, Decision{Reason: ReasonCooldown, IncreaseCents: increase}
	}

	state.LastNotifyAt = now
	return state, Decision{Fire: true, Reason: ReasonFired, IncreaseCents: increase}
}
