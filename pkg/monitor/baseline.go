// Package monitor implements the session spending tracker: a baseline
// established at session start, a per-poll spending delta, and a gated
// notification pipeline.
package monitor

import (
	"time"

	"github.com/emreakca/cursorwatch/pkg/model"
)

// InitBaseline starts a new monitoring session. The snapshot's total
// becomes the baseline and session spending starts at zero. Called once
// per session, never mid-session.
func InitBaseline(snap model.UsageSnapshot, now time.Time) model.MonitorState {
	return model.MonitorState{
		BaselineCents: snap.EffectiveTotalCents(),
		SessionStart:  now,
	}
}

// UpdateSpending recomputes session spending from a fresh snapshot.
// Spending is clamped at zero: an upstream total below the baseline
// (billing cycle rollover) never produces a negative session value.
// The baseline itself is never touched.
func UpdateSpending(state model.MonitorState, snap model.UsageSnapshot) (model.MonitorState, int64) {
	spending := snap.EffectiveTotalCents() - state.BaselineCents
	if spending < 0 {
		spending = 0
	}
	state.SpendingCents = spending
	return state, spending
}
