package monitor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/emreakca/cursorwatch/pkg/model"
	"github.com/emreakca/cursorwatch/pkg/monitor"
)

var gateCfg = monitor.GateConfig{
	ThresholdCents: 50,
	Cooldown:       5 * time.Minute,
}

func TestEvaluate_Fires(t *testing.T) {
	now := time.Now()
	state := model.MonitorState{LastKnownCents: 0}

	state, d := monitor.Evaluate(state, 217, gateCfg, now)
	assert.True(t, d.Fire)
	assert.Equal(t, monitor.ReasonFired, d.Reason)
	assert.Equal(t, int64(217), d.IncreaseCents)
	assert.Equal(t, int64(217), state.LastKnownCents)
	assert.Equal(t, now, state.LastNotifyAt)
}

func TestEvaluate_ExactThresholdFires(t *testing.T) {
	state := model.MonitorState{LastKnownCents: 100}

	_, d := monitor.Evaluate(state, 150, gateCfg, time.Now())
	assert.True(t, d.Fire)
}

func TestEvaluate_BelowThreshold(t *testing.T) {
	now := time.Now()
	state := model.MonitorState{LastKnownCents: 100}

	state, d := monitor.Evaluate(state, 130, gateCfg, now)
	assert.False(t, d.Fire)
	assert.Equal(t, monitor.ReasonBelowThreshold, d.Reason)
	assert.Equal(t, int64(130), state.LastKnownCents, "last known advances even when suppressed")
	assert.True(t, state.LastNotifyAt.IsZero())
}

func TestEvaluate_DecreaseNeverFires(t *testing.T) {
	state := model.MonitorState{LastKnownCents: 500}

	state, d := monitor.Evaluate(state, 200, gateCfg, time.Now())
	assert.False(t, d.Fire)
	assert.Equal(t, monitor.ReasonNoIncrease, d.Reason)
	assert.Equal(t, int64(-300), d.IncreaseCents)
	assert.Equal(t, int64(200), state.LastKnownCents)
}

func TestEvaluate_NoChange(t *testing.T) {
	state := model.MonitorState{LastKnownCents: 200}

	_, d := monitor.Evaluate(state, 200, gateCfg, time.Now())
	assert.False(t, d.Fire)
	assert.Equal(t, monitor.ReasonNoIncrease, d.Reason)
}

func TestEvaluate_CooldownSuppresses(t *testing.T) {
	now := time.Now()
	state := model.MonitorState{
		LastKnownCents: 217,
		LastNotifyAt:   now.Add(-2 * time.Minute),
	}

	// Another $1.00 increase two minutes after the last notify with a
	// five-minute cooldown: suppressed, but last known still advances.
	state, d := monitor.Evaluate(state, 317, gateCfg, now)
	assert.False(t, d.Fire)
	assert.Equal(t, monitor.ReasonCooldown, d.Reason)
	assert.Equal(t, int64(317), state.LastKnownCents)
	assert.Equal(t, now.Add(-2*time.Minute), state.LastNotifyAt, "last notify unchanged on suppression")
}

func TestEvaluate_CooldownElapsedFires(t *testing.T) {
	now := time.Now()
	state := model.MonitorState{
		LastKnownCents: 217,
		LastNotifyAt:   now.Add(-5 * time.Minute),
	}

	_, d := monitor.Evaluate(state, 317, gateCfg, now)
	assert.True(t, d.Fire, "cooldown boundary is inclusive")
}

func TestEvaluate_SnoozeSuppressesEverything(t *testing.T) {
	now := time.Now()
	state := model.MonitorState{
		LastKnownCents: 0,
		SnoozeUntil:    now.Add(30 * time.Minute),
	}

	state, d := monitor.Evaluate(state, 10_000, gateCfg, now)
	assert.False(t, d.Fire)
	assert.Equal(t, monitor.ReasonSnoozed, d.Reason)
	assert.Equal(t, int64(10_000), state.LastKnownCents)
	assert.False(t, state.SnoozeUntil.IsZero(), "active snooze is kept")
}

func TestEvaluate_SnoozeExpiryClearedOnce(t *testing.T) {
	now := time.Now()
	state := model.MonitorState{
		LastKnownCents: 100,
		SnoozeUntil:    now.Add(-time.Second),
	}

	// First evaluation after expiry clears the snooze and the gates run.
	state, d := monitor.Evaluate(state, 200, gateCfg, now)
	assert.True(t, d.Fire)
	assert.True(t, state.SnoozeUntil.IsZero())

	// Subsequent evaluations see no snooze at all.
	state, d = monitor.Evaluate(state, 300, gateCfg, now.Add(10*time.Minute))
	assert.True(t, d.Fire)
	assert.True(t, state.SnoozeUntil.IsZero())
}

func TestEvaluate_FirstNotifyIgnoresCooldown(t *testing.T) {
	state := model.MonitorState{}

	_, d := monitor.Evaluate(state, 100, gateCfg, time.Now())
	assert.True(t, d.Fire, "zero last-notify means no cooldown yet")
}
