package monitor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/emreakca/cursorwatch/pkg/model"
	"github.com/emreakca/cursorwatch/pkg/monitor"
)

func TestInitBaseline(t *testing.T) {
	now := time.Now()
	snap := model.UsageSnapshot{TotalCents: 1000, HasTotal: true}

	state := monitor.InitBaseline(snap, now)
	assert.Equal(t, int64(1000), state.BaselineCents)
	assert.Equal(t, int64(0), state.SpendingCents)
	assert.Equal(t, int64(0), state.LastKnownCents)
	assert.True(t, state.Started())
	assert.Equal(t, now, state.SessionStart)
}

func TestInitBaseline_Idempotent(t *testing.T) {
	now := time.Now()
	snap := model.UsageSnapshot{TotalCents: 1000, HasTotal: true}

	first := monitor.InitBaseline(snap, now)
	second := monitor.InitBaseline(snap, now)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(0), second.SpendingCents)
}

func TestInitBaseline_EventSumFallback(t *testing.T) {
	snap := model.UsageSnapshot{
		Events: []model.UsageEvent{{PriceCents: 30}, {PriceCents: 12}},
	}

	state := monitor.InitBaseline(snap, time.Now())
	assert.Equal(t, int64(42), state.BaselineCents)
}

func TestInitBaseline_NoDataIsZero(t *testing.T) {
	state := monitor.InitBaseline(model.UsageSnapshot{}, time.Now())
	assert.Equal(t, int64(0), state.BaselineCents)
}

func TestUpdateSpending(t *testing.T) {
	tests := []struct {
		name     string
		baseline int64
		total    int64
		want     int64
	}{
		{"above baseline", 1000, 1217, 217},
		{"equal to baseline", 1000, 1000, 0},
		{"below baseline clamps to zero", 1000, 400, 0},
		{"zero baseline", 0, 300, 300},
		{"upstream reset clamps to zero", 1000, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := model.MonitorState{BaselineCents: tt.baseline, SessionStart: time.Now()}
			snap := model.UsageSnapshot{TotalCents: tt.total, HasTotal: true}

			newState, spending := monitor.UpdateSpending(state, snap)
			assert.Equal(t, tt.want, spending)
			assert.Equal(t, tt.want, newState.SpendingCents)
			assert.Equal(t, tt.baseline, newState.BaselineCents, "baseline must not move")
		})
	}
}
