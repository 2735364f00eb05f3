package storage_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emreakca/cursorwatch/pkg/model"
	"github.com/emreakca/cursorwatch/pkg/storage"
)

func newTestStore(t *testing.T) *storage.SQLite {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := storage.NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadState_Empty(t *testing.T) {
	store := newTestStore(t)

	state, err := store.LoadState(context.Background())
	require.NoError(t, err)
	assert.False(t, state.Started())
	assert.Zero(t, state.BaselineCents)
	assert.True(t, state.LastNotifyAt.IsZero())
}

func TestSaveState_Roundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	want := model.MonitorState{
		BaselineCents:  1000,
		SpendingCents:  217,
		LastKnownCents: 217,
		LastNotifyAt:   now,
		SnoozeUntil:    now.Add(30 * time.Minute),
		SessionStart:   now.Add(-time.Hour),
		LastError:      "cursor: request failed",
	}
	require.NoError(t, store.SaveState(ctx, want))

	got, err := store.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.BaselineCents, got.BaselineCents)
	assert.Equal(t, want.SpendingCents, got.SpendingCents)
	assert.Equal(t, want.LastKnownCents, got.LastKnownCents)
	assert.True(t, want.LastNotifyAt.Equal(got.LastNotifyAt))
	assert.True(t, want.SnoozeUntil.Equal(got.SnoozeUntil))
	assert.True(t, want.SessionStart.Equal(got.SessionStart))
	assert.Equal(t, want.LastError, got.LastError)

	// Second save overwrites the single row.
	want.SpendingCents = 500
	want.LastError = ""
	require.NoError(t, store.SaveState(ctx, want))

	got, err = store.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(500), got.SpendingCents)
	assert.Empty(t, got.LastError)
}

func TestSaveState_ZeroTimesStayZero(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveState(ctx, model.MonitorState{SessionStart: time.Now()}))

	got, err := store.LoadState(ctx)
	require.NoError(t, err)
	assert.True(t, got.LastNotifyAt.IsZero())
	assert.True(t, got.SnoozeUntil.IsZero())
	assert.True(t, got.Started())
}

func TestAppendHistory_PrunesToLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-4 * time.Hour)
	for i := 0; i < storage.HistoryLimit+20; i++ {
		err := store.AppendHistory(ctx, model.HistoryPoint{
			At:          base.Add(time.Duration(i) * time.Minute),
			AmountCents: int64(i),
		})
		require.NoError(t, err)
	}

	points, err := store.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, points, storage.HistoryLimit)

	// The 20 oldest points must be gone and order is oldest-first.
	assert.Equal(t, int64(20), points[0].AmountCents)
	assert.Equal(t, int64(storage.HistoryLimit+19), points[len(points)-1].AmountCents)
	for i := 1; i < len(points); i++ {
		assert.False(t, points[i].At.Before(points[i-1].At),
			fmt.Sprintf("point %d out of order", i))
	}
}

func TestHistory_Limit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 10; i++ {
		require.NoError(t, store.AppendHistory(ctx, model.HistoryPoint{
			At:          base.Add(time.Duration(i) * time.Second),
			AmountCents: int64(i),
		}))
	}

	points, err := store.History(ctx, 3)
	require.NoError(t, err)
	require.Len(t, points, 3)
	// The newest 3, oldest first.
	assert.Equal(t, int64(7), points[0].AmountCents)
	assert.Equal(t, int64(9), points[2].AmountCents)
}

func TestReset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveState(ctx, model.MonitorState{
		BaselineCents: 1000,
		SessionStart:  time.Now(),
	}))
	require.NoError(t, store.AppendHistory(ctx, model.HistoryPoint{AmountCents: 5}))

	require.NoError(t, store.Reset(ctx))

	state, err := store.LoadState(ctx)
	require.NoError(t, err)
	assert.False(t, state.Started())

	points, err := store.History(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, points)
}
