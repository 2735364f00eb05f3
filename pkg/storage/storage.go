package storage

import (
	"context"

	"github.com/emreakca/cursorwatch/pkg/model"
)

// HistoryLimit is the number of trailing history points retained.
const HistoryLimit = 100

// Storage defines the persistence layer for monitor state and the
// trailing spending history.
type Storage interface {
	// LoadState returns the persisted monitor state, or a zero state
	// when no session has been started yet.
	LoadState(ctx context.Context) (model.MonitorState, error)

	// SaveState persists the full monitor state atomically.
	SaveState(ctx context.Context, state model.MonitorState) error

	// AppendHistory records one spending point and prunes the history
	// to the HistoryLimit most recent entries.
	AppendHistory(ctx context.Context, point model.HistoryPoint) error

	// History returns up to limit points, oldest first.
	History(ctx context.Context, limit int) ([]model.HistoryPoint, error)

	// Reset clears the monitor state and history so the next tick
	// establishes a fresh baseline.
	Reset(ctx context.Context) error

	// Close releases resources.
	Close() error
}
