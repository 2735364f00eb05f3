package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/emreakca/cursorwatch/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLite implements the Storage interface using an SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens or creates an SQLite database at the given path.
func NewSQLite(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) LoadState(ctx context.Context) (model.MonitorState, error) {
	var (
		state                                 model.MonitorState
		lastNotify, snoozeUntil, sessionStart int64
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT session_baseline, session_spending, last_known_spending,
		        last_notify_at, snooze_until, session_start, last_error
		 FROM monitor_state WHERE id = 1`,
	).Scan(&state.BaselineCents, &state.SpendingCents, &state.LastKnownCents,
		&lastNotify, &snoozeUntil, &sessionStart, &state.LastError)
	if err == sql.ErrNoRows {
		return model.MonitorState{}, nil
	}
	if err != nil {
		return model.MonitorState{}, fmt.Errorf("load monitor state: %w", err)
	}

	state.LastNotifyAt = fromNanos(lastNotify)
	state.SnoozeUntil = fromNanos(snoozeUntil)
	state.SessionStart = fromNanos(sessionStart)
	return state, nil
}

func (s *SQLite) SaveState(ctx context.Context, state model.MonitorState) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO monitor_state
		   (id, session_baseline, session_spending, last_known_spending,
		    last_notify_at, snooze_until, session_start, last_error, updated_at)
		 VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   session_baseline = excluded.session_baseline,
		   session_spending = excluded.session_spending,
		   last_known_spending = excluded.last_known_spending,
		   last_notify_at = excluded.last_notify_at,
		   snooze_until = excluded.snooze_until,
		   session_start = excluded.session_start,
		   last_error = excluded.last_error,
		   updated_at = excluded.updated_at`,
		state.BaselineCents, state.SpendingCents, state.LastKnownCents,
		toNanos(state.LastNotifyAt), toNanos(state.SnoozeUntil),
		toNanos(state.SessionStart), state.LastError, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save monitor state: %w", err)
	}
	return nil
}

func (s *SQLite) AppendHistory(ctx context.Context, point model.HistoryPoint) error {
	if point.ID == "" {
		point.ID = uuid.New().String()
	}
	if point.At.IsZero() {
		point.At = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history append: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO spend_history (id, at, amount_cents) VALUES (?, ?, ?)`,
		point.ID, point.At.UnixNano(), point.AmountCents,
	)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert history point: %w", err)
	}

	// Keep only the newest HistoryLimit entries.
	_, err = tx.ExecContext(ctx,
		`DELETE FROM spend_history WHERE id NOT IN (
			SELECT id FROM spend_history ORDER BY at DESC LIMIT ?
		)`, HistoryLimit,
	)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prune history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history append: %w", err)
	}
	return nil
}

func (s *SQLite) History(ctx context.Context, limit int) ([]model.HistoryPoint, error) {
	if limit <= 0 || limit > HistoryLimit {
		limit = HistoryLimit
	}

	// Select the newest entries, then return them oldest first.
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, at, amount_cents FROM (
			SELECT id, at, amount_cents FROM spend_history ORDER BY at DESC LIMIT ?
		) ORDER BY at ASC`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var points []model.HistoryPoint
	for rows.Next() {
		var (
			p  model.HistoryPoint
			at int64
		)
		if err := rows.Scan(&p.ID, &at, &p.AmountCents); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		p.At = fromNanos(at)
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *SQLite) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM monitor_state`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear monitor state: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM spend_history`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear history: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func toNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}
