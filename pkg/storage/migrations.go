package storage

import (
	"database/sql"
	"fmt"
)

var migrations = []string{
	// Migration 1: Initial schema. Timestamps are unix nanoseconds;
	// zero means unset.
	`CREATE TABLE IF NOT EXISTS monitor_state (
		id                  INTEGER PRIMARY KEY CHECK (id = 1),
		session_baseline    INTEGER NOT NULL DEFAULT 0,
		session_spending    INTEGER NOT NULL DEFAULT 0,
		last_known_spending INTEGER NOT NULL DEFAULT 0,
		last_notify_at      INTEGER NOT NULL DEFAULT 0,
		snooze_until        INTEGER NOT NULL DEFAULT 0,
		session_start       INTEGER NOT NULL DEFAULT 0,
		last_error          TEXT NOT NULL DEFAULT '',
		updated_at          INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS spend_history (
		id          TEXT PRIMARY KEY,
		at          INTEGER NOT NULL,
		amount_cents INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_spend_history_at ON spend_history(at);

	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
}

// runMigrations applies pending schema migrations.
func runMigrations(db *sql.DB) error {
	// Ensure migration tracking table exists
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("create migration table: %w", err)
	}

	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("check migration version: %w", err)
	}

	for i := currentVersion; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", i+1, err)
		}

		if _, err := tx.Exec(migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("run migration %d: %w", i+1, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", i+1); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", i+1, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", i+1, err)
		}
	}

	return nil
}
