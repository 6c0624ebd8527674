package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migration is one ordered schema step. Versions are applied in slice order
// and recorded in schema_migrations so reruns are no-ops.
type migration struct {
	Version int
	Name    string
	SQL     string
}

var migrations = []migration{
	{
		Version: 1,
		Name:    "create_users",
		SQL: `
			CREATE TABLE IF NOT EXISTS users (
				id            TEXT PRIMARY KEY,
				email         TEXT NOT NULL UNIQUE,
				display_name  TEXT NOT NULL,
				password_hash TEXT NOT NULL,
				disabled      INTEGER NOT NULL DEFAULT 0,
				created_at    TEXT NOT NULL,
				updated_at    TEXT NOT NULL
			);
		`,
	},
	{
		Version: 2,
		Name:    "create_sessions",
		SQL: `
			CREATE TABLE IF NOT EXISTS sessions (
				id         TEXT PRIMARY KEY,
				user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				token      TEXT NOT NULL UNIQUE,
				expires_at TEXT NOT NULL,
				revoked_at TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
		`,
	},
	{
		Version: 3,
		Name:    "create_availability",
		SQL: `
			CREATE TABLE IF NOT EXISTS availability_patterns (
				user_id    TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
				timezone   TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			);
			CREATE TABLE IF NOT EXISTS availability_days (
				user_id     TEXT NOT NULL REFERENCES availability_patterns(user_id) ON DELETE CASCADE,
				day_of_week TEXT NOT NULL,
				workday     INTEGER NOT NULL,
				start_time  TEXT NOT NULL,
				end_time    TEXT NOT NULL,
				PRIMARY KEY (user_id, day_of_week)
			);
		`,
	},
	{
		Version: 4,
		Name:    "create_appointments",
		SQL: `
			CREATE TABLE IF NOT EXISTS appointments (
				id                 TEXT PRIMARY KEY,
				user_id            TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				kind               TEXT NOT NULL,
				date               TEXT NOT NULL,
				title              TEXT NOT NULL,
				start_time         TEXT NOT NULL,
				end_time           TEXT NOT NULL,
				client_name        TEXT NOT NULL DEFAULT '',
				contact_type       TEXT,
				contact_value      TEXT,
				design_description TEXT,
				placement          TEXT,
				size               TEXT,
				color              INTEGER,
				created_at         TEXT NOT NULL,
				updated_at         TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_appointments_user_date ON appointments(user_id, date);
		`,
	},
}

// Migrate applies all pending schema migrations.
func Migrate(ctx context.Context, pool *ConnectionPool) error {
	if _, err := pool.DB().ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		)
	`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		applied, err := migrationApplied(ctx, pool, m.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		err = pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.SQL); err != nil {
				return fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Name, err)
			}
			if _, err := tx.Exec(
				`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`,
				m.Version, m.Name,
			); err != nil {
				return fmt.Errorf("record migration %d: %w", m.Version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func migrationApplied(ctx context.Context, pool *ConnectionPool, version int) (bool, error) {
	var count int
	err := pool.DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check migration %d: %w", version, err)
	}
	return count > 0, nil
}
