package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/studio-scheduler/internal/persistence"
)

// AvailabilityRepository implements persistence.AvailabilityRepository using SQLite.
type AvailabilityRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewAvailabilityRepository creates a new SQLite availability repository.
func NewAvailabilityRepository(pool *ConnectionPool) *AvailabilityRepository {
	return &AvailabilityRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// GetPattern loads a user's stored weekly pattern with its day rows.
func (r *AvailabilityRepository) GetPattern(ctx context.Context, userID string) (persistence.AvailabilityPattern, error) {
	if userID == "" {
		return persistence.AvailabilityPattern{}, persistence.ErrNotFound
	}

	var pattern persistence.AvailabilityPattern
	var createdAtStr, updatedAtStr string

	err := r.helper.QueryRow(ctx, `
		SELECT user_id, timezone, created_at, updated_at
		FROM availability_patterns
		WHERE user_id = ?
	`, userID).Scan(&pattern.UserID, &pattern.Timezone, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.AvailabilityPattern{}, persistence.ErrNotFound
		}
		return persistence.AvailabilityPattern{}, r.mapper.MapError(err)
	}

	if pattern.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.AvailabilityPattern{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if pattern.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.AvailabilityPattern{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	rows, err := r.helper.Query(ctx, `
		SELECT day_of_week, workday, start_time, end_time
		FROM availability_days
		WHERE user_id = ?
	`, userID)
	if err != nil {
		return persistence.AvailabilityPattern{}, r.mapper.MapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var day persistence.AvailabilityDay
		var workday int
		if err := rows.Scan(&day.DayOfWeek, &workday, &day.StartTime, &day.EndTime); err != nil {
			return persistence.AvailabilityPattern{}, r.mapper.MapError(err)
		}
		day.Workday = workday != 0
		pattern.Days = append(pattern.Days, day)
	}
	if err := rows.Err(); err != nil {
		return persistence.AvailabilityPattern{}, r.mapper.MapError(err)
	}

	return pattern, nil
}

// PutPattern stores a complete weekly pattern, replacing any existing rows
// for the user in one transaction.
func (r *AvailabilityRepository) PutPattern(ctx context.Context, pattern persistence.AvailabilityPattern) (persistence.AvailabilityPattern, error) {
	if pattern.UserID == "" {
		return persistence.AvailabilityPattern{}, persistence.ErrConstraintViolation
	}

	pattern.CreatedAt = pattern.CreatedAt.UTC()
	pattern.UpdatedAt = pattern.UpdatedAt.UTC()

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := r.helper.ExecTx(tx, `
			INSERT INTO availability_patterns (user_id, timezone, created_at, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(user_id) DO UPDATE SET timezone = excluded.timezone, updated_at = excluded.updated_at
		`,
			pattern.UserID,
			pattern.Timezone,
			pattern.CreatedAt.Format(time.RFC3339),
			pattern.UpdatedAt.Format(time.RFC3339),
		); err != nil {
			return r.mapAvailabilityError(err)
		}

		if _, err := r.helper.ExecTx(tx,
			`DELETE FROM availability_days WHERE user_id = ?`, pattern.UserID,
		); err != nil {
			return r.mapAvailabilityError(err)
		}

		for _, day := range pattern.Days {
			if _, err := r.helper.ExecTx(tx, `
				INSERT INTO availability_days (user_id, day_of_week, workday, start_time, end_time)
				VALUES (?, ?, ?, ?, ?)
			`,
				pattern.UserID,
				day.DayOfWeek,
				boolToInt(day.Workday),
				day.StartTime,
				day.EndTime,
			); err != nil {
				return r.mapAvailabilityError(err)
			}
		}
		return nil
	})
	if err != nil {
		return persistence.AvailabilityPattern{}, err
	}

	return pattern, nil
}

// DeletePattern removes a user's stored pattern and its day rows.
func (r *AvailabilityRepository) DeletePattern(ctx context.Context, userID string) error {
	result, err := r.helper.Exec(ctx,
		`DELETE FROM availability_patterns WHERE user_id = ?`, userID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func (r *AvailabilityRepository) mapAvailabilityError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()
	if containsAny(errStr, []string{"FOREIGN KEY constraint failed"}) {
		return persistence.ErrForeignKeyViolation
	}
	if containsAny(errStr, []string{"UNIQUE constraint failed"}) {
		return persistence.ErrDuplicate
	}
	return r.mapper.MapError(err)
}
