package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/studio-scheduler/internal/persistence"
)

const appointmentColumns = `id, user_id, kind, date, title, start_time, end_time,
	client_name, contact_type, contact_value, design_description, placement, size, color,
	created_at, updated_at`

// AppointmentRepository implements persistence.AppointmentRepository using SQLite.
type AppointmentRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewAppointmentRepository creates a new SQLite appointment repository.
func NewAppointmentRepository(pool *ConnectionPool) *AppointmentRepository {
	return &AppointmentRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateAppointment inserts a new appointment row.
func (r *AppointmentRepository) CreateAppointment(ctx context.Context, appt persistence.Appointment) (persistence.Appointment, error) {
	if appt.ID == "" || appt.UserID == "" {
		return persistence.Appointment{}, persistence.ErrConstraintViolation
	}

	appt.CreatedAt = appt.CreatedAt.UTC()
	appt.UpdatedAt = appt.UpdatedAt.UTC()

	if _, err := r.helper.Exec(ctx,
		insertAppointmentSQL, insertAppointmentArgs(appt)...,
	); err != nil {
		return persistence.Appointment{}, r.mapAppointmentError(err)
	}
	return appt, nil
}

// GetAppointment loads an appointment by identifier.
func (r *AppointmentRepository) GetAppointment(ctx context.Context, id string) (persistence.Appointment, error) {
	row := r.helper.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = ?`, id,
	)
	appt, err := scanAppointment(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Appointment{}, persistence.ErrNotFound
		}
		return persistence.Appointment{}, r.mapAppointmentError(err)
	}
	return appt, nil
}

// UpdateAppointment rewrites an existing row in place.
func (r *AppointmentRepository) UpdateAppointment(ctx context.Context, appt persistence.Appointment) (persistence.Appointment, error) {
	appt.CreatedAt = appt.CreatedAt.UTC()
	appt.UpdatedAt = appt.UpdatedAt.UTC()

	result, err := r.helper.Exec(ctx, `
		UPDATE appointments
		SET kind = ?, date = ?, title = ?, start_time = ?, end_time = ?,
			client_name = ?, contact_type = ?, contact_value = ?,
			design_description = ?, placement = ?, size = ?, color = ?,
			updated_at = ?
		WHERE id = ?
	`,
		appt.Kind,
		appt.Date,
		appt.Title,
		appt.StartTime,
		appt.EndTime,
		appt.ClientName,
		appt.ContactType,
		appt.ContactValue,
		appt.DesignDescription,
		appt.Placement,
		appt.Size,
		nullableBool(appt.Color),
		appt.UpdatedAt.Format(time.RFC3339),
		appt.ID,
	)
	if err != nil {
		return persistence.Appointment{}, r.mapAppointmentError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return persistence.Appointment{}, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.Appointment{}, persistence.ErrNotFound
	}
	return appt, nil
}

// ReplaceAppointment deletes the stored row and inserts the given one under
// the same identifier in a single transaction. Used when an appointment
// changes kind and the column set no longer lines up with an UPDATE.
func (r *AppointmentRepository) ReplaceAppointment(ctx context.Context, appt persistence.Appointment) (persistence.Appointment, error) {
	if appt.ID == "" || appt.UserID == "" {
		return persistence.Appointment{}, persistence.ErrConstraintViolation
	}

	appt.CreatedAt = appt.CreatedAt.UTC()
	appt.UpdatedAt = appt.UpdatedAt.UTC()

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := r.helper.ExecTx(tx,
			`DELETE FROM appointments WHERE id = ?`, appt.ID,
		)
		if err != nil {
			return r.mapAppointmentError(err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return persistence.ErrNotFound
		}

		if _, err := r.helper.ExecTx(tx,
			insertAppointmentSQL, insertAppointmentArgs(appt)...,
		); err != nil {
			return r.mapAppointmentError(err)
		}
		return nil
	})
	if err != nil {
		return persistence.Appointment{}, err
	}
	return appt, nil
}

// DeleteAppointment removes an appointment by identifier.
func (r *AppointmentRepository) DeleteAppointment(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx,
		`DELETE FROM appointments WHERE id = ?`, id,
	)
	if err != nil {
		return r.mapAppointmentError(err)
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

// ListAppointments returns a user's appointments, optionally bounded by the
// filter's date range (From inclusive, To exclusive), ordered by date and
// start time.
func (r *AppointmentRepository) ListAppointments(ctx context.Context, filter persistence.AppointmentFilter) ([]persistence.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE user_id = ?`
	args := []any{filter.UserID}

	if filter.From != "" {
		query += ` AND date >= ?`
		args = append(args, filter.From)
	}
	if filter.To != "" {
		query += ` AND date < ?`
		args = append(args, filter.To)
	}
	query += ` ORDER BY date, start_time, id`

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapAppointmentError(err)
	}
	defer rows.Close()

	var appointments []persistence.Appointment
	for rows.Next() {
		appt, err := scanAppointmentRows(rows)
		if err != nil {
			return nil, r.mapAppointmentError(err)
		}
		appointments = append(appointments, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapAppointmentError(err)
	}
	return appointments, nil
}

const insertAppointmentSQL = `
	INSERT INTO appointments (` + appointmentColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func insertAppointmentArgs(appt persistence.Appointment) []any {
	return []any{
		appt.ID,
		appt.UserID,
		appt.Kind,
		appt.Date,
		appt.Title,
		appt.StartTime,
		appt.EndTime,
		appt.ClientName,
		appt.ContactType,
		appt.ContactValue,
		appt.DesignDescription,
		appt.Placement,
		appt.Size,
		nullableBool(appt.Color),
		appt.CreatedAt.Format(time.RFC3339),
		appt.UpdatedAt.Format(time.RFC3339),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row *sql.Row) (persistence.Appointment, error) {
	return scanAppointmentFrom(row)
}

func scanAppointmentRows(rows *sql.Rows) (persistence.Appointment, error) {
	return scanAppointmentFrom(rows)
}

func scanAppointmentFrom(scanner rowScanner) (persistence.Appointment, error) {
	var appt persistence.Appointment
	var color sql.NullInt64
	var createdAtStr, updatedAtStr string

	err := scanner.Scan(
		&appt.ID,
		&appt.UserID,
		&appt.Kind,
		&appt.Date,
		&appt.Title,
		&appt.StartTime,
		&appt.EndTime,
		&appt.ClientName,
		&appt.ContactType,
		&appt.ContactValue,
		&appt.DesignDescription,
		&appt.Placement,
		&appt.Size,
		&color,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.Appointment{}, err
	}

	if color.Valid {
		value := color.Int64 != 0
		appt.Color = &value
	}
	if appt.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Appointment{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if appt.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Appointment{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return appt, nil
}

func nullableBool(value *bool) any {
	if value == nil {
		return nil
	}
	return boolToInt(*value)
}

func (r *AppointmentRepository) mapAppointmentError(err error) error {
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
