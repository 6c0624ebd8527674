package persistence

import (
	"context"
	"time"
)

// UserRepository exposes CRUD operations for practitioner accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	DeleteUser(ctx context.Context, id string) error
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	UpdateSession(ctx context.Context, session Session) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// AvailabilityRepository stores weekly availability patterns, one per user.
type AvailabilityRepository interface {
	GetPattern(ctx context.Context, userID string) (AvailabilityPattern, error)
	PutPattern(ctx context.Context, pattern AvailabilityPattern) (AvailabilityPattern, error)
	DeletePattern(ctx context.Context, userID string) error
}

// AppointmentRepository stores appointment records.
//
// ReplaceAppointment deletes the stored row and inserts the given one under
// the same identifier in a single transaction.
type AppointmentRepository interface {
	CreateAppointment(ctx context.Context, appt Appointment) (Appointment, error)
	GetAppointment(ctx context.Context, id string) (Appointment, error)
	UpdateAppointment(ctx context.Context, appt Appointment) (Appointment, error)
	ReplaceAppointment(ctx context.Context, appt Appointment) (Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error
	ListAppointments(ctx context.Context, filter AppointmentFilter) ([]Appointment, error)
}
