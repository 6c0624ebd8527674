package application

import (
	"time"

	"github.com/example/studio-scheduler/internal/appointment"
	"github.com/example/studio-scheduler/internal/availability"
)

// Principal represents the authenticated practitioner invoking a service method.
type Principal struct {
	UserID string
}

// User represents a practitioner account exposed by the application services.
type User struct {
	ID          string
	Email       string
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserCredentials models the authentication attributes persisted for a user.
type UserCredentials struct {
	User         User
	PasswordHash string
	Disabled     bool
}

// Session represents an authenticated session issued to a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// RegisterUserParams captures the data required to create a practitioner account.
type RegisterUserParams struct {
	Email       string
	DisplayName string
	Password    string
}

// UpdateProfileParams captures the mutable profile fields of the acting user.
type UpdateProfileParams struct {
	Principal   Principal
	Email       string
	DisplayName string
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication attempt.
type AuthenticateResult struct {
	User    User
	Session Session
}

// RefreshSessionParams captures the data required to refresh an existing session.
type RefreshSessionParams struct {
	Token string
}

// RefreshSessionResult captures the outcome of rotating a session token.
type RefreshSessionResult struct {
	Session Session
}

// PutAvailabilityParams carries a caller supplied weekly availability pattern.
type PutAvailabilityParams struct {
	Principal Principal
	Days      []availability.Day
	Timezone  string
}

// AvailabilitySummary reports aggregate statistics over a weekly pattern.
type AvailabilitySummary struct {
	WorkdayCount        int
	TotalWeeklyMinutes  int
	AverageDailyMinutes int
}

// CreateAppointmentParams wraps the data required to create an appointment.
type CreateAppointmentParams struct {
	Principal Principal
	Kind      appointment.Type
	Input     appointment.Input
}

// UpdateAppointmentParams wraps the data required to update an existing appointment.
//
// When Kind differs from the stored appointment's kind, the entry is replaced
// with a freshly validated one of the new kind under the same identifier.
type UpdateAppointmentParams struct {
	Principal     Principal
	AppointmentID string
	Kind          appointment.Type
	Input         appointment.Input
}

// ListAppointmentsParams narrows an appointment listing to an optional date range.
type ListAppointmentsParams struct {
	Principal Principal
	From      string
	To        string
	// Kind narrows the listing to one appointment type when set.
	Kind appointment.Type
}

// WeekViewParams identifies the calendar week to assemble for the acting user.
type WeekViewParams struct {
	Principal Principal
	// Reference is any ISO date inside the requested week; it is normalized
	// to the week's Monday. Empty means the current week.
	Reference string
}
