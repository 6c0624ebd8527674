package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/studio-scheduler/internal/application"
	"github.com/example/studio-scheduler/internal/appointment"
	"github.com/example/studio-scheduler/internal/availability"
	"github.com/example/studio-scheduler/internal/persistence"
)

var (
	userCounter        uint64
	sessionCounter     uint64
	appointmentCounter uint64
)

var referenceTime = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
// It falls on a Monday so week-view tests can rely on the date arithmetic.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- User fixtures -----------------------------

// UserFixture represents a deterministic practitioner record that can be
// materialised for application or persistence tests.
type UserFixture struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns a deterministic user fixture with optional overrides.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := UserFixture{
		ID:           id,
		Email:        fmt.Sprintf("%s@example.com", id),
		DisplayName:  fmt.Sprintf("User %03d", idx),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(f *UserFixture) {
		f.ID = id
	}
}

// WithUserEmail overrides the generated email address.
func WithUserEmail(email string) UserOption {
	return func(f *UserFixture) {
		f.Email = email
	}
}

// WithUserDisabled marks the fixture account as disabled.
func WithUserDisabled() UserOption {
	return func(f *UserFixture) {
		f.Disabled = true
	}
}

// ToPersistence converts the fixture into a persistence record.
func (f UserFixture) ToPersistence() persistence.User {
	return persistence.User{
		ID:           f.ID,
		Email:        f.Email,
		DisplayName:  f.DisplayName,
		PasswordHash: f.PasswordHash,
		Disabled:     f.Disabled,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// ToApplication converts the fixture into the application view of a user.
func (f UserFixture) ToApplication() application.User {
	return application.User{
		ID:          f.ID,
		Email:       f.Email,
		DisplayName: f.DisplayName,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// ToCredentials converts the fixture into the credential view used by the
// auth service.
func (f UserFixture) ToCredentials() application.UserCredentials {
	return application.UserCredentials{
		User:         f.ToApplication(),
		PasswordHash: f.PasswordHash,
		Disabled:     f.Disabled,
	}
}

// --------------------------- Session fixtures ----------------------------

// SessionFixture represents a deterministic session record.
type SessionFixture struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionOption configures the generated session fixture.
type SessionOption func(*SessionFixture)

// NewSessionFixture returns a deterministic session fixture bound to the
// given user.
func NewSessionFixture(userID string, opts ...SessionOption) SessionFixture {
	idx := atomic.AddUint64(&sessionCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Second)
	fixture := SessionFixture{
		ID:        fmt.Sprintf("session-%03d", idx),
		UserID:    userID,
		Token:     fmt.Sprintf("token-%03d", idx),
		ExpiresAt: created.Add(24 * time.Hour),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSessionExpiry overrides the session expiry instant.
func WithSessionExpiry(expiresAt time.Time) SessionOption {
	return func(f *SessionFixture) {
		f.ExpiresAt = expiresAt
	}
}

// ToPersistence converts the fixture into a persistence record.
func (f SessionFixture) ToPersistence() persistence.Session {
	return persistence.Session{
		ID:        f.ID,
		UserID:    f.UserID,
		Token:     f.Token,
		ExpiresAt: f.ExpiresAt,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// ------------------------- Availability fixtures --------------------------

// StandardDays returns a Monday-to-Friday 10:00-18:00 pattern with the
// weekend off, covering all seven weekdays.
func StandardDays() []availability.Day {
	days := make([]availability.Day, 0, 7)
	for _, name := range availability.Weekdays() {
		switch name {
		case availability.Saturday, availability.Sunday:
			days = append(days, availability.Day{DayOfWeek: name, Workday: false, StartTime: "00:00", EndTime: "23:59"})
		default:
			days = append(days, availability.Day{DayOfWeek: name, Workday: true, StartTime: "10:00", EndTime: "18:00"})
		}
	}
	return days
}

// ------------------------- Appointment fixtures ---------------------------

// AppointmentOption configures a generated appointment input.
type AppointmentOption func(*appointment.Input)

// WithDate overrides the appointment date.
func WithDate(date string) AppointmentOption {
	return func(input *appointment.Input) {
		input.Date = date
	}
}

// WithTimes overrides the appointment start and end times.
func WithTimes(start, end string) AppointmentOption {
	return func(input *appointment.Input) {
		input.StartTime = start
		input.EndTime = end
	}
}

// NewTattooInput returns a valid input for a first tattoo session.
func NewTattooInput(userID string, opts ...AppointmentOption) appointment.Input {
	idx := atomic.AddUint64(&appointmentCounter, 1)
	input := appointment.Input{
		UserID:    userID,
		Date:      referenceTime.Format("2006-01-02"),
		Title:     fmt.Sprintf("Tattoo session %03d", idx),
		StartTime: "10:00",
		EndTime:   "13:00",
		ClientName: fmt.Sprintf(
			"Client %03d", idx,
		),
		Contact: &appointment.ContactInput{
			ContactType:  string(appointment.ContactEMail),
			ContactValue: fmt.Sprintf("client-%03d@example.com", idx),
		},
		DesignDescription: "Koi over waves covering the forearm",
		Placement:         "left forearm",
		Size:              "20cm",
	}
	for _, opt := range opts {
		opt(&input)
	}
	return input
}

// BlockerInput returns a valid input for a blocker entry.
func BlockerInput(userID string, opts ...AppointmentOption) appointment.Input {
	idx := atomic.AddUint64(&appointmentCounter, 1)
	input := appointment.Input{
		UserID:     userID,
		Date:       referenceTime.Format("2006-01-02"),
		Title:      fmt.Sprintf("Blocked slot %03d", idx),
		StartTime:  "09:00",
		EndTime:    "10:00",
		ClientName: "studio errand",
	}
	for _, opt := range opts {
		opt(&input)
	}
	return input
}
