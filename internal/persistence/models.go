package persistence

import "time"

// User represents a practitioner account with its stored credentials.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session represents an authentication session persisted for a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// AvailabilityDay is one stored row of a weekly availability pattern.
type AvailabilityDay struct {
	DayOfWeek string
	Workday   bool
	StartTime string
	EndTime   string
}

// AvailabilityPattern is a user's complete stored weekly pattern.
type AvailabilityPattern struct {
	UserID    string
	Timezone  string
	Days      []AvailabilityDay
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Appointment is the flattened storage record for all appointment kinds.
// Kind-specific columns are nullable and unused for kinds that do not carry
// them.
type Appointment struct {
	ID                string
	UserID            string
	Kind              string
	Date              string
	Title             string
	StartTime         string
	EndTime           string
	ClientName        string
	ContactType       *string
	ContactValue      *string
	DesignDescription *string
	Placement         *string
	Size              *string
	Color             *bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// AppointmentFilter narrows appointment queries. Date bounds are ISO calendar
// dates; From is inclusive and To exclusive. Empty bounds are ignored.
type AppointmentFilter struct {
	UserID string
	From   string
	To     string
}
