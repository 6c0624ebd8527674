// Package appointment models the studio's appointment kinds as a tagged
// union. Each kind carries only its own field set so per-kind invariants stay
// enforceable; a flat record with nullable fields would hide them.
package appointment

import "time"

// Type discriminates the appointment kinds.
type Type string

const (
	TypeNewTattoo    Type = "NewTattoo"
	TypeTouchUp      Type = "TouchUp"
	TypeConsultation Type = "Consultation"
	TypeBlocker      Type = "Blocker"
)

// Valid reports whether the type is a known discriminant.
func (t Type) Valid() bool {
	switch t {
	case TypeNewTattoo, TypeTouchUp, TypeConsultation, TypeBlocker:
		return true
	}
	return false
}

// ContactType discriminates how a client wants to be reached.
type ContactType string

const (
	ContactInstagram ContactType = "Instagram"
	ContactWhatsApp  ContactType = "WhatsApp"
	ContactEMail     ContactType = "EMail"
)

// Contact is a validated client contact: the channel plus the handle, phone
// number, or address appropriate to it.
type Contact struct {
	Type  ContactType
	Value string
}

// Core holds the scheduling fields shared by every appointment kind. Date is
// an ISO calendar date (YYYY-MM-DD); StartTime and EndTime are 24-hour HH:mm
// strings on that date. Appointments never cross midnight.
type Core struct {
	ID        string
	UserID    string
	Date      string
	Title     string
	StartTime string
	EndTime   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Common returns the shared scheduling fields. It also promotes through the
// embedded Core so every kind satisfies Appointment.
func (c Core) Common() Core { return c }

// Appointment is one scheduled entry of any kind.
type Appointment interface {
	Kind() Type
	Common() Core
}

// NewTattoo is a first tattoo session: a client, their contact, and the
// design brief.
type NewTattoo struct {
	Core
	ClientName        string
	Contact           Contact
	DesignDescription string
	Placement         string
	Size              string
	Color             *bool
}

// Kind implements Appointment.
func (NewTattoo) Kind() Type { return TypeNewTattoo }

// TouchUp is a follow-up session on an existing tattoo.
type TouchUp struct {
	Core
	ClientName string
	Contact    Contact
}

// Kind implements Appointment.
func (TouchUp) Kind() Type { return TypeTouchUp }

// Consultation is a planning conversation before any work is booked.
type Consultation struct {
	Core
	ClientName string
	Contact    Contact
}

// Kind implements Appointment.
func (Consultation) Kind() Type { return TypeConsultation }

// Blocker reserves time without a client: holidays, supply runs, rest. The
// ClientName field holds the reason; blockers carry no contact.
type Blocker struct {
	Core
	ClientName string
}

// Kind implements Appointment.
func (Blocker) Kind() Type { return TypeBlocker }
