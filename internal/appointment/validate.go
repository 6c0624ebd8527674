package appointment

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/example/studio-scheduler/internal/timegrid"
	"github.com/example/studio-scheduler/internal/validation"
)

const (
	minClientNameLength  = 2
	minTitleLength       = 3
	minDescriptionLength = 5
)

const dateLayout = "2006-01-02"

var validate = validator.New()

// Input is the untyped wire shape submitted when creating or replacing an
// appointment. ClassifyAndValidate narrows it into one union variant.
type Input struct {
	UserID            string
	Date              string
	Title             string
	StartTime         string
	EndTime           string
	ClientName        string
	Contact           *ContactInput
	DesignDescription string
	Placement         string
	Size              string
	Color             *bool
}

// ContactInput is the raw contact payload before its discriminant is checked.
type ContactInput struct {
	ContactType  string
	ContactValue string
}

// ClassifyAndValidate dispatches on the appointment type to the matching
// field-set validator and returns the typed variant. Validation is
// all-or-nothing: any violation yields a *validation.Error naming the
// offending field paths and no appointment.
func ClassifyAndValidate(input Input, kind Type) (Appointment, error) {
	vErr := &validation.Error{}

	if !kind.Valid() {
		vErr.Add("appointmentType", fmt.Sprintf("invalid appointment type %q", kind))
		return nil, vErr
	}

	core := validateCore(input, vErr)

	var appt Appointment
	switch kind {
	case TypeNewTattoo:
		clientName := validateClientName(input, vErr)
		contact := validateContact(input.Contact, vErr)
		if len(input.DesignDescription) < minDescriptionLength {
			vErr.Add("designDescription", fmt.Sprintf("design description must be at least %d characters long", minDescriptionLength))
		}
		appt = NewTattoo{
			Core:              core,
			ClientName:        clientName,
			Contact:           contact,
			DesignDescription: input.DesignDescription,
			Placement:         input.Placement,
			Size:              input.Size,
			Color:             input.Color,
		}
	case TypeTouchUp:
		appt = TouchUp{
			Core:       core,
			ClientName: validateClientName(input, vErr),
			Contact:    validateContact(input.Contact, vErr),
		}
	case TypeConsultation:
		appt = Consultation{
			Core:       core,
			ClientName: validateClientName(input, vErr),
			Contact:    validateContact(input.Contact, vErr),
		}
	case TypeBlocker:
		if input.Contact != nil {
			vErr.Add("contact", "blockers do not carry a contact")
		}
		appt = Blocker{
			Core:       core,
			ClientName: validateClientName(input, vErr),
		}
	}

	if vErr.HasErrors() {
		return nil, vErr
	}
	return appt, nil
}

func validateCore(input Input, vErr *validation.Error) Core {
	if input.UserID == "" {
		vErr.Add("userId", "user id is required")
	}
	if _, err := time.Parse(dateLayout, input.Date); err != nil {
		vErr.Add("date", "date must be an ISO calendar date (YYYY-MM-DD)")
	}
	if len(input.Title) < minTitleLength {
		vErr.Add("title", fmt.Sprintf("title must be at least %d characters long", minTitleLength))
	}

	start, startErr := timegrid.ToMinutes(input.StartTime)
	if startErr != nil {
		vErr.Add("startTime", "start time must be in HH:mm format (24-hour)")
	}
	end, endErr := timegrid.ToMinutes(input.EndTime)
	if endErr != nil {
		vErr.Add("endTime", "end time must be in HH:mm format (24-hour)")
	}
	if startErr == nil && endErr == nil && end <= start {
		vErr.Add("endTime", "end time must be after start time")
	}

	return Core{
		UserID:    input.UserID,
		Date:      input.Date,
		Title:     input.Title,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
	}
}

func validateClientName(input Input, vErr *validation.Error) string {
	if len(input.ClientName) < minClientNameLength {
		vErr.Add("clientName", fmt.Sprintf("client name must be at least %d characters long", minClientNameLength))
	}
	return input.ClientName
}

// validateContact performs the secondary dispatch on the contact
// discriminant. Instagram needs any non-empty handle, WhatsApp an E.164
// phone number, EMail a syntactically valid address.
func validateContact(input *ContactInput, vErr *validation.Error) Contact {
	if input == nil {
		vErr.Add("contact", "contact is required")
		return Contact{}
	}

	contact := Contact{Type: ContactType(input.ContactType), Value: input.ContactValue}
	switch contact.Type {
	case ContactInstagram:
		if input.ContactValue == "" {
			vErr.Add("contact.contactValue", "Instagram handle must be at least 1 character")
		}
	case ContactWhatsApp:
		if err := validate.Var(input.ContactValue, "required,e164"); err != nil {
			vErr.Add("contact.contactValue", "WhatsApp number must be a valid phone number with country code (e.g., +1234567890)")
		}
	case ContactEMail:
		if err := validate.Var(input.ContactValue, "required,email"); err != nil {
			vErr.Add("contact.contactValue", "invalid email address format")
		}
	default:
		vErr.Add("contact.contactType", fmt.Sprintf("unknown contact type %q", input.ContactType))
	}
	return contact
}
