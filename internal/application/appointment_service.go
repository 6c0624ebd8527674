package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/studio-scheduler/internal/appointment"
	"github.com/example/studio-scheduler/internal/validation"
)

// AppointmentRepository captures the persistence interactions for appointments.
//
// ReplaceAppointment swaps the stored entry for a new one under the same
// identifier in a single transaction; it backs appointment type changes.
type AppointmentRepository interface {
	CreateAppointment(ctx context.Context, appt appointment.Appointment) (appointment.Appointment, error)
	GetAppointment(ctx context.Context, id string) (appointment.Appointment, error)
	UpdateAppointment(ctx context.Context, appt appointment.Appointment) (appointment.Appointment, error)
	ReplaceAppointment(ctx context.Context, appt appointment.Appointment) (appointment.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error
	ListAppointments(ctx context.Context, userID, from, to string) ([]appointment.Appointment, error)
}

// AppointmentService orchestrates validation, ownership checks, and
// persistence for the four appointment kinds.
type AppointmentService struct {
	appointments AppointmentRepository
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewAppointmentService wires dependencies for the appointment service.
func NewAppointmentService(appointments AppointmentRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *AppointmentService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &AppointmentService{
		appointments: appointments,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *AppointmentService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AppointmentService", operation, attrs...)
}

// Create validates the input against the requested kind and persists a new
// appointment owned by the acting user.
func (s *AppointmentService) Create(ctx context.Context, params CreateAppointmentParams) (appointment.Appointment, error) {
	if s == nil {
		return nil, fmt.Errorf("AppointmentService is nil")
	}
	if s.appointments == nil {
		return nil, fmt.Errorf("appointment repository not configured")
	}
	if params.Principal.UserID == "" {
		return nil, ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "Create", "user_id", params.Principal.UserID, "kind", string(params.Kind))

	input := params.Input
	input.UserID = params.Principal.UserID

	appt, err := appointment.ClassifyAndValidate(input, params.Kind)
	if err != nil {
		logger.ErrorContext(ctx, "appointment rejected", "error_kind", ErrorKind(err))
		return nil, err
	}

	now := s.now()
	appt = withIdentity(appt, s.idGenerator(), now, now)

	persisted, err := s.appointments.CreateAppointment(ctx, appt)
	if err != nil {
		logger.ErrorContext(ctx, "appointment create failed", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}

	logger.With("appointment_id", persisted.Common().ID).InfoContext(ctx, "appointment created")
	return persisted, nil
}

// Get returns a single appointment owned by the acting user. Appointments
// owned by other accounts are reported as not found.
func (s *AppointmentService) Get(ctx context.Context, principal Principal, appointmentID string) (appointment.Appointment, error) {
	if s == nil {
		return nil, fmt.Errorf("AppointmentService is nil")
	}
	if s.appointments == nil {
		return nil, fmt.Errorf("appointment repository not configured")
	}
	if principal.UserID == "" {
		return nil, ErrUnauthorized
	}

	appt, err := s.appointments.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Common().UserID != principal.UserID {
		return nil, ErrNotFound
	}
	return appt, nil
}

// List returns the acting user's appointments, optionally narrowed to a date
// range. From is inclusive and To exclusive; either may be empty.
func (s *AppointmentService) List(ctx context.Context, params ListAppointmentsParams) ([]appointment.Appointment, error) {
	if s == nil {
		return nil, fmt.Errorf("AppointmentService is nil")
	}
	if s.appointments == nil {
		return nil, fmt.Errorf("appointment repository not configured")
	}
	if params.Principal.UserID == "" {
		return nil, ErrUnauthorized
	}

	vErr := &validation.Error{}
	for field, value := range map[string]string{"from": params.From, "to": params.To} {
		if value == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", value); err != nil {
			vErr.Add(field, "must be an ISO calendar date")
		}
	}
	if params.Kind != "" && !params.Kind.Valid() {
		vErr.Add("appointmentType", "must be one of NewTattoo, TouchUp, Consultation, Blocker")
	}
	if vErr.HasErrors() {
		return nil, vErr
	}

	appointments, err := s.appointments.ListAppointments(ctx, params.Principal.UserID, params.From, params.To)
	if err != nil {
		return nil, err
	}
	if params.Kind == "" {
		return appointments, nil
	}
	filtered := appointments[:0]
	for _, appt := range appointments {
		if appt.Kind() == params.Kind {
			filtered = append(filtered, appt)
		}
	}
	return filtered, nil
}

// Update revalidates the full input against the requested kind and stores the
// result. Changing the kind replaces the stored entry with a new one of the
// target kind while keeping the identifier and creation timestamp.
func (s *AppointmentService) Update(ctx context.Context, params UpdateAppointmentParams) (appointment.Appointment, error) {
	if s == nil {
		return nil, fmt.Errorf("AppointmentService is nil")
	}
	if s.appointments == nil {
		return nil, fmt.Errorf("appointment repository not configured")
	}
	if params.Principal.UserID == "" {
		return nil, ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "Update",
		"user_id", params.Principal.UserID,
		"appointment_id", params.AppointmentID,
		"kind", string(params.Kind),
	)

	existing, err := s.appointments.GetAppointment(ctx, params.AppointmentID)
	if err != nil {
		return nil, err
	}
	existingCore := existing.Common()
	if existingCore.UserID != params.Principal.UserID {
		return nil, ErrNotFound
	}

	input := params.Input
	input.UserID = params.Principal.UserID

	appt, err := appointment.ClassifyAndValidate(input, params.Kind)
	if err != nil {
		logger.ErrorContext(ctx, "appointment rejected", "error_kind", ErrorKind(err))
		return nil, err
	}
	appt = withIdentity(appt, existingCore.ID, existingCore.CreatedAt, s.now())

	var persisted appointment.Appointment
	if existing.Kind() == params.Kind {
		persisted, err = s.appointments.UpdateAppointment(ctx, appt)
	} else {
		persisted, err = s.appointments.ReplaceAppointment(ctx, appt)
	}
	if err != nil {
		logger.ErrorContext(ctx, "appointment update failed", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}

	logger.With("kind_changed", existing.Kind() != params.Kind).InfoContext(ctx, "appointment updated")
	return persisted, nil
}

// Delete removes an appointment owned by the acting user.
func (s *AppointmentService) Delete(ctx context.Context, principal Principal, appointmentID string) error {
	if s == nil {
		return fmt.Errorf("AppointmentService is nil")
	}
	if s.appointments == nil {
		return fmt.Errorf("appointment repository not configured")
	}
	if principal.UserID == "" {
		return ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "Delete", "user_id", principal.UserID, "appointment_id", appointmentID)

	existing, err := s.appointments.GetAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	if existing.Common().UserID != principal.UserID {
		return ErrNotFound
	}

	if err := s.appointments.DeleteAppointment(ctx, appointmentID); err != nil {
		logger.ErrorContext(ctx, "appointment delete failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "appointment deleted")
	return nil
}

// withIdentity returns a copy of the variant with identity and timestamps set.
func withIdentity(appt appointment.Appointment, id string, createdAt, updatedAt time.Time) appointment.Appointment {
	switch v := appt.(type) {
	case appointment.NewTattoo:
		v.ID, v.CreatedAt, v.UpdatedAt = id, createdAt, updatedAt
		return v
	case appointment.TouchUp:
		v.ID, v.CreatedAt, v.UpdatedAt = id, createdAt, updatedAt
		return v
	case appointment.Consultation:
		v.ID, v.CreatedAt, v.UpdatedAt = id, createdAt, updatedAt
		return v
	case appointment.Blocker:
		v.ID, v.CreatedAt, v.UpdatedAt = id, createdAt, updatedAt
		return v
	}
	return appt
}
