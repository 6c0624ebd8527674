package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/studio-scheduler/internal/application"
	"github.com/example/studio-scheduler/internal/appointment"
)

type appointmentService interface {
	Create(ctx context.Context, params application.CreateAppointmentParams) (appointment.Appointment, error)
	Get(ctx context.Context, principal application.Principal, appointmentID string) (appointment.Appointment, error)
	List(ctx context.Context, params application.ListAppointmentsParams) ([]appointment.Appointment, error)
	Update(ctx context.Context, params application.UpdateAppointmentParams) (appointment.Appointment, error)
	Delete(ctx context.Context, principal application.Principal, appointmentID string) error
}

type AppointmentHandler struct {
	service   appointmentService
	responder responder
	logger    *slog.Logger
}

func NewAppointmentHandler(service appointmentService, logger *slog.Logger) *AppointmentHandler {
	base := defaultLogger(logger)
	return &AppointmentHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AppointmentHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AppointmentHandler", operation, attrs...)
}

// Create books a new appointment of the requested kind for the acting user.
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode appointment request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID, "appointment_type", req.AppointmentType)

	appt, err := h.service.Create(r.Context(), application.CreateAppointmentParams{
		Principal: principal,
		Kind:      appointment.Type(req.AppointmentType),
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "appointment creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("appointment_id", appt.Common().ID).InfoContext(r.Context(), "appointment created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, appointmentResponse{Appointment: toAppointmentDTO(appt)})
}

// Get returns one of the acting user's appointments by identifier.
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	appointmentID, ok := AppointmentIDFromContext(r.Context())
	if !ok || strings.TrimSpace(appointmentID) == "" {
		h.log(r.Context(), "Get", "error_kind", "bad_request").ErrorContext(r.Context(), "missing appointment id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAppointmentID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Get", "principal_id", principal.UserID, "appointment_id", appointmentID)

	appt, err := h.service.Get(r.Context(), principal, appointmentID)
	if err != nil {
		logger.ErrorContext(r.Context(), "appointment lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, appointmentResponse{Appointment: toAppointmentDTO(appt)})
}

// List returns the acting user's appointments, optionally narrowed by the
// from/to query parameters (ISO dates, from inclusive, to exclusive).
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	query := r.URL.Query()
	logger := h.log(r.Context(), "List", "principal_id", principal.UserID)

	appointments, err := h.service.List(r.Context(), application.ListAppointmentsParams{
		Principal: principal,
		From:      strings.TrimSpace(query.Get("from")),
		To:        strings.TrimSpace(query.Get("to")),
		Kind:      appointment.Type(strings.TrimSpace(query.Get("appointmentType"))),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "appointment list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(appointments)).InfoContext(r.Context(), "appointments listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listAppointmentsResponse{Appointments: toAppointmentDTOs(appointments)})
}

// Update rewrites an existing appointment. A changed appointmentType replaces
// the entry with a freshly validated one of the new kind under the same id.
func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	appointmentID, ok := AppointmentIDFromContext(r.Context())
	if !ok || strings.TrimSpace(appointmentID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing appointment id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAppointmentID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.UserID, "appointment_id", appointmentID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode appointment update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "appointment_id", appointmentID)

	appt, err := h.service.Update(r.Context(), application.UpdateAppointmentParams{
		Principal:     principal,
		AppointmentID: appointmentID,
		Kind:          appointment.Type(req.AppointmentType),
		Input:         req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "appointment update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "appointment updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, appointmentResponse{Appointment: toAppointmentDTO(appt)})
}

// Delete removes one of the acting user's appointments.
func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	appointmentID, ok := AppointmentIDFromContext(r.Context())
	if !ok || strings.TrimSpace(appointmentID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing appointment id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAppointmentID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "appointment_id", appointmentID)

	if err := h.service.Delete(r.Context(), principal, appointmentID); err != nil {
		logger.ErrorContext(r.Context(), "appointment delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "appointment deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type appointmentRequest struct {
	AppointmentType   string          `json:"appointmentType"`
	Date              string          `json:"date"`
	Title             string          `json:"title"`
	StartTime         string          `json:"startTime"`
	EndTime           string          `json:"endTime"`
	ClientName        string          `json:"clientName"`
	Contact           *contactPayload `json:"contact,omitempty"`
	DesignDescription string          `json:"designDescription"`
	Placement         string          `json:"placement"`
	Size              string          `json:"size"`
	Color             *bool           `json:"color,omitempty"`
}

func (r appointmentRequest) toInput() appointment.Input {
	input := appointment.Input{
		Date:              strings.TrimSpace(r.Date),
		Title:             strings.TrimSpace(r.Title),
		StartTime:         strings.TrimSpace(r.StartTime),
		EndTime:           strings.TrimSpace(r.EndTime),
		ClientName:        strings.TrimSpace(r.ClientName),
		DesignDescription: strings.TrimSpace(r.DesignDescription),
		Placement:         strings.TrimSpace(r.Placement),
		Size:              strings.TrimSpace(r.Size),
		Color:             r.Color,
	}
	if r.Contact != nil {
		input.Contact = &appointment.ContactInput{
			ContactType:  strings.TrimSpace(r.Contact.ContactType),
			ContactValue: strings.TrimSpace(r.Contact.ContactValue),
		}
	}
	return input
}

type contactPayload struct {
	ContactType  string `json:"contactType"`
	ContactValue string `json:"contactValue"`
}

type appointmentResponse struct {
	Appointment appointmentDTO `json:"appointment"`
}

type listAppointmentsResponse struct {
	Appointments []appointmentDTO `json:"appointments"`
}

type appointmentDTO struct {
	ID                string          `json:"id"`
	AppointmentType   string          `json:"appointmentType"`
	Date              string          `json:"date"`
	Title             string          `json:"title"`
	StartTime         string          `json:"startTime"`
	EndTime           string          `json:"endTime"`
	ClientName        string          `json:"clientName,omitempty"`
	Contact           *contactPayload `json:"contact,omitempty"`
	DesignDescription string          `json:"designDescription,omitempty"`
	Placement         string          `json:"placement,omitempty"`
	Size              string          `json:"size,omitempty"`
	Color             *bool           `json:"color,omitempty"`
	CreatedAt         string          `json:"createdAt"`
	UpdatedAt         string          `json:"updatedAt"`
}

func toAppointmentDTO(appt appointment.Appointment) appointmentDTO {
	core := appt.Common()
	dto := appointmentDTO{
		ID:              core.ID,
		AppointmentType: string(appt.Kind()),
		Date:            core.Date,
		Title:           core.Title,
		StartTime:       core.StartTime,
		EndTime:         core.EndTime,
		CreatedAt:       core.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:       core.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}

	switch a := appt.(type) {
	case appointment.NewTattoo:
		dto.ClientName = a.ClientName
		dto.Contact = toContactPayload(a.Contact)
		dto.DesignDescription = a.DesignDescription
		dto.Placement = a.Placement
		dto.Size = a.Size
		dto.Color = a.Color
	case appointment.TouchUp:
		dto.ClientName = a.ClientName
		dto.Contact = toContactPayload(a.Contact)
	case appointment.Consultation:
		dto.ClientName = a.ClientName
		dto.Contact = toContactPayload(a.Contact)
	case appointment.Blocker:
		dto.ClientName = a.ClientName
	}
	return dto
}

func toContactPayload(contact appointment.Contact) *contactPayload {
	if contact.Type == "" && contact.Value == "" {
		return nil
	}
	return &contactPayload{
		ContactType:  string(contact.Type),
		ContactValue: contact.Value,
	}
}

func toAppointmentDTOs(appointments []appointment.Appointment) []appointmentDTO {
	if len(appointments) == 0 {
		return nil
	}
	out := make([]appointmentDTO, 0, len(appointments))
	for _, appt := range appointments {
		out = append(out, toAppointmentDTO(appt))
	}
	return out
}
