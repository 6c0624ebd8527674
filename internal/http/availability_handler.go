package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/studio-scheduler/internal/application"
	"github.com/example/studio-scheduler/internal/availability"
)

type availabilityService interface {
	GetWeek(ctx context.Context, principal application.Principal) (availability.Week, error)
	PutWeek(ctx context.Context, params application.PutAvailabilityParams) (availability.Week, error)
	Reset(ctx context.Context, principal application.Principal) (availability.Week, error)
	Summary(ctx context.Context, principal application.Principal) (application.AvailabilitySummary, error)
}

type AvailabilityHandler struct {
	service   availabilityService
	responder responder
	logger    *slog.Logger
}

func NewAvailabilityHandler(service availabilityService, logger *slog.Logger) *AvailabilityHandler {
	base := defaultLogger(logger)
	return &AvailabilityHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AvailabilityHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AvailabilityHandler", operation, attrs...)
}

// Get returns the acting user's weekly pattern, falling back to the default
// pattern when none is stored.
func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Get", "principal_id", principal.UserID)

	week, err := h.service.GetWeek(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "availability lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toAvailabilityResponse(week))
}

// Put stores a complete weekly pattern for the acting user.
func (h *AvailabilityHandler) Put(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Put", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode availability request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Put", "principal_id", principal.UserID)

	week, err := h.service.PutWeek(r.Context(), application.PutAvailabilityParams{
		Principal: principal,
		Days:      toAvailabilityDays(req.Workdays),
		Timezone:  req.Timezone,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "availability update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "availability updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toAvailabilityResponse(week))
}

// Reset deletes the stored pattern and returns the default one.
func (h *AvailabilityHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Reset", "principal_id", principal.UserID)

	week, err := h.service.Reset(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "availability reset failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "availability reset to default")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toAvailabilityResponse(week))
}

// Summary reports aggregate statistics over the acting user's pattern.
func (h *AvailabilityHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Summary", "principal_id", principal.UserID)

	summary, err := h.service.Summary(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "availability summary failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, availabilitySummaryDTO{
		WorkdayCount:        summary.WorkdayCount,
		TotalWeeklyMinutes:  summary.TotalWeeklyMinutes,
		AverageDailyMinutes: summary.AverageDailyMinutes,
	})
}

type availabilityRequest struct {
	Timezone string           `json:"timezone"`
	Workdays []workdayPayload `json:"workdays"`
}

type availabilityResponse struct {
	Timezone string           `json:"timezone"`
	Workdays []workdayPayload `json:"workdays"`
	Default  bool             `json:"default"`
}

type workdayPayload struct {
	DayOfWeek string `json:"dayOfWeek"`
	Workday   bool   `json:"workday"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type availabilitySummaryDTO struct {
	WorkdayCount        int `json:"workdayCount"`
	TotalWeeklyMinutes  int `json:"totalWeeklyMinutes"`
	AverageDailyMinutes int `json:"averageDailyMinutes"`
}

func toAvailabilityDays(payload []workdayPayload) []availability.Day {
	if len(payload) == 0 {
		return nil
	}
	days := make([]availability.Day, 0, len(payload))
	for _, day := range payload {
		days = append(days, availability.Day{
			DayOfWeek: availability.Weekday(day.DayOfWeek),
			Workday:   day.Workday,
			StartTime: day.StartTime,
			EndTime:   day.EndTime,
		})
	}
	return days
}

func toAvailabilityResponse(week availability.Week) availabilityResponse {
	resp := availabilityResponse{
		Timezone: week.Timezone,
		Workdays: make([]workdayPayload, 0, len(week.Days)),
		Default:  week.Default,
	}
	for _, day := range week.Days {
		resp.Workdays = append(resp.Workdays, workdayPayload{
			DayOfWeek: string(day.DayOfWeek),
			Workday:   day.Workday,
			StartTime: day.StartTime,
			EndTime:   day.EndTime,
		})
	}
	return resp
}
