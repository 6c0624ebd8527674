package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/studio-scheduler/internal/application"
	"github.com/example/studio-scheduler/internal/calendar"
	"github.com/example/studio-scheduler/internal/timegrid"
)

type calendarService interface {
	WeekView(ctx context.Context, params application.WeekViewParams) (calendar.WeekView, error)
	ExportICS(ctx context.Context, params application.WeekViewParams) (string, error)
}

type CalendarHandler struct {
	service   calendarService
	responder responder
	logger    *slog.Logger
}

func NewCalendarHandler(service calendarService, logger *slog.Logger) *CalendarHandler {
	base := defaultLogger(logger)
	return &CalendarHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *CalendarHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CalendarHandler", operation, attrs...)
}

// Week assembles the calendar week containing the date given by the optional
// `start` query parameter. Without it the current week is returned.
func (h *CalendarHandler) Week(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	reference := strings.TrimSpace(r.URL.Query().Get("start"))
	logger := h.log(r.Context(), "Week", "principal_id", principal.UserID, "start", reference)

	view, err := h.service.WeekView(r.Context(), application.WeekViewParams{
		Principal: principal,
		Reference: reference,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "week view failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toWeekViewDTO(view))
}

// Export renders the requested week as an iCalendar download.
func (h *CalendarHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	reference := strings.TrimSpace(r.URL.Query().Get("start"))
	logger := h.log(r.Context(), "Export", "principal_id", principal.UserID, "start", reference)

	document, err := h.service.ExportICS(r.Context(), application.WeekViewParams{
		Principal: principal,
		Reference: reference,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "week export failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="week.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(document)); err != nil {
		logger.ErrorContext(r.Context(), "failed to write calendar export", "error", err)
	}
}

type weekViewDTO struct {
	WeekStart string          `json:"weekStart"`
	Window    windowDTO       `json:"window"`
	Labels    []blockLabelDTO `json:"labels"`
	Days      []dayViewDTO    `json:"days"`
}

type windowDTO struct {
	WorkingStart  string `json:"workingStart"`
	WorkingEnd    string `json:"workingEnd"`
	DisplayStart  string `json:"displayStart"`
	DisplayEnd    string `json:"displayEnd"`
	BlockDuration int    `json:"blockDuration"`
	TotalBlocks   int    `json:"totalBlocks"`
}

type blockLabelDTO struct {
	Block int    `json:"block"`
	Label string `json:"label,omitempty"`
}

type dayViewDTO struct {
	Date         string                  `json:"date"`
	DayOfWeek    string                  `json:"dayOfWeek"`
	Workday      bool                    `json:"workday"`
	Appointments []appointmentDTO        `json:"appointments"`
	Placements   map[string]placementDTO `json:"placements"`
	NonWorking   []blockRangeDTO         `json:"nonWorking"`
}

type placementDTO struct {
	Row         int `json:"row"`
	Span        int `json:"span"`
	Column      int `json:"column"`
	ColumnCount int `json:"columnCount"`
}

type blockRangeDTO struct {
	StartBlock int `json:"startBlock"`
	EndBlock   int `json:"endBlock"`
}

func toWeekViewDTO(view calendar.WeekView) weekViewDTO {
	dto := weekViewDTO{
		WeekStart: view.WeekStart,
		Window: windowDTO{
			WorkingStart:  view.Window.WorkingStart,
			WorkingEnd:    view.Window.WorkingEnd,
			DisplayStart:  view.Window.DisplayStart,
			DisplayEnd:    view.Window.DisplayEnd,
			BlockDuration: view.Window.BlockDuration,
			TotalBlocks:   view.Window.TotalBlocks,
		},
		Labels: toBlockLabelDTOs(view.Labels),
		Days:   make([]dayViewDTO, 0, len(view.Days)),
	}

	for _, day := range view.Days {
		dto.Days = append(dto.Days, dayViewDTO{
			Date:         day.Date,
			DayOfWeek:    string(day.Weekday),
			Workday:      day.Workday,
			Appointments: toAppointmentDTOs(day.Appointments),
			Placements:   toPlacementDTOs(day.Placements),
			NonWorking:   toBlockRangeDTOs(day.NonWorking),
		})
	}
	return dto
}

func toBlockLabelDTOs(labels []timegrid.BlockLabel) []blockLabelDTO {
	if len(labels) == 0 {
		return nil
	}
	out := make([]blockLabelDTO, 0, len(labels))
	for _, label := range labels {
		out = append(out, blockLabelDTO{Block: label.Block, Label: label.Label})
	}
	return out
}

func toPlacementDTOs(placements map[string]timegrid.Placement) map[string]placementDTO {
	if len(placements) == 0 {
		return nil
	}
	out := make(map[string]placementDTO, len(placements))
	for id, placement := range placements {
		out[id] = placementDTO{
			Row:         placement.Row,
			Span:        placement.Span,
			Column:      placement.Column,
			ColumnCount: placement.ColumnCount,
		}
	}
	return out
}

func toBlockRangeDTOs(ranges []timegrid.BlockRange) []blockRangeDTO {
	if len(ranges) == 0 {
		return nil
	}
	out := make([]blockRangeDTO, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, blockRangeDTO{StartBlock: r.StartBlock, EndBlock: r.EndBlock})
	}
	return out
}
