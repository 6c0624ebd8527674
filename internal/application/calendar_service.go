package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/studio-scheduler/internal/calendar"
	"github.com/example/studio-scheduler/internal/ics"
	"github.com/example/studio-scheduler/internal/validation"
)

// CalendarService assembles renderable week views from the acting user's
// availability pattern and appointments.
type CalendarService struct {
	availability *AvailabilityService
	appointments *AppointmentService
	now          func() time.Time
	logger       *slog.Logger
}

// NewCalendarService wires dependencies for the calendar service.
func NewCalendarService(availability *AvailabilityService, appointments *AppointmentService, now func() time.Time, logger *slog.Logger) *CalendarService {
	if now == nil {
		now = time.Now
	}
	return &CalendarService{
		availability: availability,
		appointments: appointments,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *CalendarService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CalendarService", operation, attrs...)
}

// WeekView builds the calendar week containing the reference date. The
// reference may be any day of the week; it is normalized to the week's
// Monday. An empty reference means the current week in the pattern's
// timezone.
func (s *CalendarService) WeekView(ctx context.Context, params WeekViewParams) (calendar.WeekView, error) {
	if s == nil {
		return calendar.WeekView{}, fmt.Errorf("CalendarService is nil")
	}
	if s.availability == nil || s.appointments == nil {
		return calendar.WeekView{}, fmt.Errorf("calendar dependencies not configured")
	}
	if params.Principal.UserID == "" {
		return calendar.WeekView{}, ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "WeekView", "user_id", params.Principal.UserID)

	week, err := s.availability.GetWeek(ctx, params.Principal)
	if err != nil {
		return calendar.WeekView{}, err
	}

	location, err := time.LoadLocation(week.Timezone)
	if err != nil {
		location = time.UTC
	}

	reference := s.now().In(location)
	if params.Reference != "" {
		parsed, err := time.ParseInLocation(calendar.DateLayout, params.Reference, location)
		if err != nil {
			vErr := &validation.Error{}
			vErr.Add("start", "must be an ISO calendar date")
			return calendar.WeekView{}, vErr
		}
		reference = parsed
	}

	weekStart := calendar.StartOfWeek(reference)
	weekEnd := weekStart.AddDate(0, 0, 7)

	appointments, err := s.appointments.List(ctx, ListAppointmentsParams{
		Principal: params.Principal,
		From:      weekStart.Format(calendar.DateLayout),
		To:        weekEnd.Format(calendar.DateLayout),
	})
	if err != nil {
		return calendar.WeekView{}, err
	}

	view := calendar.BuildWeekView(weekStart, week, appointments)

	logger.With(
		"week_start", view.WeekStart,
		"appointments", len(appointments),
	).InfoContext(ctx, "week view assembled")
	return view, nil
}

// ExportICS renders the requested week as an iCalendar document.
func (s *CalendarService) ExportICS(ctx context.Context, params WeekViewParams) (string, error) {
	if s == nil {
		return "", fmt.Errorf("CalendarService is nil")
	}
	if s.availability == nil || s.appointments == nil {
		return "", fmt.Errorf("calendar dependencies not configured")
	}
	if params.Principal.UserID == "" {
		return "", ErrUnauthorized
	}

	view, err := s.WeekView(ctx, params)
	if err != nil {
		return "", err
	}

	week, err := s.availability.GetWeek(ctx, params.Principal)
	if err != nil {
		return "", err
	}

	document, err := ics.ExportWeek(view, week.Timezone, s.now())
	if err != nil {
		return "", fmt.Errorf("failed to export week: %w", err)
	}

	s.loggerWith(ctx, "ExportICS", "user_id", params.Principal.UserID, "week_start", view.WeekStart).
		InfoContext(ctx, "week exported as iCalendar")
	return document, nil
}
