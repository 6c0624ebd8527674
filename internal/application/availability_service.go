package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/studio-scheduler/internal/availability"
)

// AvailabilityRepository captures the persistence interactions for weekly
// availability patterns. GetAvailability returns ErrNotFound when the user
// has never stored a pattern.
type AvailabilityRepository interface {
	GetAvailability(ctx context.Context, userID string) (availability.Week, error)
	PutAvailability(ctx context.Context, userID string, week availability.Week) (availability.Week, error)
	DeleteAvailability(ctx context.Context, userID string) error
}

// AvailabilityService manages the acting user's weekly availability pattern.
type AvailabilityService struct {
	patterns        AvailabilityRepository
	defaultTimezone string
	now             func() time.Time
	logger          *slog.Logger
}

// NewAvailabilityService wires dependencies for the availability service.
func NewAvailabilityService(patterns AvailabilityRepository, defaultTimezone string, now func() time.Time, logger *slog.Logger) *AvailabilityService {
	if strings.TrimSpace(defaultTimezone) == "" {
		defaultTimezone = availability.DefaultTimezone
	}
	if now == nil {
		now = time.Now
	}
	return &AvailabilityService{
		patterns:        patterns,
		defaultTimezone: defaultTimezone,
		now:             now,
		logger:          defaultLogger(logger),
	}
}

func (s *AvailabilityService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AvailabilityService", operation, attrs...)
}

// GetWeek returns the stored weekly pattern, or the built-in default when the
// user has not configured one yet.
func (s *AvailabilityService) GetWeek(ctx context.Context, principal Principal) (availability.Week, error) {
	if s == nil {
		return availability.Week{}, fmt.Errorf("AvailabilityService is nil")
	}
	if s.patterns == nil {
		return availability.Week{}, fmt.Errorf("availability repository not configured")
	}
	if principal.UserID == "" {
		return availability.Week{}, ErrUnauthorized
	}

	week, err := s.patterns.GetAvailability(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return s.defaultWeek(), nil
		}
		return availability.Week{}, err
	}
	return week, nil
}

// PutWeek validates and stores a complete weekly pattern, replacing any
// previously stored one.
func (s *AvailabilityService) PutWeek(ctx context.Context, params PutAvailabilityParams) (availability.Week, error) {
	if s == nil {
		return availability.Week{}, fmt.Errorf("AvailabilityService is nil")
	}
	if s.patterns == nil {
		return availability.Week{}, fmt.Errorf("availability repository not configured")
	}
	if params.Principal.UserID == "" {
		return availability.Week{}, ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "PutWeek", "user_id", params.Principal.UserID)

	timezone := strings.TrimSpace(params.Timezone)
	if timezone == "" {
		timezone = s.defaultTimezone
	}

	week, err := availability.BuildWeek(params.Days, timezone)
	if err != nil {
		logger.ErrorContext(ctx, "availability rejected", "error_kind", ErrorKind(err))
		return availability.Week{}, err
	}

	persisted, err := s.patterns.PutAvailability(ctx, params.Principal.UserID, week)
	if err != nil {
		logger.ErrorContext(ctx, "availability store failed", "error", err, "error_kind", ErrorKind(err))
		return availability.Week{}, err
	}

	logger.With("workdays", persisted.WorkdayCount()).InfoContext(ctx, "availability stored")
	return persisted, nil
}

// Reset discards the stored pattern so subsequent reads fall back to the
// default. Resetting an account that never stored a pattern is a no-op.
func (s *AvailabilityService) Reset(ctx context.Context, principal Principal) (availability.Week, error) {
	if s == nil {
		return availability.Week{}, fmt.Errorf("AvailabilityService is nil")
	}
	if s.patterns == nil {
		return availability.Week{}, fmt.Errorf("availability repository not configured")
	}
	if principal.UserID == "" {
		return availability.Week{}, ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "Reset", "user_id", principal.UserID)

	if err := s.patterns.DeleteAvailability(ctx, principal.UserID); err != nil && !errors.Is(err, ErrNotFound) {
		logger.ErrorContext(ctx, "availability reset failed", "error", err, "error_kind", ErrorKind(err))
		return availability.Week{}, err
	}

	logger.InfoContext(ctx, "availability reset to default")
	return s.defaultWeek(), nil
}

// Summary reports aggregate statistics over the effective weekly pattern.
func (s *AvailabilityService) Summary(ctx context.Context, principal Principal) (AvailabilitySummary, error) {
	week, err := s.GetWeek(ctx, principal)
	if err != nil {
		return AvailabilitySummary{}, err
	}
	return AvailabilitySummary{
		WorkdayCount:        week.WorkdayCount(),
		TotalWeeklyMinutes:  week.TotalWeeklyMinutes(),
		AverageDailyMinutes: week.AverageDailyMinutes(),
	}, nil
}

func (s *AvailabilityService) defaultWeek() availability.Week {
	week := availability.DefaultWeek()
	week.Timezone = s.defaultTimezone
	return week
}
