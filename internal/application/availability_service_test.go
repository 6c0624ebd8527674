package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/studio-scheduler/internal/availability"
	"github.com/example/studio-scheduler/internal/validation"
)

func standardDays() []availability.Day {
	days := make([]availability.Day, 0, 7)
	for _, name := range availability.Weekdays() {
		day := availability.Day{DayOfWeek: name, Workday: false, StartTime: "00:00", EndTime: "23:59"}
		if name != availability.Saturday && name != availability.Sunday {
			day.Workday = true
			day.StartTime = "10:00"
			day.EndTime = "18:00"
		}
		days = append(days, day)
	}
	return days
}

func TestAvailabilityService_GetWeek(t *testing.T) {
	t.Parallel()

	t.Run("falls back to the default pattern for new accounts", func(t *testing.T) {
		t.Parallel()

		svc := NewAvailabilityService(newAvailabilityRepositoryStub(), "Europe/Berlin", nil, nil)

		week, err := svc.GetWeek(context.Background(), Principal{UserID: "user-1"})
		if err != nil {
			t.Fatalf("GetWeek failed: %v", err)
		}
		if week.Timezone != "Europe/Berlin" {
			t.Fatalf("unexpected timezone %q", week.Timezone)
		}
		if week.WorkdayCount() != 5 {
			t.Fatalf("expected 5 default workdays, got %d", week.WorkdayCount())
		}
		if !week.Default {
			t.Fatal("expected the fallback pattern to be flagged as default")
		}
	})

	t.Run("returns the stored pattern when present", func(t *testing.T) {
		t.Parallel()

		stored, err := availability.BuildWeek(standardDays(), "America/New_York")
		if err != nil {
			t.Fatalf("BuildWeek failed: %v", err)
		}
		repo := newAvailabilityRepositoryStub()
		repo.weeks["user-1"] = stored

		svc := NewAvailabilityService(repo, "Europe/Berlin", nil, nil)

		week, err := svc.GetWeek(context.Background(), Principal{UserID: "user-1"})
		if err != nil {
			t.Fatalf("GetWeek failed: %v", err)
		}
		if week.Timezone != "America/New_York" {
			t.Fatalf("expected stored timezone, got %q", week.Timezone)
		}
		monday, _ := week.Day(availability.Monday)
		if monday.StartTime != "10:00" {
			t.Fatalf("expected stored hours, got %+v", monday)
		}
		if week.Default {
			t.Fatal("stored patterns must not be flagged as default")
		}
	})

	t.Run("rejects anonymous principals", func(t *testing.T) {
		t.Parallel()

		svc := NewAvailabilityService(newAvailabilityRepositoryStub(), "", nil, nil)
		if _, err := svc.GetWeek(context.Background(), Principal{}); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestAvailabilityService_PutWeek(t *testing.T) {
	t.Parallel()

	t.Run("stores a valid pattern", func(t *testing.T) {
		t.Parallel()

		repo := newAvailabilityRepositoryStub()
		svc := NewAvailabilityService(repo, "Europe/Berlin", nil, nil)

		week, err := svc.PutWeek(context.Background(), PutAvailabilityParams{
			Principal: Principal{UserID: "user-1"},
			Days:      standardDays(),
		})
		if err != nil {
			t.Fatalf("PutWeek failed: %v", err)
		}
		if week.Timezone != "Europe/Berlin" {
			t.Fatalf("expected default timezone to apply, got %q", week.Timezone)
		}
		if _, ok := repo.weeks["user-1"]; !ok {
			t.Fatal("expected pattern to be persisted")
		}
	})

	t.Run("rejects incomplete patterns with field errors", func(t *testing.T) {
		t.Parallel()

		svc := NewAvailabilityService(newAvailabilityRepositoryStub(), "", nil, nil)

		_, err := svc.PutWeek(context.Background(), PutAvailabilityParams{
			Principal: Principal{UserID: "user-1"},
			Days:      standardDays()[:5],
		})

		var vErr *validation.Error
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestAvailabilityService_Reset(t *testing.T) {
	t.Parallel()

	t.Run("discards the stored pattern and returns the default", func(t *testing.T) {
		t.Parallel()

		stored, _ := availability.BuildWeek(standardDays(), "America/New_York")
		repo := newAvailabilityRepositoryStub()
		repo.weeks["user-1"] = stored

		svc := NewAvailabilityService(repo, "Europe/Berlin", nil, nil)

		week, err := svc.Reset(context.Background(), Principal{UserID: "user-1"})
		if err != nil {
			t.Fatalf("Reset failed: %v", err)
		}
		if _, ok := repo.weeks["user-1"]; ok {
			t.Fatal("expected stored pattern to be removed")
		}
		if week.Timezone != "Europe/Berlin" {
			t.Fatalf("expected default timezone, got %q", week.Timezone)
		}
	})

	t.Run("tolerates resetting an account without a pattern", func(t *testing.T) {
		t.Parallel()

		svc := NewAvailabilityService(newAvailabilityRepositoryStub(), "Europe/Berlin", nil, nil)
		if _, err := svc.Reset(context.Background(), Principal{UserID: "user-1"}); err != nil {
			t.Fatalf("Reset failed: %v", err)
		}
	})
}

func TestAvailabilityService_Summary(t *testing.T) {
	t.Parallel()

	stored, _ := availability.BuildWeek(standardDays(), "Europe/Berlin")
	repo := newAvailabilityRepositoryStub()
	repo.weeks["user-1"] = stored

	svc := NewAvailabilityService(repo, "Europe/Berlin", nil, nil)

	summary, err := svc.Summary(context.Background(), Principal{UserID: "user-1"})
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.WorkdayCount != 5 {
		t.Fatalf("expected 5 workdays, got %d", summary.WorkdayCount)
	}
	if summary.TotalWeeklyMinutes != 5*8*60 {
		t.Fatalf("expected 2400 weekly minutes, got %d", summary.TotalWeeklyMinutes)
	}
	if summary.AverageDailyMinutes != 8*60 {
		t.Fatalf("expected 480 average daily minutes, got %d", summary.AverageDailyMinutes)
	}
}

// availabilityRepositoryStub provides an in-memory AvailabilityRepository for tests.
type availabilityRepositoryStub struct {
	weeks map[string]availability.Week

	getErr    error
	putErr    error
	deleteErr error
}

func newAvailabilityRepositoryStub() *availabilityRepositoryStub {
	return &availabilityRepositoryStub{weeks: make(map[string]availability.Week)}
}

func (r *availabilityRepositoryStub) GetAvailability(ctx context.Context, userID string) (availability.Week, error) {
	if r.getErr != nil {
		return availability.Week{}, r.getErr
	}
	week, ok := r.weeks[userID]
	if !ok {
		return availability.Week{}, ErrNotFound
	}
	return week, nil
}

func (r *availabilityRepositoryStub) PutAvailability(ctx context.Context, userID string, week availability.Week) (availability.Week, error) {
	if r.putErr != nil {
		return availability.Week{}, r.putErr
	}
	r.weeks[userID] = week
	return week, nil
}

func (r *availabilityRepositoryStub) DeleteAvailability(ctx context.Context, userID string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.weeks[userID]; !ok {
		return ErrNotFound
	}
	delete(r.weeks, userID)
	return nil
}
