package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/studio-scheduler/internal/persistence"
)

func weekdayPattern(userID string) persistence.AvailabilityPattern {
	now := time.Now().UTC().Truncate(time.Second)
	return persistence.AvailabilityPattern{
		UserID:   userID,
		Timezone: "Europe/Berlin",
		Days: []persistence.AvailabilityDay{
			{DayOfWeek: "Monday", Workday: true, StartTime: "09:00", EndTime: "17:00"},
			{DayOfWeek: "Tuesday", Workday: true, StartTime: "09:00", EndTime: "17:00"},
			{DayOfWeek: "Wednesday", Workday: false, StartTime: "", EndTime: ""},
			{DayOfWeek: "Thursday", Workday: true, StartTime: "10:00", EndTime: "18:00"},
			{DayOfWeek: "Friday", Workday: true, StartTime: "09:00", EndTime: "15:00"},
			{DayOfWeek: "Saturday", Workday: false, StartTime: "", EndTime: ""},
			{DayOfWeek: "Sunday", Workday: false, StartTime: "", EndTime: ""},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestAvailabilityRepository_PutAndGet(t *testing.T) {
	pool := newTestPool(t)
	repo := NewAvailabilityRepository(pool)
	ctx := context.Background()
	seedUser(t, pool, "user-1", "alice@example.com")

	if _, err := repo.PutPattern(ctx, weekdayPattern("user-1")); err != nil {
		t.Fatalf("PutPattern failed: %v", err)
	}

	got, err := repo.GetPattern(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetPattern failed: %v", err)
	}
	if got.Timezone != "Europe/Berlin" {
		t.Errorf("expected timezone Europe/Berlin, got %q", got.Timezone)
	}
	if len(got.Days) != 7 {
		t.Fatalf("expected 7 day rows, got %d", len(got.Days))
	}

	byDay := make(map[string]persistence.AvailabilityDay, len(got.Days))
	for _, day := range got.Days {
		byDay[day.DayOfWeek] = day
	}
	thursday := byDay["Thursday"]
	if !thursday.Workday || thursday.StartTime != "10:00" || thursday.EndTime != "18:00" {
		t.Errorf("unexpected Thursday row: %+v", thursday)
	}
	if byDay["Sunday"].Workday {
		t.Error("expected Sunday to be a non-workday")
	}
}

func TestAvailabilityRepository_PutReplacesExistingDays(t *testing.T) {
	pool := newTestPool(t)
	repo := NewAvailabilityRepository(pool)
	ctx := context.Background()
	seedUser(t, pool, "user-1", "alice@example.com")

	if _, err := repo.PutPattern(ctx, weekdayPattern("user-1")); err != nil {
		t.Fatalf("PutPattern failed: %v", err)
	}

	replacement := weekdayPattern("user-1")
	replacement.Timezone = "America/New_York"
	replacement.Days = []persistence.AvailabilityDay{
		{DayOfWeek: "Monday", Workday: true, StartTime: "08:00", EndTime: "12:00"},
	}
	if _, err := repo.PutPattern(ctx, replacement); err != nil {
		t.Fatalf("replacement PutPattern failed: %v", err)
	}

	got, err := repo.GetPattern(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetPattern failed: %v", err)
	}
	if got.Timezone != "America/New_York" {
		t.Errorf("expected replaced timezone, got %q", got.Timezone)
	}
	if len(got.Days) != 1 {
		t.Fatalf("expected 1 day row after replacement, got %d", len(got.Days))
	}
	if got.Days[0].EndTime != "12:00" {
		t.Errorf("unexpected replacement row: %+v", got.Days[0])
	}
}

func TestAvailabilityRepository_GetMissing(t *testing.T) {
	pool := newTestPool(t)

	_, err := NewAvailabilityRepository(pool).GetPattern(context.Background(), "ghost")
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAvailabilityRepository_PutForUnknownUser(t *testing.T) {
	pool := newTestPool(t)

	_, err := NewAvailabilityRepository(pool).PutPattern(context.Background(), weekdayPattern("ghost"))
	if !errors.Is(err, persistence.ErrForeignKeyViolation) {
		t.Errorf("expected ErrForeignKeyViolation, got %v", err)
	}
}

func TestAvailabilityRepository_Delete(t *testing.T) {
	pool := newTestPool(t)
	repo := NewAvailabilityRepository(pool)
	ctx := context.Background()
	seedUser(t, pool, "user-1", "alice@example.com")

	if _, err := repo.PutPattern(ctx, weekdayPattern("user-1")); err != nil {
		t.Fatalf("PutPattern failed: %v", err)
	}
	if err := repo.DeletePattern(ctx, "user-1"); err != nil {
		t.Fatalf("DeletePattern failed: %v", err)
	}
	if _, err := repo.GetPattern(ctx, "user-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.DeletePattern(ctx, "user-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
