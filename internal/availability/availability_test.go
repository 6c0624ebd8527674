package availability

import (
	"errors"
	"testing"

	"github.com/example/studio-scheduler/internal/validation"
)

func weekdayDays() []Day {
	return DefaultWeek().Days
}

func TestBuildWeek(t *testing.T) {
	t.Parallel()

	t.Run("accepts the default pattern", func(t *testing.T) {
		week, err := BuildWeek(weekdayDays(), "")
		if err != nil {
			t.Fatalf("BuildWeek returned error: %v", err)
		}
		if week.Timezone != DefaultTimezone {
			t.Fatalf("Timezone = %q, want %q", week.Timezone, DefaultTimezone)
		}
		if len(week.Days) != 7 {
			t.Fatalf("expected 7 days, got %d", len(week.Days))
		}
	})

	t.Run("keeps an explicit timezone", func(t *testing.T) {
		week, err := BuildWeek(weekdayDays(), "America/New_York")
		if err != nil {
			t.Fatalf("BuildWeek returned error: %v", err)
		}
		if week.Timezone != "America/New_York" {
			t.Fatalf("Timezone = %q", week.Timezone)
		}
	})

	t.Run("rejects a short week", func(t *testing.T) {
		_, err := BuildWeek(weekdayDays()[:6], "")
		assertFieldError(t, err, "workdays")
	})

	t.Run("rejects a duplicated weekday", func(t *testing.T) {
		days := weekdayDays()
		days[1].DayOfWeek = Monday
		_, err := BuildWeek(days, "")
		assertFieldError(t, err, "workdays[1].dayOfWeek")
	})

	t.Run("rejects an unknown weekday name", func(t *testing.T) {
		days := weekdayDays()
		days[3].DayOfWeek = "holiday"
		_, err := BuildWeek(days, "")
		assertFieldError(t, err, "workdays[3].dayOfWeek")
	})

	t.Run("rejects end before start on a workday", func(t *testing.T) {
		days := weekdayDays()
		days[0].StartTime = "17:00"
		days[0].EndTime = "09:00"
		_, err := BuildWeek(days, "")
		assertFieldError(t, err, "workdays[0].endTime")
	})

	t.Run("accepts the all-day sentinel on a workday", func(t *testing.T) {
		days := weekdayDays()
		days[0].StartTime = "00:00"
		days[0].EndTime = "23:59"
		if _, err := BuildWeek(days, ""); err != nil {
			t.Fatalf("BuildWeek rejected the all-day sentinel: %v", err)
		}
	})

	t.Run("ignores ordering on a non-workday", func(t *testing.T) {
		days := weekdayDays()
		days[5].StartTime = "20:00"
		days[5].EndTime = "08:00"
		if _, err := BuildWeek(days, ""); err != nil {
			t.Fatalf("BuildWeek rejected non-workday times: %v", err)
		}
	})

	t.Run("rejects malformed times", func(t *testing.T) {
		days := weekdayDays()
		days[2].StartTime = "9am"
		_, err := BuildWeek(days, "")
		assertFieldError(t, err, "workdays[2].startTime")
	})
}

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected validation error for %s", field)
	}
	var vErr *validation.Error
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *validation.Error, got %T: %v", err, err)
	}
	if _, ok := vErr.FieldErrors[field]; !ok {
		t.Fatalf("expected error on field %q, got %v", field, vErr.FieldErrors)
	}
}

func TestDayDurationMinutes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		day  Day
		want int
	}{
		{"regular day", Day{StartTime: "09:00", EndTime: "17:00"}, 480},
		{"all-day sentinel", Day{StartTime: "00:00", EndTime: "23:59"}, 1440},
		{"crosses midnight", Day{StartTime: "22:00", EndTime: "02:00"}, 240},
		{"malformed time", Day{StartTime: "whenever", EndTime: "17:00"}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.day.DurationMinutes(); got != tc.want {
				t.Fatalf("DurationMinutes() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestWeekAggregates(t *testing.T) {
	t.Parallel()

	t.Run("default week totals", func(t *testing.T) {
		week := DefaultWeek()
		if got := week.TotalWeeklyMinutes(); got != 5*480 {
			t.Fatalf("TotalWeeklyMinutes() = %d, want %d", got, 5*480)
		}
		if got := week.AverageDailyMinutes(); got != 480 {
			t.Fatalf("AverageDailyMinutes() = %d, want 480", got)
		}
		if got := week.WorkdayCount(); got != 5 {
			t.Fatalf("WorkdayCount() = %d, want 5", got)
		}
	})

	t.Run("no workdays averages zero", func(t *testing.T) {
		days := weekdayDays()
		for i := range days {
			days[i].Workday = false
		}
		week, err := BuildWeek(days, "")
		if err != nil {
			t.Fatalf("BuildWeek returned error: %v", err)
		}
		if got := week.AverageDailyMinutes(); got != 0 {
			t.Fatalf("AverageDailyMinutes() = %d, want 0", got)
		}
	})

	t.Run("average rounds to the nearest minute", func(t *testing.T) {
		days := weekdayDays()
		for i := range days {
			days[i].Workday = false
		}
		days[0].Workday = true
		days[0].StartTime, days[0].EndTime = "09:00", "10:00"
		days[1].Workday = true
		days[1].StartTime, days[1].EndTime = "09:00", "09:45"
		week, err := BuildWeek(days, "")
		if err != nil {
			t.Fatalf("BuildWeek returned error: %v", err)
		}
		// 105 minutes over two workdays rounds up from 52.5.
		if got := week.AverageDailyMinutes(); got != 53 {
			t.Fatalf("AverageDailyMinutes() = %d, want 53", got)
		}
	})
}

func TestWeekDisplayWindow(t *testing.T) {
	t.Parallel()

	t.Run("standard week", func(t *testing.T) {
		w := DefaultWeek().DisplayWindow()
		if w.WorkingStart != "09:00" || w.WorkingEnd != "17:00" {
			t.Fatalf("working bounds = %q-%q", w.WorkingStart, w.WorkingEnd)
		}
		if w.DisplayStart != "08:00" || w.DisplayEnd != "18:00" {
			t.Fatalf("display bounds = %q-%q", w.DisplayStart, w.DisplayEnd)
		}
		if w.TotalBlocks != 40 {
			t.Fatalf("TotalBlocks = %d, want 40", w.TotalBlocks)
		}
	})

	t.Run("uneven days widen the window", func(t *testing.T) {
		days := weekdayDays()
		days[0].StartTime = "07:30"
		days[4].EndTime = "20:00"
		week, err := BuildWeek(days, "")
		if err != nil {
			t.Fatalf("BuildWeek returned error: %v", err)
		}
		w := week.DisplayWindow()
		if w.WorkingStart != "07:30" || w.WorkingEnd != "20:00" {
			t.Fatalf("working bounds = %q-%q", w.WorkingStart, w.WorkingEnd)
		}
		if w.DisplayStart != "06:30" || w.DisplayEnd != "21:00" {
			t.Fatalf("display bounds = %q-%q", w.DisplayStart, w.DisplayEnd)
		}
	})

	t.Run("no workdays falls back to nine to five", func(t *testing.T) {
		days := weekdayDays()
		for i := range days {
			days[i].Workday = false
		}
		week, err := BuildWeek(days, "")
		if err != nil {
			t.Fatalf("BuildWeek returned error: %v", err)
		}
		w := week.DisplayWindow()
		if w.DisplayStart != "08:00" || w.DisplayEnd != "18:00" {
			t.Fatalf("display bounds = %q-%q, want fallback 08:00-18:00", w.DisplayStart, w.DisplayEnd)
		}
	})

	t.Run("all-day workday clamps at midnight", func(t *testing.T) {
		days := weekdayDays()
		days[0].StartTime, days[0].EndTime = "00:00", "23:59"
		week, err := BuildWeek(days, "")
		if err != nil {
			t.Fatalf("BuildWeek returned error: %v", err)
		}
		w := week.DisplayWindow()
		if w.DisplayStart != "00:00" || w.DisplayEnd != "24:00" {
			t.Fatalf("display bounds = %q-%q", w.DisplayStart, w.DisplayEnd)
		}
		if w.TotalBlocks != 96 {
			t.Fatalf("TotalBlocks = %d, want 96", w.TotalBlocks)
		}
	})
}
