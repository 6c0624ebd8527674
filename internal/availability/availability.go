// Package availability models a practitioner's weekly working-hours pattern
// and derives the display window used to size the calendar grid.
package availability

import (
	"fmt"

	"github.com/example/studio-scheduler/internal/timegrid"
	"github.com/example/studio-scheduler/internal/validation"
)

// DefaultTimezone labels weeks whose owner never picked a timezone. The label
// is carried verbatim; the engine performs no timezone conversion.
const DefaultTimezone = "Europe/Berlin"

// Weekday names a day of the week in lowercase form, matching the wire
// representation.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists the seven weekday names in Monday-first order.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// Valid reports whether the weekday is one of the seven known names.
func (d Weekday) Valid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// Day is one weekday's availability configuration. The (00:00, 23:59) pair is
// a sentinel meaning "all day" and is always a valid range.
type Day struct {
	DayOfWeek Weekday
	Workday   bool
	StartTime string
	EndTime   string
}

// DurationMinutes derives the day's working duration. An end of 23:59 counts
// as 24:00, and an end numerically before the start is assumed to cross
// midnight.
func (d Day) DurationMinutes() int {
	start, err := timegrid.ToMinutes(d.StartTime)
	if err != nil {
		return 0
	}
	end, err := timegrid.ToMinutes(d.EndTime)
	if err != nil {
		return 0
	}
	if d.EndTime == "23:59" {
		end = timegrid.MinutesPerDay
	}
	if end < start {
		end += timegrid.MinutesPerDay
	}
	return end - start
}

// Week is a full weekly availability pattern: exactly one Day per weekday
// plus an IANA timezone label. Default marks the built-in fallback pattern as
// opposed to one the user stored.
type Week struct {
	Timezone string
	Days     []Day
	Default  bool
}

// BuildWeek validates a set of day configurations into a Week. The set must
// contain exactly seven entries covering each weekday once, each day's times
// must be well formed, and a workday's end must come after its start (the
// all-day sentinel excepted).
func BuildWeek(days []Day, timezone string) (Week, error) {
	vErr := &validation.Error{}

	if len(days) != 7 {
		vErr.Add("workdays", "all 7 days of the week must be configured")
		return Week{}, vErr
	}

	seen := make(map[Weekday]bool, 7)
	for i, day := range days {
		field := fmt.Sprintf("workdays[%d]", i)

		if !day.DayOfWeek.Valid() {
			vErr.Add(field+".dayOfWeek", fmt.Sprintf("unknown weekday %q", day.DayOfWeek))
			continue
		}
		if seen[day.DayOfWeek] {
			vErr.Add(field+".dayOfWeek", fmt.Sprintf("%s is configured more than once", day.DayOfWeek))
			continue
		}
		seen[day.DayOfWeek] = true

		validateDayTimes(day, field, vErr)
	}

	if len(seen) < 7 && !vErr.HasErrors() {
		vErr.Add("workdays", "each day of the week must be configured exactly once")
	}
	if vErr.HasErrors() {
		return Week{}, vErr
	}

	if timezone == "" {
		timezone = DefaultTimezone
	}

	week := Week{Timezone: timezone, Days: make([]Day, len(days))}
	copy(week.Days, days)
	return week, nil
}

func validateDayTimes(day Day, field string, vErr *validation.Error) {
	start, err := timegrid.ToMinutes(day.StartTime)
	if err != nil {
		vErr.Add(field+".startTime", "start time must be in HH:mm format (24-hour)")
		return
	}
	end, err := timegrid.ToMinutes(day.EndTime)
	if err != nil {
		vErr.Add(field+".endTime", "end time must be in HH:mm format (24-hour)")
		return
	}

	if !day.Workday {
		return
	}
	if day.StartTime == "00:00" && day.EndTime == "23:59" {
		// All-day sentinel.
		return
	}
	if end <= start {
		vErr.Add(field+".endTime", "end time must be after start time")
	}
}

// Day returns the configuration for the named weekday.
func (w Week) Day(name Weekday) (Day, bool) {
	for _, day := range w.Days {
		if day.DayOfWeek == name {
			return day, true
		}
	}
	return Day{}, false
}

// WorkdayCount counts the days marked available for scheduling.
func (w Week) WorkdayCount() int {
	count := 0
	for _, day := range w.Days {
		if day.Workday {
			count++
		}
	}
	return count
}

// TotalWeeklyMinutes sums the working duration across workdays.
func (w Week) TotalWeeklyMinutes() int {
	total := 0
	for _, day := range w.Days {
		if day.Workday {
			total += day.DurationMinutes()
		}
	}
	return total
}

// AverageDailyMinutes is the mean working duration per workday, rounded to
// the nearest minute. A week without workdays averages zero.
func (w Week) AverageDailyMinutes() int {
	count := w.WorkdayCount()
	if count == 0 {
		return 0
	}
	total := w.TotalWeeklyMinutes()
	return (total + count/2) / count
}

// Fallback bounds used when a week has no workday to derive a window from.
const (
	fallbackStartMinutes = 9 * 60
	fallbackEndMinutes   = 17 * 60
)

// DisplayWindow derives the grid window from the week: the earliest start and
// latest end across workdays, or 09:00-17:00 when no workday exists, buffered
// by one hour on each side.
func (w Week) DisplayWindow() timegrid.Window {
	earliest := timegrid.MinutesPerDay
	latest := 0
	found := false

	for _, day := range w.Days {
		if !day.Workday {
			continue
		}
		start, err := timegrid.ToMinutes(day.StartTime)
		if err != nil {
			continue
		}
		end, err := timegrid.ToMinutes(day.EndTime)
		if err != nil {
			continue
		}
		if day.EndTime == "23:59" {
			end = timegrid.MinutesPerDay
		}
		found = true
		if start < earliest {
			earliest = start
		}
		if end > latest {
			latest = end
		}
	}

	if !found {
		earliest, latest = fallbackStartMinutes, fallbackEndMinutes
	}

	return timegrid.NewWindow(earliest, latest)
}

// DefaultWeek is the built-in pattern used when a user has no stored
// configuration: Monday to Friday 09:00-17:00, weekend off.
func DefaultWeek() Week {
	days := make([]Day, 0, 7)
	for _, name := range Weekdays() {
		switch name {
		case Saturday, Sunday:
			days = append(days, Day{DayOfWeek: name, Workday: false, StartTime: "00:00", EndTime: "23:59"})
		default:
			days = append(days, Day{DayOfWeek: name, Workday: true, StartTime: "09:00", EndTime: "17:00"})
		}
	}
	return Week{Timezone: DefaultTimezone, Days: days, Default: true}
}
