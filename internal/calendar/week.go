// Package calendar assembles a renderable week view from an availability
// pattern and the appointments that fall inside the week.
package calendar

import (
	"sort"
	"time"

	"github.com/example/studio-scheduler/internal/appointment"
	"github.com/example/studio-scheduler/internal/availability"
	"github.com/example/studio-scheduler/internal/timegrid"
)

// DateLayout is the ISO calendar date layout used on the wire.
const DateLayout = "2006-01-02"

// DayView is one rendered day: its appointments in start order, their grid
// placements, and the full-width blocker ranges covering non-working time.
type DayView struct {
	Date         string
	Weekday      availability.Weekday
	Workday      bool
	Appointments []appointment.Appointment
	Placements   map[string]timegrid.Placement
	NonWorking   []timegrid.BlockRange
}

// WeekView is the assembled calendar week. All seven days share one display
// window so their grids stay aligned.
type WeekView struct {
	WeekStart string
	Window    timegrid.Window
	Labels    []timegrid.BlockLabel
	Days      [7]DayView
}

// StartOfWeek returns the Monday of the week containing t, at midnight in
// t's location. Sunday counts as the seventh day of the preceding Monday's
// week.
func StartOfWeek(t time.Time) time.Time {
	day := int(t.Weekday())
	if day == 0 {
		day = 7
	}
	monday := t.AddDate(0, 0, -(day - 1))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

// WeekdayName maps a calendar date to its lowercase weekday name.
func WeekdayName(t time.Time) availability.Weekday {
	switch t.Weekday() {
	case time.Monday:
		return availability.Monday
	case time.Tuesday:
		return availability.Tuesday
	case time.Wednesday:
		return availability.Wednesday
	case time.Thursday:
		return availability.Thursday
	case time.Friday:
		return availability.Friday
	case time.Saturday:
		return availability.Saturday
	}
	return availability.Sunday
}

// BuildWeekView lays out the seven days starting at weekStart. The caller is
// responsible for normalizing weekStart to a Monday via StartOfWeek.
// Appointments outside [weekStart, weekStart+7) are ignored; the rest are
// partitioned by exact date match and placed against the shared window.
func BuildWeekView(weekStart time.Time, week availability.Week, appointments []appointment.Appointment) WeekView {
	window := week.DisplayWindow()

	view := WeekView{
		WeekStart: weekStart.Format(DateLayout),
		Window:    window,
		Labels:    window.BlockLabels(),
	}

	byDate := make(map[string][]appointment.Appointment, len(appointments))
	for _, appt := range appointments {
		core := appt.Common()
		byDate[core.Date] = append(byDate[core.Date], appt)
	}

	for i := 0; i < 7; i++ {
		date := weekStart.AddDate(0, 0, i)
		dateStr := date.Format(DateLayout)
		weekday := WeekdayName(date)

		dayConfig, configured := week.Day(weekday)
		workday := configured && dayConfig.Workday

		dayAppointments := sortByStart(byDate[dateStr])

		view.Days[i] = DayView{
			Date:         dateStr,
			Weekday:      weekday,
			Workday:      workday,
			Appointments: dayAppointments,
			Placements:   timegrid.LayoutDay(toIntervals(dayAppointments), window),
			NonWorking:   timegrid.NonWorkingRanges(window, workday),
		}
	}

	return view
}

func sortByStart(appointments []appointment.Appointment) []appointment.Appointment {
	if len(appointments) == 0 {
		return nil
	}
	sorted := make([]appointment.Appointment, len(appointments))
	copy(sorted, appointments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Common().StartTime < sorted[j].Common().StartTime
	})
	return sorted
}

func toIntervals(appointments []appointment.Appointment) []timegrid.Interval {
	intervals := make([]timegrid.Interval, 0, len(appointments))
	for _, appt := range appointments {
		core := appt.Common()
		start, err := timegrid.ToMinutes(core.StartTime)
		if err != nil {
			continue
		}
		end, err := timegrid.ToMinutes(core.EndTime)
		if err != nil {
			continue
		}
		intervals = append(intervals, timegrid.Interval{ID: core.ID, Start: start, End: end})
	}
	return intervals
}
