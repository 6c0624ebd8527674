// Package ics renders assembled calendar weeks as iCalendar documents so
// practitioners can subscribe from external calendar clients.
package ics

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/example/studio-scheduler/internal/appointment"
	"github.com/example/studio-scheduler/internal/calendar"
)

const productID = "-//studio-scheduler//calendar export//EN"

// ExportWeek serializes every appointment in the view as a VEVENT. Times are
// interpreted in the given IANA timezone; an unknown timezone falls back to
// UTC rather than failing the export.
func ExportWeek(view calendar.WeekView, timezone string, now time.Time) (string, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		location = time.UTC
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(fmt.Sprintf("Studio week of %s", view.WeekStart))

	for _, day := range view.Days {
		date, err := time.ParseInLocation(calendar.DateLayout, day.Date, location)
		if err != nil {
			return "", fmt.Errorf("parse day date %s: %w", day.Date, err)
		}

		for _, appt := range day.Appointments {
			core := appt.Common()

			start, err := atTime(date, core.StartTime)
			if err != nil {
				return "", fmt.Errorf("appointment %s: %w", core.ID, err)
			}
			end, err := atTime(date, core.EndTime)
			if err != nil {
				return "", fmt.Errorf("appointment %s: %w", core.ID, err)
			}

			event := cal.AddEvent(fmt.Sprintf("%s@studio-scheduler", core.ID))
			event.SetDtStampTime(now.UTC())
			event.SetStartAt(start)
			event.SetEndAt(end)
			event.SetSummary(summaryFor(appt))
			if description := descriptionFor(appt); description != "" {
				event.SetDescription(description)
			}
			event.SetProperty(ical.ComponentPropertyCategories, string(appt.Kind()))
		}
	}

	return cal.Serialize(), nil
}

func atTime(date time.Time, hhmm string) (time.Time, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("malformed time %q", hhmm)
	}
	var hour, minute int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &hour, &minute); err != nil {
		return time.Time{}, fmt.Errorf("malformed time %q", hhmm)
	}
	return date.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute), nil
}

func summaryFor(appt appointment.Appointment) string {
	core := appt.Common()
	switch v := appt.(type) {
	case appointment.NewTattoo:
		return fmt.Sprintf("%s (%s)", core.Title, v.ClientName)
	case appointment.TouchUp:
		return fmt.Sprintf("%s (%s)", core.Title, v.ClientName)
	case appointment.Consultation:
		return fmt.Sprintf("%s (%s)", core.Title, v.ClientName)
	}
	return core.Title
}

func descriptionFor(appt appointment.Appointment) string {
	if v, ok := appt.(appointment.NewTattoo); ok {
		parts := []string{v.DesignDescription}
		if v.Placement != "" {
			parts = append(parts, "Placement: "+v.Placement)
		}
		if v.Size != "" {
			parts = append(parts, "Size: "+v.Size)
		}
		return strings.Join(parts, "\n")
	}
	return ""
}
