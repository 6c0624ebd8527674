package timegrid

import (
	"fmt"
)

// MinutesPerDay is the exclusive upper bound for a minute-of-day value.
const MinutesPerDay = 24 * 60

// BlockDuration is the atomic grid resolution in minutes.
const BlockDuration = 15

// FormatError reports a wall-clock string that does not match the
// two-digit-colon-two-digit HH:mm pattern or encodes an out-of-range value.
type FormatError struct {
	Value string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("timegrid: malformed time %q", e.Value)
}

// ToMinutes parses an HH:mm wall-clock string into minutes since midnight.
// Hours above 23 and minutes above 59 are rejected with a FormatError.
func ToMinutes(t string) (int, error) {
	if len(t) != 5 || t[2] != ':' {
		return 0, &FormatError{Value: t}
	}
	hour, ok1 := twoDigits(t[0], t[1])
	minute, ok2 := twoDigits(t[3], t[4])
	if !ok1 || !ok2 || hour >= 24 || minute >= 60 {
		return 0, &FormatError{Value: t}
	}
	return hour*60 + minute, nil
}

// ToTimeString formats minutes since midnight as a zero-padded HH:mm string.
// Values outside [0, MinutesPerDay] are clamped; the day-end bound formats as
// "24:00" so an exclusive display boundary stays representable.
func ToTimeString(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes > MinutesPerDay {
		minutes = MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AddHours shifts a wall-clock string by the given number of hours, clamping
// at the day boundaries instead of wrapping past midnight.
func AddHours(t string, hours int) (string, error) {
	minutes, err := ToMinutes(t)
	if err != nil {
		return "", err
	}
	return ToTimeString(minutes + hours*60), nil
}

// EnumerateHours returns one HH:mm label per 60-minute step from start
// (inclusive) to end (exclusive). An end of "23:59" or "24:00" is treated as
// the end of the day.
func EnumerateHours(start, end string) ([]string, error) {
	startMinutes, err := ToMinutes(start)
	if err != nil {
		return nil, err
	}
	endMinutes, err := endExclusiveMinutes(end)
	if err != nil {
		return nil, err
	}

	var hours []string
	for minutes := startMinutes; minutes < endMinutes; minutes += 60 {
		hours = append(hours, ToTimeString(minutes))
	}
	return hours, nil
}

// endExclusiveMinutes parses an end-of-range time, mapping the day-end
// sentinels to MinutesPerDay.
func endExclusiveMinutes(end string) (int, error) {
	if end == "23:59" || end == "24:00" {
		return MinutesPerDay, nil
	}
	return ToMinutes(end)
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}
