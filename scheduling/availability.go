package scheduling

import (
	"fmt"
	"time"
)

// MeetingDurations are the selectable meeting lengths, in minutes.
var MeetingDurations = []int{15, 30, 45, 60, 90, 120}

// Window is one weekday's working hours, as minutes from midnight.
type Window struct {
	Enabled bool
	Start   int
	End     int
}

// WeekSchedule is an owner's recurring weekly availability plus their
// default meeting duration.
type WeekSchedule struct {
	Days            map[time.Weekday]Window
	DurationMinutes int
}

// DefaultSchedule returns the schedule new owners start with: weekdays
// 09:00-17:00, weekends disabled, 30 minute meetings.
func DefaultSchedule() WeekSchedule {
	days := make(map[time.Weekday]Window, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		enabled := d != time.Saturday && d != time.Sunday
		days[d] = Window{Enabled: enabled, Start: 9 * 60, End: 17 * 60}
	}
	return WeekSchedule{Days: days, DurationMinutes: 30}
}

// Window returns the working window for a weekday. Missing entries read
// as disabled.
func (s WeekSchedule) Window(day time.Weekday) Window {
	return s.Days[day]
}

// Validate checks every enabled window and the meeting duration.
func (s WeekSchedule) Validate() error {
	if !ValidDuration(s.DurationMinutes) {
		return &ValidationError{Field: "meeting_duration", Message: fmt.Sprintf("duration must be one of %v minutes", MeetingDurations)}
	}
	for day, w := range s.Days {
		if w.Enabled && w.Start >= w.End {
			return &ValidationError{Field: day.String(), Message: "start time must be before end time"}
		}
	}
	return nil
}

func ValidDuration(minutes int) bool {
	for _, d := range MeetingDurations {
		if d == minutes {
			return true
		}
	}
	return false
}

// ParseClock parses a "HH:MM" string into minutes from midnight. Only
// zero-padded values that round-trip through FormatClock are accepted,
// so partial matches like "09:0a" are rejected.
func ParseClock(s string) (int, error) {
	var hh, mm int
	if n, err := fmt.Sscanf(s, "%2d:%2d", &hh, &mm); err != nil || n != 2 {
		return 0, &ValidationError{Field: "time", Message: "time must be HH:MM"}
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, &ValidationError{Field: "time", Message: "time out of range"}
	}
	if FormatClock(hh*60+mm) != s {
		return 0, &ValidationError{Field: "time", Message: "time must be HH:MM"}
	}
	return hh*60 + mm, nil
}

// FormatClock renders minutes from midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
