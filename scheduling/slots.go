package scheduling

import (
	"time"
)

// DefaultHorizonDays is how far ahead of today guests may book.
const DefaultHorizonDays = 30

// Slot is a bookable interval on a calendar date. Start and End are
// "HH:MM" wall-clock strings; slots are derived, never stored.
type Slot struct {
	Date  time.Time `json:"date"`
	Start string    `json:"start"`
	End   string    `json:"end"`
}

// AvailableDates lists the next horizonDays calendar dates after today,
// keeping only dates whose weekday is enabled. Today itself is never
// included. The result is recomputed from today on every call.
func (s WeekSchedule) AvailableDates(today time.Time, horizonDays int) []time.Time {
	base := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	var dates []time.Time
	for i := 1; i <= horizonDays; i++ {
		date := base.AddDate(0, 0, i)
		if s.Window(date.Weekday()).Enabled {
			dates = append(dates, date)
		}
	}
	return dates
}

// TimeSlots tiles a date's working window with DurationMinutes-sized
// slots, ascending, gapless and non-overlapping. A trailing remainder
// shorter than the duration is dropped, so a window not evenly
// divisible by the duration loses its tail. Disabled weekdays yield
// nothing.
func (s WeekSchedule) TimeSlots(date time.Time) []Slot {
	w := s.Window(date.Weekday())
	if !w.Enabled || s.DurationMinutes <= 0 {
		return nil
	}

	var slots []Slot
	for start := w.Start; start+s.DurationMinutes <= w.End; start += s.DurationMinutes {
		slots = append(slots, Slot{
			Date:  date,
			Start: FormatClock(start),
			End:   FormatClock(start + s.DurationMinutes),
		})
	}
	return slots
}

// HasSlot reports whether start is one of the generated slot starts for
// the date.
func (s WeekSchedule) HasSlot(date time.Time, start string) bool {
	for _, slot := range s.TimeSlots(date) {
		if slot.Start == start {
			return true
		}
	}
	return false
}
