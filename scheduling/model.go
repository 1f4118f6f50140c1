package scheduling

import (
	"time"

	"github.com/blink-new/meetly-server/cmd/models"
)

// ScheduleFromAvailability builds the pure WeekSchedule from the stored
// availability rows. Weekdays without a row read as disabled.
func ScheduleFromAvailability(a models.Availability) (WeekSchedule, error) {
	schedule := WeekSchedule{
		Days:            make(map[time.Weekday]Window, 7),
		DurationMinutes: a.MeetingDuration,
	}
	for _, day := range a.Days {
		start, err := ParseClock(day.StartTime)
		if err != nil {
			return WeekSchedule{}, err
		}
		end, err := ParseClock(day.EndTime)
		if err != nil {
			return WeekSchedule{}, err
		}
		schedule.Days[time.Weekday(day.Weekday)] = Window{
			Enabled: day.Enabled,
			Start:   start,
			End:     end,
		}
	}
	return schedule, nil
}
