package scheduling

import (
	"testing"
	"time"
)

// 2026-09-07 is a Monday.
var monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func TestTimeSlotsWeekdayWindow(t *testing.T) {
	s := DefaultSchedule()

	slots := s.TimeSlots(monday)
	if len(slots) != 16 {
		t.Fatalf("expected 16 slots, got %d", len(slots))
	}
	if slots[0].Start != "09:00" || slots[0].End != "09:30" {
		t.Errorf("first slot = %s-%s, want 09:00-09:30", slots[0].Start, slots[0].End)
	}
	last := slots[len(slots)-1]
	if last.Start != "16:30" || last.End != "17:00" {
		t.Errorf("last slot = %s-%s, want 16:30-17:00", last.Start, last.End)
	}
}

func TestTimeSlotsContiguousAscending(t *testing.T) {
	s := DefaultSchedule()
	for _, d := range []int{15, 30, 45, 60, 90, 120} {
		s.DurationMinutes = d
		slots := s.TimeSlots(monday)

		window := s.Window(time.Monday)
		want := (window.End - window.Start) / d
		if len(slots) != want {
			t.Errorf("duration %d: got %d slots, want %d", d, len(slots), want)
		}
		for i := 1; i < len(slots); i++ {
			if slots[i].Start != slots[i-1].End {
				t.Errorf("duration %d: slot %d starts %s, previous ends %s", d, i, slots[i].Start, slots[i-1].End)
			}
		}
	}
}

func TestTimeSlotsDropsPartialTail(t *testing.T) {
	s := DefaultSchedule()
	s.Days[time.Monday] = Window{Enabled: true, Start: 9 * 60, End: 10*60 + 50}

	slots := s.TimeSlots(monday)
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots (remainder dropped), got %d", len(slots))
	}
	if slots[2].End != "10:30" {
		t.Errorf("last slot ends %s, want 10:30", slots[2].End)
	}
}

func TestTimeSlotsDisabledDay(t *testing.T) {
	s := DefaultSchedule()

	saturday := monday.AddDate(0, 0, 5)
	if slots := s.TimeSlots(saturday); len(slots) != 0 {
		t.Fatalf("disabled weekday yielded %d slots", len(slots))
	}
}

func TestAvailableDates(t *testing.T) {
	s := DefaultSchedule()
	today := monday

	dates := s.AvailableDates(today, 30)
	if len(dates) == 0 {
		t.Fatal("no available dates")
	}
	for _, d := range dates {
		if d.Equal(today) {
			t.Error("available dates include today")
		}
		if !d.After(today) {
			t.Errorf("date %v not after today", d)
		}
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			t.Errorf("disabled weekday %v included", d.Weekday())
		}
		if d.After(today.AddDate(0, 0, 30)) {
			t.Errorf("date %v past the horizon", d)
		}
	}
	// 30 days after a Monday contain 22 weekdays.
	if len(dates) != 22 {
		t.Errorf("got %d dates, want 22", len(dates))
	}
}

func TestAvailableDatesAllDisabled(t *testing.T) {
	s := DefaultSchedule()
	for d := time.Sunday; d <= time.Saturday; d++ {
		w := s.Days[d]
		w.Enabled = false
		s.Days[d] = w
	}
	if dates := s.AvailableDates(monday, 30); len(dates) != 0 {
		t.Fatalf("got %d dates from a fully disabled schedule", len(dates))
	}
}

func TestHasSlot(t *testing.T) {
	s := DefaultSchedule()
	if !s.HasSlot(monday, "09:30") {
		t.Error("09:30 should be a slot")
	}
	if s.HasSlot(monday, "09:15") {
		t.Error("09:15 is off the grid, should not be a slot")
	}
	if s.HasSlot(monday, "17:00") {
		t.Error("17:00 is past the window, should not be a slot")
	}
}
