package booking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/blink-new/meetly-server/cmd/models"
	"github.com/blink-new/meetly-server/scheduling"
	"github.com/blink-new/meetly-server/service/events"
	"github.com/blink-new/meetly-server/service/notification"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*mux.Router, *gorm.DB, *models.User) {
	t.Helper()
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		t.Skip("DB_URL not set")
	}

	gdb, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	for _, m := range []interface{}{
		&models.User{}, &models.Availability{}, &models.DayAvailability{},
		&models.Appointment{}, &models.Device{}, &models.NotificationHistory{},
	} {
		if err := gdb.AutoMigrate(m); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}

	owner := &models.User{
		FullName:     "John Smith",
		Email:        fmt.Sprintf("owner-%s@test.com", uuid.New().String()[:8]),
		PasswordHash: "x",
	}
	if err := gdb.Create(owner).Error; err != nil {
		t.Fatalf("create owner: %v", err)
	}

	availability := models.Availability{UserID: owner.ID, MeetingDuration: 30}
	defaults := scheduling.DefaultSchedule()
	for d := 0; d < 7; d++ {
		w := defaults.Window(time.Weekday(d))
		availability.Days = append(availability.Days, models.DayAvailability{
			Weekday:   d,
			Enabled:   w.Enabled,
			StartTime: scheduling.FormatClock(w.Start),
			EndTime:   scheduling.FormatClock(w.End),
		})
	}
	if err := gdb.Create(&availability).Error; err != nil {
		t.Fatalf("create availability: %v", err)
	}

	router := mux.NewRouter()
	h := NewBookingHandler(gdb, events.NewHub(), notification.NewNotificationHandler(gdb))
	h.RegisterRoutes(router)
	return router, gdb, owner
}

// nextMonday returns the first Monday strictly after today.
func nextMonday() time.Time {
	d := time.Now().AddDate(0, 0, 1)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func TestGetOwnerProfile(t *testing.T) {
	router, _, owner := setup(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", fmt.Sprintf("/book/%d", owner.ID), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var profile struct {
		Name            string `json:"name"`
		MeetingDuration int    `json:"meeting_duration"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if profile.Name != "John Smith" || profile.MeetingDuration != 30 {
		t.Errorf("profile = %+v", profile)
	}
}

func TestUnknownOwnerIs404(t *testing.T) {
	router, _, _ := setup(t)

	for _, path := range []string{
		"/book/999999999",
		"/book/999999999/dates",
		"/book/999999999/slots?date=2026-09-07",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", path, rec.Code)
		}
	}
}

func TestGetAvailableDates(t *testing.T) {
	router, _, owner := setup(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", fmt.Sprintf("/book/%d/dates", owner.ID), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Dates []string `json:"dates"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	today := time.Now().Format("2006-01-02")
	for _, d := range resp.Dates {
		if d == today {
			t.Error("dates include today")
		}
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			t.Fatalf("bad date %q: %v", d, err)
		}
		if parsed.Weekday() == time.Saturday || parsed.Weekday() == time.Sunday {
			t.Errorf("weekend date %s included", d)
		}
	}
}

func TestGetTimeSlots(t *testing.T) {
	router, _, owner := setup(t)

	date := nextMonday().Format("2006-01-02")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", fmt.Sprintf("/book/%d/slots?date=%s", owner.ID, date), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Slots []scheduling.Slot `json:"slots"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Slots) != 16 {
		t.Errorf("got %d slots, want 16", len(resp.Slots))
	}
}

func TestBookAppointment(t *testing.T) {
	router, gdb, owner := setup(t)

	body, _ := json.Marshal(map[string]string{
		"date":    nextMonday().Format("2006-01-02"),
		"time":    "09:30",
		"name":    "Jane Doe",
		"email":   "jane@x.com",
		"message": "Looking forward to it",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", fmt.Sprintf("/book/%d/appointments", owner.ID), bytes.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var appt models.Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &appt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if appt.Status != models.AppointmentConfirmed {
		t.Errorf("status = %q, want confirmed", appt.Status)
	}
	if appt.OwnerID != owner.ID {
		t.Errorf("owner = %d, want %d", appt.OwnerID, owner.ID)
	}

	var stored models.Appointment
	if err := gdb.First(&stored, "id = ?", appt.ID).Error; err != nil {
		t.Fatalf("appointment not persisted: %v", err)
	}
	if stored.StartTime.UTC().Format("15:04") != "09:30" {
		t.Errorf("stored start = %v", stored.StartTime)
	}
}

func TestBookAppointmentRejectsBadRequests(t *testing.T) {
	router, gdb, owner := setup(t)

	var before int64
	gdb.Model(&models.Appointment{}).Where("owner_id = ?", owner.ID).Count(&before)

	date := nextMonday().Format("2006-01-02")
	tests := []struct {
		name string
		body map[string]string
	}{
		{"empty name", map[string]string{"date": date, "time": "09:00", "name": "", "email": "jane@x.com"}},
		{"bad email", map[string]string{"date": date, "time": "09:00", "name": "Jane Doe", "email": "nope"}},
		{"off-grid time", map[string]string{"date": date, "time": "09:12", "name": "Jane Doe", "email": "jane@x.com"}},
		{"bad date", map[string]string{"date": "yesterday", "time": "09:00", "name": "Jane Doe", "email": "jane@x.com"}},
		{"past date", map[string]string{"date": "2020-03-02", "time": "09:00", "name": "Jane Doe", "email": "jane@x.com"}},
		{"today", map[string]string{"date": time.Now().Format("2006-01-02"), "time": "09:00", "name": "Jane Doe", "email": "jane@x.com"}},
		{"beyond horizon", map[string]string{"date": nextMonday().AddDate(0, 0, 35).Format("2006-01-02"), "time": "09:00", "name": "Jane Doe", "email": "jane@x.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("POST", fmt.Sprintf("/book/%d/appointments", owner.ID), bytes.NewReader(body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}

	var after int64
	gdb.Model(&models.Appointment{}).Where("owner_id = ?", owner.ID).Count(&after)
	if after != before {
		t.Errorf("rejected requests created %d appointments", after-before)
	}
}
