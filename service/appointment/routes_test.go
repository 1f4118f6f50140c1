package appointment

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/blink-new/meetly-server/cmd/models"
	"github.com/blink-new/meetly-server/cmd/utils"
	"github.com/blink-new/meetly-server/service/events"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	ctx := context.WithValue(req.Context(), utils.UserIDKey, uint(1))
	return req.WithContext(ctx)
}

// The confirmation gate runs before any database access.
func TestCancelRequiresConfirmation(t *testing.T) {
	h := NewAppointmentHandler(nil, events.NewHub())

	tests := []struct {
		name string
		body string
	}{
		{"confirm false", `{"confirm": false}`},
		{"confirm missing", `{}`},
		{"not json", `{{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.CancelAppointment(rec, authedRequest("PATCH", "/appointments/abc/cancel", tt.body))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestCancelCompletedAppointmentConflicts(t *testing.T) {
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		t.Skip("DB_URL not set")
	}

	gdb, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	if err := gdb.AutoMigrate(&models.User{}, &models.Appointment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	owner := &models.User{
		FullName:     "John Smith",
		Email:        fmt.Sprintf("owner-%s@test.com", uuid.New().String()[:8]),
		PasswordHash: "x",
	}
	if err := gdb.Create(owner).Error; err != nil {
		t.Fatalf("create owner: %v", err)
	}
	appt := models.Appointment{
		ID:         uuid.New().String(),
		OwnerID:    owner.ID,
		GuestName:  "Jane Doe",
		GuestEmail: "jane@x.com",
		StartTime:  time.Now().Add(-24 * time.Hour).UTC(),
		Duration:   30,
		Status:     models.AppointmentCompleted,
	}
	if err := gdb.Create(&appt).Error; err != nil {
		t.Fatalf("create appointment: %v", err)
	}

	h := NewAppointmentHandler(gdb, events.NewHub())

	req := httptest.NewRequest("PATCH", "/appointments/"+appt.ID+"/cancel", bytes.NewReader([]byte(`{"confirm": true}`)))
	req = req.WithContext(context.WithValue(req.Context(), utils.UserIDKey, owner.ID))
	req = mux.SetURLVars(req, map[string]string{"id": appt.ID})

	rec := httptest.NewRecorder()
	h.CancelAppointment(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409, body %s", rec.Code, rec.Body.String())
	}

	var stored models.Appointment
	if err := gdb.First(&stored, "id = ?", appt.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != models.AppointmentCompleted {
		t.Errorf("status = %q, want completed", stored.Status)
	}
}

func TestAppointmentsUnauthorized(t *testing.T) {
	h := NewAppointmentHandler(nil, events.NewHub())

	rec := httptest.NewRecorder()
	h.GetAppointments(rec, httptest.NewRequest("GET", "/appointments", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
