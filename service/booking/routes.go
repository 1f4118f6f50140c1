package booking

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/blink-new/meetly-server/cmd/models"
	"github.com/blink-new/meetly-server/scheduling"
	"github.com/blink-new/meetly-server/service/events"
	"github.com/blink-new/meetly-server/service/notification"
	"github.com/blink-new/meetly-server/service/notifier"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

const maxHorizonDays = 90

// BookingHandler serves the public guest-facing flow: resolve the
// owner's calendar, list dates and slots, commit the booking.
type BookingHandler struct {
	db       *gorm.DB
	store    *AppointmentStore
	notifier *notifier.EmailNotifier
	hub      *events.Hub
	push     *notification.NotificationHandler
}

func NewBookingHandler(db *gorm.DB, hub *events.Hub, push *notification.NotificationHandler) *BookingHandler {
	return &BookingHandler{
		db:       db,
		store:    NewAppointmentStore(db),
		notifier: notifier.NewEmailNotifier(),
		hub:      hub,
		push:     push,
	}
}

// None of these routes require authentication; guests book anonymously.
func (h *BookingHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/book/{ownerId}", h.GetOwnerProfile).Methods("GET")
	router.HandleFunc("/book/{ownerId}/dates", h.GetAvailableDates).Methods("GET")
	router.HandleFunc("/book/{ownerId}/slots", h.GetTimeSlots).Methods("GET")
	router.HandleFunc("/book/{ownerId}/appointments", h.BookAppointment).Methods("POST")
}

func (h *BookingHandler) loadOwner(w http.ResponseWriter, r *http.Request) (*models.User, scheduling.WeekSchedule, bool) {
	vars := mux.Vars(r)
	ownerID, err := strconv.ParseUint(vars["ownerId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid owner ID", http.StatusBadRequest)
		return nil, scheduling.WeekSchedule{}, false
	}

	var owner models.User
	if err := h.db.Preload("Availability.Days").First(&owner, ownerID).Error; err != nil {
		http.Error(w, "Calendar not found", http.StatusNotFound)
		return nil, scheduling.WeekSchedule{}, false
	}
	if owner.Availability == nil {
		http.Error(w, "Calendar not found", http.StatusNotFound)
		return nil, scheduling.WeekSchedule{}, false
	}

	schedule, err := scheduling.ScheduleFromAvailability(*owner.Availability)
	if err != nil {
		http.Error(w, "Calendar is misconfigured", http.StatusInternalServerError)
		return nil, scheduling.WeekSchedule{}, false
	}

	return &owner, schedule, true
}

// GetOwnerProfile returns what a guest sees on the public booking page.
func (h *BookingHandler) GetOwnerProfile(w http.ResponseWriter, r *http.Request) {
	owner, schedule, ok := h.loadOwner(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"owner_id":         owner.ID,
		"name":             owner.FullName,
		"meeting_duration": schedule.DurationMinutes,
	})
}

func (h *BookingHandler) GetAvailableDates(w http.ResponseWriter, r *http.Request) {
	_, schedule, ok := h.loadOwner(w, r)
	if !ok {
		return
	}

	horizon := scheduling.DefaultHorizonDays
	if days := r.URL.Query().Get("days"); days != "" {
		parsed, err := strconv.Atoi(days)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid days parameter", http.StatusBadRequest)
			return
		}
		if parsed > maxHorizonDays {
			parsed = maxHorizonDays
		}
		horizon = parsed
	}

	dates := schedule.AvailableDates(time.Now(), horizon)
	formatted := make([]string, 0, len(dates))
	for _, d := range dates {
		formatted = append(formatted, d.Format("2006-01-02"))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"dates":   formatted,
		"horizon": horizon,
	})
}

func (h *BookingHandler) GetTimeSlots(w http.ResponseWriter, r *http.Request) {
	_, schedule, ok := h.loadOwner(w, r)
	if !ok {
		return
	}

	dateStr := r.URL.Query().Get("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		http.Error(w, "Invalid date format. Use YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	slots := schedule.TimeSlots(date)
	if slots == nil {
		slots = []scheduling.Slot{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"date":  dateStr,
		"slots": slots,
	})
}

// BookAppointment drives the guest state machine end to end for one
// request: select the slot, continue, submit the details.
func (h *BookingHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	owner, schedule, ok := h.loadOwner(w, r)
	if !ok {
		return
	}

	var bookingRequest struct {
		Date    string `json:"date"`
		Time    string `json:"time"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&bookingRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	date, err := time.Parse("2006-01-02", bookingRequest.Date)
	if err != nil {
		http.Error(w, "Invalid date format. Use YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	session := scheduling.NewSession(owner.ID, schedule, h.store, h.notifier)

	if err := session.SelectSlot(date, bookingRequest.Time); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := session.Continue(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	appointment, err := session.Submit(r.Context(), scheduling.GuestDetails{
		Name:    bookingRequest.Name,
		Email:   bookingRequest.Email,
		Message: bookingRequest.Message,
	})
	if err != nil {
		var ve *scheduling.ValidationError
		if errors.As(err, &ve) {
			http.Error(w, ve.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to book appointment. Please try again.", http.StatusInternalServerError)
		return
	}

	h.hub.Publish(owner.ID, events.Event{
		Type:        events.AppointmentBooked,
		Appointment: *appointment,
	})
	go h.push.PushToOwner(owner.ID, "New appointment booked",
		fmt.Sprintf("%s booked %s", appointment.GuestName, appointment.StartTime.Format("Mon Jan 2 15:04")),
		map[string]interface{}{"appointment_id": appointment.ID})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(appointment)
}
