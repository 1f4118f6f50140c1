package appointment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/blink-new/meetly-server/cmd/models"
	"github.com/blink-new/meetly-server/cmd/utils"
	"github.com/blink-new/meetly-server/scheduling"
	"github.com/blink-new/meetly-server/service/booking"
	"github.com/blink-new/meetly-server/service/events"
	"github.com/blink-new/meetly-server/service/notifier"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// AppointmentHandler serves the owner side: listing, inspecting and
// cancelling bookings on their own calendar.
type AppointmentHandler struct {
	db       *gorm.DB
	store    *booking.AppointmentStore
	notifier *notifier.EmailNotifier
	hub      *events.Hub
}

func NewAppointmentHandler(db *gorm.DB, hub *events.Hub) *AppointmentHandler {
	return &AppointmentHandler{
		db:       db,
		store:    booking.NewAppointmentStore(db),
		notifier: notifier.NewEmailNotifier(),
		hub:      hub,
	}
}

func (h *AppointmentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/appointments", utils.AuthMiddleware(h.GetAppointments)).Methods("GET")
	router.HandleFunc("/appointments/{id}", utils.AuthMiddleware(h.GetAppointment)).Methods("GET")
	router.HandleFunc("/appointments/{id}/cancel", utils.AuthMiddleware(h.CancelAppointment)).Methods("PATCH")
}

// GetAppointments retrieves the owner's appointments, filterable by
// status and upcoming/past, newest first.
func (h *AppointmentHandler) GetAppointments(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 50

	query := h.db.Model(&models.Appointment{}).Where("owner_id = ?", userID)

	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	switch r.URL.Query().Get("when") {
	case "upcoming":
		query = query.Where("start_time > ?", time.Now().UTC())
	case "past":
		query = query.Where("start_time <= ?", time.Now().UTC())
	}

	var total int64
	query.Count(&total)

	var appointments []models.Appointment
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("start_time DESC").Find(&appointments).Error; err != nil {
		http.Error(w, "Error retrieving appointments", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"appointments": appointments,
		"total":        total,
		"page":         page,
		"page_size":    pageSize,
		"total_pages":  (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetAppointment retrieves a specific appointment by ID
func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	var appointment models.Appointment
	if err := h.db.Where("id = ? AND owner_id = ?", vars["id"], userID).First(&appointment).Error; err != nil {
		http.Error(w, "Appointment not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appointment)
}

// CancelAppointment moves a confirmed appointment to cancelled. The
// request must carry "confirm": true, the API form of the blocking
// confirmation dialog. Cancelling twice is a no-op; a completed
// appointment cannot be cancelled.
func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var cancelRequest struct {
		Confirm bool `json:"confirm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&cancelRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !cancelRequest.Confirm {
		http.Error(w, "Cancellation must be confirmed", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	var appointment models.Appointment
	if err := h.db.Where("id = ? AND owner_id = ?", vars["id"], userID).First(&appointment).Error; err != nil {
		http.Error(w, "Appointment not found", http.StatusNotFound)
		return
	}

	alreadyCancelled := appointment.Status == models.AppointmentCancelled

	if err := scheduling.Cancel(r.Context(), h.store, &appointment); err != nil {
		var ve *scheduling.ValidationError
		if errors.As(err, &ve) {
			http.Error(w, "Only confirmed appointments can be cancelled", http.StatusConflict)
			return
		}
		http.Error(w, "Error cancelling appointment", http.StatusInternalServerError)
		return
	}

	if !alreadyCancelled {
		h.notifier.SendCancellation(appointment)
		h.hub.Publish(userID, events.Event{
			Type:        events.AppointmentCancelled,
			Appointment: appointment,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":     "Appointment cancelled successfully",
		"appointment": appointment,
	})
}
