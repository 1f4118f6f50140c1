package availability

import (
	"encoding/json"
	"net/http"

	"github.com/blink-new/meetly-server/cmd/models"
	"github.com/blink-new/meetly-server/cmd/utils"
	"github.com/blink-new/meetly-server/scheduling"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type AvailabilityHandler struct {
	db *gorm.DB
}

func NewAvailabilityHandler(db *gorm.DB) *AvailabilityHandler {
	return &AvailabilityHandler{db: db}
}

func (h *AvailabilityHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/availability", utils.AuthMiddleware(h.GetAvailability)).Methods("GET")
	router.HandleFunc("/availability", utils.AuthMiddleware(h.UpdateAvailability)).Methods("PUT")
}

func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var availability models.Availability
	if err := h.db.Preload("Days", func(db *gorm.DB) *gorm.DB {
		return db.Order("weekday ASC")
	}).Where("user_id = ?", userID).First(&availability).Error; err != nil {
		http.Error(w, "Availability not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(availability)
}

type updateRequest struct {
	MeetingDuration int `json:"meeting_duration"`
	Days            []struct {
		Weekday   int    `json:"weekday"`
		Enabled   bool   `json:"enabled"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	} `json:"days"`
}

func (h *AvailabilityHandler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var updateData updateRequest
	if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !scheduling.ValidDuration(updateData.MeetingDuration) {
		http.Error(w, "Invalid meeting duration", http.StatusBadRequest)
		return
	}
	for _, day := range updateData.Days {
		if day.Weekday < 0 || day.Weekday > 6 {
			http.Error(w, "Invalid weekday", http.StatusBadRequest)
			return
		}
		start, err := scheduling.ParseClock(day.StartTime)
		if err != nil {
			http.Error(w, "Invalid start time. Use HH:MM", http.StatusBadRequest)
			return
		}
		end, err := scheduling.ParseClock(day.EndTime)
		if err != nil {
			http.Error(w, "Invalid end time. Use HH:MM", http.StatusBadRequest)
			return
		}
		if day.Enabled && start >= end {
			http.Error(w, "Start time must be before end time", http.StatusBadRequest)
			return
		}
	}

	var availability models.Availability
	if err := h.db.Where("user_id = ?", userID).First(&availability).Error; err != nil {
		http.Error(w, "Availability not found", http.StatusNotFound)
		return
	}

	tx := h.db.Begin()

	availability.MeetingDuration = updateData.MeetingDuration
	if err := tx.Save(&availability).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error updating availability", http.StatusInternalServerError)
		return
	}

	for _, day := range updateData.Days {
		result := tx.Model(&models.DayAvailability{}).
			Where("availability_id = ? AND weekday = ?", availability.ID, day.Weekday).
			Updates(map[string]interface{}{
				"enabled":    day.Enabled,
				"start_time": day.StartTime,
				"end_time":   day.EndTime,
			})
		if result.Error != nil {
			tx.Rollback()
			http.Error(w, "Error updating schedule", http.StatusInternalServerError)
			return
		}
		if result.RowsAffected == 0 {
			if err := tx.Create(&models.DayAvailability{
				AvailabilityID: availability.ID,
				Weekday:        day.Weekday,
				Enabled:        day.Enabled,
				StartTime:      day.StartTime,
				EndTime:        day.EndTime,
			}).Error; err != nil {
				tx.Rollback()
				http.Error(w, "Error updating schedule", http.StatusInternalServerError)
				return
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Error saving settings", http.StatusInternalServerError)
		return
	}

	var updated models.Availability
	if err := h.db.Preload("Days", func(db *gorm.DB) *gorm.DB {
		return db.Order("weekday ASC")
	}).Where("user_id = ?", userID).First(&updated).Error; err != nil {
		http.Error(w, "Error retrieving availability", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}
