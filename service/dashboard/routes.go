package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/blink-new/meetly-server/cmd/models"
	"github.com/blink-new/meetly-server/cmd/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

type DashboardStats struct {
	TotalAppointments  int64                `json:"total_appointments"`
	UpcomingConfirmed  int64                `json:"upcoming_confirmed"`
	CancelledCount     int64                `json:"cancelled_count"`
	BookedThisWeek     int64                `json:"booked_this_week"`
	RecentAppointments []models.Appointment `json:"recent_appointments"`
}

// RegisterRoutes registers dashboard-related routes with Gorilla Mux
func (h *DashboardHandler) RegisterRoutes(router *mux.Router) {
	dashboardRouter := router.PathPrefix("/dashboard").Subrouter()
	dashboardRouter.HandleFunc("/stats", utils.AuthMiddleware(h.GetDashboardStats)).Methods("GET")
}

func (h *DashboardHandler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var stats DashboardStats
	now := time.Now().UTC()
	base := h.db.Model(&models.Appointment{}).Where("owner_id = ?", userID)

	base.Session(&gorm.Session{}).Count(&stats.TotalAppointments)
	base.Session(&gorm.Session{}).
		Where("status = ? AND start_time > ?", models.AppointmentConfirmed, now).
		Count(&stats.UpcomingConfirmed)
	base.Session(&gorm.Session{}).
		Where("status = ?", models.AppointmentCancelled).
		Count(&stats.CancelledCount)
	base.Session(&gorm.Session{}).
		Where("created_at > ?", now.AddDate(0, 0, -7)).
		Count(&stats.BookedThisWeek)

	if err := h.db.Where("owner_id = ?", userID).
		Order("created_at DESC").Limit(5).
		Find(&stats.RecentAppointments).Error; err != nil {
		http.Error(w, "Error retrieving recent appointments", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
