package api

import (
	"log"
	"net/http"
	"os"

	"github.com/blink-new/meetly-server/service/appointment"
	"github.com/blink-new/meetly-server/service/availability"
	"github.com/blink-new/meetly-server/service/booking"
	"github.com/blink-new/meetly-server/service/dashboard"
	"github.com/blink-new/meetly-server/service/events"
	"github.com/blink-new/meetly-server/service/notification"
	"github.com/blink-new/meetly-server/service/user"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type APIServer struct {
	address string
	db      *gorm.DB
}

func NewApiServer(address string, db *gorm.DB) *APIServer {
	return &APIServer{
		address: address,
		db:      db,
	}
}

func (s *APIServer) Run() error {
	router := mux.NewRouter()
	subrouter := router.PathPrefix("/api/v1").Subrouter()

	hub := events.NewHub()
	notificationHandler := notification.NewNotificationHandler(s.db)

	userHandler := user.NewHandler(s.db)
	userHandler.RegisterRoutes(subrouter)

	availabilityHandler := availability.NewAvailabilityHandler(s.db)
	availabilityHandler.RegisterRoutes(subrouter)

	bookingHandler := booking.NewBookingHandler(s.db, hub, notificationHandler)
	bookingHandler.RegisterRoutes(subrouter)

	appointmentHandler := appointment.NewAppointmentHandler(s.db, hub)
	appointmentHandler.RegisterRoutes(subrouter)

	dashboardHandler := dashboard.NewDashboardHandler(s.db)
	dashboardHandler.RegisterRoutes(subrouter)

	notificationHandler.RegisterRoutes(subrouter)

	eventsHandler := events.NewEventsHandler(hub)
	eventsHandler.RegisterRoutes(subrouter)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	log.Println("Server running at", s.address)
	return http.ListenAndServe(s.address, handlers.CombinedLoggingHandler(os.Stdout, cors(router)))
}
