package api

import (
	"log"
	"net/http"
	"os"

	"github.com/Khushali-sys/Book-my-advocate/service/advocate"
	"github.com/Khushali-sys/Book-my-advocate/service/availability"
	"github.com/Khushali-sys/Book-my-advocate/service/booking"
	"github.com/Khushali-sys/Book-my-advocate/service/notification"
	"github.com/Khushali-sys/Book-my-advocate/service/payment"
	"github.com/Khushali-sys/Book-my-advocate/service/review"
	"github.com/Khushali-sys/Book-my-advocate/service/user"
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

	notifier := notification.NewNotifier(s.db)

	userHandler := user.NewHandler(s.db)
	userHandler.RegisterRoutes(subrouter)

	advocateHandler := advocate.NewAdvocateHandler(s.db)
	advocateHandler.RegisterRoutes(subrouter)

	availabilityHandler := availability.NewAvailabilityHandler(s.db)
	availabilityHandler.RegisterRoutes(subrouter)

	bookingHandler := booking.NewBookingHandler(s.db, notifier)
	bookingHandler.RegisterRoutes(subrouter)

	reviewHandler := review.NewReviewHandler(s.db, notifier)
	reviewHandler.RegisterRoutes(subrouter)

	paymentHandler := payment.NewPaymentHandler(s.db, payment.NewSimulatedGateway(), notifier)
	paymentHandler.RegisterRoutes(subrouter)

	notificationHandler := notification.NewNotificationHandler(s.db, notifier)
	notificationHandler.RegisterRoutes(subrouter)

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	log.Println("Server running at", s.address)
	return http.ListenAndServe(s.address, handlers.LoggingHandler(os.Stdout, corsHandler(router)))
}
