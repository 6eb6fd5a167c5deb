package booking

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Khushali-sys/Book-my-advocate/cmd/models"
	"github.com/Khushali-sys/Book-my-advocate/cmd/utils"
	"github.com/Khushali-sys/Book-my-advocate/service/notification"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type BookingHandler struct {
	db       *gorm.DB
	notifier *notification.Notifier
}

func NewBookingHandler(db *gorm.DB, notifier *notification.Notifier) *BookingHandler {
	return &BookingHandler{db: db, notifier: notifier}
}

func (h *BookingHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/advocates/{advocateId}/bookings", utils.RequireAuth(h.CreateBooking)).Methods("POST")
	router.HandleFunc("/bookings", utils.RequireAuth(h.GetBookings)).Methods("GET")
	router.HandleFunc("/bookings/{id}", utils.RequireAuth(h.GetBooking)).Methods("GET")
	router.HandleFunc("/bookings/{id}/cancel", utils.RequireAuth(h.CancelBooking)).Methods("PATCH")
	router.HandleFunc("/bookings/{id}/status", utils.RequireAuth(h.UpdateBookingStatus)).Methods("PATCH")
}

// CreateBooking books an advocate's slot for the authenticated client. The
// (advocate, date, time) tuple is guarded by a composite unique index, so
// concurrent attempts on the same slot have exactly one winner; the loser
// surfaces as a conflict. Cancelled bookings keep their slot occupied.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	advocateID, err := strconv.ParseUint(vars["advocateId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid advocate ID", http.StatusBadRequest)
		return
	}

	clientID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var bookingRequest struct {
		ServiceType     string `json:"service_type"`
		BookingDate     string `json:"booking_date"`
		BookingTime     string `json:"booking_time"`
		Duration        int    `json:"duration"`
		CaseDescription string `json:"case_description"`
		CaseType        string `json:"case_type"`
		Priority        string `json:"priority"`
	}

	if err := json.NewDecoder(r.Body).Decode(&bookingRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !ValidServiceType(bookingRequest.ServiceType) {
		utils.WriteError(w, utils.NewError(utils.ValidationError, "Invalid service type"))
		return
	}

	bookingDate, bookingTime, err := ParseSlot(bookingRequest.BookingDate, bookingRequest.BookingTime)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := ValidateBookingDate(bookingDate, time.Now()); err != nil {
		utils.WriteError(w, err)
		return
	}

	var advocate models.Advocate
	if err := h.db.Preload("User").First(&advocate, advocateID).Error; err != nil {
		utils.WriteError(w, utils.NewError(utils.NotFoundError, "Advocate not found"))
		return
	}

	duration := bookingRequest.Duration
	if duration <= 0 {
		duration = 60
	}
	priority := bookingRequest.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}

	booking := models.Booking{
		ClientID:        clientID,
		AdvocateID:      advocate.ID,
		ServiceType:     bookingRequest.ServiceType,
		BookingDate:     bookingDate,
		BookingTime:     bookingTime,
		Duration:        duration,
		Status:          models.BookingPending,
		CaseDescription: bookingRequest.CaseDescription,
		CaseType:        bookingRequest.CaseType,
		Priority:        priority,
		TotalFee:        FeeFor(&advocate, bookingRequest.ServiceType),
		PaymentStatus:   models.PaymentStatusPending,
	}

	// Insert directly and let the unique index arbitrate the slot. A
	// read-then-write check here would race with concurrent bookings.
	if err := h.db.Create(&booking).Error; err != nil {
		if utils.IsDuplicateKey(err) {
			utils.WriteError(w, utils.NewError(utils.ConflictError, "This time slot is already booked"))
			return
		}
		http.Error(w, "Error creating booking", http.StatusInternalServerError)
		return
	}

	if advocate.User != nil {
		h.notifier.Notify(advocate.UserID, models.NotifyBookingCreated,
			"New booking request",
			fmt.Sprintf("You have a new %s booking on %s at %s", booking.ServiceType, bookingRequest.BookingDate, bookingTime),
			fmt.Sprintf("/bookings/%d", booking.ID))
	}

	h.db.Preload("Client").Preload("Advocate.User").First(&booking, booking.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(booking)
}

// GetBookings lists bookings for the authenticated principal: clients see
// their own, advocates see bookings made with them, admins see everything.
func (h *BookingHandler) GetBookings(w http.ResponseWriter, r *http.Request) {
	authUserID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var user models.User
	if err := h.db.First(&user, authUserID).Error; err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 20

	query := h.db.Model(&models.Booking{}).Preload("Client").Preload("Advocate.User")

	switch user.Role {
	case models.RoleClient:
		query = query.Where("client_id = ?", authUserID)
	case models.RoleAdvocate:
		var advocate models.Advocate
		if err := h.db.Where("user_id = ?", authUserID).First(&advocate).Error; err != nil {
			http.Error(w, "Advocate profile not found", http.StatusNotFound)
			return
		}
		query = query.Where("advocate_id = ?", advocate.ID)
	case models.RoleAdmin:
		// no scoping
	default:
		query = query.Where("client_id = ?", authUserID)
	}

	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var bookings []models.Booking
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("booking_date DESC, booking_time DESC").Find(&bookings).Error; err != nil {
		http.Error(w, "Error retrieving bookings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"bookings":    bookings,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetBooking retrieves a booking visible to its client, its advocate or an
// admin.
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid booking ID", http.StatusBadRequest)
		return
	}

	authUserID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var booking models.Booking
	if err := h.db.Preload("Client").Preload("Advocate.User").Preload("Review").Preload("Payment").
		First(&booking, bookingID).Error; err != nil {
		utils.WriteError(w, utils.NewError(utils.NotFoundError, "Booking not found"))
		return
	}

	if !h.canView(&booking, authUserID) {
		utils.WriteError(w, utils.NewError(utils.AuthorizationError, "You do not have permission to view this booking"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(booking)
}

func (h *BookingHandler) canView(booking *models.Booking, userID uint) bool {
	if booking.ClientID == userID {
		return true
	}
	if booking.Advocate != nil && booking.Advocate.UserID == userID {
		return true
	}
	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return false
	}
	return user.Role == models.RoleAdmin
}

// CancelBooking cancels a pending or confirmed booking on behalf of its
// client. The slot stays occupied: the unique index has no status exclusion.
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid booking ID", http.StatusBadRequest)
		return
	}

	authUserID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var cancelRequest struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&cancelRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var booking models.Booking
	if err := h.db.Preload("Advocate").First(&booking, bookingID).Error; err != nil {
		utils.WriteError(w, utils.NewError(utils.NotFoundError, "Booking not found"))
		return
	}

	if booking.ClientID != authUserID {
		utils.WriteError(w, utils.NewError(utils.AuthorizationError, "You do not have permission to cancel this booking"))
		return
	}

	if err := ValidateCancellable(booking.Status); err != nil {
		utils.WriteError(w, err)
		return
	}

	booking.Status = models.BookingCancelled
	booking.CancellationReason = cancelRequest.Reason
	if err := h.db.Save(&booking).Error; err != nil {
		http.Error(w, "Error cancelling booking", http.StatusInternalServerError)
		return
	}

	if booking.Advocate != nil {
		h.notifier.Notify(booking.Advocate.UserID, models.NotifyBookingCancelled,
			"Booking cancelled",
			fmt.Sprintf("Booking #%d was cancelled by the client", booking.ID),
			fmt.Sprintf("/bookings/%d", booking.ID))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(booking)
}

// UpdateBookingStatus lets the owning advocate move a booking to any declared
// status. Unrecognised status values leave the booking unchanged rather than
// erroring; no transition graph is enforced.
func (h *BookingHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid booking ID", http.StatusBadRequest)
		return
	}

	authUserID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var statusRequest struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&statusRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var booking models.Booking
	if err := h.db.Preload("Advocate").First(&booking, bookingID).Error; err != nil {
		utils.WriteError(w, utils.NewError(utils.NotFoundError, "Booking not found"))
		return
	}

	if booking.Advocate == nil || booking.Advocate.UserID != authUserID {
		utils.WriteError(w, utils.NewError(utils.AuthorizationError, "Only the advocate can update this booking"))
		return
	}

	if ValidBookingStatus(statusRequest.Status) {
		booking.Status = statusRequest.Status
		if statusRequest.Notes != "" {
			booking.Notes = statusRequest.Notes
		}
		if err := h.db.Save(&booking).Error; err != nil {
			http.Error(w, "Error updating booking", http.StatusInternalServerError)
			return
		}

		if statusRequest.Status == models.BookingConfirmed {
			h.notifier.Notify(booking.ClientID, models.NotifyBookingConfirmed,
				"Booking confirmed",
				fmt.Sprintf("Your booking #%d has been confirmed", booking.ID),
				fmt.Sprintf("/bookings/%d", booking.ID))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(booking)
}
