package payment

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Khushali-sys/Book-my-advocate/cmd/models"
	"github.com/Khushali-sys/Book-my-advocate/cmd/utils"
	"github.com/Khushali-sys/Book-my-advocate/service/notification"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type PaymentHandler struct {
	db       *gorm.DB
	gateway  Gateway
	notifier *notification.Notifier
}

func NewPaymentHandler(db *gorm.DB, gateway Gateway, notifier *notification.Notifier) *PaymentHandler {
	return &PaymentHandler{db: db, gateway: gateway, notifier: notifier}
}

func (h *PaymentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/bookings/{id}/payments/initiate", utils.RequireAuth(h.InitiatePayment)).Methods("POST")
	router.HandleFunc("/bookings/{id}/payments", utils.RequireAuth(h.ProcessPayment)).Methods("POST")
	router.HandleFunc("/payments", utils.RequireAuth(h.GetPayments)).Methods("GET")
	router.HandleFunc("/payments/{id}", utils.RequireAuth(h.GetPayment)).Methods("GET")
	router.HandleFunc("/payments/{id}/refund", utils.RequireAuth(h.RequestRefund)).Methods("POST")
}

func ValidPaymentMethod(method string) bool {
	for _, m := range models.PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// beginAttempt stamps a payment row for a fresh charge attempt. Retrying a
// failed payment adopts the newly requested method; the amount and
// transaction id stay fixed from creation.
func beginAttempt(payment *models.Payment, method string) {
	payment.PaymentMethod = method
	payment.Status = models.PaymentProcessing
}

// ValidateRefundable rejects refunds on anything but a completed payment.
func ValidateRefundable(status string) error {
	if status == models.PaymentRefunded {
		return utils.NewError(utils.InvalidStateError, "This payment has already been refunded")
	}
	if status != models.PaymentCompleted {
		return utils.NewError(utils.InvalidStateError, "This payment is not eligible for refund")
	}
	return nil
}

// InitiatePayment returns the payment intent for a booking: what is owed and
// by whom. Rejected when the booking is already paid.
func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
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
	if err := h.db.Preload("Advocate.User").First(&booking, bookingID).Error; err != nil {
		utils.WriteError(w, utils.NewError(utils.NotFoundError, "Booking not found"))
		return
	}

	if booking.ClientID != authUserID {
		utils.WriteError(w, utils.NewError(utils.AuthorizationError, "You do not have permission to pay for this booking"))
		return
	}

	if booking.PaymentStatus == models.PaymentStatusPaid {
		utils.WriteError(w, utils.NewError(utils.InvalidStateError, "This booking has already been paid for"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"booking_id": booking.ID,
		"amount":     booking.TotalFee,
		"methods":    models.PaymentMethods,
	})
}

// ProcessPayment charges the booking fee through the gateway. The payment row
// is create-or-fetch keyed by booking (the unique booking_id index makes
// concurrent calls converge on one row). Gateway success confirms the
// booking; gateway failure is recorded on the payment and leaves the booking
// unpaid so the client can retry.
func (h *PaymentHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
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

	var paymentRequest struct {
		PaymentMethod string `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&paymentRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !ValidPaymentMethod(paymentRequest.PaymentMethod) {
		utils.WriteError(w, utils.NewError(utils.ValidationError, "Invalid payment method"))
		return
	}

	var booking models.Booking
	if err := h.db.Preload("Advocate.User").First(&booking, bookingID).Error; err != nil {
		utils.WriteError(w, utils.NewError(utils.NotFoundError, "Booking not found"))
		return
	}

	if booking.ClientID != authUserID {
		utils.WriteError(w, utils.NewError(utils.AuthorizationError, "You do not have permission to pay for this booking"))
		return
	}

	if booking.PaymentStatus == models.PaymentStatusPaid {
		utils.WriteError(w, utils.NewError(utils.InvalidStateError, "This booking has already been paid for"))
		return
	}

	// Create-or-fetch: the amount is fixed from the booking's fee at
	// creation and never recomputed. The unique booking_id index makes
	// concurrent calls converge on one row.
	payment := models.Payment{BookingID: booking.ID}
	if err := h.db.Where("booking_id = ?", booking.ID).
		Attrs(models.Payment{
			Amount:        booking.TotalFee,
			PaymentMethod: paymentRequest.PaymentMethod,
			TransactionID: uuid.New().String(),
			Status:        models.PaymentProcessing,
		}).
		FirstOrCreate(&payment).Error; err != nil {
		if utils.IsDuplicateKey(err) {
			utils.WriteError(w, utils.NewError(utils.ConflictError, "A payment for this booking is already in progress"))
			return
		}
		http.Error(w, "Error creating payment", http.StatusInternalServerError)
		return
	}

	if payment.Status == models.PaymentCompleted {
		utils.WriteError(w, utils.NewError(utils.InvalidStateError, "This booking has already been paid for"))
		return
	}

	beginAttempt(&payment, paymentRequest.PaymentMethod)
	if err := h.db.Save(&payment).Error; err != nil {
		http.Error(w, "Error updating payment", http.StatusInternalServerError)
		return
	}

	// The gateway call can be slow; it runs with no transaction open so no
	// row locks are held across it.
	result, chargeErr := h.gateway.Charge(payment.Amount, paymentRequest.PaymentMethod)
	if chargeErr != nil {
		// Keep the failed attempt for audit; the booking stays unpaid.
		payment.Status = models.PaymentFailed
		payment.Notes = chargeErr.Error()
		if err := h.db.Save(&payment).Error; err != nil {
			log.Printf("Error recording failed payment %d: %v", payment.ID, err)
		}
		utils.WriteError(w, chargeErr)
		return
	}

	tx := h.db.Begin()

	now := time.Now()
	payment.Status = models.PaymentCompleted
	payment.PaymentDate = &now
	payment.Notes = fmt.Sprintf("Gateway reference: %s", result.Reference)
	if err := tx.Save(&payment).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error updating payment", http.StatusInternalServerError)
		return
	}

	// Payment success is what confirms a pending booking.
	booking.PaymentStatus = models.PaymentStatusPaid
	booking.Status = models.BookingConfirmed
	if err := tx.Save(&booking).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error updating booking", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Error completing payment", http.StatusInternalServerError)
		return
	}

	if booking.Advocate != nil {
		h.notifier.Notify(booking.Advocate.UserID, models.NotifyPaymentReceived,
			"Payment received",
			fmt.Sprintf("Payment of %.2f received for booking #%d", payment.Amount, booking.ID),
			fmt.Sprintf("/bookings/%d", booking.ID))
	}
	h.notifier.Notify(booking.ClientID, models.NotifyBookingConfirmed,
		"Booking confirmed",
		fmt.Sprintf("Your payment was successful and booking #%d is confirmed", booking.ID),
		fmt.Sprintf("/bookings/%d", booking.ID))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(payment)
}

// GetPayments lists payments visible to the principal: clients their own,
// advocates those on their bookings, admins all.
func (h *PaymentHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
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

	query := h.db.Model(&models.Payment{}).Preload("Booking")

	switch user.Role {
	case models.RoleClient:
		query = query.Joins("JOIN bookings ON bookings.id = payments.booking_id").
			Where("bookings.client_id = ?", authUserID)
	case models.RoleAdvocate:
		var advocate models.Advocate
		if err := h.db.Where("user_id = ?", authUserID).First(&advocate).Error; err != nil {
			http.Error(w, "Advocate profile not found", http.StatusNotFound)
			return
		}
		query = query.Joins("JOIN bookings ON bookings.id = payments.booking_id").
			Where("bookings.advocate_id = ?", advocate.ID)
	case models.RoleAdmin:
		// no scoping
	default:
		query = query.Joins("JOIN bookings ON bookings.id = payments.booking_id").
			Where("bookings.client_id = ?", authUserID)
	}

	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("payments.status = ?", status)
	}

	var total int64
	query.Count(&total)

	var payments []models.Payment
	if err := query.Order("payments.created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&payments).Error; err != nil {
		http.Error(w, "Error retrieving payments", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"payments":    payments,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetPayment retrieves one payment, visible to the booking's client, its
// advocate or an admin.
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	paymentID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid payment ID", http.StatusBadRequest)
		return
	}

	authUserID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payment models.Payment
	if err := h.db.Preload("Booking.Advocate").First(&payment, paymentID).Error; err != nil {
		utils.WriteError(w, utils.NewError(utils.NotFoundError, "Payment not found"))
		return
	}

	if !h.canView(&payment, authUserID) {
		utils.WriteError(w, utils.NewError(utils.AuthorizationError, "You do not have permission to view this payment"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payment)
}

func (h *PaymentHandler) canView(payment *models.Payment, userID uint) bool {
	if payment.Booking == nil {
		return false
	}
	if payment.Booking.ClientID == userID {
		return true
	}
	if payment.Booking.Advocate != nil && payment.Booking.Advocate.UserID == userID {
		return true
	}
	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return false
	}
	return user.Role == models.RoleAdmin
}

// RequestRefund refunds a completed payment in full and cancels the booking.
func (h *PaymentHandler) RequestRefund(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	paymentID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid payment ID", http.StatusBadRequest)
		return
	}

	authUserID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var refundRequest struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&refundRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var payment models.Payment
	if err := h.db.Preload("Booking.Advocate").First(&payment, paymentID).Error; err != nil {
		utils.WriteError(w, utils.NewError(utils.NotFoundError, "Payment not found"))
		return
	}

	if payment.Booking == nil || payment.Booking.ClientID != authUserID {
		utils.WriteError(w, utils.NewError(utils.AuthorizationError, "You do not have permission to request a refund for this payment"))
		return
	}

	if err := ValidateRefundable(payment.Status); err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := h.gateway.Refund(payment.TransactionID, payment.Amount); err != nil {
		utils.WriteError(w, err)
		return
	}

	tx := h.db.Begin()

	now := time.Now()
	refundAmount := payment.Amount
	payment.Status = models.PaymentRefunded
	payment.RefundDate = &now
	payment.RefundAmount = &refundAmount
	payment.Notes = fmt.Sprintf("Refund requested. Reason: %s", refundRequest.Reason)
	if err := tx.Save(&payment).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error updating payment", http.StatusInternalServerError)
		return
	}

	booking := payment.Booking
	booking.PaymentStatus = models.PaymentStatusRefunded
	booking.Status = models.BookingCancelled
	booking.CancellationReason = fmt.Sprintf("Refund requested: %s", refundRequest.Reason)
	if err := tx.Save(booking).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error updating booking", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Error completing refund", http.StatusInternalServerError)
		return
	}

	if booking.Advocate != nil {
		h.notifier.Notify(booking.Advocate.UserID, models.NotifyBookingCancelled,
			"Booking refunded",
			fmt.Sprintf("Booking #%d was refunded and cancelled", booking.ID),
			fmt.Sprintf("/bookings/%d", booking.ID))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payment)
}
