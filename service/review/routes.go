package review

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/Khushali-sys/Book-my-advocate/cmd/models"
	"github.com/Khushali-sys/Book-my-advocate/cmd/utils"
	"github.com/Khushali-sys/Book-my-advocate/service/notification"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewHandler struct {
	db       *gorm.DB
	notifier *notification.Notifier
}

func NewReviewHandler(db *gorm.DB, notifier *notification.Notifier) *ReviewHandler {
	return &ReviewHandler{db: db, notifier: notifier}
}

func (h *ReviewHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/bookings/{id}/review", utils.RequireAuth(h.SubmitReview)).Methods("POST")
	router.HandleFunc("/advocates/{advocateId}/reviews", h.GetAdvocateReviews).Methods("GET")
}

// RoundRating rounds an aggregate rating to two decimals.
func RoundRating(rating float64) float64 {
	return math.Round(rating*100) / 100
}

// ValidateScores checks that every review score is in the 1..5 range.
func ValidateScores(scores ...int) error {
	for _, score := range scores {
		if score < 1 || score > 5 {
			return utils.NewError(utils.ValidationError, "Scores must be between 1 and 5")
		}
	}
	return nil
}

// SubmitReview creates the single review for a completed booking and
// recomputes the advocate's aggregate rating from the full review set. The
// recompute locks the advocate row so concurrent submissions serialize
// instead of overwriting each other with stale aggregates.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
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

	var reviewRequest struct {
		Rating          int    `json:"rating"`
		Professionalism int    `json:"professionalism"`
		Communication   int    `json:"communication"`
		Expertise       int    `json:"expertise"`
		Comment         string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&reviewRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := ValidateScores(reviewRequest.Rating, reviewRequest.Professionalism,
		reviewRequest.Communication, reviewRequest.Expertise); err != nil {
		utils.WriteError(w, err)
		return
	}

	var booking models.Booking
	if err := h.db.Preload("Advocate").First(&booking, bookingID).Error; err != nil {
		utils.WriteError(w, utils.NewError(utils.NotFoundError, "Booking not found"))
		return
	}

	if booking.ClientID != authUserID {
		utils.WriteError(w, utils.NewError(utils.AuthorizationError, "Only the booking's client can review it"))
		return
	}

	if booking.Status != models.BookingCompleted {
		utils.WriteError(w, utils.NewError(utils.InvalidStateError, "Only completed bookings can be reviewed"))
		return
	}

	review := models.Review{
		BookingID:       booking.ID,
		AdvocateID:      booking.AdvocateID,
		ClientID:        authUserID,
		Rating:          reviewRequest.Rating,
		Professionalism: reviewRequest.Professionalism,
		Communication:   reviewRequest.Communication,
		Expertise:       reviewRequest.Expertise,
		Comment:         reviewRequest.Comment,
	}

	tx := h.db.Begin()

	if err := tx.Create(&review).Error; err != nil {
		tx.Rollback()
		if utils.IsDuplicateKey(err) {
			utils.WriteError(w, utils.NewError(utils.ConflictError, "You have already reviewed this booking"))
			return
		}
		http.Error(w, "Error creating review", http.StatusInternalServerError)
		return
	}

	// Lock the advocate row, then recompute from the full review set. A
	// running average would drift; the re-scan never does.
	var advocate models.Advocate
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&advocate, booking.AdvocateID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error loading advocate", http.StatusInternalServerError)
		return
	}

	var aggregate struct {
		Average float64
		Total   int64
	}
	if err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
		Where("advocate_id = ?", booking.AdvocateID).
		Scan(&aggregate).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error computing rating", http.StatusInternalServerError)
		return
	}

	advocate.Rating = RoundRating(aggregate.Average)
	advocate.TotalReviews = int(aggregate.Total)
	if err := tx.Save(&advocate).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error updating advocate rating", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Error completing review", http.StatusInternalServerError)
		return
	}

	h.notifier.Notify(advocate.UserID, models.NotifyReviewReceived,
		"New review received",
		fmt.Sprintf("A client rated you %d/5", review.Rating),
		fmt.Sprintf("/bookings/%d", booking.ID))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(review)
}

// GetAdvocateReviews lists the verified reviews for an advocate.
func (h *ReviewHandler) GetAdvocateReviews(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	advocateID, err := strconv.ParseUint(vars["advocateId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid advocate ID", http.StatusBadRequest)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 10

	query := h.db.Model(&models.Review{}).
		Where("advocate_id = ? AND is_verified = ?", advocateID, true).
		Preload("Client")

	var total int64
	query.Count(&total)

	var reviews []models.Review
	if err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&reviews).Error; err != nil {
		http.Error(w, "Error retrieving reviews", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"reviews":     reviews,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}
