package availability

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Khushali-sys/Book-my-advocate/cmd/models"
	"github.com/Khushali-sys/Book-my-advocate/cmd/utils"
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
	router.HandleFunc("/advocates/{advocateId}/availability", utils.RequireAuth(h.CreateAvailability)).Methods("POST")
	router.HandleFunc("/advocates/{advocateId}/availability", h.GetAvailabilities).Methods("GET")
	router.HandleFunc("/advocates/{advocateId}/availability/{id}", utils.RequireAuth(h.UpdateAvailability)).Methods("PUT")
	router.HandleFunc("/advocates/{advocateId}/availability/{id}", utils.RequireAuth(h.DeleteAvailability)).Methods("DELETE")
}

// ValidateWindow checks a weekly window: a real weekday, parseable times and
// an end after the start.
func ValidateWindow(dayOfWeek int, startTime, endTime string) error {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return utils.NewError(utils.ValidationError, "Day of week must be between 0 (Monday) and 6 (Sunday)")
	}
	start, err := time.Parse("15:04", startTime)
	if err != nil {
		return utils.NewError(utils.ValidationError, "Invalid start time, expected HH:MM")
	}
	end, err := time.Parse("15:04", endTime)
	if err != nil {
		return utils.NewError(utils.ValidationError, "Invalid end time, expected HH:MM")
	}
	if !end.After(start) {
		return utils.NewError(utils.ValidationError, "End time must be after start time")
	}
	return nil
}

func (h *AvailabilityHandler) ownedAdvocate(r *http.Request) (*models.Advocate, error) {
	vars := mux.Vars(r)
	advocateID, err := strconv.ParseUint(vars["advocateId"], 10, 64)
	if err != nil {
		return nil, utils.NewError(utils.ValidationError, "Invalid advocate ID")
	}

	authUserID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		return nil, utils.NewError(utils.AuthorizationError, "Unauthorized")
	}

	var advocate models.Advocate
	if err := h.db.First(&advocate, advocateID).Error; err != nil {
		return nil, utils.NewError(utils.NotFoundError, "Advocate not found")
	}

	if advocate.UserID != authUserID {
		return nil, utils.NewError(utils.AuthorizationError, "You can only manage your own availability")
	}
	return &advocate, nil
}

// CreateAvailability adds a weekly window. The (advocate, day, start) tuple
// is unique; a duplicate definition is a conflict.
func (h *AvailabilityHandler) CreateAvailability(w http.ResponseWriter, r *http.Request) {
	advocate, err := h.ownedAdvocate(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var window models.AdvocateAvailability
	if err := json.NewDecoder(r.Body).Decode(&window); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := ValidateWindow(window.DayOfWeek, window.StartTime, window.EndTime); err != nil {
		utils.WriteError(w, err)
		return
	}

	window.ID = 0
	window.AdvocateID = advocate.ID
	window.IsAvailable = true

	if err := h.db.Create(&window).Error; err != nil {
		if utils.IsDuplicateKey(err) {
			utils.WriteError(w, utils.NewError(utils.ConflictError, "An availability window already starts at this time"))
			return
		}
		http.Error(w, "Error creating availability", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(window)
}

// GetAvailabilities lists an advocate's enabled windows, ordered through the
// week.
func (h *AvailabilityHandler) GetAvailabilities(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	advocateID, err := strconv.ParseUint(vars["advocateId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid advocate ID", http.StatusBadRequest)
		return
	}

	query := h.db.Where("advocate_id = ?", advocateID)
	if r.URL.Query().Get("all") != "true" {
		query = query.Where("is_available = ?", true)
	}

	var windows []models.AdvocateAvailability
	if err := query.Order("day_of_week, start_time").Find(&windows).Error; err != nil {
		http.Error(w, "Error retrieving availability", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(windows)
}

// UpdateAvailability edits one window.
func (h *AvailabilityHandler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	advocate, err := h.ownedAdvocate(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	vars := mux.Vars(r)
	windowID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid availability ID", http.StatusBadRequest)
		return
	}

	var window models.AdvocateAvailability
	if err := h.db.Where("advocate_id = ?", advocate.ID).First(&window, windowID).Error; err != nil {
		utils.WriteError(w, utils.NewError(utils.NotFoundError, "Availability window not found"))
		return
	}

	var updateRequest struct {
		DayOfWeek   *int    `json:"day_of_week"`
		StartTime   *string `json:"start_time"`
		EndTime     *string `json:"end_time"`
		IsAvailable *bool   `json:"is_available"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updateRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if updateRequest.DayOfWeek != nil {
		window.DayOfWeek = *updateRequest.DayOfWeek
	}
	if updateRequest.StartTime != nil {
		window.StartTime = *updateRequest.StartTime
	}
	if updateRequest.EndTime != nil {
		window.EndTime = *updateRequest.EndTime
	}
	if updateRequest.IsAvailable != nil {
		window.IsAvailable = *updateRequest.IsAvailable
	}

	if err := ValidateWindow(window.DayOfWeek, window.StartTime, window.EndTime); err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := h.db.Save(&window).Error; err != nil {
		if utils.IsDuplicateKey(err) {
			utils.WriteError(w, utils.NewError(utils.ConflictError, "An availability window already starts at this time"))
			return
		}
		http.Error(w, "Error updating availability", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(window)
}

// DeleteAvailability removes one window.
func (h *AvailabilityHandler) DeleteAvailability(w http.ResponseWriter, r *http.Request) {
	advocate, err := h.ownedAdvocate(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	vars := mux.Vars(r)
	windowID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid availability ID", http.StatusBadRequest)
		return
	}

	result := h.db.Where("advocate_id = ?", advocate.ID).Delete(&models.AdvocateAvailability{}, windowID)
	if result.Error != nil {
		http.Error(w, "Error deleting availability", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		utils.WriteError(w, utils.NewError(utils.NotFoundError, "Availability window not found"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Availability window deleted successfully",
	})
}
