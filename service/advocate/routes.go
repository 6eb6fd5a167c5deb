package advocate

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Khushali-sys/Book-my-advocate/cmd/models"
	"github.com/Khushali-sys/Book-my-advocate/cmd/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type AdvocateHandler struct {
	db *gorm.DB
}

func NewAdvocateHandler(db *gorm.DB) *AdvocateHandler {
	return &AdvocateHandler{db: db}
}

func (h *AdvocateHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/advocates", h.GetAdvocates).Methods("GET")
	router.HandleFunc("/advocates/{id:[0-9]+}", h.GetAdvocate).Methods("GET")
	router.HandleFunc("/advocates/{id:[0-9]+}", utils.RequireAuth(h.UpdateAdvocate)).Methods("PUT")
	router.HandleFunc("/advocates/verify/{id}", utils.RequireAuth(h.VerifyAdvocate)).Methods("POST")
	router.HandleFunc("/specializations", h.GetSpecializations).Methods("GET")
}

// GetAdvocates lists verified, available advocates with catalogue filters:
// free-text search, specialization, experience bracket, minimum rating.
func (h *AdvocateHandler) GetAdvocates(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 20

	query := h.db.Model(&models.Advocate{}).
		Where("advocates.verified = ? AND advocates.is_available = ?", true, true).
		Preload("User").
		Preload("Specializations")

	if search := r.URL.Query().Get("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Joins("JOIN users ON users.id = advocates.user_id").
			Where("users.full_name ILIKE ? OR advocates.bio ILIKE ?", pattern, pattern)
	}

	if specialization := r.URL.Query().Get("specialization"); specialization != "" {
		query = query.
			Joins("JOIN advocate_specializations ON advocate_specializations.advocate_id = advocates.id").
			Joins("JOIN specializations ON specializations.id = advocate_specializations.specialization_id").
			Where("specializations.id = ? OR specializations.name = ?", specialization, specialization)
	}

	if experience := r.URL.Query().Get("experience"); experience != "" {
		query = query.Where("advocates.experience = ?", experience)
	}

	if minRating := r.URL.Query().Get("min_rating"); minRating != "" {
		rating, err := strconv.ParseFloat(minRating, 64)
		if err != nil {
			http.Error(w, "Invalid value for 'min_rating'", http.StatusBadRequest)
			return
		}
		query = query.Where("advocates.rating >= ?", rating)
	}

	switch r.URL.Query().Get("sort_by") {
	case "total_cases":
		query = query.Order("advocates.total_cases DESC")
	case "consultation_fee":
		query = query.Order("advocates.consultation_fee ASC")
	default:
		query = query.Order("advocates.rating DESC, advocates.total_cases DESC")
	}

	var total int64
	query.Distinct("advocates.id").Count(&total)

	var advocates []models.Advocate
	if err := query.Distinct("advocates.*").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&advocates).Error; err != nil {
		http.Error(w, "Error retrieving advocates", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"advocates":   advocates,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetAdvocate retrieves one advocate with the latest verified reviews,
// per-axis review averages and the weekly availability windows.
func (h *AdvocateHandler) GetAdvocate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	advocateID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid advocate ID", http.StatusBadRequest)
		return
	}

	var advocate models.Advocate
	result := h.db.Preload("User").Preload("Specializations").First(&advocate, advocateID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.WriteError(w, utils.NewError(utils.NotFoundError, "Advocate not found"))
		} else {
			http.Error(w, "Error retrieving advocate", http.StatusInternalServerError)
		}
		return
	}

	var reviews []models.Review
	h.db.Where("advocate_id = ? AND is_verified = ?", advocate.ID, true).
		Preload("Client").
		Order("created_at DESC").Limit(10).
		Find(&reviews)

	var averages struct {
		AvgProfessionalism float64 `json:"avg_professionalism"`
		AvgCommunication   float64 `json:"avg_communication"`
		AvgExpertise       float64 `json:"avg_expertise"`
	}
	h.db.Model(&models.Review{}).
		Select("COALESCE(AVG(professionalism), 0) AS avg_professionalism, COALESCE(AVG(communication), 0) AS avg_communication, COALESCE(AVG(expertise), 0) AS avg_expertise").
		Where("advocate_id = ? AND is_verified = ?", advocate.ID, true).
		Scan(&averages)

	var availability []models.AdvocateAvailability
	h.db.Where("advocate_id = ? AND is_available = ?", advocate.ID, true).
		Order("day_of_week, start_time").
		Find(&availability)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"advocate":     advocate,
		"reviews":      reviews,
		"avg_ratings":  averages,
		"availability": availability,
	})
}

// UpdateAdvocate lets an advocate edit their own profile. Rating and review
// counters are owned by the review aggregator and cannot be set here.
func (h *AdvocateHandler) UpdateAdvocate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	advocateID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid advocate ID", http.StatusBadRequest)
		return
	}

	authUserID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var updateRequest struct {
		Experience         *string  `json:"experience"`
		ConsultationFee    *float64 `json:"consultation_fee"`
		CourtAppearanceFee *float64 `json:"court_appearance_fee"`
		Bio                *string  `json:"bio"`
		Languages          []string `json:"languages"`
		Education          *string  `json:"education"`
		Certifications     *string  `json:"certifications"`
		IsAvailable        *bool    `json:"is_available"`
		SpecializationIDs  []uint   `json:"specialization_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updateRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var advocate models.Advocate
	if err := h.db.First(&advocate, advocateID).Error; err != nil {
		utils.WriteError(w, utils.NewError(utils.NotFoundError, "Advocate not found"))
		return
	}

	if advocate.UserID != authUserID {
		utils.WriteError(w, utils.NewError(utils.AuthorizationError, "You can only update your own profile"))
		return
	}

	if updateRequest.Experience != nil {
		valid := false
		for _, bracket := range models.ExperienceBrackets {
			if *updateRequest.Experience == bracket {
				valid = true
				break
			}
		}
		if !valid {
			utils.WriteError(w, utils.NewError(utils.ValidationError, "Invalid experience bracket"))
			return
		}
		advocate.Experience = *updateRequest.Experience
	}
	if updateRequest.ConsultationFee != nil {
		if *updateRequest.ConsultationFee < 0 {
			utils.WriteError(w, utils.NewError(utils.ValidationError, "Fees cannot be negative"))
			return
		}
		advocate.ConsultationFee = *updateRequest.ConsultationFee
	}
	if updateRequest.CourtAppearanceFee != nil {
		if *updateRequest.CourtAppearanceFee < 0 {
			utils.WriteError(w, utils.NewError(utils.ValidationError, "Fees cannot be negative"))
			return
		}
		advocate.CourtAppearanceFee = *updateRequest.CourtAppearanceFee
	}
	if updateRequest.Bio != nil {
		advocate.Bio = *updateRequest.Bio
	}
	if updateRequest.Languages != nil {
		advocate.Languages = updateRequest.Languages
	}
	if updateRequest.Education != nil {
		advocate.Education = *updateRequest.Education
	}
	if updateRequest.Certifications != nil {
		advocate.Certifications = *updateRequest.Certifications
	}
	if updateRequest.IsAvailable != nil {
		advocate.IsAvailable = *updateRequest.IsAvailable
	}

	if err := h.db.Save(&advocate).Error; err != nil {
		http.Error(w, "Error updating advocate", http.StatusInternalServerError)
		return
	}

	if updateRequest.SpecializationIDs != nil {
		var specializations []models.Specialization
		if err := h.db.Find(&specializations, updateRequest.SpecializationIDs).Error; err != nil {
			http.Error(w, "Error loading specializations", http.StatusInternalServerError)
			return
		}
		if err := h.db.Model(&advocate).Association("Specializations").Replace(specializations); err != nil {
			http.Error(w, "Error updating specializations", http.StatusInternalServerError)
			return
		}
	}

	h.db.Preload("User").Preload("Specializations").First(&advocate, advocate.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(advocate)
}

// VerifyAdvocate flips an advocate's verified flag. Admin only.
func (h *AdvocateHandler) VerifyAdvocate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	advocateID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid advocate ID", http.StatusBadRequest)
		return
	}

	authUserID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var actor models.User
	if err := h.db.First(&actor, authUserID).Error; err != nil || actor.Role != models.RoleAdmin {
		utils.WriteError(w, utils.NewError(utils.AuthorizationError, "Only admins can verify advocates"))
		return
	}

	var verifyRequest struct {
		Verified bool `json:"verified"`
	}
	if err := json.NewDecoder(r.Body).Decode(&verifyRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var advocate models.Advocate
	if err := h.db.First(&advocate, advocateID).Error; err != nil {
		utils.WriteError(w, utils.NewError(utils.NotFoundError, "Advocate not found"))
		return
	}

	advocate.Verified = verifyRequest.Verified
	if err := h.db.Save(&advocate).Error; err != nil {
		http.Error(w, "Error updating advocate verification", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":  "Advocate verification updated",
		"verified": advocate.Verified,
	})
}

// GetSpecializations lists the specialization catalogue.
func (h *AdvocateHandler) GetSpecializations(w http.ResponseWriter, r *http.Request) {
	var specializations []models.Specialization
	if err := h.db.Order("name").Find(&specializations).Error; err != nil {
		http.Error(w, "Error retrieving specializations", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(specializations)
}
