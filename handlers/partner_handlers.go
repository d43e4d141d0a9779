package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/AFCApps2025/afc-backend/config"
	"github.com/AFCApps2025/afc-backend/models"
)

// GetPartners lists referral partners ordered by points, the affiliate
// standings view.
func GetPartners(w http.ResponseWriter, r *http.Request) {
	var partners []models.Partner
	query := config.DB.Order("total_points DESC, name ASC")
	if r.URL.Query().Get("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&partners).Error; err != nil {
		http.Error(w, "failed to load partners: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"partners": partners,
		"count":    len(partners),
	})
}

// CreatePartner registers a new referral partner.
func CreatePartner(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Code     string `json:"code"`
		Name     string `json:"name"`
		Whatsapp string `json:"whatsapp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	if input.Code == "" || input.Name == "" {
		http.Error(w, "code and name are required", http.StatusBadRequest)
		return
	}

	partner := models.Partner{
		Code:     input.Code,
		Name:     input.Name,
		Whatsapp: input.Whatsapp,
		IsActive: true,
	}
	if err := config.DB.Create(&partner).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			http.Error(w, "partner code already exists", http.StatusConflict)
			return
		}
		http.Error(w, "failed to create partner: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(partner)
}

// UpdatePartner edits a partner's contact fields or active flag. Points
// are never writable through this endpoint; the only writer is the
// approval flow.
func UpdatePartner(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(mux.Vars(r)["code"])

	var input struct {
		Name     *string `json:"name"`
		Whatsapp *string `json:"whatsapp"`
		IsActive *bool   `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Whatsapp != nil {
		updates["whatsapp"] = *input.Whatsapp
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		http.Error(w, "no fields to update", http.StatusBadRequest)
		return
	}

	result := config.DB.Model(&models.Partner{}).Where("code = ?", code).Updates(updates)
	if result.Error != nil {
		http.Error(w, "failed to update partner: "+result.Error.Error(), http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "partner not found", http.StatusNotFound)
		return
	}

	var partner models.Partner
	config.DB.Where("code = ?", code).First(&partner)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(partner)
}

// GetPartnerPoints is the API-key protected endpoint a partner's own
// dashboard polls: current points plus approved referral history for one
// code. Read-only by construction; it is only ever registered under GET.
func GetPartnerPoints(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(mux.Vars(r)["code"])

	var partner models.Partner
	if err := config.DB.Where("code = ? AND is_active = ?", code, true).First(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "partner not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load partner: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Credited bookings: one per booking code regardless of unit count.
	var credited []struct {
		BookingCode string
		ApprovedAt  *string
	}
	config.DB.Model(&models.WorkReport{}).
		Select("booking_code, MIN(approved_at)::text as approved_at").
		Joins("JOIN bookings ON bookings.booking_code = work_reports.booking_code").
		Where("bookings.referral_code = ? AND work_reports.referral_counted = ?", code, true).
		Group("booking_code").
		Order("approved_at DESC").
		Scan(&credited)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":         partner.Code,
		"name":         partner.Name,
		"total_points": partner.TotalPoints,
		"referrals":    credited,
	})
}
