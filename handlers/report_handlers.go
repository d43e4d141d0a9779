package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"slices"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/AFCApps2025/afc-backend/config"
	"github.com/AFCApps2025/afc-backend/middleware"
	"github.com/AFCApps2025/afc-backend/models"
)

// SubmitReport accepts a technician submission: one booking/customer context
// plus one sub-form per serviced unit, stored as one row per unit.
//
// When the booking sits in komplain and prior report rows exist, the prior
// rows are overwritten in place (same ids), reset to pending_approval, and the
// complaint note on the booking is cleared — the rework replaces the original
// report instead of stacking a second one.
func SubmitReport(w http.ResponseWriter, r *http.Request) {
	var input models.ReportSubmissionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if input.BookingCode == "" {
		http.Error(w, "booking_code is required", http.StatusBadRequest)
		return
	}
	if len(input.Units) == 0 {
		http.Error(w, "at least one unit is required", http.StatusBadRequest)
		return
	}

	var warnings []string

	// A missing booking is tolerated (legacy data has orphan codes), but when
	// it exists we can cross-check the unit count and detect the komplain path.
	var booking models.Booking
	bookingFound := true
	if err := config.DB.Where("booking_code = ?", input.BookingCode).First(&booking).Error; err != nil {
		bookingFound = false
		warnings = append(warnings, fmt.Sprintf("no booking found for code %s", input.BookingCode))
	}

	if bookingFound {
		if input.CustomerName == "" {
			input.CustomerName = booking.CustomerName
		}
		if input.CustomerPhone == "" {
			input.CustomerPhone = booking.CustomerPhone
		}
		if input.Address == "" {
			input.Address = booking.Address
		}
		if input.Cluster == "" {
			input.Cluster = booking.Cluster
		}
		if input.ServiceType == "" {
			input.ServiceType = booking.ServiceType
		}
		if input.TechnicianCode == "" {
			input.TechnicianCode = booking.TechnicianCode
		}
		if booking.UnitCount != len(input.Units) {
			// Deliberately a warning, not an error: the business sometimes
			// services more or fewer units than booked.
			msg := fmt.Sprintf("booking %s expects %d unit(s), report carries %d", booking.BookingCode, booking.UnitCount, len(input.Units))
			warnings = append(warnings, msg)
			log.Printf("ℹ️  %s", msg)
		}
	}

	rows := models.ExpandSubmission(input)

	isResubmission := false
	var prior []models.WorkReport
	if bookingFound && booking.Status == models.BookingStatusKomplain {
		config.DB.Where("booking_code = ?", input.BookingCode).Order("unit_number ASC").Find(&prior)
		isResubmission = len(prior) > 0
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if isResubmission {
			for i := range rows {
				if i < len(prior) {
					// Overwrite the prior row, keeping its id.
					rows[i].ID = prior[i].ID
					rows[i].CreatedAt = prior[i].CreatedAt
					updates := map[string]interface{}{
						"status":           models.ReportStatusPendingApproval,
						"customer_name":    rows[i].CustomerName,
						"customer_phone":   rows[i].CustomerPhone,
						"address":          rows[i].Address,
						"cluster":          rows[i].Cluster,
						"service_type":     rows[i].ServiceType,
						"technician_code":  rows[i].TechnicianCode,
						"unit_number":      rows[i].UnitNumber,
						"brand":            rows[i].Brand,
						"model_spec":       rows[i].ModelSpec,
						"condition_notes":  rows[i].ConditionNotes,
						"internal_notes":   rows[i].InternalNotes,
						"photo_urls":       rows[i].PhotoURLs,
						"unit_details":     rows[i].UnitDetails,
						"approved_by":      "",
						"approved_at":      nil,
						"approval_notes":   "",
						"rejection_reason": "",
					}
					if err := tx.Model(&models.WorkReport{}).Where("id = ?", prior[i].ID).Updates(updates).Error; err != nil {
						return err
					}
				} else {
					if err := tx.Create(&rows[i]).Error; err != nil {
						return err
					}
				}
			}
			// The rework answers the complaint, so the note comes off the
			// booking and it goes back to waiting for approval.
			return tx.Model(&models.Booking{}).Where("booking_code = ?", input.BookingCode).
				Updates(map[string]interface{}{"note": "", "status": models.BookingStatusMenungguKonfirmasi}).Error
		}

		for i := range rows {
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		http.Error(w, "failed to save report: "+err.Error(), http.StatusInternalServerError)
		return
	}

	notifyRoles([]string{models.RoleAdmin, models.RoleManager}, models.Notification{
		Type:        models.NotificationTypeReportSubmitted,
		Priority:    models.NotificationPriorityNormal,
		Title:       "Laporan kerja masuk",
		Body:        fmt.Sprintf("%s - %s (%d unit)", input.BookingCode, input.CustomerName, len(rows)),
		BookingCode: input.BookingCode,
	})

	saved := make([]models.WorkReport, 0, len(rows))
	config.DB.Where("booking_code = ?", input.BookingCode).Order("unit_number ASC").Find(&saved)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"reports":      saved,
		"count":        len(saved),
		"resubmission": isResubmission,
		"warnings":     warnings,
	})
}

// GetReports lists work reports with approval-screen filters. Field roles
// (teknisi, helper) are scoped to the reports of their own technician codes.
func GetReports(w http.ResponseWriter, r *http.Request) {
	query := config.DB.Model(&models.WorkReport{})

	role := middleware.GetRole(r)
	if role == models.RoleTeknisi || role == models.RoleHelper {
		own := technicianCodesForAccount(middleware.GetUserID(r))
		if len(own) == 0 {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"reports": []models.WorkReport{},
				"count":   0,
			})
			return
		}
		query = query.Where("technician_code IN ?", own)
	}

	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if code := r.URL.Query().Get("booking_code"); code != "" {
		query = query.Where("booking_code = ?", code)
	}
	if tech := r.URL.Query().Get("technician_code"); tech != "" {
		query = query.Where("technician_code = ?", tech)
	}
	if from := r.URL.Query().Get("from"); from != "" {
		query = query.Where("created_at >= ?", from)
	}
	if to := r.URL.Query().Get("to"); to != "" {
		query = query.Where("created_at < ?", to)
	}

	var reports []models.WorkReport
	if err := query.Order("created_at DESC").Find(&reports).Error; err != nil {
		http.Error(w, "failed to fetch reports", http.StatusInternalServerError)
		return
	}

	for i := range reports {
		reports[i] = redactReportForRole(reports[i], role)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"reports": reports,
		"count":   len(reports),
	})
}

// GetReport returns one work report by id.
func GetReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var report models.WorkReport
	if err := config.DB.First(&report, "id = ?", id).Error; err != nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}

	role := middleware.GetRole(r)
	if role == models.RoleTeknisi || role == models.RoleHelper {
		own := technicianCodesForAccount(middleware.GetUserID(r))
		if !canAccessReport(role, own, report.TechnicianCode) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(redactReportForRole(report, role))
}

// DeleteReport hard-deletes a report row. Unlike bookings there is no soft
// flag here; approved reports can be purged independent of booking state.
func DeleteReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	result := config.DB.Delete(&models.WorkReport{}, "id = ?", id)
	if result.Error != nil {
		http.Error(w, "failed to delete report", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "report deleted", "id": id})
}

// technicianCodesForAccount returns the technician codes linked to a login
// account (the reverse of the notifyTechnician lookup).
func technicianCodesForAccount(userID string) []string {
	var codes []string
	if err := config.DB.Model(&models.TechnicianCode{}).
		Where("account_id = ?", userID).
		Pluck("code", &codes).Error; err != nil {
		log.Printf("⚠️  Technician code lookup for %s failed: %v", userID, err)
	}
	return codes
}

// canAccessReport reports whether the role may read a report filed under
// technician code reportCode. Admins and managers see everything; field roles
// only reports of codes linked to their own account.
func canAccessReport(role string, ownCodes []string, reportCode string) bool {
	if role != models.RoleTeknisi && role != models.RoleHelper {
		return true
	}
	return slices.Contains(ownCodes, reportCode)
}

func redactReportForRole(wr models.WorkReport, role string) models.WorkReport {
	if role == models.RoleTeknisi || role == models.RoleHelper {
		wr.CustomerPhone = RedactPhone(wr.CustomerPhone)
	}
	return wr
}
