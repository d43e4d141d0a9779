package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/AFCApps2025/afc-backend/config"
	"github.com/AFCApps2025/afc-backend/middleware"
	"github.com/AFCApps2025/afc-backend/models"
)

// StepOutcome records one side effect of the approval workflow. The legacy
// app ran these steps fire-and-forget; here every step's result is part of
// the response so partial failure is visible instead of silent.
type StepOutcome struct {
	Step   string `json:"step"`
	Status string `json:"status"` // ok, skipped, failed
	Detail string `json:"detail,omitempty"`
}

type approveReq struct {
	Notes string `json:"notes"`
}

// ApproveReports approves every pending sibling report of a booking. The
// report updates, the customer upsert, the referral credit and the booking
// completion all commit or roll back together; only the outbound WhatsApp
// message runs after commit, best-effort.
func ApproveReports(w http.ResponseWriter, r *http.Request) {
	bookingCode := mux.Vars(r)["bookingCode"]
	claims := middleware.GetClaims(r)

	var req approveReq
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	var siblings []models.WorkReport
	if err := config.DB.Where("booking_code = ? AND status = ?", bookingCode, models.ReportStatusPendingApproval).
		Order("unit_number ASC").Find(&siblings).Error; err != nil {
		http.Error(w, "failed to fetch reports", http.StatusInternalServerError)
		return
	}
	if len(siblings) == 0 {
		http.Error(w, "no pending reports for this booking", http.StatusNotFound)
		return
	}

	var booking models.Booking
	bookingFound := config.DB.Where("booking_code = ?", bookingCode).First(&booking).Error == nil

	outcomes := make([]StepOutcome, 0, 4)
	now := time.Now()

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		// 1. Approve every pending sibling row.
		if err := tx.Model(&models.WorkReport{}).
			Where("booking_code = ? AND status = ?", bookingCode, models.ReportStatusPendingApproval).
			Updates(map[string]interface{}{
				"status":         models.ReportStatusApproved,
				"approved_by":    claims.Name,
				"approved_at":    now,
				"approval_notes": req.Notes,
			}).Error; err != nil {
			return fmt.Errorf("approve reports: %w", err)
		}
		outcomes = append(outcomes, StepOutcome{Step: "approve_reports", Status: "ok",
			Detail: fmt.Sprintf("%d report(s) approved", len(siblings))})

		// 2. Keep the customer directory current.
		first := siblings[0]
		if first.CustomerPhone != "" {
			customer := models.Customer{
				Name:    first.CustomerName,
				Phone:   first.CustomerPhone,
				Address: first.Address,
				Cluster: first.Cluster,
			}
			res := tx.Where("phone = ?", first.CustomerPhone).FirstOrCreate(&customer)
			if res.Error != nil {
				return fmt.Errorf("upsert customer: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				tx.Model(&customer).Updates(map[string]interface{}{
					"name": first.CustomerName, "address": first.Address, "cluster": first.Cluster,
				})
				outcomes = append(outcomes, StepOutcome{Step: "customer", Status: "ok", Detail: "existing customer refreshed"})
			} else {
				outcomes = append(outcomes, StepOutcome{Step: "customer", Status: "ok", Detail: "customer created"})
			}
		} else {
			outcomes = append(outcomes, StepOutcome{Step: "customer", Status: "skipped", Detail: "no customer phone on report"})
		}

		// 3. Referral credit, exactly once per booking.
		if bookingFound && booking.ReferralCode != "" {
			outcome, err := creditReferralPoint(tx, bookingCode, booking.ReferralCode)
			if err != nil {
				return err
			}
			outcomes = append(outcomes, outcome)
		} else {
			outcomes = append(outcomes, StepOutcome{Step: "referral", Status: "skipped", Detail: "no referral code"})
		}

		// 4. Close out the booking.
		if bookingFound {
			if models.CanTransition(booking.Status, models.BookingStatusSelesai) {
				if err := tx.Model(&models.Booking{}).Where("booking_code = ?", bookingCode).
					Update("status", models.BookingStatusSelesai).Error; err != nil {
					return fmt.Errorf("complete booking: %w", err)
				}
				outcomes = append(outcomes, StepOutcome{Step: "booking_sync", Status: "ok", Detail: "booking marked selesai"})
			} else {
				outcomes = append(outcomes, StepOutcome{Step: "booking_sync", Status: "skipped",
					Detail: fmt.Sprintf("booking in %s cannot move to selesai", booking.Status)})
			}
		} else {
			outcomes = append(outcomes, StepOutcome{Step: "booking_sync", Status: "skipped", Detail: "booking not found"})
		}

		return nil
	})
	if err != nil {
		log.Printf("❌ Approval of %s rolled back: %v", bookingCode, err)
		http.Error(w, "approval failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Customer message after commit; a gateway failure never unwinds the
	// approval.
	if siblings[0].CustomerPhone != "" {
		if err := SendWhatsApp(siblings[0].CustomerPhone, ComposeApprovalMessage(bookingCode, siblings)); err != nil {
			log.Printf("⚠️  WhatsApp approval message failed for %s: %v", bookingCode, err)
			outcomes = append(outcomes, StepOutcome{Step: "whatsapp", Status: "failed", Detail: err.Error()})
		} else {
			outcomes = append(outcomes, StepOutcome{Step: "whatsapp", Status: "ok"})
		}
	}

	notifyTechnician(siblings[0].TechnicianCode, models.Notification{
		Type:        models.NotificationTypeReportApproved,
		Priority:    models.NotificationPriorityNormal,
		Title:       "Laporan disetujui",
		Body:        fmt.Sprintf("Laporan %s disetujui oleh %s", bookingCode, claims.Name),
		BookingCode: bookingCode,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":  "reports approved",
		"outcomes": outcomes,
	})
}

// creditReferralPoint awards the partner one point for the booking, at most
// once ever. The claim is a single conditional UPDATE over the sibling rows:
// if another approval already flipped the flags, RowsAffected is zero and we
// stop. The point itself is added with a SQL expression so no read-modify-
// write window exists (the legacy app's two-round-trip increment is gone).
func creditReferralPoint(tx *gorm.DB, bookingCode, partnerCode string) (StepOutcome, error) {
	var claimed int64
	if err := tx.Model(&models.WorkReport{}).
		Where("booking_code = ? AND referral_counted = ?", bookingCode, true).
		Count(&claimed).Error; err != nil {
		return StepOutcome{}, fmt.Errorf("referral guard check: %w", err)
	}
	if claimed > 0 {
		return StepOutcome{Step: "referral", Status: "skipped", Detail: "booking already credited"}, nil
	}

	claim := tx.Model(&models.WorkReport{}).
		Where("booking_code = ? AND referral_counted = ?", bookingCode, false).
		Update("referral_counted", true)
	if claim.Error != nil {
		return StepOutcome{}, fmt.Errorf("referral claim: %w", claim.Error)
	}
	if claim.RowsAffected == 0 {
		return StepOutcome{Step: "referral", Status: "skipped", Detail: "claim lost to concurrent approval"}, nil
	}

	credit := tx.Model(&models.Partner{}).
		Where("code = ? AND is_active = ?", partnerCode, true).
		Update("total_points", gorm.Expr("total_points + 1"))
	if credit.Error != nil {
		return StepOutcome{}, fmt.Errorf("credit partner: %w", credit.Error)
	}
	if credit.RowsAffected == 0 {
		// Unknown or inactive code: tolerate like every other dangling
		// reference, but say so.
		return StepOutcome{Step: "referral", Status: "skipped",
			Detail: fmt.Sprintf("partner %s not found or inactive", partnerCode)}, nil
	}

	return StepOutcome{Step: "referral", Status: "ok",
		Detail: fmt.Sprintf("partner %s credited 1 point", partnerCode)}, nil
}

type rejectReq struct {
	Reason string `json:"reason"`
}

// RejectReports rejects every pending sibling report of a booking. A reason
// is mandatory; without one nothing is written.
func RejectReports(w http.ResponseWriter, r *http.Request) {
	bookingCode := mux.Vars(r)["bookingCode"]
	claims := middleware.GetClaims(r)

	var req rejectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	reason, err := ValidateRejectReason(req.Reason)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var siblings []models.WorkReport
	if err := config.DB.Where("booking_code = ? AND status = ?", bookingCode, models.ReportStatusPendingApproval).
		Find(&siblings).Error; err != nil {
		http.Error(w, "failed to fetch reports", http.StatusInternalServerError)
		return
	}
	if len(siblings) == 0 {
		http.Error(w, "no pending reports for this booking", http.StatusNotFound)
		return
	}

	outcomes := make([]StepOutcome, 0, 3)

	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.WorkReport{}).
			Where("booking_code = ? AND status = ?", bookingCode, models.ReportStatusPendingApproval).
			Updates(map[string]interface{}{
				"status":           models.ReportStatusRejected,
				"rejection_reason": reason,
				"approved_by":      claims.Name,
			}).Error; err != nil {
			return err
		}
		outcomes = append(outcomes, StepOutcome{Step: "reject_reports", Status: "ok",
			Detail: fmt.Sprintf("%d report(s) rejected", len(siblings))})

		var booking models.Booking
		if err := tx.Where("booking_code = ?", bookingCode).First(&booking).Error; err != nil {
			outcomes = append(outcomes, StepOutcome{Step: "booking_sync", Status: "skipped", Detail: "booking not found"})
			return nil
		}
		if !models.CanTransition(booking.Status, models.BookingStatusDitolak) {
			outcomes = append(outcomes, StepOutcome{Step: "booking_sync", Status: "skipped",
				Detail: fmt.Sprintf("booking in %s cannot move to ditolak", booking.Status)})
			return nil
		}

		// The booking note is overwritten by the rejection reason; that is
		// how the schedule screen surfaces why the job bounced.
		if err := tx.Model(&models.Booking{}).Where("booking_code = ?", bookingCode).
			Updates(map[string]interface{}{
				"status": models.BookingStatusDitolak,
				"note":   reason,
			}).Error; err != nil {
			return err
		}
		outcomes = append(outcomes, StepOutcome{Step: "booking_sync", Status: "ok", Detail: "booking marked ditolak"})
		return nil
	})
	if txErr != nil {
		http.Error(w, "rejection failed: "+txErr.Error(), http.StatusInternalServerError)
		return
	}

	// Customer message after commit, best-effort like the approve path.
	if siblings[0].CustomerPhone != "" {
		if err := SendWhatsApp(siblings[0].CustomerPhone, ComposeRejectionMessage(bookingCode, reason, siblings)); err != nil {
			log.Printf("⚠️  WhatsApp rejection message failed for %s: %v", bookingCode, err)
			outcomes = append(outcomes, StepOutcome{Step: "whatsapp", Status: "failed", Detail: err.Error()})
		} else {
			outcomes = append(outcomes, StepOutcome{Step: "whatsapp", Status: "ok"})
		}
	}

	notifyTechnician(siblings[0].TechnicianCode, models.Notification{
		Type:        models.NotificationTypeReportRejected,
		Priority:    models.NotificationPriorityHigh,
		Title:       "Laporan ditolak",
		Body:        fmt.Sprintf("Laporan %s ditolak: %s", bookingCode, reason),
		BookingCode: bookingCode,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":  "reports rejected",
		"reason":   reason,
		"count":    len(siblings),
		"outcomes": outcomes,
	})
}

// ValidateRejectReason trims and checks the mandatory rejection reason.
func ValidateRejectReason(reason string) (string, error) {
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return "", fmt.Errorf("rejection reason is required")
	}
	return trimmed, nil
}
