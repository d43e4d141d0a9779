package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/AFCApps2025/afc-backend/config"
	"github.com/AFCApps2025/afc-backend/middleware"
	"github.com/AFCApps2025/afc-backend/models"
)

type createBookingReq struct {
	BookingCode    string          `json:"booking_code"`
	CustomerName   string          `json:"customer_name"`
	CustomerPhone  string          `json:"customer_phone"`
	Address        string          `json:"address"`
	Cluster        string          `json:"cluster"`
	ServiceType    string          `json:"service_type"`
	UnitCount      int             `json:"jumlah_unit"`
	Brand          string          `json:"brand"`
	VisitDate      models.DateOnly `json:"visit_date"`
	VisitTime      string          `json:"visit_time"`
	TechnicianCode string          `json:"technician_code"`
	Note           string          `json:"note"`
	ReferralCode   string          `json:"referral_code"`

	// SourceReportID spawns a complaint booking from an existing report:
	// customer context is copied from the report and the booking opens in
	// komplain status.
	SourceReportID string `json:"source_report_id,omitempty"`
}

// CreateBooking registers a new service visit, either from the intake form or
// spawned out of a complained/rejected report.
func CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	booking := models.Booking{
		BookingCode:    strings.TrimSpace(req.BookingCode),
		Status:         models.BookingStatusPending,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		Address:        req.Address,
		Cluster:        req.Cluster,
		ServiceType:    req.ServiceType,
		UnitCount:      req.UnitCount,
		Brand:          req.Brand,
		VisitDate:      req.VisitDate,
		VisitTime:      req.VisitTime,
		TechnicianCode: req.TechnicianCode,
		Note:           req.Note,
		ReferralCode:   req.ReferralCode,
	}

	if req.SourceReportID != "" {
		var report models.WorkReport
		if err := config.DB.First(&report, "id = ?", req.SourceReportID).Error; err != nil {
			http.Error(w, "source report not found", http.StatusNotFound)
			return
		}
		booking.Status = models.BookingStatusKomplain
		if booking.CustomerName == "" {
			booking.CustomerName = report.CustomerName
		}
		if booking.CustomerPhone == "" {
			booking.CustomerPhone = report.CustomerPhone
		}
		if booking.Address == "" {
			booking.Address = report.Address
		}
		if booking.Cluster == "" {
			booking.Cluster = report.Cluster
		}
		if booking.ServiceType == "" {
			booking.ServiceType = report.ServiceType
		}
		if booking.TechnicianCode == "" {
			booking.TechnicianCode = report.TechnicianCode
		}
	}

	if booking.CustomerName == "" || booking.CustomerPhone == "" {
		http.Error(w, "customer name and phone are required", http.StatusBadRequest)
		return
	}
	if booking.UnitCount <= 0 {
		booking.UnitCount = 1
	}
	if booking.BookingCode == "" {
		booking.BookingCode = fmt.Sprintf("AFC-%d", time.Now().Unix())
	}

	if err := config.DB.Create(&booking).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			http.Error(w, "booking code already exists", http.StatusConflict)
		} else {
			http.Error(w, "failed to create booking", http.StatusInternalServerError)
		}
		return
	}

	notifyRoles([]string{models.RoleAdmin, models.RoleManager}, models.Notification{
		Type:        models.NotificationTypeBookingCreated,
		Priority:    models.NotificationPriorityNormal,
		Title:       "Booking baru",
		Body:        fmt.Sprintf("%s - %s (%d unit)", booking.BookingCode, booking.CustomerName, booking.UnitCount),
		BookingCode: booking.BookingCode,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(redactBookingForRole(booking, middleware.GetRole(r)))
}

// GetBookings lists bookings with the filter set the schedule and history
// screens use: status (comma-separated set), technician code, visit date and a
// free-text search over code, customer name and phone.
func GetBookings(w http.ResponseWriter, r *http.Request) {
	query := config.DB.Model(&models.Booking{})

	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		statuses := strings.Split(statusParam, ",")
		query = query.Where("status IN ?", statuses)
	} else if r.URL.Query().Get("include_deleted") != "true" {
		query = query.Where("status <> ?", models.BookingStatusDeleted)
	}
	if tech := r.URL.Query().Get("technician_code"); tech != "" {
		query = query.Where("technician_code = ?", tech)
	}
	if date := r.URL.Query().Get("visit_date"); date != "" {
		query = query.Where("visit_date = ?", date)
	}
	if q := r.URL.Query().Get("q"); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("booking_code ILIKE ? OR customer_name ILIKE ? OR customer_phone ILIKE ?", pattern, pattern, pattern)
	}

	var bookings []models.Booking
	if err := query.Order("visit_date ASC, created_at DESC").Find(&bookings).Error; err != nil {
		http.Error(w, "failed to fetch bookings", http.StatusInternalServerError)
		return
	}

	role := middleware.GetRole(r)
	out := make([]models.Booking, len(bookings))
	for i, b := range bookings {
		out[i] = redactBookingForRole(b, role)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"bookings": out,
		"count":    len(out),
	})
}

// GetSchedule returns the active working schedule: everything except completed
// and deleted bookings, soonest visit first.
func GetSchedule(w http.ResponseWriter, r *http.Request) {
	query := config.DB.Where("status IN ?", models.ActiveScheduleStatuses)

	if tech := r.URL.Query().Get("technician_code"); tech != "" {
		query = query.Where("technician_code = ?", tech)
	}

	var bookings []models.Booking
	if err := query.Order("visit_date ASC, visit_time ASC").Find(&bookings).Error; err != nil {
		http.Error(w, "failed to fetch schedule", http.StatusInternalServerError)
		return
	}

	role := middleware.GetRole(r)
	out := make([]models.Booking, len(bookings))
	for i, b := range bookings {
		out[i] = redactBookingForRole(b, role)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"schedule": out,
		"count":    len(out),
	})
}

// GetBooking returns one booking by its code.
func GetBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var booking models.Booking
	if err := config.DB.Where("booking_code = ?", code).First(&booking).Error; err != nil {
		http.Error(w, "booking not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(redactBookingForRole(booking, middleware.GetRole(r)))
}

type updateBookingReq struct {
	CustomerName   *string          `json:"customer_name"`
	CustomerPhone  *string          `json:"customer_phone"`
	Address        *string          `json:"address"`
	Cluster        *string          `json:"cluster"`
	ServiceType    *string          `json:"service_type"`
	UnitCount      *int             `json:"jumlah_unit"`
	Brand          *string          `json:"brand"`
	VisitDate      *models.DateOnly `json:"visit_date"`
	VisitTime      *string          `json:"visit_time"`
	TechnicianCode *string          `json:"technician_code"`
	Note           *string          `json:"note"`
	InternalNote   *string          `json:"internal_note"`
	ReferralCode   *string          `json:"referral_code"`
}

// UpdateBooking patches booking fields. Status is deliberately not accepted
// here; it only moves through the transition endpoint.
func UpdateBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var booking models.Booking
	if err := config.DB.Where("booking_code = ?", code).First(&booking).Error; err != nil {
		http.Error(w, "booking not found", http.StatusNotFound)
		return
	}

	var req updateBookingReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	updates := map[string]interface{}{}
	if req.CustomerName != nil {
		updates["customer_name"] = *req.CustomerName
	}
	if req.CustomerPhone != nil {
		updates["customer_phone"] = *req.CustomerPhone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Cluster != nil {
		updates["cluster"] = *req.Cluster
	}
	if req.ServiceType != nil {
		updates["service_type"] = *req.ServiceType
	}
	if req.UnitCount != nil && *req.UnitCount > 0 {
		updates["jumlah_unit"] = *req.UnitCount
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.VisitDate != nil {
		updates["visit_date"] = *req.VisitDate
	}
	if req.VisitTime != nil {
		updates["visit_time"] = *req.VisitTime
	}
	if req.TechnicianCode != nil {
		updates["technician_code"] = *req.TechnicianCode
	}
	if req.Note != nil {
		updates["note"] = *req.Note
	}
	if req.InternalNote != nil {
		updates["internal_note"] = *req.InternalNote
	}
	if req.ReferralCode != nil {
		updates["referral_code"] = *req.ReferralCode
	}

	if len(updates) == 0 {
		http.Error(w, "no fields to update", http.StatusBadRequest)
		return
	}

	if err := config.DB.Model(&booking).Updates(updates).Error; err != nil {
		http.Error(w, "failed to update booking", http.StatusInternalServerError)
		return
	}
	config.DB.Where("booking_code = ?", code).First(&booking)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(redactBookingForRole(booking, middleware.GetRole(r)))
}

type transitionReq struct {
	Status         models.BookingStatus `json:"status"`
	Note           string               `json:"note"`
	VisitDate      *models.DateOnly     `json:"visit_date"`
	VisitTime      string               `json:"visit_time"`
	TechnicianCode string               `json:"technician_code"`
}

// TransitionBooking moves a booking to a new status. Illegal moves are
// rejected against the transition table instead of being written blindly.
// Confirming and rescheduling notify the customer over WhatsApp.
func TransitionBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req transitionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if !models.ValidBookingStatus(req.Status) {
		http.Error(w, "unknown status", http.StatusBadRequest)
		return
	}

	role := middleware.GetRole(r)
	if req.Status == models.BookingStatusDeleted && !models.CanManageAccounts(role) {
		http.Error(w, "only admin or manager can delete bookings", http.StatusForbidden)
		return
	}

	var booking models.Booking
	if err := config.DB.Where("booking_code = ?", code).First(&booking).Error; err != nil {
		http.Error(w, "booking not found", http.StatusNotFound)
		return
	}

	if !models.CanTransition(booking.Status, req.Status) {
		http.Error(w, fmt.Sprintf("cannot move booking from %s to %s", booking.Status, req.Status), http.StatusUnprocessableEntity)
		return
	}

	updates := map[string]interface{}{"status": req.Status}
	switch req.Status {
	case models.BookingStatusRescheduled:
		if req.VisitDate == nil {
			http.Error(w, "rescheduling requires a new visit_date", http.StatusBadRequest)
			return
		}
		updates["visit_date"] = *req.VisitDate
		if req.VisitTime != "" {
			updates["visit_time"] = req.VisitTime
		}
		updates["reschedule_note"] = req.Note
	case models.BookingStatusKomplain:
		if req.Note != "" {
			updates["note"] = req.Note
		}
	default:
		if req.Note != "" {
			updates["internal_note"] = req.Note
		}
	}
	if req.TechnicianCode != "" {
		updates["technician_code"] = req.TechnicianCode
	}

	if err := config.DB.Model(&booking).Updates(updates).Error; err != nil {
		http.Error(w, "failed to update booking status", http.StatusInternalServerError)
		return
	}
	config.DB.Where("booking_code = ?", code).First(&booking)

	// Customer messaging is best-effort: a gateway hiccup never blocks the
	// status change.
	switch req.Status {
	case models.BookingStatusConfirmed:
		if err := SendWhatsApp(booking.CustomerPhone, ComposeConfirmMessage(booking)); err != nil {
			log.Printf("⚠️  WhatsApp confirm message failed for %s: %v", booking.BookingCode, err)
		}
	case models.BookingStatusRescheduled:
		if err := SendWhatsApp(booking.CustomerPhone, ComposeRescheduleMessage(booking)); err != nil {
			log.Printf("⚠️  WhatsApp reschedule message failed for %s: %v", booking.BookingCode, err)
		}
	case models.BookingStatusKomplain:
		notifyRoles([]string{models.RoleAdmin, models.RoleManager}, models.Notification{
			Type:        models.NotificationTypeBookingKomplain,
			Priority:    models.NotificationPriorityHigh,
			Title:       "Komplain masuk",
			Body:        fmt.Sprintf("%s - %s", booking.BookingCode, booking.CustomerName),
			BookingCode: booking.BookingCode,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(redactBookingForRole(booking, role))
}

// DeleteBooking soft-deletes by flipping the status; rows are never removed.
func DeleteBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var booking models.Booking
	if err := config.DB.Where("booking_code = ?", code).First(&booking).Error; err != nil {
		http.Error(w, "booking not found", http.StatusNotFound)
		return
	}
	if booking.Status == models.BookingStatusDeleted {
		http.Error(w, "booking already deleted", http.StatusConflict)
		return
	}

	if err := config.DB.Model(&booking).Update("status", models.BookingStatusDeleted).Error; err != nil {
		http.Error(w, "failed to delete booking", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "booking deleted", "booking_code": code})
}

// redactBookingForRole masks the customer phone for field roles. The old app
// only blurred the value on screen; here the middle digits never leave the
// server for teknisi/helper sessions.
func redactBookingForRole(b models.Booking, role string) models.Booking {
	if role == models.RoleTeknisi || role == models.RoleHelper {
		b.CustomerPhone = RedactPhone(b.CustomerPhone)
	}
	return b
}

// RedactPhone keeps the first three and last two digits of a phone number.
func RedactPhone(phone string) string {
	if len(phone) <= 5 {
		return phone
	}
	return phone[:3] + strings.Repeat("*", len(phone)-5) + phone[len(phone)-2:]
}
