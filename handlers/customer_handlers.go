package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/AFCApps2025/afc-backend/config"
	"github.com/AFCApps2025/afc-backend/middleware"
	"github.com/AFCApps2025/afc-backend/models"
)

// GetCustomers lists known customers, optionally filtered by name or
// cluster.
func GetCustomers(w http.ResponseWriter, r *http.Request) {
	var customers []models.Customer
	query := config.DB.Order("name ASC")
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		like := "%" + q + "%"
		query = query.Where("name ILIKE ? OR phone ILIKE ?", like, like)
	}
	if cluster := r.URL.Query().Get("cluster"); cluster != "" {
		query = query.Where("cluster = ?", cluster)
	}
	if err := query.Limit(200).Find(&customers).Error; err != nil {
		http.Error(w, "failed to load customers: "+err.Error(), http.StatusInternalServerError)
		return
	}

	role := middleware.GetRole(r)
	for i := range customers {
		customers[i] = redactCustomerForRole(customers[i], role)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"customers": customers,
		"count":     len(customers),
	})
}

// GetCustomerHistory returns a customer's full service trail keyed by phone
// number: bookings and approved work reports, newest first. Phone, not an
// id, is the lookup key because that is what technicians have in hand.
func GetCustomerHistory(w http.ResponseWriter, r *http.Request) {
	phone := strings.TrimSpace(r.URL.Query().Get("phone"))
	if phone == "" {
		http.Error(w, "phone query parameter is required", http.StatusBadRequest)
		return
	}

	var customer models.Customer
	config.DB.Where("phone = ?", phone).First(&customer)

	var bookings []models.Booking
	if err := config.DB.Where("customer_phone = ? AND status <> ?", phone, models.BookingStatusDeleted).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		http.Error(w, "failed to load bookings: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var reports []models.WorkReport
	if err := config.DB.Where("customer_phone = ?", phone).
		Order("created_at DESC").
		Find(&reports).Error; err != nil {
		http.Error(w, "failed to load reports: "+err.Error(), http.StatusInternalServerError)
		return
	}

	role := middleware.GetRole(r)
	customer = redactCustomerForRole(customer, role)
	for i := range bookings {
		bookings[i] = redactBookingForRole(bookings[i], role)
	}
	for i := range reports {
		reports[i] = redactReportForRole(reports[i], role)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"customer": customer,
		"bookings": bookings,
		"reports":  reports,
	})
}

// GetBrandHistory returns approved service reports for one AC brand, used
// when checking how a given brand of unit has fared across customers.
func GetBrandHistory(w http.ResponseWriter, r *http.Request) {
	brand := strings.TrimSpace(r.URL.Query().Get("brand"))
	if brand == "" {
		http.Error(w, "brand query parameter is required", http.StatusBadRequest)
		return
	}

	var reports []models.WorkReport
	if err := config.DB.Where("brand ILIKE ? AND status = ?", brand, models.ReportStatusApproved).
		Order("created_at DESC").
		Limit(500).
		Find(&reports).Error; err != nil {
		http.Error(w, "failed to load reports: "+err.Error(), http.StatusInternalServerError)
		return
	}

	role := middleware.GetRole(r)
	for i := range reports {
		reports[i] = redactReportForRole(reports[i], role)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"brand":   brand,
		"reports": reports,
		"count":   len(reports),
	})
}

func redactCustomerForRole(c models.Customer, role string) models.Customer {
	if role == models.RoleTeknisi || role == models.RoleHelper {
		c.Phone = RedactPhone(c.Phone)
	}
	return c
}
