package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/AFCApps2025/afc-backend/config"
	"github.com/AFCApps2025/afc-backend/middleware"
	"github.com/AFCApps2025/afc-backend/models"
)

// DashboardStats is the payload behind the admin dashboard cards.
type DashboardStats struct {
	BookingsToday    int64            `json:"bookings_today"`
	BookingsByStatus map[string]int64 `json:"bookings_by_status"`
	PendingApprovals int64            `json:"pending_approvals"`
	ReportsThisMonth int64            `json:"reports_this_month"`
	ActivePartners   int64            `json:"active_partners"`
	RecentBookings   []models.Booking `json:"recent_bookings"`
}

// GetDashboardStats aggregates the counters shown on the admin dashboard.
func GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	var stats DashboardStats

	today := time.Now().Format("2006-01-02")
	config.DB.Model(&models.Booking{}).
		Where("visit_date = ? AND status NOT IN ?", today, []string{string(models.BookingStatusDeleted), string(models.BookingStatusDitolak)}).
		Count(&stats.BookingsToday)

	stats.BookingsByStatus = make(map[string]int64)
	var statusCounts []struct {
		Status string
		Count  int64
	}
	config.DB.Model(&models.Booking{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&statusCounts)
	for _, sc := range statusCounts {
		stats.BookingsByStatus[sc.Status] = sc.Count
	}

	config.DB.Model(&models.WorkReport{}).
		Where("status = ?", models.ReportStatusPendingApproval).
		Count(&stats.PendingApprovals)

	monthStart := time.Now().Format("2006-01") + "-01"
	config.DB.Model(&models.WorkReport{}).
		Where("created_at >= ?", monthStart).
		Count(&stats.ReportsThisMonth)

	config.DB.Model(&models.Partner{}).
		Where("is_active = ?", true).
		Count(&stats.ActivePartners)

	config.DB.Where("status <> ?", models.BookingStatusDeleted).
		Order("created_at DESC").
		Limit(10).
		Find(&stats.RecentBookings)

	role := middleware.GetRole(r)
	for i := range stats.RecentBookings {
		stats.RecentBookings[i] = redactBookingForRole(stats.RecentBookings[i], role)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// GetTechnicianPerformance reports per-technician job and approval counts
// over an optional date range (from/to, YYYY-MM-DD).
func GetTechnicianPerformance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := config.DB.Model(&models.WorkReport{})
	if from := q.Get("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			http.Error(w, "invalid from date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		query = query.Where("created_at >= ?", t)
	}
	if to := q.Get("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			http.Error(w, "invalid to date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
	}

	var rows []struct {
		TechnicianCode string
		TotalReports   int64
		UnitsServiced  int64
		Approved       int64
		Rejected       int64
	}
	if err := query.
		Select(`technician_code,
			COUNT(DISTINCT booking_code) as total_reports,
			COUNT(*) as units_serviced,
			COUNT(*) FILTER (WHERE status = 'approved') as approved,
			COUNT(*) FILTER (WHERE status = 'rejected') as rejected`).
		Where("technician_code <> ''").
		Group("technician_code").
		Order("units_serviced DESC").
		Scan(&rows).Error; err != nil {
		http.Error(w, "failed to aggregate performance: "+err.Error(), http.StatusInternalServerError)
		return
	}

	performance := make([]map[string]interface{}, len(rows))
	for i, row := range rows {
		performance[i] = map[string]interface{}{
			"technician_code": row.TechnicianCode,
			"jobs":            row.TotalReports,
			"units_serviced":  row.UnitsServiced,
			"approved":        row.Approved,
			"rejected":        row.Rejected,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"performance": performance,
		"count":       len(performance),
	})
}
