package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AFCApps2025/afc-backend/handlers"
	"github.com/AFCApps2025/afc-backend/middleware"
	"github.com/AFCApps2025/afc-backend/models"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/login", handlers.Login).Methods("POST")
	r.HandleFunc("/healthz", handleHealth).Methods("GET")
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir("./uploads"))),
	)

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RateLimitMiddleware)
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/profile", handlers.GetCurrentUser).Methods("GET")
	api.HandleFunc("/token/refresh", handlers.RefreshToken).Methods("POST")

	registerBookingRoutes(api)
	registerReportRoutes(api)
	registerNotificationRoutes(api)

	// =====================================================
	// Admin Routes (admin and manager only)
	// =====================================================
	admin := api.PathPrefix("/admin").Subrouter()
	registerAdminRoutes(admin)

	// =====================================================
	// Partner API (read-only with API key)
	// =====================================================
	partner := r.PathPrefix("/api/v1/partner").Subrouter()
	partner.Use(middleware.APIKeyMiddleware)
	partner.HandleFunc("/{code}/points", handlers.GetPartnerPoints).Methods("GET")

	return r
}

func registerBookingRoutes(api *mux.Router) {
	api.Handle("/bookings", middleware.RequirePermission("booking:create", handlers.CreateBooking)).Methods("POST")
	api.Handle("/bookings", middleware.RequirePermission("booking:read", handlers.GetBookings)).Methods("GET")
	api.Handle("/bookings/schedule", middleware.RequirePermission("booking:read", handlers.GetSchedule)).Methods("GET")
	api.Handle("/bookings/{code}", middleware.RequirePermission("booking:read", handlers.GetBooking)).Methods("GET")
	api.Handle("/bookings/{code}", middleware.RequirePermission("booking:update", handlers.UpdateBooking)).Methods("PATCH")
	api.Handle("/bookings/{code}/transition", middleware.RequirePermission("booking:transition", handlers.TransitionBooking)).Methods("POST")
	api.Handle("/bookings/{code}", middleware.RequirePermission("booking:delete", handlers.DeleteBooking)).Methods("DELETE")

	api.Handle("/customers", middleware.RequirePermission("customer:read", handlers.GetCustomers)).Methods("GET")
	api.Handle("/customers/history", middleware.RequirePermission("customer:read", handlers.GetCustomerHistory)).Methods("GET")
	api.Handle("/customers/brand-history", middleware.RequirePermission("customer:read", handlers.GetBrandHistory)).Methods("GET")
}

func registerReportRoutes(api *mux.Router) {
	api.Handle("/reports", middleware.RequirePermission("report:create", handlers.SubmitReport)).Methods("POST")
	api.Handle("/reports", middleware.RequirePermission("report:read", handlers.GetReports)).Methods("GET")
	api.Handle("/reports/export", middleware.RequirePermission("export:create", handlers.ExportReportsToExcel)).Methods("GET")
	api.Handle("/reports/{id}", middleware.RequirePermission("report:read", handlers.GetReport)).Methods("GET")

	api.Handle("/reports/upload-photo", middleware.RequirePermission("report:create", handlers.UploadPhotoHandler)).Methods("POST")

	api.Handle("/approvals/{bookingCode}/approve", middleware.RequirePermission("approval:create", handlers.ApproveReports)).Methods("POST")
	api.Handle("/approvals/{bookingCode}/reject", middleware.RequirePermission("approval:create", handlers.RejectReports)).Methods("POST")

	api.Handle("/stats/dashboard", middleware.RequirePermission("stats:read", handlers.GetDashboardStats)).Methods("GET")
	api.Handle("/stats/technicians", middleware.RequirePermission("stats:read", handlers.GetTechnicianPerformance)).Methods("GET")
	api.Handle("/partners", middleware.RequirePermission("partner:read", handlers.GetPartners)).Methods("GET")
}

func registerNotificationRoutes(api *mux.Router) {
	api.HandleFunc("/notifications", handlers.GetNotifications).Methods("GET")
	api.HandleFunc("/notifications/read-all", handlers.MarkAllNotificationsRead).Methods("POST")
	api.HandleFunc("/notifications/{id}/read", handlers.MarkNotificationRead).Methods("POST")
	api.HandleFunc("/notifications/preferences", handlers.GetNotificationPreferences).Methods("GET")
	api.HandleFunc("/notifications/preferences", handlers.UpdateNotificationPreferences).Methods("PUT")
}

func registerAdminRoutes(admin *mux.Router) {
	managers := []string{models.RoleAdmin, models.RoleManager}

	admin.Handle("/register", middleware.RequireRole([]string{models.RoleAdmin}, http.HandlerFunc(handlers.Register))).Methods("POST")
	admin.Handle("/accounts", middleware.RequireRole(managers, http.HandlerFunc(handlers.GetAccounts))).Methods("GET")
	admin.Handle("/accounts/{id}", middleware.RequireRole([]string{models.RoleAdmin}, http.HandlerFunc(handlers.DeactivateAccount))).Methods("DELETE")
	admin.Handle("/technician-codes", middleware.RequireRole(managers, http.HandlerFunc(handlers.GetTechnicianCodes))).Methods("GET")
	admin.Handle("/change-set", middleware.RequireRole([]string{models.RoleAdmin}, http.HandlerFunc(handlers.ApplyChangeSet))).Methods("POST")

	admin.Handle("/partners", middleware.RequireRole(managers, http.HandlerFunc(handlers.CreatePartner))).Methods("POST")
	admin.Handle("/partners/{code}", middleware.RequireRole(managers, http.HandlerFunc(handlers.UpdatePartner))).Methods("PATCH")
	admin.Handle("/reports/{id}", middleware.RequireRole([]string{models.RoleAdmin}, http.HandlerFunc(handlers.DeleteReport))).Methods("DELETE")
}

// handleHealth is the liveness probe endpoint.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
