package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/AFCApps2025/afc-backend/config"
	"github.com/AFCApps2025/afc-backend/middleware"
	"github.com/AFCApps2025/afc-backend/models"
)

// GetNotifications retrieves notifications for the current user.
// GET /api/v1/notifications
func GetNotifications(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	query := config.DB.Where("user_id = ?", claims.UserID)

	if notifType := r.URL.Query().Get("type"); notifType != "" {
		query = query.Where("type = ?", notifType)
	}
	if unread := r.URL.Query().Get("unread"); unread == "true" {
		query = query.Where("read_at IS NULL")
	}
	if code := r.URL.Query().Get("booking_code"); code != "" {
		query = query.Where("booking_code = ?", code)
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}
	offset := 0
	if o := r.URL.Query().Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&notifications).Error; err != nil {
		http.Error(w, "failed to fetch notifications", http.StatusInternalServerError)
		return
	}

	var unreadCount int64
	config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", claims.UserID).Count(&unreadCount)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"notifications": notifications,
		"count":         len(notifications),
		"unread_count":  unreadCount,
	})
}

// MarkNotificationRead marks one notification as read.
// POST /api/v1/notifications/{id}/read
func MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	id := mux.Vars(r)["id"]

	now := time.Now()
	result := config.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", id, claims.UserID).
		Update("read_at", now)
	if result.Error != nil {
		http.Error(w, "failed to mark notification read", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "notification not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "notification marked read"})
}

// MarkAllNotificationsRead clears the unread badge for the current user.
// POST /api/v1/notifications/read-all
func MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	now := time.Now()
	result := config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", claims.UserID).
		Update("read_at", now)
	if result.Error != nil {
		http.Error(w, "failed to mark notifications read", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "all notifications marked read",
		"count":   result.RowsAffected,
	})
}

// GetNotificationPreferences returns the current user's alert toggles.
func GetNotificationPreferences(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	pref := models.NotificationPreference{InAppEnabled: true, SoundEnabled: false}
	config.DB.First(&pref, "user_id = ?", claims.UserID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pref)
}

type preferencesReq struct {
	InAppEnabled *bool `json:"in_app_enabled"`
	SoundEnabled *bool `json:"sound_enabled"`
}

// UpdateNotificationPreferences upserts the current user's alert toggles.
func UpdateNotificationPreferences(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	var req preferencesReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		http.Error(w, "invalid user id in token", http.StatusUnauthorized)
		return
	}

	pref := models.NotificationPreference{UserID: userID, InAppEnabled: true, SoundEnabled: false}
	config.DB.First(&pref, "user_id = ?", userID)

	if req.InAppEnabled != nil {
		pref.InAppEnabled = *req.InAppEnabled
	}
	if req.SoundEnabled != nil {
		pref.SoundEnabled = *req.SoundEnabled
	}

	if err := config.DB.Save(&pref).Error; err != nil {
		http.Error(w, "failed to save preferences", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pref)
}
