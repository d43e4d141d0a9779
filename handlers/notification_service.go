package handlers

import (
	"log"

	"github.com/google/uuid"

	"github.com/AFCApps2025/afc-backend/config"
	"github.com/AFCApps2025/afc-backend/models"
)

// notifyRoles writes one notification row per active account holding any of
// the given roles. Delivery is in-app only; creation failures are logged and
// never bubble up to the triggering workflow.
func notifyRoles(roles []string, template models.Notification) {
	var users []models.User
	if err := config.DB.Where("role IN ? AND is_active = ?", roles, true).Find(&users).Error; err != nil {
		log.Printf("❌ Failed to resolve notification recipients: %v", err)
		return
	}

	for _, user := range users {
		if !inAppEnabled(user.ID) {
			continue
		}
		n := template
		n.ID = uuid.Nil
		n.UserID = user.ID
		if err := config.DB.Create(&n).Error; err != nil {
			log.Printf("❌ Failed to create notification for %s: %v", user.Username, err)
		}
	}
}

// notifyTechnician routes a notification to the account linked to a
// technician code, when such a link exists. A dangling code is tolerated.
func notifyTechnician(technicianCode string, template models.Notification) {
	if technicianCode == "" {
		return
	}

	var tc models.TechnicianCode
	if err := config.DB.Where("code = ?", technicianCode).First(&tc).Error; err != nil || tc.AccountID == nil {
		log.Printf("ℹ️  Technician code %s has no linked account, skipping notification", technicianCode)
		return
	}
	if !inAppEnabled(*tc.AccountID) {
		return
	}

	n := template
	n.UserID = *tc.AccountID
	if err := config.DB.Create(&n).Error; err != nil {
		log.Printf("❌ Failed to create technician notification: %v", err)
	}
}

// inAppEnabled checks the account's preference row; accounts without one get
// the default (enabled).
func inAppEnabled(userID uuid.UUID) bool {
	var pref models.NotificationPreference
	if err := config.DB.First(&pref, "user_id = ?", userID).Error; err != nil {
		return true
	}
	return pref.InAppEnabled
}
