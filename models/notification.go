package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType defines what event produced the notification.
type NotificationType string

const (
	NotificationTypeBookingCreated  NotificationType = "booking_created"
	NotificationTypeReportSubmitted NotificationType = "report_submitted"
	NotificationTypeReportApproved  NotificationType = "report_approved"
	NotificationTypeReportRejected  NotificationType = "report_rejected"
	NotificationTypeBookingKomplain NotificationType = "booking_komplain"
)

// NotificationPriority defines the priority level.
type NotificationPriority string

const (
	NotificationPriorityNormal NotificationPriority = "normal"
	NotificationPriorityHigh   NotificationPriority = "high"
)

// Notification is one in-app alert row for a specific account.
type Notification struct {
	ID          uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID            `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        NotificationType     `gorm:"size:50;not null;index" json:"type"`
	Priority    NotificationPriority `gorm:"size:20;not null;default:'normal'" json:"priority"`
	Title       string               `gorm:"size:200;not null" json:"title"`
	Body        string               `gorm:"type:text" json:"body"`
	BookingCode string               `gorm:"size:50;index" json:"booking_code,omitempty"`
	ReadAt      *time.Time           `json:"read_at,omitempty"`
	CreatedAt   time.Time            `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}

// IsRead reports whether the notification was marked read.
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// NotificationPreference stores the per-account alert toggles the legacy app
// kept in client storage (in-app alerts on/off, sound on/off).
type NotificationPreference struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	InAppEnabled bool      `gorm:"not null;default:true" json:"in_app_enabled"`
	SoundEnabled bool      `gorm:"not null;default:false" json:"sound_enabled"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (NotificationPreference) TableName() string {
	return "notification_preferences"
}
