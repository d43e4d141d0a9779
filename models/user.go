package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role names used across the system. Authorization is a fixed four-role
// scheme; the permission sets per role live in utils/permissions.go.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleTeknisi = "teknisi"
	RoleHelper  = "helper"
)

// User is a system login account (the legacy "system_accounts" table).
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:20;not null;index" json:"role"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "system_accounts"
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// CanManageAccounts reports whether the role may administer accounts,
// technician codes and partners.
func CanManageAccounts(role string) bool {
	return role == RoleAdmin || role == RoleManager
}
