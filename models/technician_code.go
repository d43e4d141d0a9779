package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TechnicianCode is a short field identifier ("A1", "B2") used to assign
// bookings and filter reports. It is distinct from the login username; the
// optional AccountID link connects it to a User when the technician has one.
type TechnicianCode struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Code      string     `gorm:"size:10;uniqueIndex;not null" json:"code"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	AccountID *uuid.UUID `gorm:"type:uuid" json:"account_id,omitempty"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Account *User `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}

func (TechnicianCode) TableName() string {
	return "technician_codes"
}

func (tc *TechnicianCode) BeforeCreate(tx *gorm.DB) (err error) {
	if tc.ID == uuid.Nil {
		tc.ID = uuid.New()
	}
	return
}
