package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingStatus is the closed set of lifecycle states a booking can be in.
// The free-text status column of the legacy app is replaced by this enum plus
// an explicit transition table (see CanTransition).
type BookingStatus string

const (
	BookingStatusPending            BookingStatus = "pending"
	BookingStatusConfirmed          BookingStatus = "confirmed"
	BookingStatusRescheduled        BookingStatus = "rescheduled"
	BookingStatusMenungguKonfirmasi BookingStatus = "menunggu_konfirmasi"
	BookingStatusMenungguSparepart  BookingStatus = "menunggu_sparepart"
	BookingStatusKomplain           BookingStatus = "komplain"
	BookingStatusDitolak            BookingStatus = "ditolak"
	BookingStatusSelesai            BookingStatus = "selesai"
	BookingStatusDeleted            BookingStatus = "deleted"
)

// bookingTransitions maps each status to the set of statuses it may move to.
// "deleted" is reachable from anywhere via the admin soft delete and is handled
// separately in CanTransition.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:            {BookingStatusConfirmed, BookingStatusDitolak},
	BookingStatusConfirmed:          {BookingStatusRescheduled, BookingStatusMenungguKonfirmasi, BookingStatusMenungguSparepart, BookingStatusSelesai, BookingStatusKomplain, BookingStatusDitolak},
	BookingStatusRescheduled:        {BookingStatusConfirmed, BookingStatusMenungguKonfirmasi, BookingStatusMenungguSparepart, BookingStatusSelesai, BookingStatusDitolak},
	BookingStatusMenungguKonfirmasi: {BookingStatusConfirmed, BookingStatusMenungguSparepart, BookingStatusSelesai, BookingStatusDitolak},
	BookingStatusMenungguSparepart:  {BookingStatusConfirmed, BookingStatusMenungguKonfirmasi, BookingStatusSelesai, BookingStatusDitolak},
	BookingStatusKomplain:           {BookingStatusConfirmed, BookingStatusRescheduled, BookingStatusMenungguKonfirmasi, BookingStatusMenungguSparepart, BookingStatusSelesai, BookingStatusDitolak},
	BookingStatusSelesai:            {BookingStatusKomplain},
	BookingStatusDitolak:            {BookingStatusConfirmed},
	BookingStatusDeleted:            {},
}

// ValidBookingStatus reports whether s is a known status value.
func ValidBookingStatus(s BookingStatus) bool {
	_, ok := bookingTransitions[s]
	return ok
}

// CanTransition reports whether a booking in status `from` may move to `to`.
// Soft delete is allowed from every state except deleted itself; role
// enforcement for it lives in the handler layer.
func CanTransition(from, to BookingStatus) bool {
	if !ValidBookingStatus(from) || !ValidBookingStatus(to) {
		return false
	}
	if to == BookingStatusDeleted {
		return from != BookingStatusDeleted
	}
	for _, allowed := range bookingTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ActiveScheduleStatuses are the statuses shown on the working schedule.
// Completed and deleted bookings are excluded by the schedule query.
var ActiveScheduleStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusRescheduled,
	BookingStatusMenungguKonfirmasi,
	BookingStatusMenungguSparepart,
	BookingStatusKomplain,
}

// Booking is one scheduled AC service visit.
type Booking struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	BookingCode string        `gorm:"size:50;uniqueIndex;not null" json:"booking_code"`
	Status      BookingStatus `gorm:"size:30;not null;default:'pending';index" json:"status"`

	CustomerName  string `gorm:"size:100;not null" json:"customer_name"`
	CustomerPhone string `gorm:"size:20;not null" json:"customer_phone"`
	Address       string `gorm:"type:text;not null" json:"address"`
	Cluster       string `gorm:"size:100" json:"cluster"`

	ServiceType    string   `gorm:"size:100;not null" json:"service_type"`
	UnitCount      int      `gorm:"column:jumlah_unit;not null;default:1" json:"jumlah_unit"`
	Brand          string   `gorm:"size:50" json:"brand"`
	VisitDate      DateOnly `gorm:"type:date;not null;index" json:"visit_date"`
	VisitTime      string   `gorm:"size:20" json:"visit_time"`
	TechnicianCode string   `gorm:"size:10;index" json:"technician_code"`

	Note           string `gorm:"type:text" json:"note"`
	RescheduleNote string `gorm:"type:text" json:"reschedule_note"`
	InternalNote   string `gorm:"type:text" json:"internal_note"`
	ReferralCode   string `gorm:"size:30;index" json:"referral_code"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

// IsActive reports whether the booking still belongs on the schedule view.
func (b *Booking) IsActive() bool {
	for _, s := range ActiveScheduleStatuses {
		if b.Status == s {
			return true
		}
	}
	return false
}
