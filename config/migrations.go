package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/AFCApps2025/afc-backend/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "10032026_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.TechnicianCode{},
					&models.Booking{}, &models.WorkReport{}, &models.Partner{},
					&models.Customer{})
			},
		},
		{
			ID: "10032026_referral_guard_index",
			Migrate: func(tx *gorm.DB) error {
				// The referral claim flips referral_counted for every sibling
				// of a booking in one statement; this index keeps that lookup
				// off a sequential scan.
				return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_reports_referral_claim
					ON work_reports (booking_code, referral_counted)`).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Exec(`DROP INDEX IF EXISTS idx_reports_referral_claim`).Error
			},
		},
		{
			ID: "12032026_add_notification_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Notification{}, &models.NotificationPreference{})
			},
		},
		{
			ID: "18032026_booking_status_check",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS chk_booking_status;
					ALTER TABLE bookings ADD CONSTRAINT chk_booking_status CHECK (status IN
					('pending','confirmed','rescheduled','menunggu_konfirmasi',
					 'menunggu_sparepart','komplain','ditolak','selesai','deleted'))`).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS chk_booking_status`).Error
			},
		},
	})

	return m.Migrate()
}
