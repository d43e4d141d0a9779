package config

import (
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/AFCApps2025/afc-backend/models"
)

// defaultAccounts mirrors the fallback login list the old client carried for
// when the hosted store was unreachable. Passwords here are first-login
// defaults; admins are expected to rotate them.
var defaultAccounts = []struct {
	Username string
	Name     string
	Role     string
	Password string
}{
	{"admin", "Administrator", models.RoleAdmin, "admin#2025"},
	{"manager", "Manager Operasional", models.RoleManager, "manager#2025"},
	{"teknisi1", "Teknisi Satu", models.RoleTeknisi, "teknisi#2025"},
}

var defaultTechnicianCodes = []struct {
	Code string
	Name string
}{
	{"A1", "Teknisi Satu"},
	{"A2", "Teknisi Dua"},
	{"B1", "Helper Satu"},
}

// SeedDefaults creates the default accounts and technician codes. Safe to run
// on every boot: existing rows are left untouched.
func SeedDefaults() {
	log.Println("🔄 Seeding default accounts...")

	for _, acc := range defaultAccounts {
		var count int64
		DB.Model(&models.User{}).Where("username = ?", acc.Username).Count(&count)
		if count > 0 {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("⚠️  Failed to hash password for %s: %v", acc.Username, err)
			continue
		}

		user := models.User{
			Username:     acc.Username,
			Name:         acc.Name,
			PasswordHash: string(hash),
			Role:         acc.Role,
			IsActive:     true,
		}
		if err := DB.Create(&user).Error; err != nil {
			log.Printf("⚠️  Failed to seed account %s: %v", acc.Username, err)
			continue
		}
		log.Printf("✅ Seeded account %s (%s)", acc.Username, acc.Role)
	}

	for _, tc := range defaultTechnicianCodes {
		var count int64
		DB.Model(&models.TechnicianCode{}).Where("code = ?", tc.Code).Count(&count)
		if count > 0 {
			continue
		}

		row := models.TechnicianCode{Code: tc.Code, Name: tc.Name, IsActive: true}
		if err := DB.Create(&row).Error; err != nil {
			log.Printf("⚠️  Failed to seed technician code %s: %v", tc.Code, err)
			continue
		}
		log.Printf("✅ Seeded technician code %s", tc.Code)
	}

	log.Println("✅ Default seeding completed")
}
