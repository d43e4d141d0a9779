package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/AFCApps2025/afc-backend/config"
	"github.com/AFCApps2025/afc-backend/middleware"
	"github.com/AFCApps2025/afc-backend/models"
)

// GetAccounts lists system accounts. Password hashes never leave the model
// (json:"-" on the field).
func GetAccounts(w http.ResponseWriter, r *http.Request) {
	var accounts []models.User
	query := config.DB.Order("username ASC")
	if role := r.URL.Query().Get("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if r.URL.Query().Get("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&accounts).Error; err != nil {
		http.Error(w, "failed to load accounts: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// GetTechnicianCodes lists technician codes with their linked accounts.
func GetTechnicianCodes(w http.ResponseWriter, r *http.Request) {
	var codes []models.TechnicianCode
	query := config.DB.Preload("Account").Order("code ASC")
	if r.URL.Query().Get("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&codes).Error; err != nil {
		http.Error(w, "failed to load technician codes: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"technician_codes": codes,
		"count":            len(codes),
	})
}

// AccountChange is one buffered edit inside a change-set.
type AccountChange struct {
	Action   string  `json:"action"` // create, update, deactivate
	ID       string  `json:"id,omitempty"`
	Username string  `json:"username,omitempty"`
	Name     *string `json:"name,omitempty"`
	Password string  `json:"password,omitempty"`
	Role     string  `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// CodeChange is one buffered technician-code edit inside a change-set.
type CodeChange struct {
	Action    string  `json:"action"` // create, update, deactivate
	ID        string  `json:"id,omitempty"`
	Code      string  `json:"code,omitempty"`
	Name      *string `json:"name,omitempty"`
	AccountID *string `json:"account_id,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// ChangeSetInput is the full batch the admin screen accumulates before
// saving. The whole set applies in one transaction: either every change
// lands or none do.
type ChangeSetInput struct {
	Accounts        []AccountChange `json:"accounts"`
	TechnicianCodes []CodeChange    `json:"technician_codes"`
}

// ApplyChangeSet applies a batch of account and technician-code edits
// atomically. A failure on any item rolls back the entire batch and reports
// which item failed.
func ApplyChangeSet(w http.ResponseWriter, r *http.Request) {
	var input ChangeSetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(input.Accounts) == 0 && len(input.TechnicianCodes) == 0 {
		http.Error(w, "change-set is empty", http.StatusBadRequest)
		return
	}

	claims := middleware.GetClaims(r)

	applied := 0
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		for i, change := range input.Accounts {
			if err := applyAccountChange(tx, change); err != nil {
				return fmt.Errorf("accounts[%d] (%s): %w", i, change.Action, err)
			}
			applied++
		}
		for i, change := range input.TechnicianCodes {
			if err := applyCodeChange(tx, change); err != nil {
				return fmt.Errorf("technician_codes[%d] (%s): %w", i, change.Action, err)
			}
			applied++
		}
		return nil
	})
	if err != nil {
		log.Printf("❌ Change-set by %s rolled back: %v", claims.Username, err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	log.Printf("✅ Change-set by %s applied (%d changes)", claims.Username, applied)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"applied": applied,
		"message": "change-set applied",
	})
}

func applyAccountChange(tx *gorm.DB, change AccountChange) error {
	switch change.Action {
	case "create":
		if change.Username == "" || change.Password == "" {
			return errors.New("username and password are required")
		}
		if !validAccountRole(change.Role) {
			return errors.New("invalid role: " + change.Role)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(change.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		name := change.Username
		if change.Name != nil {
			name = *change.Name
		}
		account := models.User{
			Username:     strings.ToLower(strings.TrimSpace(change.Username)),
			Name:         name,
			PasswordHash: string(hash),
			Role:         change.Role,
			IsActive:     true,
		}
		return tx.Create(&account).Error

	case "update":
		account, err := loadAccount(tx, change.ID)
		if err != nil {
			return err
		}
		updates := map[string]interface{}{}
		if change.Name != nil {
			updates["name"] = *change.Name
		}
		if change.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(change.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			updates["password_hash"] = string(hash)
		}
		if change.Role != "" {
			if !validAccountRole(change.Role) {
				return errors.New("invalid role: " + change.Role)
			}
			updates["role"] = change.Role
		}
		if change.IsActive != nil {
			updates["is_active"] = *change.IsActive
		}
		if len(updates) == 0 {
			return errors.New("no fields to update")
		}
		return tx.Model(account).Updates(updates).Error

	case "deactivate":
		account, err := loadAccount(tx, change.ID)
		if err != nil {
			return err
		}
		return tx.Model(account).Update("is_active", false).Error

	default:
		return errors.New("unknown action: " + change.Action)
	}
}

func applyCodeChange(tx *gorm.DB, change CodeChange) error {
	switch change.Action {
	case "create":
		if change.Code == "" {
			return errors.New("code is required")
		}
		code := models.TechnicianCode{
			Code:     strings.ToUpper(strings.TrimSpace(change.Code)),
			IsActive: true,
		}
		if change.Name != nil {
			code.Name = *change.Name
		}
		if change.AccountID != nil {
			accountID, err := uuid.Parse(*change.AccountID)
			if err != nil {
				return errors.New("invalid account_id")
			}
			code.AccountID = &accountID
		}
		return tx.Create(&code).Error

	case "update":
		var code models.TechnicianCode
		if err := tx.Where("id = ?", change.ID).First(&code).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("technician code not found: " + change.ID)
			}
			return err
		}
		updates := map[string]interface{}{}
		if change.Name != nil {
			updates["name"] = *change.Name
		}
		if change.AccountID != nil {
			if *change.AccountID == "" {
				updates["account_id"] = nil
			} else {
				accountID, err := uuid.Parse(*change.AccountID)
				if err != nil {
					return errors.New("invalid account_id")
				}
				updates["account_id"] = accountID
			}
		}
		if change.IsActive != nil {
			updates["is_active"] = *change.IsActive
		}
		if len(updates) == 0 {
			return errors.New("no fields to update")
		}
		return tx.Model(&code).Updates(updates).Error

	case "deactivate":
		result := tx.Model(&models.TechnicianCode{}).
			Where("id = ?", change.ID).
			Update("is_active", false)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.New("technician code not found: " + change.ID)
		}
		return nil

	default:
		return errors.New("unknown action: " + change.Action)
	}
}

func loadAccount(tx *gorm.DB, id string) (*models.User, error) {
	var account models.User
	if err := tx.Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("account not found: " + id)
		}
		return nil, err
	}
	return &account, nil
}

func validAccountRole(role string) bool {
	switch role {
	case models.RoleAdmin, models.RoleManager, models.RoleTeknisi, models.RoleHelper:
		return true
	}
	return false
}

// DeactivateAccount flips a single account inactive. Deactivation rather
// than deletion keeps historical approvals attributable.
func DeactivateAccount(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	claims := middleware.GetClaims(r)
	if claims != nil && claims.UserID == id {
		http.Error(w, "cannot deactivate your own account", http.StatusUnprocessableEntity)
		return
	}

	result := config.DB.Model(&models.User{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		http.Error(w, "failed to deactivate account: "+result.Error.Error(), http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "account not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "account deactivated"})
}
