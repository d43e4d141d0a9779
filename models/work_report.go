package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReportStatus covers the approval lifecycle of a submitted work report.
type ReportStatus string

const (
	ReportStatusPendingApproval ReportStatus = "pending_approval"
	ReportStatusApproved        ReportStatus = "approved"
	ReportStatusRejected        ReportStatus = "rejected"
)

// WorkReport is one technician-submitted record of work on a single AC unit.
// A multi-unit job produces one row per unit, all sharing the booking code.
// Customer and service fields are denormalized from the booking at submission
// time, matching how the legacy app stored them.
type WorkReport struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	BookingCode string       `gorm:"size:50;not null;index" json:"booking_code"`
	Status      ReportStatus `gorm:"size:30;not null;default:'pending_approval';index" json:"status"`

	CustomerName   string `gorm:"size:100;not null" json:"customer_name"`
	CustomerPhone  string `gorm:"size:20;not null" json:"customer_phone"`
	Address        string `gorm:"type:text" json:"address"`
	Cluster        string `gorm:"size:100" json:"cluster"`
	ServiceType    string `gorm:"size:100" json:"service_type"`
	TechnicianCode string `gorm:"size:10;index" json:"technician_code"`

	UnitNumber     int            `gorm:"not null;default:1" json:"unit_number"`
	Brand          string         `gorm:"size:50" json:"brand"`
	ModelSpec      string         `gorm:"size:100" json:"model_spec"`
	ConditionNotes string         `gorm:"type:text" json:"condition_notes"`
	InternalNotes  string         `gorm:"type:text" json:"internal_notes"`
	PhotoURLs      pq.StringArray `gorm:"type:text[]" json:"photo_urls"`
	UnitDetails    datatypes.JSON `gorm:"type:jsonb" json:"unit_details,omitempty"`

	ApprovedBy      string     `gorm:"size:100" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	ApprovalNotes   string     `gorm:"type:text" json:"approval_notes,omitempty"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`

	// ReferralCounted guards the partner point increment: once any sibling of
	// a booking carries the flag, no later approval may credit the partner
	// again. The claim flips every unclaimed sibling in a single UPDATE inside
	// the approval transaction.
	ReferralCounted bool `gorm:"not null;default:false" json:"referral_counted"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WorkReport) TableName() string {
	return "work_reports"
}

func (wr *WorkReport) BeforeCreate(tx *gorm.DB) (err error) {
	if wr.ID == uuid.Nil {
		wr.ID = uuid.New()
	}
	return
}

// ReportUnitInput is one unit sub-form of a submission.
type ReportUnitInput struct {
	UnitNumber     int            `json:"unit_number"`
	Brand          string         `json:"brand"`
	ModelSpec      string         `json:"model_spec"`
	ConditionNotes string         `json:"condition_notes"`
	InternalNotes  string         `json:"internal_notes"`
	PhotoURLs      []string       `json:"photo_urls"`
	UnitDetails    datatypes.JSON `json:"unit_details,omitempty"`
}

// ReportSubmissionInput is the payload of a technician submission: one shared
// booking/customer context plus one entry per serviced unit.
type ReportSubmissionInput struct {
	BookingCode    string            `json:"booking_code"`
	CustomerName   string            `json:"customer_name"`
	CustomerPhone  string            `json:"customer_phone"`
	Address        string            `json:"address"`
	Cluster        string            `json:"cluster"`
	ServiceType    string            `json:"service_type"`
	TechnicianCode string            `json:"technician_code"`
	Units          []ReportUnitInput `json:"units"`
}

// ExpandSubmission turns one submission into its per-unit report rows. Unit
// numbers default to their 1-based position when the client leaves them unset.
func ExpandSubmission(in ReportSubmissionInput) []WorkReport {
	rows := make([]WorkReport, 0, len(in.Units))
	for i, unit := range in.Units {
		unitNumber := unit.UnitNumber
		if unitNumber == 0 {
			unitNumber = i + 1
		}
		rows = append(rows, WorkReport{
			BookingCode:    in.BookingCode,
			Status:         ReportStatusPendingApproval,
			CustomerName:   in.CustomerName,
			CustomerPhone:  in.CustomerPhone,
			Address:        in.Address,
			Cluster:        in.Cluster,
			ServiceType:    in.ServiceType,
			TechnicianCode: in.TechnicianCode,
			UnitNumber:     unitNumber,
			Brand:          unit.Brand,
			ModelSpec:      unit.ModelSpec,
			ConditionNotes: unit.ConditionNotes,
			InternalNotes:  unit.InternalNotes,
			PhotoURLs:      pq.StringArray(unit.PhotoURLs),
			UnitDetails:    unit.UnitDetails,
		})
	}
	return rows
}
