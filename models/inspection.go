package models

import "time"

const InspectionTable = "ce_inspection_reports"

// Inspection decisions.
const (
	DecisionApproved = "APPROVED"
	DecisionRejected = "REJECTED"
)

// InspectionReport records a staff curation decision on an item. Written in
// the same transaction as the item's status change.
type InspectionReport struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID   string `gorm:"type:uuid;uniqueIndex;not null" json:"item_id"`
	StaffID  string `gorm:"type:uuid;index;not null" json:"staff"`
	Decision string `gorm:"size:10;not null" json:"decision"`

	// 1-5, present on approvals only.
	ConditionRating *int   `json:"condition_rating,omitempty"`
	Notes           string `gorm:"type:text" json:"notes"`

	InspectedAt time.Time `gorm:"index" json:"inspected_at"`
}

func (InspectionReport) TableName() string { return InspectionTable }
