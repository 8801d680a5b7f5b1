package models

import "time"

const ItemTable = "ce_items"

// Ownership dispositions for a listing.
const (
	OwnershipSell     = "SELL"
	OwnershipExchange = "EXCHANGE"
	OwnershipShare    = "SHARE"
)

func ValidOwnershipType(t string) bool {
	return t == OwnershipSell || t == OwnershipExchange || t == OwnershipShare
}

// Item statuses. PENDING may move to APPROVED or REJECTED; both are terminal.
const (
	ItemPending  = "PENDING"
	ItemApproved = "APPROVED"
	ItemRejected = "REJECTED"
)

type Item struct {
	ID            string `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID       string `gorm:"type:uuid;index;not null" json:"ownerId"`
	Name          string `gorm:"size:255;not null" json:"name"`
	Category      string `gorm:"size:100;not null" json:"category"`
	Description   string `gorm:"type:text;not null" json:"description"`
	OwnershipType string `gorm:"size:10;not null" json:"ownership_type"`
	Status        string `gorm:"size:20;not null;default:'PENDING'" json:"status"`

	// 1-5, set by staff on approval.
	ConditionScore *int `json:"condition_score,omitempty"`

	// Set once when the owner marks the SELL/EXCHANGE/SHARE hand-over done.
	TransferCompletedAt *time.Time `json:"transferCompletedAt,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Item) TableName() string { return ItemTable }

// ItemPatch carries the owner-editable fields of an item. Nil means "leave
// unchanged"; status and condition score are never editable this way.
type ItemPatch struct {
	Name          *string `json:"name"`
	Category      *string `json:"category"`
	Description   *string `json:"description"`
	OwnershipType *string `json:"ownership_type"`
}
