package models

import "time"

const BorrowRequestTable = "ce_borrow_requests"

// Borrow request statuses. PENDING moves to APPROVED or DENIED; APPROVED
// moves to RETURNED. DENIED and RETURNED are terminal.
const (
	BorrowPending  = "PENDING"
	BorrowApproved = "APPROVED"
	BorrowDenied   = "DENIED"
	BorrowReturned = "RETURNED"
)

// BorrowWindow is the loan period granted on approval.
const BorrowWindow = 7 * 24 * time.Hour

type BorrowRequest struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID     string `gorm:"type:uuid;index;not null" json:"item"`
	BorrowerID string `gorm:"type:uuid;index;not null" json:"borrower"`

	// Denormalized from the item at creation time so ownership checks and
	// point awards survive later item edits.
	ItemOwnerID string `gorm:"type:uuid;index;not null" json:"item_owner"`

	Status      string     `gorm:"size:10;not null;default:'PENDING'" json:"status"`
	RequestDate time.Time  `gorm:"index;not null" json:"request_date"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ReturnDate  *time.Time `gorm:"index" json:"return_date,omitempty"`

	// Set when the system force-denies a request, e.g. the item was deleted.
	DenialReason *string `gorm:"size:255" json:"denialReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (BorrowRequest) TableName() string { return BorrowRequestTable }

// Open reports whether the request still blocks a new request for the same
// (item, borrower) pair.
func (b *BorrowRequest) Open() bool {
	return b.Status == BorrowPending || (b.Status == BorrowApproved && b.ReturnDate == nil)
}
