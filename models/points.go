package models

import "time"

const PointsTable = "ce_points_transactions"

// Reward actions. One ledger row is written per (user, action, source) at
// the moment of the corresponding state transition, never retroactively.
const (
	ActionItemApproved      = "ITEM_APPROVED"
	ActionBorrowFulfilled   = "BORROW_FULFILLED"
	ActionSellCompleted     = "SELL_COMPLETED"
	ActionExchangeCompleted = "EXCHANGE_COMPLETED"
	ActionShareCompleted    = "SHARE_COMPLETED"
)

// Fixed reward table.
const (
	PointsItemApproved      = 10
	PointsBorrowFulfilled   = 15
	PointsSellCompleted     = 20
	PointsExchangeCompleted = 15
	PointsShareCompleted    = 10
)

// CompletionAward maps a listing's ownership type to the action and points
// emitted when its transfer completes.
func CompletionAward(ownershipType string) (action string, points int) {
	switch ownershipType {
	case OwnershipSell:
		return ActionSellCompleted, PointsSellCompleted
	case OwnershipExchange:
		return ActionExchangeCompleted, PointsExchangeCompleted
	case OwnershipShare:
		return ActionShareCompleted, PointsShareCompleted
	}
	return "", 0
}

// PointsTransaction is append-only. A user's balance is always the sum over
// their rows; no stored counter exists to drift.
type PointsTransaction struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string `gorm:"type:uuid;index;not null" json:"user"`
	Action      string `gorm:"size:30;not null" json:"action"`
	Points      int    `gorm:"not null" json:"points"`
	Description string `gorm:"size:255" json:"description"`

	// The entity whose transition raised the event; part of the uniqueness
	// key that makes emission exactly-once.
	SourceID string `gorm:"type:uuid;not null" json:"sourceId"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (PointsTransaction) TableName() string { return PointsTable }
