package db

import (
	"context"

	"community_exchange/apperr"
	"community_exchange/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Points ledger. Rows are append-only; award runs inside the transaction of
// the state change that raised the event, keyed by (user, action, source).

func award(tx *gorm.DB, userID, action string, points int, description, sourceID string) error {
	if action == "" || points == 0 {
		return apperr.Validation("malformed points event")
	}
	return tx.Create(&models.PointsTransaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Action:      action,
		Points:      points,
		Description: description,
		SourceID:    sourceID,
	}).Error
}

// PointsBalance folds the ledger; there is no stored counter.
func (r *Repo) PointsBalance(ctx context.Context, userID string) (int, error) {
	var total int
	err := r.DB.WithContext(ctx).Model(&models.PointsTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error
	return total, err
}

// PointsTransactionsFor returns the user's ledger, newest first.
func (r *Repo) PointsTransactionsFor(ctx context.Context, userID string) ([]models.PointsTransaction, error) {
	var txs []models.PointsTransaction
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&txs).Error
	return txs, err
}
