package db

import (
	"context"
	"errors"
	"time"

	"community_exchange/apperr"
	"community_exchange/guard"
	"community_exchange/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Items

func (r *Repo) CreateItem(ctx context.Context, p models.Principal, in guard.NewItemInput) (*models.Item, error) {
	if err := guard.CreateItem(p, in); err != nil {
		return nil, err
	}
	it := &models.Item{
		ID:            uuid.NewString(),
		OwnerID:       p.ID,
		Name:          in.Name,
		Category:      in.Category,
		Description:   in.Description,
		OwnershipType: in.OwnershipType,
		Status:        models.ItemPending,
	}
	if err := r.DB.WithContext(ctx).Create(it).Error; err != nil {
		return nil, err
	}
	return it, nil
}

func (r *Repo) FindItemByID(ctx context.Context, id string) (*models.Item, error) {
	var it models.Item
	if err := r.DB.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("item not found")
		}
		return nil, err
	}
	return &it, nil
}

func (r *Repo) ListApprovedItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := r.DB.WithContext(ctx).
		Where("status = ?", models.ItemApproved).
		Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *Repo) ListPendingItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := r.DB.WithContext(ctx).
		Where("status = ?", models.ItemPending).
		Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *Repo) ListItemsByOwner(ctx context.Context, ownerID string) ([]models.Item, error) {
	var items []models.Item
	err := r.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").Find(&items).Error
	return items, err
}

// ApproveItem：原子操作 = 锁住 item → 条件更新状态 → 写审核记录 → 记积分
func (r *Repo) ApproveItem(ctx context.Context, p models.Principal, itemID string, stars int, comment string) (*models.Item, error) {
	var item models.Item
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&item, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("item not found")
			}
			return err
		}
		if err := guard.ApproveItem(p, &item, stars); err != nil {
			return err
		}
		res := tx.Model(&models.Item{}).
			Where("id = ? AND status = ?", item.ID, models.ItemPending).
			Updates(map[string]any{"status": models.ItemApproved, "condition_score": stars})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("item changed concurrently, re-fetch and retry")
		}
		report := &models.InspectionReport{
			ID:              uuid.NewString(),
			ItemID:          item.ID,
			StaffID:         p.ID,
			Decision:        models.DecisionApproved,
			ConditionRating: &stars,
			Notes:           comment,
			InspectedAt:     time.Now().UTC(),
		}
		if err := tx.Create(report).Error; err != nil {
			return err
		}
		if err := award(tx, item.OwnerID, models.ActionItemApproved, models.PointsItemApproved,
			"Item approved: "+item.Name, item.ID); err != nil {
			return err
		}
		item.Status = models.ItemApproved
		item.ConditionScore = &stars
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// RejectItem：同 ApproveItem，但不记积分
func (r *Repo) RejectItem(ctx context.Context, p models.Principal, itemID string, comment string) (*models.Item, error) {
	var item models.Item
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&item, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("item not found")
			}
			return err
		}
		if err := guard.RejectItem(p, &item, comment); err != nil {
			return err
		}
		res := tx.Model(&models.Item{}).
			Where("id = ? AND status = ?", item.ID, models.ItemPending).
			Update("status", models.ItemRejected)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("item changed concurrently, re-fetch and retry")
		}
		report := &models.InspectionReport{
			ID:          uuid.NewString(),
			ItemID:      item.ID,
			StaffID:     p.ID,
			Decision:    models.DecisionRejected,
			Notes:       comment,
			InspectedAt: time.Now().UTC(),
		}
		if err := tx.Create(report).Error; err != nil {
			return err
		}
		item.Status = models.ItemRejected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repo) UpdateItem(ctx context.Context, p models.Principal, itemID string, patch models.ItemPatch) (*models.Item, error) {
	var item models.Item
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&item, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("item not found")
			}
			return err
		}
		if err := guard.UpdateItem(p, &item, patch); err != nil {
			return err
		}
		fields := map[string]any{}
		if patch.Name != nil {
			fields["name"] = *patch.Name
			item.Name = *patch.Name
		}
		if patch.Category != nil {
			fields["category"] = *patch.Category
			item.Category = *patch.Category
		}
		if patch.Description != nil {
			fields["description"] = *patch.Description
			item.Description = *patch.Description
		}
		if patch.OwnershipType != nil {
			fields["ownership_type"] = *patch.OwnershipType
			item.OwnershipType = *patch.OwnershipType
		}
		if len(fields) == 0 {
			return nil
		}
		return tx.Model(&models.Item{}).Where("id = ?", item.ID).Updates(fields).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem：原子操作 = 锁住 item → 强制关闭未结请求 → 删除
func (r *Repo) DeleteItem(ctx context.Context, p models.Principal, itemID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&item, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("item not found")
			}
			return err
		}
		if err := guard.DeleteItem(p, &item); err != nil {
			return err
		}
		// 不留孤儿请求
		reason := "item was deleted by its owner"
		if err := tx.Model(&models.BorrowRequest{}).
			Where("item_id = ? AND (status = ? OR (status = ? AND return_date IS NULL))",
				item.ID, models.BorrowPending, models.BorrowApproved).
			Updates(map[string]any{"status": models.BorrowDenied, "denial_reason": reason}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Item{}, "id = ?", item.ID).Error
	})
}

// CompleteTransfer marks the SELL/EXCHANGE/SHARE hand-over as done and emits
// the ownership-type bonus. The timestamp column plus the ledger's uniqueness
// key keep this exactly-once.
func (r *Repo) CompleteTransfer(ctx context.Context, p models.Principal, itemID string) (*models.Item, error) {
	var item models.Item
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&item, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("item not found")
			}
			return err
		}
		if err := guard.CompleteTransfer(p, &item); err != nil {
			return err
		}
		now := time.Now().UTC()
		res := tx.Model(&models.Item{}).
			Where("id = ? AND status = ? AND transfer_completed_at IS NULL", item.ID, models.ItemApproved).
			Update("transfer_completed_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("item changed concurrently, re-fetch and retry")
		}
		action, points := models.CompletionAward(item.OwnershipType)
		if err := award(tx, item.OwnerID, action, points,
			"Transfer completed: "+item.Name, item.ID); err != nil {
			return err
		}
		item.TransferCompletedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}
