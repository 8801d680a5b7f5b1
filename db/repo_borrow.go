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

// Borrow requests

// CreateBorrowRequest：原子操作 = 锁住 item → 查重 → 新建请求
// 部分唯一索引兜底，并发下重复请求会触发 duplicated key。
func (r *Repo) CreateBorrowRequest(ctx context.Context, p models.Principal, itemID string) (*models.BorrowRequest, error) {
	var req *models.BorrowRequest
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&item, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("item not found")
			}
			return err
		}
		if err := guard.CreateBorrowRequest(p, &item); err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&models.BorrowRequest{}).
			Where("item_id = ? AND borrower_id = ? AND (status = ? OR (status = ? AND return_date IS NULL))",
				item.ID, p.ID, models.BorrowPending, models.BorrowApproved).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperr.Conflict("you already have an open request for this item")
		}
		b := &models.BorrowRequest{
			ID:          uuid.NewString(),
			ItemID:      item.ID,
			BorrowerID:  p.ID,
			ItemOwnerID: item.OwnerID,
			Status:      models.BorrowPending,
			RequestDate: time.Now().UTC(),
		}
		if err := tx.Create(b).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("you already have an open request for this item")
			}
			return err
		}
		req = b
		return nil
	})
	return req, err
}

func (r *Repo) FindBorrowRequestByID(ctx context.Context, id string) (*models.BorrowRequest, error) {
	var b models.BorrowRequest
	if err := r.DB.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("borrow request not found")
		}
		return nil, err
	}
	return &b, nil
}

// ListBorrowRequests returns what the caller may see: staff see everything,
// customers see requests they made plus requests against their own items.
func (r *Repo) ListBorrowRequests(ctx context.Context, p models.Principal) ([]models.BorrowRequest, error) {
	q := r.DB.WithContext(ctx).Model(&models.BorrowRequest{}).Order("request_date DESC")
	if !p.IsStaff() {
		q = q.Where("borrower_id = ? OR item_owner_id = ?", p.ID, p.ID)
	}
	var reqs []models.BorrowRequest
	if err := q.Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// ApproveBorrowRequest：原子操作 = 锁住请求 → 条件更新 → 记积分
// 两个并发审批最多一个成功，另一个拿到 Conflict。
func (r *Repo) ApproveBorrowRequest(ctx context.Context, p models.Principal, requestID string) (*models.BorrowRequest, error) {
	var req models.BorrowRequest
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&req, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("borrow request not found")
			}
			return err
		}
		if err := guard.ApproveBorrowRequest(p, &req); err != nil {
			return err
		}
		due := time.Now().UTC().Add(models.BorrowWindow)
		res := tx.Model(&models.BorrowRequest{}).
			Where("id = ? AND status = ?", req.ID, models.BorrowPending).
			Updates(map[string]any{"status": models.BorrowApproved, "due_date": due})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("request changed concurrently, re-fetch and retry")
		}
		if err := award(tx, req.ItemOwnerID, models.ActionBorrowFulfilled, models.PointsBorrowFulfilled,
			"Borrow request fulfilled", req.ID); err != nil {
			return err
		}
		req.Status = models.BorrowApproved
		req.DueDate = &due
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *Repo) DenyBorrowRequest(ctx context.Context, p models.Principal, requestID string) (*models.BorrowRequest, error) {
	var req models.BorrowRequest
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&req, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("borrow request not found")
			}
			return err
		}
		if err := guard.DenyBorrowRequest(p, &req); err != nil {
			return err
		}
		res := tx.Model(&models.BorrowRequest{}).
			Where("id = ? AND status = ?", req.ID, models.BorrowPending).
			Update("status", models.BorrowDenied)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("request changed concurrently, re-fetch and retry")
		}
		req.Status = models.BorrowDenied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ReturnBorrowedItem closes an approved loan. Returning emits no points; the
// transfer bonus has its own trigger on the item.
func (r *Repo) ReturnBorrowedItem(ctx context.Context, p models.Principal, requestID string) (*models.BorrowRequest, error) {
	var req models.BorrowRequest
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&req, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("borrow request not found")
			}
			return err
		}
		if err := guard.ReturnBorrowedItem(p, &req); err != nil {
			return err
		}
		now := time.Now().UTC()
		res := tx.Model(&models.BorrowRequest{}).
			Where("id = ? AND status = ? AND return_date IS NULL", req.ID, models.BorrowApproved).
			Updates(map[string]any{"status": models.BorrowReturned, "return_date": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("request changed concurrently, re-fetch and retry")
		}
		req.Status = models.BorrowReturned
		req.ReturnDate = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}
