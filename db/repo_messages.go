package db

import (
	"context"
	"errors"

	"community_exchange/apperr"
	"community_exchange/guard"
	"community_exchange/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Messages

func (r *Repo) CreateMessage(ctx context.Context, p models.Principal, recipientID string, itemID *string, subject, body string) (*models.Message, error) {
	if err := guard.SendMessage(p, recipientID, subject, body); err != nil {
		return nil, err
	}
	if _, err := r.FindUserByID(ctx, recipientID); err != nil {
		return nil, apperr.NotFound("recipient not found")
	}
	m := &models.Message{
		ID:          uuid.NewString(),
		SenderID:    p.ID,
		RecipientID: recipientID,
		ItemID:      itemID,
		Subject:     subject,
		Body:        body,
	}
	if err := r.DB.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (r *Repo) ListInbox(ctx context.Context, userID string) ([]models.Message, error) {
	var ms []models.Message
	err := r.DB.WithContext(ctx).
		Where("recipient_id = ?", userID).
		Order("created_at DESC").Find(&ms).Error
	return ms, err
}

func (r *Repo) ListSent(ctx context.Context, userID string) ([]models.Message, error) {
	var ms []models.Message
	err := r.DB.WithContext(ctx).
		Where("sender_id = ?", userID).
		Order("created_at DESC").Find(&ms).Error
	return ms, err
}

func (r *Repo) MarkMessageRead(ctx context.Context, p models.Principal, id string) (*models.Message, error) {
	var m models.Message
	if err := r.DB.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("message not found")
		}
		return nil, err
	}
	if err := guard.MarkMessageRead(p, &m); err != nil {
		return nil, err
	}
	if !m.IsRead {
		if err := r.DB.WithContext(ctx).Model(&models.Message{}).
			Where("id = ?", m.ID).Update("is_read", true).Error; err != nil {
			return nil, err
		}
		m.IsRead = true
	}
	return &m, nil
}
