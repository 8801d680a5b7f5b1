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

// Ratings

func (r *Repo) CreateRating(ctx context.Context, p models.Principal, itemID string, stars int, comment string) (*models.Rating, error) {
	item, err := r.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := guard.CreateRating(p, item, stars); err != nil {
		return nil, err
	}
	rating := &models.Rating{
		ID:      uuid.NewString(),
		ItemID:  item.ID,
		RaterID: p.ID,
		Stars:   stars,
		Comment: comment,
	}
	if err := r.DB.WithContext(ctx).Create(rating).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("you already rated this item")
		}
		return nil, err
	}
	return rating, nil
}

func (r *Repo) ListRatings(ctx context.Context, itemID string) ([]models.Rating, error) {
	q := r.DB.WithContext(ctx).Model(&models.Rating{}).Order("created_at DESC")
	if itemID != "" {
		q = q.Where("item_id = ?", itemID)
	}
	var rs []models.Rating
	err := q.Find(&rs).Error
	return rs, err
}

func (r *Repo) UpdateRating(ctx context.Context, p models.Principal, id string, stars int, comment string) (*models.Rating, error) {
	var rating models.Rating
	if err := r.DB.WithContext(ctx).First(&rating, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("rating not found")
		}
		return nil, err
	}
	if err := guard.MutateRating(p, &rating); err != nil {
		return nil, err
	}
	if stars < 1 || stars > 5 {
		return nil, apperr.Validation("stars must be between 1 and 5")
	}
	if err := r.DB.WithContext(ctx).Model(&models.Rating{}).
		Where("id = ?", rating.ID).
		Updates(map[string]any{"stars": stars, "comment": comment}).Error; err != nil {
		return nil, err
	}
	rating.Stars = stars
	rating.Comment = comment
	return &rating, nil
}

func (r *Repo) DeleteRating(ctx context.Context, p models.Principal, id string) error {
	var rating models.Rating
	if err := r.DB.WithContext(ctx).First(&rating, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("rating not found")
		}
		return err
	}
	if err := guard.MutateRating(p, &rating); err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Delete(&models.Rating{}, "id = ?", rating.ID).Error
}

// Inspection reports

func (r *Repo) ListInspectionReports(ctx context.Context) ([]models.InspectionReport, error) {
	var rs []models.InspectionReport
	err := r.DB.WithContext(ctx).Order("inspected_at DESC").Find(&rs).Error
	return rs, err
}
