package models

import "time"

const RatingTable = "ce_ratings"

// Rating is a member's star review of an approved listing. One per
// (item, rater) pair.
type Rating struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID  string `gorm:"type:uuid;index:idx_ce_ratings_item_rater,unique;not null" json:"item_id"`
	RaterID string `gorm:"type:uuid;index:idx_ce_ratings_item_rater,unique;not null" json:"rater"`
	Stars   int    `gorm:"not null" json:"stars"`
	Comment string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Rating) TableName() string { return RatingTable }
