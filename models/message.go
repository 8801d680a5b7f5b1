package models

import "time"

const MessageTable = "ce_messages"

// Message is free-form correspondence between members, optionally tied to a
// listing.
type Message struct {
	ID          string  `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID    string  `gorm:"type:uuid;index;not null" json:"sender"`
	RecipientID string  `gorm:"type:uuid;index;not null" json:"recipient"`
	ItemID      *string `gorm:"type:uuid;index" json:"item,omitempty"`
	Subject     string  `gorm:"size:255;not null" json:"subject"`
	Body        string  `gorm:"type:text;not null" json:"body"`
	IsRead      bool    `gorm:"not null;default:false" json:"is_read"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Message) TableName() string { return MessageTable }
