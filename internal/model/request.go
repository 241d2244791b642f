package model

import (
	"time"
)

const (
	RequestOpen   = "open"
	RequestClosed = "closed"
)

// Request is a content wish submitted by a user for admins to review.
type Request struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	UserID    int64      `gorm:"index;not null" json:"user_id"` // tg user id
	Text      string     `gorm:"type:text;not null" json:"text"`
	Status    string     `gorm:"size:20;not null;default:open" json:"status"` // open, closed
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

func (Request) TableName() string {
	return "requests"
}
