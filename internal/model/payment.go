package model

import (
	"time"
)

const (
	PaymentPending  = "pending"
	PaymentApproved = "approved"
	PaymentRejected = "rejected"
)

type PaymentQueue struct {
	ID               int64      `gorm:"primaryKey" json:"id"`
	UserID           int64      `gorm:"index;not null" json:"user_id"` // tg user id
	PlanID           string     `gorm:"size:50;not null" json:"plan_id"`
	ScreenshotFileID string     `gorm:"type:text;not null" json:"screenshot_file_id"` // telegram file_id
	Status           string     `gorm:"size:20;not null;default:pending;index" json:"status"` // pending, approved, rejected
	SubmittedAt      time.Time  `gorm:"not null" json:"submitted_at"`
	ProcessedAt      *time.Time `json:"processed_at,omitempty"`
	ProcessedBy      string     `gorm:"size:100" json:"processed_by,omitempty"`
}

func (PaymentQueue) TableName() string {
	return "payment_queue"
}
