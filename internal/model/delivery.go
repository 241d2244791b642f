package model

import (
	"time"
)

const (
	DeliveryDelivered = "delivered"
	DeliveryDeleted   = "deleted"
	DeliveryFailed    = "failed"
)

// DeliveredMessage is one copied message the sweeper must remove later.
type DeliveredMessage struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int   `json:"message_id"`
}

type Delivery struct {
	ID          int64              `gorm:"primaryKey" json:"id"`
	BundleID    int64              `gorm:"index;not null" json:"bundle_id"`
	UserID      int64              `gorm:"index;not null" json:"user_id"` // tg user id
	DeliveredAt time.Time          `gorm:"not null" json:"delivered_at"`
	Messages    []DeliveredMessage `gorm:"serializer:json;not null" json:"messages"`
	DeleteAt    time.Time          `gorm:"index;not null" json:"delete_at"`
	DeletedAt   *time.Time         `json:"deleted_at,omitempty"`
	Status      string             `gorm:"size:20;not null;default:delivered;index" json:"status"` // delivered, deleted, failed
}

func (Delivery) TableName() string {
	return "deliveries"
}
