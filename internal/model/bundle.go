package model

import (
	"time"
)

const (
	AccessFree    = "free"
	AccessPremium = "premium"
	AccessPlus    = "plus"
)

type Bundle struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	PublicNumber    int       `gorm:"uniqueIndex;not null" json:"public_number"`
	PublicNumberStr string    `gorm:"size:10;index;not null" json:"public_number_str"` // e.g. "0001"
	Code            string    `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Title           string    `gorm:"size:500;not null" json:"title"`
	CreatedBy       int64     `gorm:"not null" json:"created_by"` // admin tg user id
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
	AccessLevel     string    `gorm:"size:20;not null;default:free" json:"access_level"` // free, premium, plus
	CreatedAt       time.Time `json:"created_at"`

	Items []BundleItem `gorm:"foreignKey:BundleID" json:"items,omitempty"`
}

func (Bundle) TableName() string {
	return "bundles"
}

type BundleItem struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	BundleID   int64  `gorm:"index;not null" json:"bundle_id"`
	FromChatID int64  `gorm:"not null" json:"from_chat_id"`
	MessageID  int    `gorm:"not null" json:"message_id"`
	MediaType  string `gorm:"size:50" json:"media_type,omitempty"` // text, photo, video, ...
}

func (BundleItem) TableName() string {
	return "bundle_items"
}
