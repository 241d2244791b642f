package model

import (
	"time"
)

const (
	MethodFree         = "free"
	MethodSubscription = "subscription"
	MethodToken        = "token"
)

type DownloadHistory struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	UserID       int64     `gorm:"index:idx_download_history_user_bundle;not null" json:"user_id"` // tg user id
	BundleID     int64     `gorm:"index:idx_download_history_user_bundle;not null" json:"bundle_id"`
	DownloadedAt time.Time `gorm:"not null" json:"downloaded_at"`
	Method       string    `gorm:"size:20;not null" json:"method"` // free, subscription, token
}

func (DownloadHistory) TableName() string {
	return "download_history"
}
