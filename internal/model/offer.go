package model

import (
	"time"
)

// OfferBackup stores a bundle's original access level while a time-limited
// promotion overrides it, so the level can always be restored.
type OfferBackup struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	OfferName      string    `gorm:"size:100;not null" json:"offer_name"`
	BundleID       int64     `gorm:"index;not null" json:"bundle_id"`
	OriginalLevel  string    `gorm:"size:20;not null" json:"original_level"`
	TemporaryLevel string    `gorm:"size:20;not null" json:"temporary_level"`
	StartTime      time.Time `gorm:"not null" json:"start_time"`
	EndTime        time.Time `gorm:"not null" json:"end_time"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

func (OfferBackup) TableName() string {
	return "offer_backups"
}
