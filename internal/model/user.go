package model

import (
	"time"
)

const (
	SubscriptionFree = "free"
	SubscriptionPaid = "paid"

	TierPremium = "premium"
	TierPlus    = "plus"
)

type User struct {
	ID               int64     `gorm:"primaryKey" json:"id"`
	TgUserID         int64     `gorm:"uniqueIndex;not null" json:"tg_user_id"`
	FirstSeen        time.Time `gorm:"not null" json:"first_seen"`
	LastSeen         time.Time `gorm:"not null" json:"last_seen"`
	SubscriptionType string    `gorm:"size:20;not null;default:free" json:"subscription_type"` // free, paid
	SubscriptionTier string    `gorm:"size:20" json:"subscription_tier,omitempty"`             // premium, plus
	ExpiryDate       *int64    `json:"expiry_date,omitempty"`                                  // unix seconds
	ReferralTokens   int       `gorm:"not null;default:3" json:"referral_tokens"`
	ReferralCode     string    `gorm:"size:10;uniqueIndex" json:"referral_code"`
	ReferredBy       string    `gorm:"size:10" json:"referred_by,omitempty"`
	TotalDownloads   int       `gorm:"not null;default:0" json:"total_downloads"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsSubscriptionActive reports whether the user holds a paid subscription
// that has not expired yet.
func (u *User) IsSubscriptionActive() bool {
	if u.SubscriptionType != SubscriptionPaid || u.ExpiryDate == nil {
		return false
	}
	return *u.ExpiryDate > time.Now().Unix()
}
