package model

import (
	"time"
)

type SubscriptionPlan struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	PlanID       string    `gorm:"size:50;uniqueIndex;not null" json:"plan_id"` // e.g. "1m_premium"
	PlanName     string    `gorm:"size:200;not null" json:"plan_name"`
	DurationDays int       `gorm:"not null" json:"duration_days"`
	Tier         string    `gorm:"size:20;not null" json:"tier"` // premium, plus
	Price        int       `gorm:"not null" json:"price"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}
