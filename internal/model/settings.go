package model

// Settings is the singleton bot state row (id=1).
type Settings struct {
	ID               int64 `gorm:"primaryKey" json:"id"`
	NextPublicNumber int   `gorm:"not null;default:1" json:"next_public_number"`
}

func (Settings) TableName() string {
	return "settings"
}
