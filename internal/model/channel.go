package model

import (
	"time"
)

// PlaceholderChatID marks a channel registered by private invite link whose
// chat id could not be resolved. Membership in such channels is unverifiable.
const PlaceholderChatID int64 = 0

type MandatoryChannel struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	ChatID    int64     `gorm:"index;not null" json:"chat_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Username  string    `gorm:"size:100" json:"username,omitempty"`
	JoinLink  string    `gorm:"size:500" json:"join_link,omitempty"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (MandatoryChannel) TableName() string {
	return "mandatory_channels"
}

// Link returns the best joinable URL for the channel.
func (c *MandatoryChannel) Link() string {
	if c.JoinLink != "" {
		return c.JoinLink
	}
	if c.Username != "" {
		return "https://t.me/" + c.Username
	}
	return ""
}
