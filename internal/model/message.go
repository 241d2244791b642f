package model

import (
	"time"
)

// StartingMessage is the single configurable greeting copied to users on
// /start. Only the row with id=1 exists.
type StartingMessage struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	FromChatID int64     `json:"from_chat_id"`
	MessageID  int       `json:"message_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (StartingMessage) TableName() string {
	return "starting_messages"
}

// EndingMessage is one of the rotating messages shown after auto-deletion.
type EndingMessage struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	FromChatID int64     `gorm:"not null" json:"from_chat_id"`
	MessageID  int       `gorm:"not null" json:"message_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (EndingMessage) TableName() string {
	return "ending_messages"
}

// EndingRotation records which ending a user saw on a given day, so the same
// ending is never repeated for that user within one calendar date.
type EndingRotation struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	UserID   int64  `gorm:"index:idx_ending_rotation_user_date;not null" json:"user_id"`
	EndingID int64  `gorm:"not null" json:"ending_id"`
	Date     string `gorm:"size:10;index:idx_ending_rotation_user_date;not null" json:"date"` // YYYY-MM-DD
}

func (EndingRotation) TableName() string {
	return "ending_rotations"
}
