package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/internal/model"
)

const rotationDateFormat = "2006-01-02"

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// SetStartingMessage creates or updates the singleton starting message.
func (r *MessageRepository) SetStartingMessage(fromChatID int64, messageID int) error {
	var msg model.StartingMessage
	err := r.db.Where("id = ?", 1).First(&msg).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		msg = model.StartingMessage{ID: 1}
	}
	msg.FromChatID = fromChatID
	msg.MessageID = messageID
	return r.db.Save(&msg).Error
}

func (r *MessageRepository) GetStartingMessage() (*model.StartingMessage, error) {
	var msg model.StartingMessage
	err := r.db.Where("id = ?", 1).First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *MessageRepository) CreateEnding(name string, fromChatID int64, messageID int) error {
	msg := &model.EndingMessage{
		Name:       name,
		FromChatID: fromChatID,
		MessageID:  messageID,
	}
	return r.db.Create(msg).Error
}

func (r *MessageRepository) GetAllEndings() ([]*model.EndingMessage, error) {
	var msgs []*model.EndingMessage
	err := r.db.Find(&msgs).Error
	return msgs, err
}

func (r *MessageRepository) DeleteEnding(id int64) error {
	return r.db.Delete(&model.EndingMessage{}, id).Error
}

// GetAvailableEndings returns endings not yet shown to the user on the given
// day.
func (r *MessageRepository) GetAvailableEndings(userID int64, day time.Time) ([]*model.EndingMessage, error) {
	date := day.Format(rotationDateFormat)

	var shownIDs []int64
	err := r.db.Model(&model.EndingRotation{}).
		Where("user_id = ? AND date = ?", userID, date).
		Pluck("ending_id", &shownIDs).Error
	if err != nil {
		return nil, err
	}

	query := r.db.Model(&model.EndingMessage{})
	if len(shownIDs) > 0 {
		query = query.Where("id NOT IN ?", shownIDs)
	}

	var msgs []*model.EndingMessage
	err = query.Find(&msgs).Error
	return msgs, err
}

// RecordEndingShown logs the ending in the user's daily rotation.
func (r *MessageRepository) RecordEndingShown(userID, endingID int64, day time.Time) error {
	rotation := &model.EndingRotation{
		UserID:   userID,
		EndingID: endingID,
		Date:     day.Format(rotationDateFormat),
	}
	return r.db.Create(rotation).Error
}
