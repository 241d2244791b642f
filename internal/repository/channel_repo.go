package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/internal/model"
)

type ChannelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

func (r *ChannelRepository) Create(channel *model.MandatoryChannel) error {
	return r.db.Create(channel).Error
}

func (r *ChannelRepository) GetAllActive() ([]*model.MandatoryChannel, error) {
	var channels []*model.MandatoryChannel
	err := r.db.Where("is_active = ?", true).Find(&channels).Error
	return channels, err
}

func (r *ChannelRepository) GetByID(id int64) (*model.MandatoryChannel, error) {
	var channel model.MandatoryChannel
	err := r.db.Where("id = ?", id).First(&channel).Error
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

func (r *ChannelRepository) GetByChatID(chatID int64) (*model.MandatoryChannel, error) {
	var channel model.MandatoryChannel
	err := r.db.Where("chat_id = ?", chatID).First(&channel).Error
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

func (r *ChannelRepository) Delete(id int64) error {
	return r.db.Delete(&model.MandatoryChannel{}, id).Error
}

func (r *ChannelRepository) UpdateInfo(chatID int64, title, username string) error {
	fields := map[string]interface{}{"title": title}
	if username != "" {
		fields["username"] = username
	}
	return r.db.Model(&model.MandatoryChannel{}).
		Where("chat_id = ?", chatID).
		Updates(fields).Error
}
