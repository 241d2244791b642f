package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/internal/model"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the singleton settings row, creating it on first use.
func (r *SettingsRepository) Get() (*model.Settings, error) {
	var settings model.Settings
	err := r.db.Where("id = ?", 1).First(&settings).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		settings = model.Settings{ID: 1, NextPublicNumber: 1}
		if err := r.db.Create(&settings).Error; err != nil {
			return nil, err
		}
	}
	return &settings, nil
}

// NextPublicNumber returns the current public number and advances the counter.
func (r *SettingsRepository) NextPublicNumber() (int, error) {
	settings, err := r.Get()
	if err != nil {
		return 0, err
	}
	current := settings.NextPublicNumber
	settings.NextPublicNumber++
	if err := r.db.Save(settings).Error; err != nil {
		return 0, err
	}
	return current, nil
}
