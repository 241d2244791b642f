package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/internal/model"
)

type OfferRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

func (r *OfferRepository) Create(backup *model.OfferBackup) error {
	return r.db.Create(backup).Error
}

func (r *OfferRepository) GetByID(id int64) (*model.OfferBackup, error) {
	var backup model.OfferBackup
	err := r.db.Where("id = ?", id).First(&backup).Error
	if err != nil {
		return nil, err
	}
	return &backup, nil
}

func (r *OfferRepository) GetActive() ([]*model.OfferBackup, error) {
	var backups []*model.OfferBackup
	err := r.db.Where("is_active = ?", true).Find(&backups).Error
	return backups, err
}

// GetExpired returns offers past their end time that were not restored yet.
func (r *OfferRepository) GetExpired(now time.Time) ([]*model.OfferBackup, error) {
	var backups []*model.OfferBackup
	err := r.db.Where("is_active = ? AND end_time <= ?", true, now).Find(&backups).Error
	return backups, err
}

func (r *OfferRepository) Deactivate(id int64) error {
	return r.db.Model(&model.OfferBackup{}).Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *OfferRepository) GetByName(offerName string) ([]*model.OfferBackup, error) {
	var backups []*model.OfferBackup
	err := r.db.Where("offer_name = ? AND is_active = ?", offerName, true).
		Find(&backups).Error
	return backups, err
}
