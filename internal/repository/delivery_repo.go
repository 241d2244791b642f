package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/internal/model"
)

type DeliveryRepository struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

func (r *DeliveryRepository) Create(delivery *model.Delivery) error {
	return r.db.Create(delivery).Error
}

func (r *DeliveryRepository) GetByID(id int64) (*model.Delivery, error) {
	var delivery model.Delivery
	err := r.db.Where("id = ?", id).First(&delivery).Error
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

// GetDue returns deliveries past their deletion deadline that were not swept
// yet. Terminal records never match.
func (r *DeliveryRepository) GetDue(before time.Time) ([]*model.Delivery, error) {
	var deliveries []*model.Delivery
	err := r.db.
		Where("status = ? AND deleted_at IS NULL AND delete_at <= ?", model.DeliveryDelivered, before).
		Find(&deliveries).Error
	return deliveries, err
}

// MarkDeleted moves the record to its terminal deleted state.
func (r *DeliveryRepository) MarkDeleted(id int64) error {
	now := time.Now()
	return r.db.Model(&model.Delivery{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     model.DeliveryDeleted,
		"deleted_at": now,
	}).Error
}

// MarkFailed moves the record to its terminal failed state, excluding it
// from future sweeps.
func (r *DeliveryRepository) MarkFailed(id int64) error {
	return r.db.Model(&model.Delivery{}).Where("id = ?", id).
		Update("status", model.DeliveryFailed).Error
}

// Count counts deliveries, optionally limited to the last N days.
func (r *DeliveryRepository) Count(days int) (int64, error) {
	query := r.db.Model(&model.Delivery{})
	if days > 0 {
		cutoff := time.Now().AddDate(0, 0, -days)
		query = query.Where("delivered_at >= ?", cutoff)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}
