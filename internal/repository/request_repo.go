package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/internal/model"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(userID int64, text string) error {
	request := &model.Request{
		UserID: userID,
		Text:   text,
		Status: model.RequestOpen,
	}
	return r.db.Create(request).Error
}

func (r *RequestRepository) GetOpen() ([]*model.Request, error) {
	var requests []*model.Request
	err := r.db.Where("status = ?", model.RequestOpen).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *RequestRepository) GetByID(id int64) (*model.Request, error) {
	var request model.Request
	err := r.db.Where("id = ?", id).First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *RequestRepository) Resolve(id int64) error {
	now := time.Now()
	return r.db.Model(&model.Request{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":    model.RequestClosed,
		"closed_at": now,
	}).Error
}
