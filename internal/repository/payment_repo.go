package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/internal/model"
)

var ErrPaymentNotPending = errors.New("payment is not pending")

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(payment *model.PaymentQueue) error {
	return r.db.Create(payment).Error
}

func (r *PaymentRepository) GetByID(id int64) (*model.PaymentQueue, error) {
	var payment model.PaymentQueue
	err := r.db.Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) GetPending() ([]*model.PaymentQueue, error) {
	var payments []*model.PaymentQueue
	err := r.db.Where("status = ?", model.PaymentPending).
		Order("submitted_at ASC").
		Find(&payments).Error
	return payments, err
}

func (r *PaymentRepository) CountPending() (int64, error) {
	var count int64
	err := r.db.Model(&model.PaymentQueue{}).
		Where("status = ?", model.PaymentPending).
		Count(&count).Error
	return count, err
}

// GetUserPending returns the user's pending payment, if any.
func (r *PaymentRepository) GetUserPending(userID int64) (*model.PaymentQueue, error) {
	var payment model.PaymentQueue
	err := r.db.Where("user_id = ? AND status = ?", userID, model.PaymentPending).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// SetStatus applies the terminal pending->approved|rejected transition.
// The update is guarded on the current status so a payment can only be
// processed once.
func (r *PaymentRepository) SetStatus(id int64, status, processedBy string) (*model.PaymentQueue, error) {
	now := time.Now()
	result := r.db.Model(&model.PaymentQueue{}).
		Where("id = ? AND status = ?", id, model.PaymentPending).
		Updates(map[string]interface{}{
			"status":       status,
			"processed_at": now,
			"processed_by": processedBy,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Zero rows means either the payment does not exist or it was
		// already processed. Re-read to keep the two apart.
		if _, err := r.GetByID(id); err != nil {
			return nil, err
		}
		return nil, ErrPaymentNotPending
	}
	return r.GetByID(id)
}

func (r *PaymentRepository) CountApproved(days int) (int64, error) {
	query := r.db.Model(&model.PaymentQueue{}).Where("status = ?", model.PaymentApproved)
	if days > 0 {
		cutoff := time.Now().AddDate(0, 0, -days)
		query = query.Where("processed_at >= ?", cutoff)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// TotalRevenue sums the plan prices of approved payments.
func (r *PaymentRepository) TotalRevenue(days int) (int64, error) {
	query := r.db.Model(&model.PaymentQueue{}).
		Select("COALESCE(SUM(subscription_plans.price), 0)").
		Joins("JOIN subscription_plans ON subscription_plans.plan_id = payment_queue.plan_id").
		Where("payment_queue.status = ?", model.PaymentApproved)
	if days > 0 {
		cutoff := time.Now().AddDate(0, 0, -days)
		query = query.Where("payment_queue.processed_at >= ?", cutoff)
	}

	var total int64
	err := query.Scan(&total).Error
	return total, err
}
