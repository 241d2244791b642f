package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/internal/model"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(plan *model.SubscriptionPlan) error {
	return r.db.Create(plan).Error
}

func (r *PlanRepository) GetAllActive() ([]*model.SubscriptionPlan, error) {
	var plans []*model.SubscriptionPlan
	err := r.db.Where("is_active = ?", true).
		Order("display_order ASC").
		Find(&plans).Error
	return plans, err
}

func (r *PlanRepository) GetAll() ([]*model.SubscriptionPlan, error) {
	var plans []*model.SubscriptionPlan
	err := r.db.Order("display_order ASC").Find(&plans).Error
	return plans, err
}

func (r *PlanRepository) GetByPlanID(planID string) (*model.SubscriptionPlan, error) {
	var plan model.SubscriptionPlan
	err := r.db.Where("plan_id = ?", planID).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) GetByPK(id int64) (*model.SubscriptionPlan, error) {
	var plan model.SubscriptionPlan
	err := r.db.Where("id = ?", id).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.SubscriptionPlan{}).Where("id = ?", id).Updates(fields).Error
}

// ToggleStatus flips the active flag and returns the new value.
func (r *PlanRepository) ToggleStatus(id int64) (bool, error) {
	plan, err := r.GetByPK(id)
	if err != nil {
		return false, err
	}
	plan.IsActive = !plan.IsActive
	if err := r.db.Save(plan).Error; err != nil {
		return false, err
	}
	return plan.IsActive, nil
}

func (r *PlanRepository) NextDisplayOrder() (int, error) {
	var plan model.SubscriptionPlan
	err := r.db.Order("display_order DESC").First(&plan).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 1, nil
		}
		return 0, err
	}
	return plan.DisplayOrder + 1, nil
}
