package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/internal/model"
	"github.com/qs3c/archive_bot_server/internal/repository"
)

var ErrPlanIDTaken = errors.New("plan id already in use")

// PlanService manages the subscription plan catalogue.
type PlanService struct {
	planRepo *repository.PlanRepository
}

func NewPlanService(planRepo *repository.PlanRepository) *PlanService {
	return &PlanService{planRepo: planRepo}
}

// Create stores a new plan at the end of the display order.
func (s *PlanService) Create(planID, planName string, durationDays int, tier string, price int) (*model.SubscriptionPlan, error) {
	if _, err := s.planRepo.GetByPlanID(planID); err == nil {
		return nil, ErrPlanIDTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	order, err := s.planRepo.NextDisplayOrder()
	if err != nil {
		return nil, err
	}

	plan := &model.SubscriptionPlan{
		PlanID:       planID,
		PlanName:     planName,
		DurationDays: durationDays,
		Tier:         tier,
		Price:        price,
		IsActive:     true,
		DisplayOrder: order,
	}
	if err := s.planRepo.Create(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Active returns the plans offered to users, in display order.
func (s *PlanService) Active() ([]*model.SubscriptionPlan, error) {
	return s.planRepo.GetAllActive()
}

// All returns every plan including disabled ones, for the panel.
func (s *PlanService) All() ([]*model.SubscriptionPlan, error) {
	return s.planRepo.GetAll()
}

func (s *PlanService) ToggleStatus(id int64) (bool, error) {
	return s.planRepo.ToggleStatus(id)
}

func (s *PlanService) Update(id int64, fields map[string]interface{}) error {
	return s.planRepo.UpdateFields(id, fields)
}
