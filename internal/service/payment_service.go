package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/internal/model"
	"github.com/qs3c/archive_bot_server/internal/repository"
	"github.com/qs3c/archive_bot_server/internal/telegram"
)

var (
	ErrPaymentPendingExists = errors.New("user already has a pending payment")
	ErrPaymentNotFound      = errors.New("payment not found")
)

// PaymentService manages the manual payment review queue.
type PaymentService struct {
	messenger   telegram.Messenger
	paymentRepo *repository.PaymentRepository
	planRepo    *repository.PlanRepository
	userRepo    *repository.UserRepository
	access      *AccessService
}

func NewPaymentService(
	messenger telegram.Messenger,
	paymentRepo *repository.PaymentRepository,
	planRepo *repository.PlanRepository,
	userRepo *repository.UserRepository,
	access *AccessService,
) *PaymentService {
	return &PaymentService{
		messenger:   messenger,
		paymentRepo: paymentRepo,
		planRepo:    planRepo,
		userRepo:    userRepo,
		access:      access,
	}
}

// Submit queues a payment proof for admin review. A user may only have one
// pending payment at a time.
func (s *PaymentService) Submit(userID int64, planID, screenshotFileID string) (*model.PaymentQueue, error) {
	if _, err := s.planRepo.GetByPlanID(planID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	if _, err := s.paymentRepo.GetUserPending(userID); err == nil {
		return nil, ErrPaymentPendingExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	payment := &model.PaymentQueue{
		UserID:           userID,
		PlanID:           planID,
		ScreenshotFileID: screenshotFileID,
		Status:           model.PaymentPending,
		SubmittedAt:      time.Now(),
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}

	log.Printf("Payment %d submitted by user %d for plan %s", payment.ID, userID, planID)
	return payment, nil
}

// Approve applies the terminal pending->approved transition and activates
// the plan on the payer's ledger.
func (s *PaymentService) Approve(paymentID int64, adminName string) (*model.PaymentQueue, error) {
	payment, err := s.paymentRepo.SetStatus(paymentID, model.PaymentApproved, adminName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	user, err := s.userRepo.GetByTgID(payment.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payer %d: %w", payment.UserID, err)
	}
	if err := s.access.ActivateSubscription(user, payment.PlanID); err != nil {
		return nil, err
	}

	if err := s.messenger.SendMessage(payment.UserID,
		"Your payment was approved. Your subscription is now active."); err != nil {
		log.Printf("Failed to notify user %d of approval: %v", payment.UserID, err)
	}

	log.Printf("Payment %d approved by %s", paymentID, adminName)
	return payment, nil
}

// Reject applies the terminal pending->rejected transition.
func (s *PaymentService) Reject(paymentID int64, adminName string) (*model.PaymentQueue, error) {
	payment, err := s.paymentRepo.SetStatus(paymentID, model.PaymentRejected, adminName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if err := s.messenger.SendMessage(payment.UserID,
		"Your payment could not be verified. Contact support if you believe this is a mistake."); err != nil {
		log.Printf("Failed to notify user %d of rejection: %v", payment.UserID, err)
	}

	log.Printf("Payment %d rejected by %s", paymentID, adminName)
	return payment, nil
}

func (s *PaymentService) Pending() ([]*model.PaymentQueue, error) {
	return s.paymentRepo.GetPending()
}

func (s *PaymentService) PendingCount() (int64, error) {
	return s.paymentRepo.CountPending()
}
