package service

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/config"
	"github.com/qs3c/archive_bot_server/internal/model"
	"github.com/qs3c/archive_bot_server/internal/repository"
	"github.com/qs3c/archive_bot_server/internal/telegram"
)

// DeliveryService copies bundle items to users and records the copies for
// later auto-deletion.
type DeliveryService struct {
	messenger    telegram.Messenger
	bundleRepo   *repository.BundleRepository
	deliveryRepo *repository.DeliveryRepository
	messageRepo  *repository.MessageRepository
	cfg          *config.Config
}

func NewDeliveryService(
	messenger telegram.Messenger,
	bundleRepo *repository.BundleRepository,
	deliveryRepo *repository.DeliveryRepository,
	messageRepo *repository.MessageRepository,
	cfg *config.Config,
) *DeliveryService {
	return &DeliveryService{
		messenger:    messenger,
		bundleRepo:   bundleRepo,
		deliveryRepo: deliveryRepo,
		messageRepo:  messageRepo,
		cfg:          cfg,
	}
}

// Deliver copies every item of the bundle to the user and persists a
// delivery record carrying the deletion deadline. Individual copy failures
// are skipped; the delivery fails only when no item could be copied.
//
// The record is written after the copies, not atomically with them: a crash
// in between leaves copies without a deletion record. Accepted gap.
func (s *DeliveryService) Deliver(bundleCode string, userID int64) (bool, error) {
	bundle, err := s.bundleRepo.GetByCode(bundleCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if !bundle.IsActive {
		return false, nil
	}

	items, err := s.bundleRepo.GetItems(bundle.ID)
	if err != nil {
		return false, err
	}
	if len(items) == 0 {
		return false, nil
	}

	var delivered []model.DeliveredMessage
	for _, item := range items {
		messageID, err := s.messenger.CopyMessage(userID, item.FromChatID, item.MessageID)
		if err != nil {
			if telegram.IsSkippable(err) {
				log.Printf("Failed to deliver item %d to user %d: %v", item.ID, userID, err)
				continue
			}
			return false, err
		}
		delivered = append(delivered, model.DeliveredMessage{
			ChatID:    userID,
			MessageID: messageID,
		})
	}

	if len(delivered) == 0 {
		return false, nil
	}

	now := time.Now()
	record := &model.Delivery{
		BundleID:    bundle.ID,
		UserID:      userID,
		DeliveredAt: now,
		Messages:    delivered,
		DeleteAt:    now.Add(time.Duration(s.cfg.Bot.AutoDeleteDelay) * time.Second),
		Status:      model.DeliveryDelivered,
	}
	if err := s.deliveryRepo.Create(record); err != nil {
		return false, err
	}

	log.Printf("Bundle %s delivered to user %d (%d/%d items), deletion at %s",
		bundleCode, userID, len(delivered), len(items), record.DeleteAt.Format(time.RFC3339))
	return true, nil
}

// SendEndingMessage copies one random ending message not yet shown to the
// user today, records the rotation, and appends a re-download deep link.
func (s *DeliveryService) SendEndingMessage(userID int64, bundleCode string) error {
	available, err := s.messageRepo.GetAvailableEndings(userID, time.Now())
	if err != nil {
		return err
	}
	if len(available) == 0 {
		log.Printf("No available ending messages for user %d", userID)
		return nil
	}

	selected := available[rand.Intn(len(available))]

	if _, err := s.messenger.CopyMessage(userID, selected.FromChatID, selected.MessageID); err != nil {
		return fmt.Errorf("failed to copy ending message %d: %w", selected.ID, err)
	}

	deepLink := fmt.Sprintf("https://t.me/%s?start=%s", s.messenger.Username(), bundleCode)
	reminder := fmt.Sprintf("Click to [download again](%s).", deepLink)
	if err := s.messenger.SendMarkdown(userID, reminder); err != nil {
		log.Printf("Failed to send re-download reminder to user %d: %v", userID, err)
	}

	return s.messageRepo.RecordEndingShown(userID, selected.ID, time.Now())
}
