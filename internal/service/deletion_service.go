package service

import (
	"log"
	"time"

	"github.com/qs3c/archive_bot_server/internal/model"
	"github.com/qs3c/archive_bot_server/internal/repository"
	"github.com/qs3c/archive_bot_server/internal/telegram"
)

// DeletionService sweeps delivery records past their deadline and removes
// the copied messages.
type DeletionService struct {
	messenger       telegram.Messenger
	deliveryRepo    *repository.DeliveryRepository
	bundleRepo      *repository.BundleRepository
	deliveryService *DeliveryService
}

func NewDeletionService(
	messenger telegram.Messenger,
	deliveryRepo *repository.DeliveryRepository,
	bundleRepo *repository.BundleRepository,
	deliveryService *DeliveryService,
) *DeletionService {
	return &DeletionService{
		messenger:       messenger,
		deliveryRepo:    deliveryRepo,
		bundleRepo:      bundleRepo,
		deliveryService: deliveryService,
	}
}

// ProcessPendingDeletions handles every delivery record whose deadline has
// passed. Each record reaches a terminal state in this pass: deleted when
// the pointers were processed (even if some deletions failed), failed on an
// unexpected error. Terminal records are never picked up again, so the
// sweep is at-most-once per record.
func (s *DeletionService) ProcessPendingDeletions() error {
	due, err := s.deliveryRepo.GetDue(time.Now())
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	log.Printf("Processing %d pending deletions", len(due))

	for _, delivery := range due {
		s.sweepOne(delivery)
	}
	return nil
}

func (s *DeletionService) sweepOne(delivery *model.Delivery) {
	deleted, failed := 0, 0
	for _, msg := range delivery.Messages {
		err := s.messenger.DeleteMessage(msg.ChatID, msg.MessageID)
		if err == nil {
			deleted++
			continue
		}
		if telegram.IsSkippable(err) {
			log.Printf("Failed to delete message %d in chat %d: %v", msg.MessageID, msg.ChatID, err)
			failed++
			continue
		}
		// Unexpected failure: the record leaves the sweep through the
		// failed terminal state instead of being retried forever.
		log.Printf("Unexpected error deleting message %d in chat %d: %v", msg.MessageID, msg.ChatID, err)
		if err := s.deliveryRepo.MarkFailed(delivery.ID); err != nil {
			log.Printf("Failed to mark delivery %d failed: %v", delivery.ID, err)
		}
		return
	}

	// Terminal regardless of partial failures, so the record is never
	// retried indefinitely.
	if err := s.deliveryRepo.MarkDeleted(delivery.ID); err != nil {
		log.Printf("Failed to mark delivery %d deleted: %v", delivery.ID, err)
		if err := s.deliveryRepo.MarkFailed(delivery.ID); err != nil {
			log.Printf("Failed to mark delivery %d failed: %v", delivery.ID, err)
		}
		return
	}

	log.Printf("Delivery %d: deleted %d, failed %d messages", delivery.ID, deleted, failed)

	// The follow-up is best effort and does not affect the record's state.
	bundle, err := s.bundleRepo.GetByID(delivery.BundleID)
	if err != nil {
		log.Printf("Failed to load bundle %d for ending message: %v", delivery.BundleID, err)
		return
	}
	if err := s.deliveryService.SendEndingMessage(delivery.UserID, bundle.Code); err != nil {
		log.Printf("Failed to send ending message for delivery %d: %v", delivery.ID, err)
	}
}
