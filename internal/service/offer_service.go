package service

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/internal/model"
	"github.com/qs3c/archive_bot_server/internal/repository"
)

var ErrBundleNotFound = errors.New("bundle not found")

// OfferService runs time-limited promotions that temporarily override a
// bundle's access level, guaranteeing restoration of the original level.
type OfferService struct {
	offerRepo  *repository.OfferRepository
	bundleRepo *repository.BundleRepository
}

func NewOfferService(offerRepo *repository.OfferRepository, bundleRepo *repository.BundleRepository) *OfferService {
	return &OfferService{
		offerRepo:  offerRepo,
		bundleRepo: bundleRepo,
	}
}

// Start backs up the bundle's current level and applies the temporary one
// until endTime.
func (s *OfferService) Start(bundleID int64, offerName, temporaryLevel string, endTime time.Time) (*model.OfferBackup, error) {
	bundle, err := s.bundleRepo.GetByID(bundleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBundleNotFound
		}
		return nil, err
	}

	backup := &model.OfferBackup{
		OfferName:      offerName,
		BundleID:       bundleID,
		OriginalLevel:  bundle.AccessLevel,
		TemporaryLevel: temporaryLevel,
		StartTime:      time.Now(),
		EndTime:        endTime,
		IsActive:       true,
	}
	if err := s.offerRepo.Create(backup); err != nil {
		return nil, err
	}

	if err := s.bundleRepo.SetAccessLevel(bundleID, temporaryLevel); err != nil {
		return nil, err
	}

	log.Printf("Offer %q started: bundle %d %s -> %s until %s",
		offerName, bundleID, backup.OriginalLevel, temporaryLevel, endTime.Format(time.RFC3339))
	return backup, nil
}

// Stop ends one offer immediately, restoring the backed-up level.
func (s *OfferService) Stop(offerID int64) error {
	backup, err := s.offerRepo.GetByID(offerID)
	if err != nil {
		return err
	}
	return s.restore(backup)
}

// RestoreExpired restores every offer whose window has closed. Called
// periodically from cron.
func (s *OfferService) RestoreExpired() error {
	expired, err := s.offerRepo.GetExpired(time.Now())
	if err != nil {
		return err
	}

	for _, backup := range expired {
		if err := s.restore(backup); err != nil {
			log.Printf("Failed to restore offer %d: %v", backup.ID, err)
		}
	}
	return nil
}

func (s *OfferService) Active() ([]*model.OfferBackup, error) {
	return s.offerRepo.GetActive()
}

// restore writes the backed-up level, even if the bundle level changed
// during the window: the backup wins.
func (s *OfferService) restore(backup *model.OfferBackup) error {
	if err := s.bundleRepo.SetAccessLevel(backup.BundleID, backup.OriginalLevel); err != nil {
		return err
	}
	if err := s.offerRepo.Deactivate(backup.ID); err != nil {
		return err
	}
	log.Printf("Offer %q ended: bundle %d restored to %s", backup.OfferName, backup.BundleID, backup.OriginalLevel)
	return nil
}
