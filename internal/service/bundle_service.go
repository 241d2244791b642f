package service

import (
	"fmt"

	"github.com/qs3c/archive_bot_server/internal/model"
	"github.com/qs3c/archive_bot_server/internal/repository"
)

// BundleService manages admin-curated content bundles.
type BundleService struct {
	bundleRepo   *repository.BundleRepository
	settingsRepo *repository.SettingsRepository
}

func NewBundleService(bundleRepo *repository.BundleRepository, settingsRepo *repository.SettingsRepository) *BundleService {
	return &BundleService{
		bundleRepo:   bundleRepo,
		settingsRepo: settingsRepo,
	}
}

// Create allocates the next public number and stores a new bundle with a
// fresh delivery code.
func (s *BundleService) Create(title string, createdBy int64, accessLevel string) (*model.Bundle, error) {
	number, err := s.settingsRepo.NextPublicNumber()
	if err != nil {
		return nil, err
	}

	bundle := &model.Bundle{
		PublicNumber:    number,
		PublicNumberStr: fmt.Sprintf("%04d", number),
		Title:           title,
		CreatedBy:       createdBy,
		IsActive:        true,
		AccessLevel:     accessLevel,
	}
	if err := s.bundleRepo.Create(bundle); err != nil {
		return nil, err
	}
	return bundle, nil
}

// AddItem appends one source message pointer to the bundle.
func (s *BundleService) AddItem(bundleID, fromChatID int64, messageID int, mediaType string) error {
	return s.bundleRepo.AddItem(&model.BundleItem{
		BundleID:   bundleID,
		FromChatID: fromChatID,
		MessageID:  messageID,
		MediaType:  mediaType,
	})
}

func (s *BundleService) Search(query string) ([]*model.Bundle, error) {
	return s.bundleRepo.Search(query)
}

func (s *BundleService) List(limit int) ([]*model.Bundle, error) {
	return s.bundleRepo.GetAll(limit)
}

func (s *BundleService) ToggleStatus(bundleID int64) (bool, error) {
	return s.bundleRepo.ToggleStatus(bundleID)
}
