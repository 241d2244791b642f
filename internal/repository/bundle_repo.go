package repository

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/internal/model"
)

type BundleRepository struct {
	db *gorm.DB
}

func NewBundleRepository(db *gorm.DB) *BundleRepository {
	return &BundleRepository{db: db}
}

func (r *BundleRepository) Create(bundle *model.Bundle) error {
	if bundle.Code == "" {
		code, err := r.generateUniqueCode()
		if err != nil {
			return err
		}
		bundle.Code = code
	}
	return r.db.Create(bundle).Error
}

func (r *BundleRepository) AddItem(item *model.BundleItem) error {
	return r.db.Create(item).Error
}

func (r *BundleRepository) GetByCode(code string) (*model.Bundle, error) {
	var bundle model.Bundle
	err := r.db.Where("code = ?", code).First(&bundle).Error
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}

func (r *BundleRepository) GetByID(id int64) (*model.Bundle, error) {
	var bundle model.Bundle
	err := r.db.Where("id = ?", id).First(&bundle).Error
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}

// GetItems returns the bundle's items in recording order.
func (r *BundleRepository) GetItems(bundleID int64) ([]*model.BundleItem, error) {
	var items []*model.BundleItem
	err := r.db.Where("bundle_id = ?", bundleID).Order("id ASC").Find(&items).Error
	return items, err
}

// Search matches code, public number or title.
func (r *BundleRepository) Search(query string) ([]*model.Bundle, error) {
	term := "%" + query + "%"
	var bundles []*model.Bundle
	err := r.db.
		Where("code LIKE ? OR public_number_str LIKE ? OR title LIKE ?", term, term, term).
		Order("created_at DESC").
		Find(&bundles).Error
	return bundles, err
}

func (r *BundleRepository) GetAll(limit int) ([]*model.Bundle, error) {
	var bundles []*model.Bundle
	err := r.db.Order("created_at DESC").Limit(limit).Find(&bundles).Error
	return bundles, err
}

// ToggleStatus flips the active flag and returns the new value.
func (r *BundleRepository) ToggleStatus(id int64) (bool, error) {
	bundle, err := r.GetByID(id)
	if err != nil {
		return false, err
	}
	bundle.IsActive = !bundle.IsActive
	if err := r.db.Save(bundle).Error; err != nil {
		return false, err
	}
	return bundle.IsActive, nil
}

func (r *BundleRepository) SetAccessLevel(id int64, level string) error {
	return r.db.Model(&model.Bundle{}).Where("id = ?", id).
		Update("access_level", level).Error
}

func (r *BundleRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Bundle{}).Count(&count).Error
	return count, err
}

// TopByDownloads returns the most delivered bundle with its delivery count,
// optionally restricted to the last N days. Returns nil when nothing was
// delivered yet.
func (r *BundleRepository) TopByDownloads(days int) (*model.Bundle, int64, error) {
	query := r.db.Model(&model.Delivery{}).
		Select("bundle_id, COUNT(*) AS cnt").
		Group("bundle_id").
		Order("cnt DESC")

	if days > 0 {
		cutoff := time.Now().AddDate(0, 0, -days)
		query = query.Where("delivered_at >= ?", cutoff)
	}

	var row struct {
		BundleID int64
		Cnt      int64
	}
	err := query.Limit(1).Scan(&row).Error
	if err != nil {
		return nil, 0, err
	}
	if row.BundleID == 0 {
		return nil, 0, nil
	}

	bundle, err := r.GetByID(row.BundleID)
	if err != nil {
		return nil, 0, err
	}
	return bundle, row.Cnt, nil
}

func (r *BundleRepository) generateUniqueCode() (string, error) {
	for {
		buf := make([]byte, 16)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		code := base64.RawURLEncoding.EncodeToString(buf)

		var count int64
		if err := r.db.Model(&model.Bundle{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
}
