package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/internal/model"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Log(userID, bundleID int64, method string) error {
	entry := &model.DownloadHistory{
		UserID:       userID,
		BundleID:     bundleID,
		DownloadedAt: time.Now(),
		Method:       method,
	}
	return r.db.Create(entry).Error
}

// HasDownloaded reports whether the user already downloaded this bundle.
func (r *HistoryRepository) HasDownloaded(userID, bundleID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.DownloadHistory{}).
		Where("user_id = ? AND bundle_id = ?", userID, bundleID).
		Count(&count).Error
	return count > 0, err
}

func (r *HistoryRepository) GetByUser(userID int64, limit int) ([]*model.DownloadHistory, error) {
	var entries []*model.DownloadHistory
	err := r.db.Where("user_id = ?", userID).
		Order("downloaded_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *HistoryRepository) Count(days int) (int64, error) {
	query := r.db.Model(&model.DownloadHistory{})
	if days > 0 {
		cutoff := time.Now().AddDate(0, 0, -days)
		query = query.Where("downloaded_at >= ?", cutoff)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// CountByMethod groups downloads by method, optionally limited to the last
// N days.
func (r *HistoryRepository) CountByMethod(days int) (map[string]int64, error) {
	query := r.db.Model(&model.DownloadHistory{}).
		Select("method, COUNT(*) AS cnt").
		Group("method")
	if days > 0 {
		cutoff := time.Now().AddDate(0, 0, -days)
		query = query.Where("downloaded_at >= ?", cutoff)
	}

	var rows []struct {
		Method string
		Cnt    int64
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Method] = row.Cnt
	}
	return result, nil
}
