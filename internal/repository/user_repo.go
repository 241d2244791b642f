package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByTgID(tgUserID int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("tg_user_id = ?", tgUserID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByReferralCode(code string) (*model.User, error) {
	var user model.User
	err := r.db.Where("referral_code = ?", code).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *UserRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *UserRepository) TouchLastSeen(id int64) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Update("last_seen", time.Now()).Error
}

// AddTokens adjusts the referral token balance by delta (may be negative).
func (r *UserRepository) AddTokens(id int64, delta int) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Update("referral_tokens", gorm.Expr("referral_tokens + ?", delta)).Error
}

func (r *UserRepository) IncrementDownloads(id int64) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Update("total_downloads", gorm.Expr("total_downloads + 1")).Error
}

func (r *UserRepository) GetAll() ([]*model.User, error) {
	var users []*model.User
	err := r.db.Find(&users).Error
	return users, err
}

func (r *UserRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Count(&count).Error
	return count, err
}

// CountActive counts users seen within the last N days.
func (r *UserRepository) CountActive(days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	var count int64
	err := r.db.Model(&model.User{}).Where("last_seen >= ?", cutoff).Count(&count).Error
	return count, err
}

func (r *UserRepository) ExistsByReferralCode(code string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("referral_code = ?", code).Count(&count).Error
	return count > 0, err
}

// CountPaid counts users whose paid subscription has not expired.
func (r *UserRepository) CountPaid(now int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).
		Where("subscription_type = ? AND expiry_date > ?", model.SubscriptionPaid, now).
		Count(&count).Error
	return count, err
}
