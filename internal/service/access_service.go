package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/internal/model"
	"github.com/qs3c/archive_bot_server/internal/repository"
)

var (
	ErrPlanNotFound = errors.New("subscription plan not found")
	ErrNoTokens     = errors.New("no referral tokens left")
)

// Denial reasons carried on a Decision.
const (
	ReasonNeedPlus         = "need_plus"
	ReasonNeedSubscription = "need_subscription"
	ReasonUnknown          = "unknown"
)

// User-facing denial and warning texts. The client renders them verbatim.
const (
	WarningPlusOnly       = "This content is available to Plus subscribers only."
	WarningUpgradeToPlus  = "This content is for Plus subscribers. Upgrade your subscription to access it."
	WarningLastToken      = "This is your last free download token. Get a subscription or invite friends to earn more."
	WarningTokensExhausted = "Your free tokens are used up. Get a subscription or invite friends to download this."
)

// Decision is the admission verdict for one user/bundle pair.
type Decision struct {
	Allowed bool
	Method  string // free, subscription, token
	Reason  string // set when denied
	Warning string // optional user-facing notice
	// TokensRemaining is the balance after the pending token spend. Only
	// meaningful when Method is token.
	TokensRemaining int
}

const referralCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// AccessService decides whether a user may download a bundle and applies the
// resulting side effects.
type AccessService struct {
	db          *gorm.DB
	userRepo    *repository.UserRepository
	planRepo    *repository.PlanRepository
	historyRepo *repository.HistoryRepository
}

func NewAccessService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	planRepo *repository.PlanRepository,
	historyRepo *repository.HistoryRepository,
) *AccessService {
	return &AccessService{
		db:          db,
		userRepo:    userRepo,
		planRepo:    planRepo,
		historyRepo: historyRepo,
	}
}

// Evaluate checks whether the user can download the bundle. It has no side
// effects; token deduction happens in ProcessDownload after delivery
// succeeded.
func (s *AccessService) Evaluate(user *model.User, bundle *model.Bundle) Decision {
	accessLevel := bundle.AccessLevel
	if accessLevel == "" {
		accessLevel = model.AccessFree
	}

	if accessLevel == model.AccessFree {
		return Decision{Allowed: true, Method: model.MethodFree}
	}

	subscribed := user.IsSubscriptionActive()

	// Plus content is never unlockable by tokens.
	if accessLevel == model.AccessPlus {
		if subscribed && user.SubscriptionTier == model.TierPlus {
			return Decision{Allowed: true, Method: model.MethodSubscription}
		}
		if subscribed && user.SubscriptionTier == model.TierPremium {
			return Decision{Reason: ReasonNeedPlus, Warning: WarningUpgradeToPlus}
		}
		return Decision{Reason: ReasonNeedPlus, Warning: WarningPlusOnly}
	}

	if accessLevel == model.AccessPremium {
		if subscribed && (user.SubscriptionTier == model.TierPremium || user.SubscriptionTier == model.TierPlus) {
			return Decision{Allowed: true, Method: model.MethodSubscription}
		}

		if user.ReferralTokens > 0 {
			decision := Decision{
				Allowed:         true,
				Method:          model.MethodToken,
				TokensRemaining: user.ReferralTokens - 1,
			}
			if user.ReferralTokens == 1 {
				decision.Warning = WarningLastToken
			}
			return decision
		}

		return Decision{Reason: ReasonNeedSubscription, Warning: WarningTokensExhausted}
	}

	// Unrecognized access level: deny rather than assume.
	return Decision{Reason: ReasonUnknown}
}

// ProcessDownload applies the side effects of a completed download: the token
// deduction (when the token method was used) and the history entry are
// written in one transaction, so a spent token always has a matching log.
func (s *AccessService) ProcessDownload(user *model.User, bundle *model.Bundle, decision Decision) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if decision.Method == model.MethodToken {
			// Guarded decrement: a stale read must not push the balance
			// below zero.
			result := tx.Model(&model.User{}).
				Where("id = ? AND referral_tokens > 0", user.ID).
				Update("referral_tokens", gorm.Expr("referral_tokens - 1"))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrNoTokens
			}
		}

		entry := &model.DownloadHistory{
			UserID:       user.TgUserID,
			BundleID:     bundle.ID,
			DownloadedAt: time.Now(),
			Method:       decision.Method,
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		return tx.Model(&model.User{}).Where("id = ?", user.ID).
			Update("total_downloads", gorm.Expr("total_downloads + 1")).Error
	})
}

// ActivateSubscription applies a plan purchase. An already active
// subscription is extended, never shortened.
func (s *AccessService) ActivateSubscription(user *model.User, planID string) error {
	plan, err := s.planRepo.GetByPlanID(planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanNotFound
		}
		return err
	}

	expiry := time.Now().Unix() + int64(plan.DurationDays)*86400
	if user.IsSubscriptionActive() && user.ExpiryDate != nil {
		expiry = *user.ExpiryDate + int64(plan.DurationDays)*86400
	}

	user.SubscriptionType = model.SubscriptionPaid
	user.SubscriptionTier = plan.Tier
	user.ExpiryDate = &expiry
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	log.Printf("Subscription activated for user %d: %s, expires at %d", user.TgUserID, plan.PlanID, expiry)
	return nil
}

// IsRedownload reports whether the user already downloaded this bundle.
func (s *AccessService) IsRedownload(user *model.User, bundle *model.Bundle) (bool, error) {
	return s.historyRepo.HasDownloaded(user.TgUserID, bundle.ID)
}

// CreditReferrer grants one token to the owner of the referral code.
// Returns nil without error when the code matches no user.
func (s *AccessService) CreditReferrer(code string) (*model.User, error) {
	referrer, err := s.userRepo.GetByReferralCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if err := s.userRepo.AddTokens(referrer.ID, 1); err != nil {
		return nil, err
	}

	referrer, err = s.userRepo.GetByTgID(referrer.TgUserID)
	if err != nil {
		return nil, err
	}
	log.Printf("Referrer %d credited with 1 token, total: %d", referrer.TgUserID, referrer.ReferralTokens)
	return referrer, nil
}

// ApplyReferral credits the owner of the code and links the user to them.
// Self-referral and unknown codes are ignored without error.
func (s *AccessService) ApplyReferral(user *model.User, code string) (*model.User, error) {
	if code == "" || code == user.ReferralCode {
		return nil, nil
	}

	referrer, err := s.CreditReferrer(code)
	if err != nil || referrer == nil {
		return nil, err
	}

	user.ReferredBy = code
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return referrer, nil
}

// GetOrCreateUser loads the user by Telegram id, creating them on first
// contact with a fresh referral code. The second return value reports
// whether the user was just created.
func (s *AccessService) GetOrCreateUser(tgUserID int64) (*model.User, bool, error) {
	user, err := s.userRepo.GetByTgID(tgUserID)
	if err == nil {
		if err := s.userRepo.TouchLastSeen(user.ID); err != nil {
			return nil, false, err
		}
		return user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	code, err := s.generateUniqueReferralCode()
	if err != nil {
		return nil, false, err
	}

	now := time.Now()
	user = &model.User{
		TgUserID:         tgUserID,
		FirstSeen:        now,
		LastSeen:         now,
		SubscriptionType: model.SubscriptionFree,
		ReferralTokens:   3,
		ReferralCode:     code,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *AccessService) generateUniqueReferralCode() (string, error) {
	for {
		code, err := generateReferralCode()
		if err != nil {
			return "", err
		}
		exists, err := s.userRepo.ExistsByReferralCode(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
}

// generateReferralCode produces an 8-character uppercase alphanumeric code.
func generateReferralCode() (string, error) {
	buf := make([]byte, 8)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referralCodeChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate referral code: %w", err)
		}
		buf[i] = referralCodeChars[n.Int64()]
	}
	return string(buf), nil
}
