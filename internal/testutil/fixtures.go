package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/internal/model"
)

// TestUser creates a test Telegram user.
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	now := time.Now()
	user := &model.User{
		TgUserID:         now.UnixNano() % 1_000_000_000,
		FirstSeen:        now,
		LastSeen:         now,
		SubscriptionType: model.SubscriptionFree,
		ReferralTokens:   3,
		ReferralCode:     fmt.Sprintf("RC%06d", now.UnixNano()%1_000_000),
	}

	for _, opt := range opts {
		opt(user)
	}

	// Capture the requested balance before Create: gorm both skips
	// zero-valued fields that carry a column default on insert and writes
	// the default back into the struct, so check the intent, not the field.
	wantTokens := user.ReferralTokens

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	if wantTokens == 0 {
		if err := db.Model(user).Update("referral_tokens", 0).Error; err != nil {
			t.Fatalf("Failed to zero test user tokens: %v", err)
		}
		user.ReferralTokens = 0
	}

	return user
}

// WithTgUserID sets the Telegram user ID.
func WithTgUserID(id int64) func(*model.User) {
	return func(u *model.User) {
		u.TgUserID = id
	}
}

// WithTokens sets the referral token balance.
func WithTokens(tokens int) func(*model.User) {
	return func(u *model.User) {
		u.ReferralTokens = tokens
	}
}

// WithSubscription sets a paid subscription tier with an expiry time.
func WithSubscription(tier string, expiry time.Time) func(*model.User) {
	return func(u *model.User) {
		unix := expiry.Unix()
		u.SubscriptionType = model.SubscriptionPaid
		u.SubscriptionTier = tier
		u.ExpiryDate = &unix
	}
}

// WithReferralCode sets the referral code.
func WithReferralCode(code string) func(*model.User) {
	return func(u *model.User) {
		u.ReferralCode = code
	}
}

// TestBundle creates a test bundle with no items.
func TestBundle(t *testing.T, db *gorm.DB, opts ...func(*model.Bundle)) *model.Bundle {
	t.Helper()

	nano := time.Now().UnixNano()
	bundle := &model.Bundle{
		PublicNumber:    int(nano % 10000),
		PublicNumberStr: fmt.Sprintf("%04d", nano%10000),
		Code:            fmt.Sprintf("code%d", nano),
		Title:           fmt.Sprintf("Test Bundle %d", nano%10000),
		IsActive:        true,
		AccessLevel:     model.AccessFree,
	}

	for _, opt := range opts {
		opt(bundle)
	}

	// Same zero-value skip and default write-back as the user tokens: a
	// disabled bundle needs the flag captured before and written after the
	// insert.
	wantActive := bundle.IsActive

	if err := db.Create(bundle).Error; err != nil {
		t.Fatalf("Failed to create test bundle: %v", err)
	}

	if !wantActive {
		if err := db.Model(bundle).Update("is_active", false).Error; err != nil {
			t.Fatalf("Failed to deactivate test bundle: %v", err)
		}
		bundle.IsActive = false
	}

	return bundle
}

// WithAccessLevel sets the bundle access level.
func WithAccessLevel(level string) func(*model.Bundle) {
	return func(b *model.Bundle) {
		b.AccessLevel = level
	}
}

// WithCode sets the bundle code.
func WithCode(code string) func(*model.Bundle) {
	return func(b *model.Bundle) {
		b.Code = code
	}
}

// WithInactive marks the bundle as disabled.
func WithInactive() func(*model.Bundle) {
	return func(b *model.Bundle) {
		b.IsActive = false
	}
}

// TestBundleItem appends an item to a bundle.
func TestBundleItem(t *testing.T, db *gorm.DB, bundleID int64, messageID int) *model.BundleItem {
	t.Helper()

	item := &model.BundleItem{
		BundleID:   bundleID,
		FromChatID: -100123456,
		MessageID:  messageID,
		MediaType:  "photo",
	}

	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to create test bundle item: %v", err)
	}

	return item
}

// TestDelivery creates a delivered record due for deletion at deleteAt.
func TestDelivery(t *testing.T, db *gorm.DB, bundleID, userID int64, deleteAt time.Time, opts ...func(*model.Delivery)) *model.Delivery {
	t.Helper()

	delivery := &model.Delivery{
		BundleID:    bundleID,
		UserID:      userID,
		DeliveredAt: time.Now(),
		Messages: []model.DeliveredMessage{
			{ChatID: userID, MessageID: 100},
			{ChatID: userID, MessageID: 101},
		},
		DeleteAt: deleteAt,
		Status:   model.DeliveryDelivered,
	}

	for _, opt := range opts {
		opt(delivery)
	}

	if err := db.Create(delivery).Error; err != nil {
		t.Fatalf("Failed to create test delivery: %v", err)
	}

	return delivery
}

// WithMessages replaces the delivered message pointers.
func WithMessages(msgs []model.DeliveredMessage) func(*model.Delivery) {
	return func(d *model.Delivery) {
		d.Messages = msgs
	}
}

// TestPlan creates an active subscription plan.
func TestPlan(t *testing.T, db *gorm.DB, opts ...func(*model.SubscriptionPlan)) *model.SubscriptionPlan {
	t.Helper()

	nano := time.Now().UnixNano()
	plan := &model.SubscriptionPlan{
		PlanID:       fmt.Sprintf("plan_%d", nano),
		PlanName:     fmt.Sprintf("Test Plan %d", nano%10000),
		DurationDays: 30,
		Tier:         model.TierPremium,
		Price:        100,
		IsActive:     true,
		DisplayOrder: 1,
	}

	for _, opt := range opts {
		opt(plan)
	}

	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("Failed to create test plan: %v", err)
	}

	return plan
}

// WithTier sets the plan tier.
func WithTier(tier string) func(*model.SubscriptionPlan) {
	return func(p *model.SubscriptionPlan) {
		p.Tier = tier
	}
}

// WithDuration sets the plan duration in days.
func WithDuration(days int) func(*model.SubscriptionPlan) {
	return func(p *model.SubscriptionPlan) {
		p.DurationDays = days
	}
}

// TestChannel creates a mandatory channel.
func TestChannel(t *testing.T, db *gorm.DB, chatID int64) *model.MandatoryChannel {
	t.Helper()

	channel := &model.MandatoryChannel{
		ChatID:   chatID,
		Title:    fmt.Sprintf("Test Channel %d", chatID),
		Username: fmt.Sprintf("testchan%d", time.Now().UnixNano()%10000),
	}

	if err := db.Create(channel).Error; err != nil {
		t.Fatalf("Failed to create test channel: %v", err)
	}

	return channel
}

// TestEnding creates an ending message.
func TestEnding(t *testing.T, db *gorm.DB, name string) *model.EndingMessage {
	t.Helper()

	ending := &model.EndingMessage{
		Name:       name,
		FromChatID: -100123456,
		MessageID:  int(time.Now().UnixNano() % 100000),
	}

	if err := db.Create(ending).Error; err != nil {
		t.Fatalf("Failed to create test ending message: %v", err)
	}

	return ending
}
