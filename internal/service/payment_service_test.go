package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/internal/model"
	"github.com/qs3c/archive_bot_server/internal/repository"
	"github.com/qs3c/archive_bot_server/internal/testutil"
)

func setupPaymentService(t *testing.T) (*PaymentService, *testutil.FakeMessenger, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	messenger := testutil.NewFakeMessenger()
	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	access := NewAccessService(db, userRepo, planRepo, repository.NewHistoryRepository(db))
	service := NewPaymentService(messenger, repository.NewPaymentRepository(db), planRepo, userRepo, access)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}
	return service, messenger, db, cleanup
}

func TestPaymentService_Submit(t *testing.T) {
	service, _, db, cleanup := setupPaymentService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)

	payment, err := service.Submit(user.TgUserID, plan.PlanID, "file_abc")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPending, payment.Status)
	assert.Equal(t, "file_abc", payment.ScreenshotFileID)
}

func TestPaymentService_Submit_UnknownPlan(t *testing.T) {
	service, _, db, cleanup := setupPaymentService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)

	_, err := service.Submit(user.TgUserID, "no_such_plan", "file_abc")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestPaymentService_Submit_OnePendingPerUser(t *testing.T) {
	service, _, db, cleanup := setupPaymentService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)

	_, err := service.Submit(user.TgUserID, plan.PlanID, "file_abc")
	require.NoError(t, err)

	_, err = service.Submit(user.TgUserID, plan.PlanID, "file_def")
	assert.ErrorIs(t, err, ErrPaymentPendingExists)
}

func TestPaymentService_Approve(t *testing.T) {
	service, messenger, db, cleanup := setupPaymentService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db, testutil.WithTier(model.TierPremium), testutil.WithDuration(30))
	payment, err := service.Submit(user.TgUserID, plan.PlanID, "file_abc")
	require.NoError(t, err)

	approved, err := service.Approve(payment.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentApproved, approved.Status)
	assert.NotNil(t, approved.ProcessedAt)
	assert.Equal(t, "admin", approved.ProcessedBy)

	var reloaded model.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, model.SubscriptionPaid, reloaded.SubscriptionType)
	assert.Equal(t, model.TierPremium, reloaded.SubscriptionTier)
	assert.True(t, reloaded.IsSubscriptionActive())

	require.Len(t, messenger.Sent, 1)
	assert.Contains(t, messenger.Sent[0], "approved")
}

func TestPaymentService_Approve_AlreadyProcessed(t *testing.T) {
	service, _, db, cleanup := setupPaymentService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	payment, err := service.Submit(user.TgUserID, plan.PlanID, "file_abc")
	require.NoError(t, err)

	_, err = service.Approve(payment.ID, "admin1")
	require.NoError(t, err)

	// Second admin races on the same payment; the transition is single-shot.
	_, err = service.Reject(payment.ID, "admin2")
	assert.ErrorIs(t, err, repository.ErrPaymentNotPending)
}

func TestPaymentService_Reject(t *testing.T) {
	service, messenger, db, cleanup := setupPaymentService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	payment, err := service.Submit(user.TgUserID, plan.PlanID, "file_abc")
	require.NoError(t, err)

	rejected, err := service.Reject(payment.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentRejected, rejected.Status)

	// No subscription was granted.
	var reloaded model.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, model.SubscriptionFree, reloaded.SubscriptionType)

	require.Len(t, messenger.Sent, 1)
	assert.Contains(t, messenger.Sent[0], "could not be verified")
}

func TestPaymentService_Approve_NotFound(t *testing.T) {
	service, _, _, cleanup := setupPaymentService(t)
	defer cleanup()

	_, err := service.Approve(9999, "admin")
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestPaymentService_PendingCount(t *testing.T) {
	service, _, db, cleanup := setupPaymentService(t)
	defer cleanup()

	userA := testutil.TestUser(t, db)
	userB := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)

	_, err := service.Submit(userA.TgUserID, plan.PlanID, "a")
	require.NoError(t, err)
	_, err = service.Submit(userB.TgUserID, plan.PlanID, "b")
	require.NoError(t, err)

	count, err := service.PendingCount()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	pending, err := service.Pending()
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}
