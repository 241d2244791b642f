package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/internal/model"
	"github.com/qs3c/archive_bot_server/internal/testutil"
)

func createPendingPayment(t *testing.T, repo *PaymentRepository, userID int64, planID string) *model.PaymentQueue {
	t.Helper()

	payment := &model.PaymentQueue{
		UserID:           userID,
		PlanID:           planID,
		ScreenshotFileID: "file_abc",
		Status:           model.PaymentPending,
		SubmittedAt:      time.Now(),
	}
	require.NoError(t, repo.Create(payment))
	return payment
}

func TestPaymentRepository_SetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPaymentRepository(db)
	payment := createPendingPayment(t, repo, 42, "plan_a")

	approved, err := repo.SetStatus(payment.ID, model.PaymentApproved, "admin")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentApproved, approved.Status)
	assert.Equal(t, "admin", approved.ProcessedBy)
	assert.NotNil(t, approved.ProcessedAt)
}

func TestPaymentRepository_SetStatus_SingleShot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPaymentRepository(db)
	payment := createPendingPayment(t, repo, 42, "plan_a")

	_, err := repo.SetStatus(payment.ID, model.PaymentApproved, "admin1")
	require.NoError(t, err)

	// The pending guard rejects the second transition.
	_, err = repo.SetStatus(payment.ID, model.PaymentRejected, "admin2")
	assert.ErrorIs(t, err, ErrPaymentNotPending)

	reloaded, err := repo.GetByID(payment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentApproved, reloaded.Status)
	assert.Equal(t, "admin1", reloaded.ProcessedBy)
}

func TestPaymentRepository_SetStatus_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPaymentRepository(db)

	_, err := repo.SetStatus(9999, model.PaymentApproved, "admin")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPaymentRepository_GetUserPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPaymentRepository(db)
	payment := createPendingPayment(t, repo, 42, "plan_a")

	pending, err := repo.GetUserPending(42)
	require.NoError(t, err)
	assert.Equal(t, payment.ID, pending.ID)

	_, err = repo.SetStatus(payment.ID, model.PaymentRejected, "admin")
	require.NoError(t, err)

	_, err = repo.GetUserPending(42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPaymentRepository_CountApproved(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPaymentRepository(db)
	a := createPendingPayment(t, repo, 42, "plan_a")
	b := createPendingPayment(t, repo, 43, "plan_a")
	createPendingPayment(t, repo, 44, "plan_a")

	_, err := repo.SetStatus(a.ID, model.PaymentApproved, "admin")
	require.NoError(t, err)
	_, err = repo.SetStatus(b.ID, model.PaymentRejected, "admin")
	require.NoError(t, err)

	approved, err := repo.CountApproved(7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), approved)

	pending, err := repo.CountPending()
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)
}
