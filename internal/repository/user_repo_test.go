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

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	created := testutil.TestUser(t, db, testutil.WithTgUserID(42))

	user, err := repo.GetByTgID(42)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, 3, user.ReferralTokens)

	_, err = repo.GetByTgID(999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_AddTokens(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	user := testutil.TestUser(t, db, testutil.WithTokens(3))

	require.NoError(t, repo.AddTokens(user.ID, 1))
	require.NoError(t, repo.AddTokens(user.ID, 2))

	reloaded, err := repo.GetByTgID(user.TgUserID)
	require.NoError(t, err)
	assert.Equal(t, 6, reloaded.ReferralTokens)
}

func TestUserRepository_GetByReferralCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	testutil.TestUser(t, db, testutil.WithReferralCode("ABCD1234"))

	user, err := repo.GetByReferralCode("ABCD1234")
	require.NoError(t, err)
	assert.Equal(t, "ABCD1234", user.ReferralCode)

	exists, err := repo.ExistsByReferralCode("ABCD1234")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByReferralCode("ZZZZ9999")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_CountPaid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	testutil.TestUser(t, db)
	testutil.TestUser(t, db,
		testutil.WithSubscription(model.TierPremium, time.Now().Add(24*time.Hour)))
	testutil.TestUser(t, db,
		testutil.WithSubscription(model.TierPlus, time.Now().Add(-24*time.Hour)))

	count, err := repo.CountPaid(time.Now().Unix())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository_TouchLastSeen(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	user := testutil.TestUser(t, db)

	old := time.Now().AddDate(0, 0, -30)
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", user.ID).
		Update("last_seen", old).Error)

	require.NoError(t, repo.TouchLastSeen(user.ID))

	reloaded, err := repo.GetByTgID(user.TgUserID)
	require.NoError(t, err)
	assert.True(t, reloaded.LastSeen.After(old))

	count, err := repo.CountActive(7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
