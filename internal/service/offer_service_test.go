package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/internal/model"
	"github.com/qs3c/archive_bot_server/internal/repository"
	"github.com/qs3c/archive_bot_server/internal/testutil"
)

func setupOfferService(t *testing.T) (*OfferService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	service := NewOfferService(repository.NewOfferRepository(db), repository.NewBundleRepository(db))

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}
	return service, db, cleanup
}

func TestOfferService_Start(t *testing.T) {
	service, db, cleanup := setupOfferService(t)
	defer cleanup()

	bundle := testutil.TestBundle(t, db, testutil.WithAccessLevel(model.AccessPremium))

	backup, err := service.Start(bundle.ID, "weekend", model.AccessFree, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.AccessPremium, backup.OriginalLevel)
	assert.Equal(t, model.AccessFree, backup.TemporaryLevel)
	assert.True(t, backup.IsActive)

	var reloaded model.Bundle
	require.NoError(t, db.First(&reloaded, bundle.ID).Error)
	assert.Equal(t, model.AccessFree, reloaded.AccessLevel)
}

func TestOfferService_Start_BundleNotFound(t *testing.T) {
	service, _, cleanup := setupOfferService(t)
	defer cleanup()

	_, err := service.Start(9999, "weekend", model.AccessFree, time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, ErrBundleNotFound)
}

func TestOfferService_Stop_RestoresOriginal(t *testing.T) {
	service, db, cleanup := setupOfferService(t)
	defer cleanup()

	bundle := testutil.TestBundle(t, db, testutil.WithAccessLevel(model.AccessPlus))
	backup, err := service.Start(bundle.ID, "flash", model.AccessFree, time.Now().Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, service.Stop(backup.ID))

	var reloaded model.Bundle
	require.NoError(t, db.First(&reloaded, bundle.ID).Error)
	assert.Equal(t, model.AccessPlus, reloaded.AccessLevel)

	var offer model.OfferBackup
	require.NoError(t, db.First(&offer, backup.ID).Error)
	assert.False(t, offer.IsActive)
}

func TestOfferService_RestoreExpired(t *testing.T) {
	service, db, cleanup := setupOfferService(t)
	defer cleanup()

	expired := testutil.TestBundle(t, db, testutil.WithAccessLevel(model.AccessPremium))
	running := testutil.TestBundle(t, db, testutil.WithAccessLevel(model.AccessPremium))

	_, err := service.Start(expired.ID, "over", model.AccessFree, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	_, err = service.Start(running.ID, "ongoing", model.AccessFree, time.Now().Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, service.RestoreExpired())

	var a, b model.Bundle
	require.NoError(t, db.First(&a, expired.ID).Error)
	require.NoError(t, db.First(&b, running.ID).Error)
	assert.Equal(t, model.AccessPremium, a.AccessLevel)
	assert.Equal(t, model.AccessFree, b.AccessLevel)
}

func TestOfferService_RestoreOverridesManualChange(t *testing.T) {
	service, db, cleanup := setupOfferService(t)
	defer cleanup()

	bundle := testutil.TestBundle(t, db, testutil.WithAccessLevel(model.AccessPremium))
	backup, err := service.Start(bundle.ID, "flash", model.AccessFree, time.Now().Add(time.Hour))
	require.NoError(t, err)

	// An admin edits the level mid-offer; the backup still wins on restore.
	require.NoError(t, db.Model(&model.Bundle{}).Where("id = ?", bundle.ID).
		Update("access_level", model.AccessPlus).Error)

	require.NoError(t, service.Stop(backup.ID))

	var reloaded model.Bundle
	require.NoError(t, db.First(&reloaded, bundle.ID).Error)
	assert.Equal(t, model.AccessPremium, reloaded.AccessLevel)
}
