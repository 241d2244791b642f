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

func setupBundleService(t *testing.T) (*BundleService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	service := NewBundleService(repository.NewBundleRepository(db), repository.NewSettingsRepository(db))

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}
	return service, db, cleanup
}

func TestBundleService_Create_SequentialNumbers(t *testing.T) {
	service, _, cleanup := setupBundleService(t)
	defer cleanup()

	first, err := service.Create("First", 1, model.AccessFree)
	require.NoError(t, err)
	second, err := service.Create("Second", 1, model.AccessPremium)
	require.NoError(t, err)

	assert.Equal(t, 1, first.PublicNumber)
	assert.Equal(t, "0001", first.PublicNumberStr)
	assert.Equal(t, 2, second.PublicNumber)
	assert.Equal(t, "0002", second.PublicNumberStr)

	assert.True(t, first.IsActive)
	assert.NotEmpty(t, first.Code)
	assert.NotEqual(t, first.Code, second.Code)
}

func TestBundleService_AddItemAndList(t *testing.T) {
	service, db, cleanup := setupBundleService(t)
	defer cleanup()

	bundle, err := service.Create("Archive", 1, model.AccessFree)
	require.NoError(t, err)

	require.NoError(t, service.AddItem(bundle.ID, -100123, 10, "photo"))
	require.NoError(t, service.AddItem(bundle.ID, -100123, 11, "video"))

	var items []model.BundleItem
	require.NoError(t, db.Where("bundle_id = ?", bundle.ID).Order("id").Find(&items).Error)
	require.Len(t, items, 2)
	assert.Equal(t, "photo", items[0].MediaType)
	assert.Equal(t, 11, items[1].MessageID)
}

func TestBundleService_Search(t *testing.T) {
	service, _, cleanup := setupBundleService(t)
	defer cleanup()

	created, err := service.Create("Summer Photos", 1, model.AccessFree)
	require.NoError(t, err)
	_, err = service.Create("Winter Videos", 1, model.AccessFree)
	require.NoError(t, err)

	byTitle, err := service.Search("Summer")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, created.ID, byTitle[0].ID)

	byNumber, err := service.Search("0002")
	require.NoError(t, err)
	require.Len(t, byNumber, 1)
	assert.Equal(t, "Winter Videos", byNumber[0].Title)

	byCode, err := service.Search(created.Code)
	require.NoError(t, err)
	require.Len(t, byCode, 1)
	assert.Equal(t, created.ID, byCode[0].ID)
}

func TestBundleService_ToggleStatus(t *testing.T) {
	service, _, cleanup := setupBundleService(t)
	defer cleanup()

	bundle, err := service.Create("Toggle Me", 1, model.AccessFree)
	require.NoError(t, err)

	active, err := service.ToggleStatus(bundle.ID)
	require.NoError(t, err)
	assert.False(t, active)

	active, err = service.ToggleStatus(bundle.ID)
	require.NoError(t, err)
	assert.True(t, active)
}
