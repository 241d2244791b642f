package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/config"
	"github.com/qs3c/archive_bot_server/internal/model"
	"github.com/qs3c/archive_bot_server/internal/repository"
	"github.com/qs3c/archive_bot_server/internal/telegram"
	"github.com/qs3c/archive_bot_server/internal/testutil"
)

func setupDeliveryService(t *testing.T) (*DeliveryService, *testutil.FakeMessenger, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	messenger := testutil.NewFakeMessenger()
	cfg := &config.Config{
		Bot: config.BotConfig{AutoDeleteDelay: 180},
	}
	service := NewDeliveryService(
		messenger,
		repository.NewBundleRepository(db),
		repository.NewDeliveryRepository(db),
		repository.NewMessageRepository(db),
		cfg,
	)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}
	return service, messenger, db, cleanup
}

func TestDeliveryService_Deliver(t *testing.T) {
	service, messenger, db, cleanup := setupDeliveryService(t)
	defer cleanup()

	bundle := testutil.TestBundle(t, db, testutil.WithCode("abc123"))
	testutil.TestBundleItem(t, db, bundle.ID, 10)
	testutil.TestBundleItem(t, db, bundle.ID, 11)
	testutil.TestBundleItem(t, db, bundle.ID, 12)

	before := time.Now()
	ok, err := service.Deliver("abc123", 42)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, messenger.Copies, 3)

	var record model.Delivery
	require.NoError(t, db.First(&record).Error)
	assert.Equal(t, bundle.ID, record.BundleID)
	assert.Equal(t, int64(42), record.UserID)
	assert.Equal(t, model.DeliveryDelivered, record.Status)
	assert.Len(t, record.Messages, 3)
	assert.WithinDuration(t, before.Add(180*time.Second), record.DeleteAt, 5*time.Second)
}

func TestDeliveryService_Deliver_UnknownCode(t *testing.T) {
	service, messenger, _, cleanup := setupDeliveryService(t)
	defer cleanup()

	ok, err := service.Deliver("missing", 42)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, messenger.Copies)
}

func TestDeliveryService_Deliver_InactiveBundle(t *testing.T) {
	service, messenger, db, cleanup := setupDeliveryService(t)
	defer cleanup()

	bundle := testutil.TestBundle(t, db, testutil.WithCode("off"), testutil.WithInactive())
	testutil.TestBundleItem(t, db, bundle.ID, 10)

	ok, err := service.Deliver("off", 42)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, messenger.Copies)
}

func TestDeliveryService_Deliver_EmptyBundle(t *testing.T) {
	service, _, db, cleanup := setupDeliveryService(t)
	defer cleanup()

	testutil.TestBundle(t, db, testutil.WithCode("empty"))

	ok, err := service.Deliver("empty", 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeliveryService_Deliver_SkipsFailedItems(t *testing.T) {
	service, messenger, db, cleanup := setupDeliveryService(t)
	defer cleanup()

	bundle := testutil.TestBundle(t, db, testutil.WithCode("abc123"))
	testutil.TestBundleItem(t, db, bundle.ID, 10)
	testutil.TestBundleItem(t, db, bundle.ID, 11)
	testutil.TestBundleItem(t, db, bundle.ID, 12)

	messenger.CopyErrs[11] = telegram.ErrBadRequest

	ok, err := service.Deliver("abc123", 42)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, messenger.Copies, 2)

	var record model.Delivery
	require.NoError(t, db.First(&record).Error)
	assert.Len(t, record.Messages, 2)
}

func TestDeliveryService_Deliver_AllItemsFail(t *testing.T) {
	service, messenger, db, cleanup := setupDeliveryService(t)
	defer cleanup()

	bundle := testutil.TestBundle(t, db, testutil.WithCode("abc123"))
	testutil.TestBundleItem(t, db, bundle.ID, 10)

	messenger.CopyErrs[10] = telegram.ErrForbidden

	ok, err := service.Deliver("abc123", 42)
	require.NoError(t, err)
	assert.False(t, ok)

	// No record without at least one delivered message.
	var count int64
	require.NoError(t, db.Model(&model.Delivery{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDeliveryService_SendEndingMessage(t *testing.T) {
	service, messenger, db, cleanup := setupDeliveryService(t)
	defer cleanup()

	ending := testutil.TestEnding(t, db, "thanks")

	err := service.SendEndingMessage(42, "abc123")
	require.NoError(t, err)

	require.Len(t, messenger.Copies, 1)
	assert.Equal(t, ending.MessageID, messenger.Copies[0].MessageID)

	require.Len(t, messenger.Sent, 1)
	assert.Contains(t, messenger.Sent[0], "https://t.me/test_bot?start=abc123")

	var rotations int64
	require.NoError(t, db.Model(&model.EndingRotation{}).Count(&rotations).Error)
	assert.Equal(t, int64(1), rotations)
}

func TestDeliveryService_SendEndingMessage_RotationSkipsShown(t *testing.T) {
	service, messenger, db, cleanup := setupDeliveryService(t)
	defer cleanup()

	first := testutil.TestEnding(t, db, "first")
	second := testutil.TestEnding(t, db, "second")

	require.NoError(t, service.SendEndingMessage(42, "abc123"))
	require.NoError(t, service.SendEndingMessage(42, "abc123"))

	require.Len(t, messenger.Copies, 2)
	ids := []int{messenger.Copies[0].MessageID, messenger.Copies[1].MessageID}
	assert.ElementsMatch(t, []int{first.MessageID, second.MessageID}, ids)
}

func TestDeliveryService_SendEndingMessage_PoolExhausted(t *testing.T) {
	service, messenger, db, cleanup := setupDeliveryService(t)
	defer cleanup()

	testutil.TestEnding(t, db, "only")

	require.NoError(t, service.SendEndingMessage(42, "abc123"))
	require.NoError(t, service.SendEndingMessage(42, "abc123"))

	// Second call found nothing to show and did nothing.
	assert.Len(t, messenger.Copies, 1)
}
