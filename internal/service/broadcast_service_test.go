package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/archive_bot_server/config"
	"github.com/qs3c/archive_bot_server/internal/repository"
	"github.com/qs3c/archive_bot_server/internal/telegram"
	"github.com/qs3c/archive_bot_server/internal/testutil"
)

func TestBroadcastService_Send(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	for i := 0; i < 5; i++ {
		testutil.TestUser(t, db, testutil.WithTgUserID(int64(100+i)))
	}

	messenger := testutil.NewFakeMessenger()
	cfg := &config.Config{
		Bot: config.BotConfig{BroadcastBatchSize: 2, BroadcastBatchWait: 0},
	}
	// BroadcastBatchWait of zero is rounded up by config defaults in
	// production; tests pass it through the struct to avoid sleeping.
	service := NewBroadcastService(messenger, repository.NewUserRepository(db), nil, cfg)

	result, err := service.Send(-100555, 77)
	require.NoError(t, err)

	assert.Equal(t, 5, result.Success)
	assert.Equal(t, 0, result.Failed)
	assert.Len(t, messenger.Copies, 5)
}

func TestBroadcastService_Send_CountsBlockedUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	testutil.TestUser(t, db, testutil.WithTgUserID(100))
	testutil.TestUser(t, db, testutil.WithTgUserID(101))

	messenger := testutil.NewFakeMessenger()
	messenger.CopyErrs[77] = telegram.ErrForbidden

	cfg := &config.Config{
		Bot: config.BotConfig{BroadcastBatchSize: 30, BroadcastBatchWait: 0},
	}
	service := NewBroadcastService(messenger, repository.NewUserRepository(db), nil, cfg)

	result, err := service.Send(-100555, 77)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Success)
	assert.Equal(t, 2, result.Failed)
}

func TestBroadcastService_UserCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	testutil.TestUser(t, db)
	testutil.TestUser(t, db)

	service := NewBroadcastService(testutil.NewFakeMessenger(), repository.NewUserRepository(db), nil, &config.Config{})

	assert.Equal(t, int64(2), service.UserCount())
}
