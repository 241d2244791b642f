package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/archive_bot_server/internal/testutil"
)

func TestMessageRepository_StartingMessageSingleton(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMessageRepository(db)

	require.NoError(t, repo.SetStartingMessage(-100111, 10))
	require.NoError(t, repo.SetStartingMessage(-100222, 20))

	msg, err := repo.GetStartingMessage()
	require.NoError(t, err)
	assert.Equal(t, int64(-100222), msg.FromChatID)
	assert.Equal(t, 20, msg.MessageID)
}

func TestMessageRepository_EndingRotation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMessageRepository(db)
	first := testutil.TestEnding(t, db, "first")
	second := testutil.TestEnding(t, db, "second")

	today := time.Now()

	available, err := repo.GetAvailableEndings(42, today)
	require.NoError(t, err)
	assert.Len(t, available, 2)

	require.NoError(t, repo.RecordEndingShown(42, first.ID, today))

	available, err = repo.GetAvailableEndings(42, today)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, second.ID, available[0].ID)

	// Another user's rotation is independent.
	available, err = repo.GetAvailableEndings(43, today)
	require.NoError(t, err)
	assert.Len(t, available, 2)

	// The next day the pool resets.
	available, err = repo.GetAvailableEndings(42, today.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, available, 2)
}

func TestMessageRepository_DeleteEnding(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMessageRepository(db)
	ending := testutil.TestEnding(t, db, "bye")

	require.NoError(t, repo.DeleteEnding(ending.ID))

	endings, err := repo.GetAllEndings()
	require.NoError(t, err)
	assert.Empty(t, endings)
}
