package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/archive_bot_server/internal/testutil"
)

func TestSettingsRepository_NextPublicNumber(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSettingsRepository(db)

	first, err := repo.NextPublicNumber()
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := repo.NextPublicNumber()
	require.NoError(t, err)
	assert.Equal(t, 2, second)

	settings, err := repo.Get()
	require.NoError(t, err)
	assert.Equal(t, 3, settings.NextPublicNumber)
}
