package testutil

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/qs3c/archive_bot_server/internal/model"
)

// SetupTestDB creates an in-memory SQLite database with the full schema.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Bundle{},
		&model.BundleItem{},
		&model.Delivery{},
		&model.DownloadHistory{},
		&model.MandatoryChannel{},
		&model.SubscriptionPlan{},
		&model.PaymentQueue{},
		&model.OfferBackup{},
		&model.StartingMessage{},
		&model.EndingMessage{},
		&model.EndingRotation{},
		&model.Request{},
		&model.Settings{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database.
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("Warning: Failed to get underlying DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		t.Logf("Warning: Failed to close test database: %v", err)
	}
}
