package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/huntboard/backend/src/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB opens an in-memory SQLite database with all tables migrated.
// Each call returns a fresh, isolated database.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&domain.Challenge{},
		&domain.Vulnerability{},
		&domain.WorkSession{},
		&domain.ActivityLog{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}
