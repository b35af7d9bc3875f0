package repositories

import (
	"testing"

	"github.com/CantWait1/PrivatePacks-sub000/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB opens an in-memory SQLite database with the comment and vote
// schema migrated. Postgres is not available under go test; the repositories
// only use portable SQL.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Comment{}, &models.Vote{}, &models.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func uintPtr(v uint) *uint {
	return &v
}
