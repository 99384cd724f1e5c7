package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shilpkaar/marketplace-api/internal/domain"
)

func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Unique DB per test to avoid schema leaking across tests.
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func newCatalogDB(t *testing.T) *gorm.DB {
	t.Helper()
	return newTestDB(t, &domain.User{}, &domain.Product{}, &domain.Favorite{}, &domain.Idempotency{})
}

func mustProduct(t *testing.T, db *gorm.DB, id, name, category string, created time.Time) *domain.Product {
	t.Helper()
	p := &domain.Product{
		ID: id, ArtisanID: "a1", Name: name, Category: category,
		Price: 100, Stock: 1, CreatedAt: created,
	}
	if err := CreateProduct(context.Background(), db, p); err != nil {
		t.Fatalf("create product %s: %v", id, err)
	}
	return p
}
