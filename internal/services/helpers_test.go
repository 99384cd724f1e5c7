package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shilpkaar/marketplace-api/internal/domain"
	"github.com/shilpkaar/marketplace-api/internal/repo"
)

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())

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
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, id, name string) {
	t.Helper()
	p := &domain.Product{ID: id, ArtisanID: "a1", Name: name, Price: 250, Stock: 5, CreatedAt: time.Now().UTC()}
	if err := repo.CreateProduct(context.Background(), db, p); err != nil {
		t.Fatalf("seed product %s: %v", id, err)
	}
}

// memCache is an in-process CountCache that records calls.
type memCache struct {
	mu          sync.Mutex
	counts      map[string]int64
	gets        int
	invalidated []string
}

func newMemCache() *memCache { return &memCache{counts: map[string]int64{}} }

func (m *memCache) GetCount(_ context.Context, userID string) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	n, ok := m.counts[userID]
	return n, ok
}

func (m *memCache) SetCount(_ context.Context, userID string, n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[userID] = n
}

func (m *memCache) Invalidate(_ context.Context, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.counts, userID)
	m.invalidated = append(m.invalidated, userID)
}
