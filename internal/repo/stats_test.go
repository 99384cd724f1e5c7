package repo

import (
	"context"
	"testing"
	"time"

	"github.com/shilpkaar/marketplace-api/internal/domain"
)

func TestFavoritesStats_CountError_NoTable(t *testing.T) {
	db := newTestDB(t /* no migrations */)
	_, _, err := FavoritesStats(context.Background(), db, "u1")
	if err == nil {
		t.Fatalf("expected error due to missing favorites table")
	}
}

func TestFavoritesStats_ZeroRows(t *testing.T) {
	db := newCatalogDB(t)
	count, latest, err := FavoritesStats(context.Background(), db, "u1")
	if err != nil {
		t.Fatalf("FavoritesStats error: %v", err)
	}
	if count != 0 || latest != nil {
		t.Fatalf("expected (0, nil), got (%d, %v)", count, latest)
	}
}

func TestFavoritesStats_Success_FilterAndLatest(t *testing.T) {
	db := newCatalogDB(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mustProduct(t, db, "p1", "Vase", "pottery", base)
	mustProduct(t, db, "p2", "Shawl", "textiles", base)

	t1 := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC) // latest for u1
	t3 := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)   // other user
	rows := []domain.Favorite{
		{ID: "f1", UserID: "u1", ProductID: "p1", AddedAt: t1},
		{ID: "f2", UserID: "u1", ProductID: "p2", AddedAt: t2},
		{ID: "f3", UserID: "u2", ProductID: "p1", AddedAt: t3},
	}
	for i := range rows {
		if err := db.Omit("Product").Create(&rows[i]).Error; err != nil {
			t.Fatalf("seed favorite: %v", err)
		}
	}

	count, latest, err := FavoritesStats(context.Background(), db, "u1")
	if err != nil {
		t.Fatalf("FavoritesStats error: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d; want 2", count)
	}
	if latest == nil || !latest.Equal(t2) {
		t.Fatalf("latest = %v; want %v", latest, t2)
	}
}
