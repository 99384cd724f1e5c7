// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shilpkaar/marketplace-api/internal/domain"
)

// FavoritesStats returns aggregate metadata for a user's favorites: the total
// number of rows and the latest AddedAt among them.
//
// Favorites are immutable once created, so (count, latest added_at) changes on
// every add and every remove. When the user has no favorites, count is 0 and
// latest is nil.
func FavoritesStats(ctx context.Context, db *gorm.DB, userID string) (count int64, latest *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Favorite{}).Where("user_id = ?", userID)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest added_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		AddedAt time.Time
	}
	if err = db.WithContext(ctx).Model(&domain.Favorite{}).
		Where("user_id = ?", userID).
		Select("added_at").Order("added_at DESC").Limit(1).
		Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.AddedAt, nil
}
