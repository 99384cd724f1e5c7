// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Favorite
// model.
//
// Error semantics:
//   - A second favorite for the same (user_id, product_id) hits the
//     ux_favorites_user_product unique index. CreateFavorite inserts with
//     ON CONFLICT DO NOTHING and reports the skipped row as ErrDuplicate, so
//     the statement never fails and an enclosing transaction stays usable.
//   - Missing rows surface as ErrNotFound.
//
// Listing always preloads the Product so callers receive the denormalized
// snapshot the client displays. Soft-deleted products are still preloaded.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shilpkaar/marketplace-api/internal/domain"
)

func preloadProduct(db *gorm.DB) *gorm.DB {
	return db.Preload("Product", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() })
}

// CreateFavorite inserts a favorite for (userID, productID) with a fresh UUID
// and a UTC AddedAt, then returns it with the product preloaded.
func CreateFavorite(ctx context.Context, db *gorm.DB, userID, productID string) (*domain.Favorite, error) {
	f := &domain.Favorite{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: productID,
		AddedAt:   time.Now().UTC(),
	}
	res := db.WithContext(ctx).
		Omit("Product").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(f)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrDuplicate
	}
	return GetFavorite(ctx, db, f.ID, userID)
}

// GetFavorite fetches a favorite by its ID and owner.
func GetFavorite(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Favorite, error) {
	var f domain.Favorite
	err := preloadProduct(db.WithContext(ctx)).
		Where("id = ? AND user_id = ?", id, userID).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFavoritesPage returns a page of the user's favorites, newest first.
// Ties on added_at are broken by id so pages are stable.
func ListFavoritesPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Favorite, error) {
	var out []domain.Favorite
	err := preloadProduct(db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountFavorites returns the number of favorites owned by userID.
func CountFavorites(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Favorite{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// FavoriteExists reports whether userID has favorited productID.
func FavoriteExists(ctx context.Context, db *gorm.DB, userID, productID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Favorite{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Limit(1).
		Count(&n).Error
	return n > 0, err
}

// DeleteFavoriteByProduct removes the user's favorite for productID. The
// record is resolved from the (user, product) pair, not the favorite id.
// Returns ErrNotFound when nothing was deleted.
func DeleteFavoriteByProduct(ctx context.Context, db *gorm.DB, userID, productID string) error {
	res := db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&domain.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
