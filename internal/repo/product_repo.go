// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Product
// catalog.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shilpkaar/marketplace-api/internal/domain"
)

// ProductFilter narrows ListProductsPage. Zero values mean "no filter".
type ProductFilter struct {
	Category  string
	ArtisanID string
	// IDs restricts the page to these products (e.g. search hits).
	IDs []string
}

func (f ProductFilter) apply(q *gorm.DB) *gorm.DB {
	if c := strings.TrimSpace(f.Category); c != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(c))
	}
	if f.ArtisanID != "" {
		q = q.Where("artisan_id = ?", f.ArtisanID)
	}
	if f.IDs != nil {
		q = q.Where("id IN ?", f.IDs)
	}
	return q
}

// CreateProduct inserts p, assigning an ID and UTC timestamps when unset.
func CreateProduct(ctx context.Context, db *gorm.DB, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return db.WithContext(ctx).Create(p).Error
}

// GetProduct fetches a live (not soft-deleted) product by id.
func GetProduct(ctx context.Context, db *gorm.DB, id string) (*domain.Product, error) {
	var p domain.Product
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductExists reports whether a live product with id exists.
func ProductExists(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Limit(1).Count(&n).Error
	return n > 0, err
}

// ListProductsPage returns one page of products matching f, newest first,
// along with the total number of matches.
func ListProductsPage(ctx context.Context, db *gorm.DB, f ProductFilter, offset, limit int) ([]domain.Product, int64, error) {
	var total int64
	if err := f.apply(db.WithContext(ctx).Model(&domain.Product{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Product
	err := f.apply(db.WithContext(ctx)).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, total, err
}

// ListAllProducts returns every live product. Used to build the search index.
func ListAllProducts(ctx context.Context, db *gorm.DB) ([]domain.Product, error) {
	var out []domain.Product
	err := db.WithContext(ctx).Order("created_at ASC").Find(&out).Error
	return out, err
}

// DeleteProduct soft-deletes a product owned by artisanID.
func DeleteProduct(ctx context.Context, db *gorm.DB, id, artisanID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND artisan_id = ?", id, artisanID).
		Delete(&domain.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
