// Package services – FavoriteService
//
// FavoriteService owns the user-scoped favorites resource. It enforces the
// one-favorite-per-(user, product) rule, resolves removals from the
// (user, product) pair rather than a favorite id, flips membership atomically
// for toggle, and keeps the optional count cache coherent by invalidating it
// on every mutation.
//
// Service-level errors (ErrInvalidProductID, ErrProductNotFound,
// ErrAlreadyFavorited, ErrNotInFavorites) are returned for predictable cases
// so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/shilpkaar/marketplace-api/internal/cache"
	"github.com/shilpkaar/marketplace-api/internal/domain"
	"github.com/shilpkaar/marketplace-api/internal/repo"
	"github.com/shilpkaar/marketplace-api/internal/utils"
)

// FavoriteService implements the favorites use-cases.
type FavoriteService struct {
	DB *gorm.DB

	// Cache holds per-user counts. Nil disables caching.
	Cache cache.CountCache

	// IdempotencyTTL bounds how long an Idempotency-Key replays the original
	// favorite. Zero disables recording.
	IdempotencyTTL time.Duration
}

func (s *FavoriteService) cache() cache.CountCache {
	if s.Cache == nil {
		return cache.Nop{}
	}
	return s.Cache
}

func startSpan(ctx context.Context, name, userID, productID string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("user.id", userID)}
	if productID != "" {
		attrs = append(attrs, attribute.String("product.id", productID))
	}
	return otel.Tracer("services/FavoriteService").Start(ctx, name, trace.WithAttributes(attrs...))
}

// Add favorites productID for userID and returns the created record with its
// product snapshot.
//
// When idemKey is non-empty and a live record exists for it, the original
// favorite is returned with replayed=true and nothing is written.
//
// Errors: ErrInvalidProductID, ErrProductNotFound, ErrAlreadyFavorited.
func (s *FavoriteService) Add(ctx context.Context, userID, productID, idemKey string) (fav *domain.Favorite, replayed bool, err error) {
	productID = strings.TrimSpace(productID)
	ctx, span := startSpan(ctx, "Add", userID, productID)
	defer span.End()
	defer func() { observe("add", err) }()

	if productID == "" {
		return nil, false, ErrInvalidProductID
	}

	idemKey = strings.TrimSpace(idemKey)
	if idemKey != "" {
		rec, gerr := repo.GetIdempotency(ctx, s.DB, userID, repo.ScopeFavoritesAdd, idemKey, time.Now().UTC())
		if gerr == nil {
			if f, ferr := repo.GetFavorite(ctx, s.DB, rec.ResourceID, userID); ferr == nil {
				span.SetAttributes(attribute.Bool("idempotency.replayed", true))
				return f, true, nil
			}
			// The favorite was removed since; treat the key as fresh.
		} else if !isNotFound(gerr) {
			return nil, false, gerr
		}
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := repo.ProductExists(ctx, tx, productID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrProductNotFound
		}
		f, err := repo.CreateFavorite(ctx, tx, userID, productID)
		if err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return ErrAlreadyFavorited
			}
			return err
		}
		if idemKey != "" && s.IdempotencyTTL > 0 {
			_, ierr := repo.CreateIdempotency(ctx, tx, userID, repo.ScopeFavoritesAdd, idemKey, f.ID, 201, s.IdempotencyTTL)
			if ierr != nil && !errors.Is(ierr, repo.ErrDuplicate) {
				return ierr
			}
		}
		fav = f
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	s.cache().Invalidate(ctx, userID)
	return fav, false, nil
}

// Remove deletes the user's favorite for productID.
//
// Errors: ErrInvalidProductID, ErrNotInFavorites.
func (s *FavoriteService) Remove(ctx context.Context, userID, productID string) (err error) {
	productID = strings.TrimSpace(productID)
	ctx, span := startSpan(ctx, "Remove", userID, productID)
	defer span.End()
	defer func() { observe("remove", err) }()

	if productID == "" {
		return ErrInvalidProductID
	}
	if err = repo.DeleteFavoriteByProduct(ctx, s.DB, userID, productID); err != nil {
		if isNotFound(err) {
			return ErrNotInFavorites
		}
		return err
	}
	s.cache().Invalidate(ctx, userID)
	return nil
}

// Toggle flips membership of productID in one transaction and reports the
// resulting state. An existing favorite is deleted (false); otherwise the
// product is verified and a favorite inserted (true).
//
// Errors: ErrInvalidProductID, ErrProductNotFound.
func (s *FavoriteService) Toggle(ctx context.Context, userID, productID string) (favorited bool, err error) {
	productID = strings.TrimSpace(productID)
	ctx, span := startSpan(ctx, "Toggle", userID, productID)
	defer span.End()
	defer func() { observe("toggle", err) }()

	if productID == "" {
		return false, ErrInvalidProductID
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		derr := repo.DeleteFavoriteByProduct(ctx, tx, userID, productID)
		if derr == nil {
			favorited = false
			return nil
		}
		if !isNotFound(derr) {
			return derr
		}
		ok, err := repo.ProductExists(ctx, tx, productID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrProductNotFound
		}
		if _, err := repo.CreateFavorite(ctx, tx, userID, productID); err != nil {
			// A concurrent add won the race; membership is already true.
			if !errors.Is(err, repo.ErrDuplicate) {
				return err
			}
		}
		favorited = true
		return nil
	})
	if err != nil {
		return false, err
	}
	span.SetAttributes(attribute.Bool("favorite.is_favorited", favorited))
	s.cache().Invalidate(ctx, userID)
	return favorited, nil
}

// List returns a page of the user's favorites, newest first, and the total.
func (s *FavoriteService) List(ctx context.Context, userID string, page, pageSize int) (items []domain.Favorite, total int64, err error) {
	ctx, span := startSpan(ctx, "List", userID, "")
	defer span.End()
	defer func() { observe("list", err) }()
	span.SetAttributes(attribute.Int("page", page), attribute.Int("page_size", pageSize))

	page, pageSize = utils.NormalizePage(page, pageSize)
	offset := utils.Offset(page, pageSize)

	total, err = repo.CountFavorites(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Favorite{}, 0, nil
	}
	items, err = repo.ListFavoritesPage(ctx, s.DB, userID, offset, pageSize)
	return items, total, err
}

// Count returns how many favorites userID has, served from the cache when
// possible.
func (s *FavoriteService) Count(ctx context.Context, userID string) (n int64, err error) {
	ctx, span := startSpan(ctx, "Count", userID, "")
	defer span.End()
	defer func() { observe("count", err) }()

	if n, ok := s.cache().GetCount(ctx, userID); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return n, nil
	}
	n, err = repo.CountFavorites(ctx, s.DB, userID)
	if err != nil {
		return 0, err
	}
	s.cache().SetCount(ctx, userID, n)
	return n, nil
}

// IsFavorited reports whether userID has favorited productID.
func (s *FavoriteService) IsFavorited(ctx context.Context, userID, productID string) (ok bool, err error) {
	productID = strings.TrimSpace(productID)
	ctx, span := startSpan(ctx, "IsFavorited", userID, productID)
	defer span.End()
	defer func() { observe("check", err) }()

	if productID == "" {
		return false, ErrInvalidProductID
	}
	return repo.FavoriteExists(ctx, s.DB, userID, productID)
}

// Stats returns the (count, latest added_at) pair the list ETag is derived from.
func (s *FavoriteService) Stats(ctx context.Context, userID string) (int64, *time.Time, error) {
	return repo.FavoritesStats(ctx, s.DB, userID)
}

// IdempotencyLookup reports whether an unexpired record exists for key. It
// matches the signature of middleware.IdempotencyValidator's lookup.
func (s *FavoriteService) IdempotencyLookup(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
	_, err := repo.GetIdempotency(ctx, s.DB, userID, scope, key, now)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
