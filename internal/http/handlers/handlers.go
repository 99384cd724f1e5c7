// Package handlers exposes the REST surface of the marketplace API:
//
//   - /auth       register, login, me
//   - /products   catalog list, get, create (artisans)
//   - /favorites  the user-scoped favorites resource
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results (including sentinel errors) into HTTP
// responses.
package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shilpkaar/marketplace-api/internal/domain"
	"github.com/shilpkaar/marketplace-api/internal/http/middleware"
	"github.com/shilpkaar/marketplace-api/internal/services"
	"github.com/shilpkaar/marketplace-api/internal/utils"
)

//
// Service contracts (context-aware)
//

// AuthService registers users, verifies credentials and resolves accounts.
type AuthService interface {
	Register(ctx context.Context, email, password, name, role string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}

// ProductService serves the catalog.
type ProductService interface {
	List(ctx context.Context, q services.ProductQuery) ([]domain.Product, int64, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, artisanID, role string, in services.NewProduct) (*domain.Product, error)
}

// FavoriteService implements the favorites resource for one user at a time.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type FavoriteService interface {
	// Add favorites productID. replayed is true when idemKey matched a
	// previous successful add and the original record is returned.
	Add(ctx context.Context, userID, productID, idemKey string) (fav *domain.Favorite, replayed bool, err error)
	// Remove deletes the favorite for (userID, productID).
	Remove(ctx context.Context, userID, productID string) error
	// Toggle flips membership and reports the resulting state.
	Toggle(ctx context.Context, userID, productID string) (bool, error)
	// List returns a page of favorites (newest first) and the total.
	List(ctx context.Context, userID string, page, pageSize int) ([]domain.Favorite, int64, error)
	Count(ctx context.Context, userID string) (int64, error)
	IsFavorited(ctx context.Context, userID, productID string) (bool, error)
	// Stats returns the (count, latest added_at) pair used for list ETags.
	Stats(ctx context.Context, userID string) (int64, *time.Time, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for auth, products and favorites.
type Handlers struct {
	authSvc AuthService
	prodSvc ProductService
	favSvc  FavoriteService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(authSvc AuthService, prodSvc ProductService, favSvc FavoriteService) *Handlers {
	return &Handlers{authSvc: authSvc, prodSvc: prodSvc, favSvc: favSvc}
}

// userID returns the caller set by middleware.Authenticate. Routes that use it
// sit behind middleware.RequireAuth, so it is never empty there.
func userID(c *gin.Context) string {
	return middleware.UserID(c)
}

//
// DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := utils.TotalPages(total, pageSize)
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	page = utils.AtoiDefault(c.Query("page"), 1)
	pageSize = utils.AtoiDefault(c.Query("page_size"), utils.DefaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	return utils.NormalizePage(page, pageSize)
}
