// Favorite HTTP handlers.
//
// This file exposes the user-scoped favorites resource:
//   - GET    /favorites                       (list, paginated, weak ETag)
//   - POST   /favorites                       (add, Idempotency-Key aware)
//   - DELETE /favorites/{productId}           (remove by product)
//   - POST   /favorites/{productId}/toggle
//   - GET    /favorites/{productId}/check
//   - GET    /favorites/count
//
// All routes require an authenticated caller.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shilpkaar/marketplace-api/internal/domain"
	"github.com/shilpkaar/marketplace-api/internal/http/middleware"
	"github.com/shilpkaar/marketplace-api/internal/services"
)

// AddFavoriteRequest is the JSON payload for favoriting a product.
type AddFavoriteRequest struct {
	ProductID string `json:"product_id" binding:"required" example:"0b6f3c1e-2a49-4c8e-9d7a-5f1e2b3c4d5e"`
}

// ListFavoritesResponse wraps a page of favorites and pagination information.
type ListFavoritesResponse struct {
	Favorites  []domain.Favorite `json:"favorites"`
	Pagination Pagination        `json:"pagination"`
}

// FavoriteStatus answers toggle and check.
type FavoriteStatus struct {
	IsFavorited bool `json:"is_favorited"`
}

// FavoriteCount answers GET /favorites/count.
type FavoriteCount struct {
	Count int64 `json:"count"`
}

// favoriteErr maps FavoriteService sentinels to HTTP responses.
func favoriteErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidProductID):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrAlreadyFavorited):
		fail(c, http.StatusBadRequest, ErrCodeAlreadyFavorited, err.Error())
	case errors.Is(err, services.ErrProductNotFound):
		fail(c, http.StatusNotFound, ErrCodeProductNotFound, err.Error())
	case errors.Is(err, services.ErrNotInFavorites):
		fail(c, http.StatusNotFound, ErrCodeNotInFavorites, err.Error())
	default:
		internal(c, err)
	}
}

// etagMatches reports whether an If-None-Match header value selects etag.
func etagMatches(header, etag string) bool {
	for _, cand := range strings.Split(header, ",") {
		cand = strings.TrimSpace(cand)
		if cand == "*" || cand == etag {
			return true
		}
	}
	return false
}

// ListFavorites godoc
// @ID          listFavorites
// @Summary     List favorites (paginated)
// @Description Newest first, each with its product. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Favorites
// @Produce     json
// @Security    BearerAuth
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Param       page           query   int     false  "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListFavoritesResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /favorites [get]
func (h *Handlers) ListFavorites(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if count, latest, err := h.favSvc.Stats(ctx, uid); err == nil {
		var ts int64
		if latest != nil {
			ts = latest.UnixNano()
		}
		etag := fmt.Sprintf(`W/"favorites:%s:%d:%d:%d:%d"`, uid, count, ts, page, pageSize)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && etagMatches(inm, etag) {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, total, err := h.favSvc.List(ctx, uid, page, pageSize)
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list favorites")
		return
	}
	ok(c, http.StatusOK, ListFavoritesResponse{
		Favorites:  items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// AddFavorite godoc
// @ID          addFavorite
// @Summary     Add a product to favorites
// @Description Retrying with the same Idempotency-Key returns the original favorite with 200 and Idempotency-Replayed: true.
// @Tags        Favorites
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       Idempotency-Key  header  string                       false  "Retry-safe key"
// @Param       body             body    handlers.AddFavoriteRequest  true   "Product to favorite"
// @Success     201  {object}  domain.Favorite
// @Success     200  {object}  domain.Favorite  "Idempotent replay"
// @Failure     400  {object}  handlers.ErrorResponse  "Missing product_id or already in favorites"
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Product not found"
// @Router      /favorites [post]
func (h *Handlers) AddFavorite(c *gin.Context) {
	var req AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ProductID) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "product_id is required")
		return
	}
	key, _ := middleware.GetIdempotencyKey(c)

	fav, replayed, err := h.favSvc.Add(c.Request.Context(), userID(c), req.ProductID, key)
	if err != nil {
		favoriteErr(c, err)
		return
	}
	if replayed {
		c.Header(middleware.HeaderIdempotencyReplayed, "true")
		ok(c, http.StatusOK, fav)
		return
	}
	middleware.LoggerFrom(c).Debug().Str("product_id", fav.ProductID).Msg("favorite added")
	ok(c, http.StatusCreated, fav)
}

// RemoveFavorite godoc
// @ID          removeFavorite
// @Summary     Remove a product from favorites
// @Tags        Favorites
// @Security    BearerAuth
// @Param       productId  path  string  true  "Product ID"
// @Success     204  {string}  string  "No Content"
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Not in favorites"
// @Router      /favorites/{productId} [delete]
func (h *Handlers) RemoveFavorite(c *gin.Context) {
	if err := h.favSvc.Remove(c.Request.Context(), userID(c), c.Param("productId")); err != nil {
		favoriteErr(c, err)
		return
	}
	noContent(c)
}

// ToggleFavorite godoc
// @ID          toggleFavorite
// @Summary     Flip favorite membership
// @Tags        Favorites
// @Produce     json
// @Security    BearerAuth
// @Param       productId  path  string  true  "Product ID"
// @Success     200  {object}  handlers.FavoriteStatus
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Product not found"
// @Router      /favorites/{productId}/toggle [post]
func (h *Handlers) ToggleFavorite(c *gin.Context) {
	on, err := h.favSvc.Toggle(c.Request.Context(), userID(c), c.Param("productId"))
	if err != nil {
		favoriteErr(c, err)
		return
	}
	ok(c, http.StatusOK, FavoriteStatus{IsFavorited: on})
}

// CheckFavorite godoc
// @ID          checkFavorite
// @Summary     Is this product a favorite?
// @Tags        Favorites
// @Produce     json
// @Security    BearerAuth
// @Param       productId  path  string  true  "Product ID"
// @Success     200  {object}  handlers.FavoriteStatus
// @Failure     401  {object}  handlers.ErrorResponse
// @Router      /favorites/{productId}/check [get]
func (h *Handlers) CheckFavorite(c *gin.Context) {
	on, err := h.favSvc.IsFavorited(c.Request.Context(), userID(c), c.Param("productId"))
	if err != nil {
		favoriteErr(c, err)
		return
	}
	ok(c, http.StatusOK, FavoriteStatus{IsFavorited: on})
}

// CountFavorites godoc
// @ID          countFavorites
// @Summary     Number of favorites
// @Tags        Favorites
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  handlers.FavoriteCount
// @Failure     401  {object}  handlers.ErrorResponse
// @Router      /favorites/count [get]
func (h *Handlers) CountFavorites(c *gin.Context) {
	n, err := h.favSvc.Count(c.Request.Context(), userID(c))
	if err != nil {
		internal(c, err)
		return
	}
	ok(c, http.StatusOK, FavoriteCount{Count: n})
}
