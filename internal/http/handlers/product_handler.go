// Product HTTP handlers.
//
//   - GET  /products       (list, paginated, category filter, text search)
//   - GET  /products/{id}
//   - POST /products       (artisans only)
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shilpkaar/marketplace-api/internal/domain"
	"github.com/shilpkaar/marketplace-api/internal/http/middleware"
	"github.com/shilpkaar/marketplace-api/internal/services"
)

// CreateProductRequest is the JSON payload an artisan submits to list a product.
type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required,max=255" example:"Blue pottery vase"`
	Description string   `json:"description" example:"Hand-painted Jaipur blue pottery"`
	Price       float64  `json:"price" binding:"gte=0" example:"1200"`
	Currency    string   `json:"currency" example:"INR"`
	Images      []string `json:"images"`
	Stock       int      `json:"stock" binding:"gte=0" example:"3"`
	Category    string   `json:"category" example:"pottery"`
	Tags        []string `json:"tags"`
}

// ListProductsResponse wraps a page of products and pagination information.
type ListProductsResponse struct {
	Products   []domain.Product `json:"products"`
	Pagination Pagination       `json:"pagination"`
}

// ListProducts godoc
// @ID          listProducts
// @Summary     List catalog products
// @Description Newest first, or by relevance when q is given.
// @Tags        Products
// @Produce     json
// @Param       page       query  int     false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false  "Items per page"  minimum(1) maximum(100) default(20)
// @Param       category   query  string  false  "Category filter"
// @Param       q          query  string  false  "Free-text search"
// @Success     200  {object}  handlers.ListProductsResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /products [get]
func (h *Handlers) ListProducts(c *gin.Context) {
	page, pageSize := clampPagination(c)
	items, total, err := h.prodSvc.List(c.Request.Context(), services.ProductQuery{
		Page:     page,
		PageSize: pageSize,
		Category: strings.TrimSpace(c.Query("category")),
		Q:        c.Query("q"),
	})
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list products")
		return
	}
	ok(c, http.StatusOK, ListProductsResponse{
		Products:   items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// GetProduct godoc
// @ID          getProduct
// @Summary     Get a product
// @Tags        Products
// @Produce     json
// @Param       id   path      string  true  "Product ID"
// @Success     200  {object}  domain.Product
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /products/{id} [get]
func (h *Handlers) GetProduct(c *gin.Context) {
	p, err := h.prodSvc.Get(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		ok(c, http.StatusOK, p)
	case errors.Is(err, services.ErrProductNotFound):
		fail(c, http.StatusNotFound, ErrCodeProductNotFound, err.Error())
	default:
		internal(c, err)
	}
}

// CreateProduct godoc
// @ID          createProduct
// @Summary     List a new product
// @Tags        Products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body      handlers.CreateProductRequest  true  "Product"
// @Success     201   {object}  domain.Product
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     401   {object}  handlers.ErrorResponse
// @Failure     403   {object}  handlers.ErrorResponse  "Caller is not an artisan"
// @Router      /products [post]
func (h *Handlers) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name is required; price and stock must be >= 0")
		return
	}
	p, err := h.prodSvc.Create(c.Request.Context(), userID(c), middleware.Role(c), services.NewProduct{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Images:      req.Images,
		Stock:       req.Stock,
		Category:    req.Category,
		Tags:        req.Tags,
	})
	switch {
	case err == nil:
		ok(c, http.StatusCreated, p)
	case errors.Is(err, services.ErrInvalidProduct):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "only artisans can list products")
	default:
		internal(c, err)
	}
}
