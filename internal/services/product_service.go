// Package services – ProductService
//
// ProductService serves the artisan catalog: paged listing with an optional
// category filter and free-text search over search.Catalog, single-product
// lookup, and creation by artisans. Created products are indexed immediately.
package services

import (
	"context"
	"math"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/shilpkaar/marketplace-api/internal/domain"
	"github.com/shilpkaar/marketplace-api/internal/repo"
	"github.com/shilpkaar/marketplace-api/internal/search"
	"github.com/shilpkaar/marketplace-api/internal/utils"
)

// maxSearchHits caps how many ranked candidates a text query considers.
const maxSearchHits = 500

// ProductQuery selects a page of the catalog.
type ProductQuery struct {
	Page     int
	PageSize int
	Category string
	Q        string
}

// NewProduct is the artisan-supplied payload for Create.
type NewProduct struct {
	Name        string
	Description string
	Price       float64
	Currency    string
	Images      []string
	Stock       int
	Category    string
	Tags        []string
}

// ProductService implements catalog use-cases.
type ProductService struct {
	DB    *gorm.DB
	Index *search.Catalog

	// TitleLocale drives product name casing (default language.Und).
	TitleLocale language.Tag
}

// List returns one page of products and the total number of matches. With a
// text query, results follow search relevance; otherwise newest first.
func (s *ProductService) List(ctx context.Context, q ProductQuery) ([]domain.Product, int64, error) {
	ctx, span := otel.Tracer("services/ProductService").Start(ctx, "List",
		trace.WithAttributes(
			attribute.Int("page", q.Page),
			attribute.Int("page_size", q.PageSize),
			attribute.String("category", q.Category),
		),
	)
	defer span.End()

	q.Page, q.PageSize = utils.NormalizePage(q.Page, q.PageSize)
	offset := utils.Offset(q.Page, q.PageSize)
	filter := repo.ProductFilter{Category: q.Category}

	if strings.TrimSpace(q.Q) == "" || s.Index == nil {
		return repo.ListProductsPage(ctx, s.DB, filter, offset, q.PageSize)
	}

	hits := s.Index.TopK(q.Q, maxSearchHits)
	span.SetAttributes(attribute.Int("search.hits", len(hits)))
	if len(hits) == 0 {
		return []domain.Product{}, 0, nil
	}
	rank := make(map[string]int, len(hits))
	filter.IDs = make([]string, len(hits))
	for i, h := range hits {
		rank[h.ProductID] = i
		filter.IDs[i] = h.ProductID
	}

	matched, total, err := repo.ListProductsPage(ctx, s.DB, filter, 0, len(hits))
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(matched, func(a, b int) bool {
		return rank[matched[a].ID] < rank[matched[b].ID]
	})
	if offset >= len(matched) {
		return []domain.Product{}, total, nil
	}
	end := offset + q.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

// Get returns the product with id or ErrProductNotFound.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := otel.Tracer("services/ProductService").Start(ctx, "Get",
		trace.WithAttributes(attribute.String("product.id", id)),
	)
	defer span.End()

	p, err := repo.GetProduct(ctx, s.DB, strings.TrimSpace(id))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

// Create lists a new product for artisanID. Only artisans may list products.
// Names are title-cased and categories lower-cased for consistent display and
// filtering.
func (s *ProductService) Create(ctx context.Context, artisanID, role string, in NewProduct) (*domain.Product, error) {
	ctx, span := otel.Tracer("services/ProductService").Start(ctx, "Create",
		trace.WithAttributes(attribute.String("user.id", artisanID)),
	)
	defer span.End()

	if role != domain.RoleArtisan {
		return nil, ErrForbidden
	}
	name := strings.Join(strings.Fields(in.Name), " ")
	if name == "" || in.Price < 0 || math.IsNaN(in.Price) || math.IsInf(in.Price, 0) || in.Stock < 0 {
		return nil, ErrInvalidProduct
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "INR"
	}

	p := &domain.Product{
		ArtisanID:   artisanID,
		Name:        cases.Title(s.TitleLocale).String(name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Currency:    currency,
		Images:      in.Images,
		Stock:       in.Stock,
		Category:    cases.Lower(s.TitleLocale).String(strings.TrimSpace(in.Category)),
		Tags:        in.Tags,
	}
	if err := repo.CreateProduct(ctx, s.DB, p); err != nil {
		return nil, err
	}
	if s.Index != nil {
		s.Index.Upsert(*p)
	}
	span.SetAttributes(attribute.String("product.id", p.ID))
	return p, nil
}

// Reindex rebuilds the search index from the database and returns how many
// products were indexed.
func (s *ProductService) Reindex(ctx context.Context) (int, error) {
	ctx, span := otel.Tracer("services/ProductService").Start(ctx, "Reindex")
	defer span.End()

	all, err := repo.ListAllProducts(ctx, s.DB)
	if err != nil {
		return 0, err
	}
	if s.Index == nil {
		s.Index = search.NewCatalog(all)
	} else {
		s.Index.Rebuild(all)
	}
	return s.Index.Len(), nil
}
