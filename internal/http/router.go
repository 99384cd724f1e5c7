// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, authentication, idempotency, and rate
// limiting.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/shilpkaar/marketplace-api/docs"
	"github.com/shilpkaar/marketplace-api/internal/cache"
	"github.com/shilpkaar/marketplace-api/internal/config"
	"github.com/shilpkaar/marketplace-api/internal/domain"
	"github.com/shilpkaar/marketplace-api/internal/http/handlers"
	"github.com/shilpkaar/marketplace-api/internal/http/middleware"
	"github.com/shilpkaar/marketplace-api/internal/repo"
	"github.com/shilpkaar/marketplace-api/internal/search"
	"github.com/shilpkaar/marketplace-api/internal/services"
)

// Deps are the collaborators RegisterRoutes builds services from.
type Deps struct {
	DB *gorm.DB
	// Index backs product search. Nil builds an empty one.
	Index *search.Catalog
	// Counts caches per-user favorite counts. Nil disables caching.
	Counts cache.CountCache
}

// Services is what RegisterRoutes constructed, returned so the composition
// root can reuse them (e.g. to reindex after seeding).
type Services struct {
	Auth      *services.AuthService
	Products  *services.ProductService
	Favorites *services.FavoriteService
}

var corsHeaders = []string{
	"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match",
	middleware.HeaderIdempotencyKey,
}

var corsExpose = []string{
	"X-Request-ID", "Content-Length", "ETag", "Retry-After",
	middleware.HeaderIdempotencyReplayed,
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and returns the services it wired.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Authenticate: resolve the caller so later steps can key on it
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS, security headers, gzip
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) Services {
	r.HandleMethodNotAllowed = true

	idx := deps.Index
	if idx == nil {
		idx = search.NewCatalog(nil)
	}
	authSvc := services.NewAuthService(deps.DB, cfg.Auth)
	prodSvc := &services.ProductService{DB: deps.DB, Index: idx, TitleLocale: language.English}
	favSvc := &services.FavoriteService{DB: deps.DB, Cache: deps.Counts, IdempotencyTTL: cfg.IdempotencyTTL}

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{middleware.HeaderIdempotencyKey},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Optional bearer authentication
	r.Use(middleware.Authenticate(func(raw string) (middleware.Identity, error) {
		cl, err := authSvc.ParseToken(raw)
		if err != nil {
			return middleware.Identity{}, err
		}
		return middleware.Identity{UserID: cl.Subject, Role: cl.Role}, nil
	}))

	apiBase := cfg.APIBasePath // e.g. "/api/v1"

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
			Scope: middleware.ScopeByRoute(map[string]string{
				http.MethodPost + " " + joinPath(apiBase, "/favorites"): repo.ScopeFavoritesAdd,
			}),
		},
		favSvc.IdempotencyLookup,
	))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    corsExpose,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    corsExpose,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:               cfg.Security.EnableHSTS,
		HSTSMaxAge:               cfg.Security.HSTSMaxAge,
		PrivateWhenAuthenticated: true,
		EnablePolicy:             true,
	}))

	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = apiBase
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(authSvc, prodSvc, favSvc)

	// Public API
	api := groupWithPrefix(r, apiBase)
	{
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
		api.GET("/auth/me", middleware.RequireAuth(), h.Me)

		api.GET("/products", h.ListProducts)
		api.GET("/products/:id", h.GetProduct)
		api.POST("/products", middleware.RequireAuth(), middleware.RequireRole(domain.RoleArtisan), h.CreateProduct)

		fav := api.Group("/favorites", middleware.RequireAuth())
		fav.GET("", h.ListFavorites)
		fav.POST("", h.AddFavorite)
		fav.GET("/count", h.CountFavorites)
		fav.DELETE("/:productId", h.RemoveFavorite)
		fav.POST("/:productId/toggle", h.ToggleFavorite)
		fav.GET("/:productId/check", h.CheckFavorite)
	}

	return Services{Auth: authSvc, Products: prodSvc, Favorites: favSvc}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

// joinPath mirrors how gin joins a group prefix with a relative route, so
// registered FullPath values can be predicted.
func joinPath(prefix, rel string) string {
	if prefix == "" || prefix == "/" {
		return rel
	}
	return prefix + rel
}
