package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shilpkaar/marketplace-api/internal/domain"
	"github.com/shilpkaar/marketplace-api/internal/http/middleware"
	"github.com/shilpkaar/marketplace-api/internal/services"
)

func init() { gin.SetMode(gin.TestMode) }

// asUser injects an authenticated caller the way middleware.Authenticate does.
func asUser(uid, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid != "" {
			c.Set(middleware.CtxKeyUserID, uid)
			c.Set(middleware.CtxKeyRole, role)
		}
		c.Next()
	}
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

// ---------- stub services ----------

type stubFavSvc struct {
	addFav      *domain.Favorite
	addReplayed bool
	err         error
	toggled     bool
	favorited   bool
	count       int64
	list        []domain.Favorite
	total       int64
	statsCount  int64
	statsTS     *time.Time
	statsErr    error

	gotUser, gotProduct, gotKey string
	gotPage, gotPageSize        int
	listCalls                   int
}

func (s *stubFavSvc) Add(_ context.Context, uid, pid, key string) (*domain.Favorite, bool, error) {
	s.gotUser, s.gotProduct, s.gotKey = uid, pid, key
	return s.addFav, s.addReplayed, s.err
}

func (s *stubFavSvc) Remove(_ context.Context, uid, pid string) error {
	s.gotUser, s.gotProduct = uid, pid
	return s.err
}

func (s *stubFavSvc) Toggle(_ context.Context, uid, pid string) (bool, error) {
	s.gotUser, s.gotProduct = uid, pid
	return s.toggled, s.err
}

func (s *stubFavSvc) List(_ context.Context, uid string, page, pageSize int) ([]domain.Favorite, int64, error) {
	s.listCalls++
	s.gotUser, s.gotPage, s.gotPageSize = uid, page, pageSize
	return s.list, s.total, s.err
}

func (s *stubFavSvc) Count(_ context.Context, uid string) (int64, error) {
	s.gotUser = uid
	return s.count, s.err
}

func (s *stubFavSvc) IsFavorited(_ context.Context, uid, pid string) (bool, error) {
	s.gotUser, s.gotProduct = uid, pid
	return s.favorited, s.err
}

func (s *stubFavSvc) Stats(context.Context, string) (int64, *time.Time, error) {
	return s.statsCount, s.statsTS, s.statsErr
}

type stubAuthSvc struct {
	user *domain.User
	tok  string
	err  error
}

func (s *stubAuthSvc) Register(context.Context, string, string, string, string) (*domain.User, string, error) {
	return s.user, s.tok, s.err
}

func (s *stubAuthSvc) Login(context.Context, string, string) (*domain.User, string, error) {
	return s.user, s.tok, s.err
}

func (s *stubAuthSvc) Me(context.Context, string) (*domain.User, error) {
	return s.user, s.err
}

type stubProdSvc struct {
	items   []domain.Product
	total   int64
	product *domain.Product
	err     error

	gotQuery services.ProductQuery
	gotRole  string
	gotIn    services.NewProduct
}

func (s *stubProdSvc) List(_ context.Context, q services.ProductQuery) ([]domain.Product, int64, error) {
	s.gotQuery = q
	return s.items, s.total, s.err
}

func (s *stubProdSvc) Get(context.Context, string) (*domain.Product, error) {
	return s.product, s.err
}

func (s *stubProdSvc) Create(_ context.Context, _, role string, in services.NewProduct) (*domain.Product, error) {
	s.gotRole, s.gotIn = role, in
	return s.product, s.err
}
