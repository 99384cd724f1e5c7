package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/shilpkaar/marketplace-api/internal/domain"
	"github.com/shilpkaar/marketplace-api/internal/services"
)

func newAuthRouter(svc *stubAuthSvc, uid string) *gin.Engine {
	h := New(svc, nil, nil)
	r := gin.New()
	r.Use(asUser(uid, "customer"))
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.GET("/auth/me", h.Me)
	return r
}

func TestRegister(t *testing.T) {
	u := &domain.User{ID: "u1", Email: "meera@example.com", Role: domain.RoleCustomer, PasswordHash: "secret-hash"}

	w := doJSON(t, newAuthRouter(&stubAuthSvc{user: u, tok: "jwt"}, ""), http.MethodPost, "/auth/register",
		RegisterRequest{Email: "meera@example.com", Password: "longenough"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d %s", w.Code, w.Body.String())
	}
	resp := decode[AuthResponse](t, w)
	if resp.Token != "jwt" || resp.User == nil || resp.User.ID != "u1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.User.PasswordHash != "" {
		t.Fatalf("password hash must never be serialized")
	}

	cases := []struct {
		name   string
		body   any
		err    error
		status int
		code   string
	}{
		{"missing fields", gin.H{"email": "x@y.z"}, nil, http.StatusBadRequest, ErrCodeBadRequest},
		{"weak password", RegisterRequest{Email: "a@b.co", Password: "short"}, services.ErrWeakPassword, http.StatusBadRequest, ErrCodeBadRequest},
		{"bad role", RegisterRequest{Email: "a@b.co", Password: "longenough", Role: "admin"}, services.ErrInvalidRole, http.StatusBadRequest, ErrCodeBadRequest},
		{"taken", RegisterRequest{Email: "a@b.co", Password: "longenough"}, services.ErrEmailTaken, http.StatusConflict, ErrCodeEmailTaken},
		{"db down", RegisterRequest{Email: "a@b.co", Password: "longenough"}, errors.New("db down"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, newAuthRouter(&stubAuthSvc{err: tc.err}, ""), http.MethodPost, "/auth/register", tc.body, nil)
			if w.Code != tc.status || decode[ErrorResponse](t, w).Code != tc.code {
				t.Fatalf("got %d %s; want %d %s", w.Code, w.Body.String(), tc.status, tc.code)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	u := &domain.User{ID: "u1", Email: "meera@example.com"}
	w := doJSON(t, newAuthRouter(&stubAuthSvc{user: u, tok: "jwt"}, ""), http.MethodPost, "/auth/login",
		LoginRequest{Email: "meera@example.com", Password: "pw"}, nil)
	if w.Code != http.StatusOK || decode[AuthResponse](t, w).Token != "jwt" {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, newAuthRouter(&stubAuthSvc{err: services.ErrInvalidCredentials}, ""), http.MethodPost, "/auth/login",
		LoginRequest{Email: "meera@example.com", Password: "wrong"}, nil)
	if w.Code != http.StatusUnauthorized || decode[ErrorResponse](t, w).Code != ErrCodeInvalidCredentials {
		t.Fatalf("bad credentials: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, newAuthRouter(&stubAuthSvc{}, ""), http.MethodPost, "/auth/login", gin.H{"email": "x"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing password: %d", w.Code)
	}
}

func TestMe(t *testing.T) {
	u := &domain.User{ID: "u1", Email: "meera@example.com", Role: domain.RoleArtisan}
	w := doJSON(t, newAuthRouter(&stubAuthSvc{user: u}, "u1"), http.MethodGet, "/auth/me", nil, nil)
	if w.Code != http.StatusOK || decode[domain.User](t, w).Role != domain.RoleArtisan {
		t.Fatalf("me: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, newAuthRouter(&stubAuthSvc{err: services.ErrUserNotFound}, "u1"), http.MethodGet, "/auth/me", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("deleted account: want 401, got %d", w.Code)
	}
}
