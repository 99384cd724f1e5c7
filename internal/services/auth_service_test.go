package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/shilpkaar/marketplace-api/internal/config"
	"github.com/shilpkaar/marketplace-api/internal/domain"
)

const testSecret = "0123456789abcdef-test-secret"

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	s := NewAuthService(newServiceDB(t), config.AuthConfig{
		JWTSecret: testSecret,
		JWTTTL:    time.Hour,
		Issuer:    "shilpkaar-test",
	})
	s.BcryptCost = bcrypt.MinCost
	return s
}

func TestAuth_RegisterLoginMe(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	u, tok, err := s.Register(ctx, " Asha@Example.com ", "handloom123", "Asha", "artisan")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "asha@example.com" || u.Role != domain.RoleArtisan || tok == "" {
		t.Fatalf("unexpected register result: %+v tok=%q", u, tok)
	}
	if u.PasswordHash == "handloom123" {
		t.Fatalf("password stored in clear text")
	}

	claims, err := s.ParseToken(tok)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != u.ID || claims.Email != u.Email || claims.Role != domain.RoleArtisan {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	lu, ltok, err := s.Login(ctx, "ASHA@example.com", "handloom123")
	if err != nil || lu.ID != u.ID || ltok == "" {
		t.Fatalf("Login = (%+v, %q, %v)", lu, ltok, err)
	}

	me, err := s.Me(ctx, u.ID)
	if err != nil || me.Email != u.Email {
		t.Fatalf("Me = (%+v, %v)", me, err)
	}
	if _, err := s.Me(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuth_RegisterValidation(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	cases := []struct {
		name, email, pw, role string
		want                  error
	}{
		{"bad email", "not-an-email", "longenough", "", ErrInvalidEmail},
		{"display name email", "Asha <a@b.co>", "longenough", "", ErrInvalidEmail},
		{"short password", "a@b.co", "short", "", ErrWeakPassword},
		{"bad role", "a@b.co", "longenough", "admin", ErrInvalidRole},
	}
	for _, tc := range cases {
		if _, _, err := s.Register(ctx, tc.email, tc.pw, "", tc.role); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	u, _, err := s.Register(ctx, "c@d.co", "longenough", "", "")
	if err != nil || u.Role != domain.RoleCustomer {
		t.Fatalf("default role = %+v, %v", u, err)
	}
	if _, _, err := s.Register(ctx, "C@D.co", "longenough", "", ""); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuth_LoginFailures(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()
	if _, _, err := s.Register(ctx, "e@f.co", "correct-horse", "", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, _, err := s.Login(ctx, "e@f.co", "wrong-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := s.Login(ctx, "nobody@f.co", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuth_ParseToken_Rejections(t *testing.T) {
	s := newAuthService(t)
	u := &domain.User{ID: "u1", Email: "x@y.co", Role: domain.RoleCustomer}

	// Expired
	past := time.Now().Add(-2 * time.Hour)
	s.Now = func() time.Time { return past }
	expired, _ := s.IssueToken(u)
	s.Now = nil
	if _, err := s.ParseToken(expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired: expected ErrInvalidToken, got %v", err)
	}

	// Wrong secret
	other := newAuthService(t)
	other.Secret = []byte("another-secret-of-enough-length")
	foreign, _ := other.IssueToken(u)
	if _, err := s.ParseToken(foreign); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret: expected ErrInvalidToken, got %v", err)
	}

	// Wrong issuer
	other.Secret = s.Secret
	other.Issuer = "someone-else"
	wrongIss, _ := other.IssueToken(u)
	if _, err := s.ParseToken(wrongIss); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong issuer: expected ErrInvalidToken, got %v", err)
	}

	// alg=none
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := s.ParseToken(none); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("alg none: expected ErrInvalidToken, got %v", err)
	}

	if _, err := s.ParseToken("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage: expected ErrInvalidToken, got %v", err)
	}
}
