// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// SecurityHeaders hardens JSON responses. There is no CSP; the API serves no
// HTML apart from the optional Swagger UI.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultHSTSMaxAge = 180 * 24 * time.Hour

// SecurityOptions selects the optional headers.
type SecurityOptions struct {
	// EnableHSTS sends Strict-Transport-Security on HTTPS requests only
	// (TLS or X-Forwarded-Proto: https). Leave off unless TLS is end-to-end.
	EnableHSTS bool
	HSTSMaxAge time.Duration // default 180 days

	// NoStore forbids caching of every response.
	NoStore bool

	// PrivateWhenAuthenticated makes responses to signed-in callers
	// "private, no-cache", so per-user favorites stay out of shared caches
	// but can still be revalidated by ETag. NoStore wins over it.
	PrivateWhenAuthenticated bool

	// EnablePolicy adds Permissions-Policy and
	// X-Permitted-Cross-Domain-Policies.
	EnablePolicy bool
}

type headerPair struct{ name, value string }

var (
	baselineHeaders = []headerPair{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"Referrer-Policy", "no-referrer"},
	}
	policyHeaders = []headerPair{
		{"Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()"},
		{"X-Permitted-Cross-Domain-Policies", "none"},
	}
	noStoreHeaders = []headerPair{
		{"Cache-Control", "no-store"},
		{"Pragma", "no-cache"},
		{"Expires", "0"},
	}
	privateHeaders = []headerPair{
		{"Cache-Control", "private, no-cache"},
		{"Vary", "Authorization"},
	}
)

// SecurityHeaders sets the headers selected by opt before the handler runs.
// It must run after Authenticate for PrivateWhenAuthenticated to see the
// caller, and after RequestID so the id can be exposed to browsers.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	fixed := append([]headerPair(nil), baselineHeaders...)
	if opt.EnablePolicy {
		fixed = append(fixed, policyHeaders...)
	}
	if opt.NoStore {
		fixed = append(fixed, noStoreHeaders...)
	}

	maxAge := opt.HSTSMaxAge
	if maxAge <= 0 {
		maxAge = defaultHSTSMaxAge
	}
	hsts := "max-age=" + strconv.Itoa(int(maxAge.Seconds())) + "; includeSubDomains; preload"

	return func(c *gin.Context) {
		h := c.Writer.Header()
		setAll(h, fixed)
		if !opt.NoStore && opt.PrivateWhenAuthenticated && UserID(c) != "" {
			setAll(h, privateHeaders)
		}
		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}
		if h.Get(requestIDHeader) != "" {
			exposeHeader(h, requestIDHeader)
		}
		c.Next()
	}
}

func setAll(h http.Header, pairs []headerPair) {
	for _, p := range pairs {
		h.Set(p.name, p.value)
	}
}

// exposeHeader adds name to Access-Control-Expose-Headers unless listed.
func exposeHeader(h http.Header, name string) {
	const key = "Access-Control-Expose-Headers"
	cur := h.Get(key)
	switch {
	case cur == "":
		h.Set(key, name)
	case !strings.Contains(strings.ToLower(cur), strings.ToLower(name)):
		h.Set(key, cur+", "+name)
	}
}

func isHTTPS(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
