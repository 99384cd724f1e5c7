package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys written by Authenticate.
const (
	CtxKeyUserID = "userID"
	CtxKeyRole   = "role"
)

// Identity is the verified caller behind a bearer token.
type Identity struct {
	UserID string
	Role   string
}

// TokenVerifier validates a raw bearer token and returns the identity it
// carries. Any error means the token must be treated as absent.
type TokenVerifier func(raw string) (Identity, error)

// Authenticate parses "Authorization: Bearer <token>" when present and, if the
// token verifies, stores the caller's user ID and role in the Gin context.
//
// It never rejects a request on its own: routes that need a caller are
// guarded with RequireAuth. Running it globally lets the rate limiter and the
// idempotency validator key on the user instead of the client IP.
func Authenticate(verify TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw != "" && verify != nil {
			if id, err := verify(raw); err == nil && id.UserID != "" {
				c.Set(CtxKeyUserID, id.UserID)
				c.Set(CtxKeyRole, id.Role)
			} else {
				c.Set(ctxKeyAuthFailed, true)
			}
		}
		c.Next()
	}
}

const ctxKeyAuthFailed = "auth.failed"

// RequireAuth aborts with 401 unless Authenticate resolved a caller.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) != "" {
			c.Next()
			return
		}
		msg := "authentication required"
		if c.GetBool(ctxKeyAuthFailed) {
			msg = "invalid or expired token"
		}
		c.Header("WWW-Authenticate", `Bearer realm="api"`)
		abortJSON(c, http.StatusUnauthorized, "unauthorized", msg)
	}
}

// RequireRole aborts with 403 when the authenticated caller does not hold
// role. It must run after RequireAuth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Role(c) != role {
			abortJSON(c, http.StatusForbidden, "forbidden", "requires role "+role)
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user ID, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(CtxKeyUserID)
}

// Role returns the authenticated caller's role, or "".
func Role(c *gin.Context) string {
	return c.GetString(CtxKeyRole)
}

func bearerToken(h string) string {
	const prefix = "bearer "
	h = strings.TrimSpace(h)
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// abortJSON writes the API error envelope and stops the chain.
func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       code,
		"message":    msg,
	})
}
