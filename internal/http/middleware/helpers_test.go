package middleware

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// fakeVerifier accepts "tok-<user>" and "art-<user>" tokens.
func fakeVerifier(raw string) (Identity, error) {
	switch {
	case len(raw) > 4 && raw[:4] == "tok-":
		return Identity{UserID: raw[4:], Role: "customer"}, nil
	case len(raw) > 4 && raw[:4] == "art-":
		return Identity{UserID: raw[4:], Role: "artisan"}, nil
	}
	return Identity{}, errors.New("bad token")
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body
}

func init() { gin.SetMode(gin.TestMode) }
