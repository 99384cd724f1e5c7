package config

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// MaxFavoritesPage is the largest page the favorites resource serves. The
// client store refreshes exactly one page of this size.
const MaxFavoritesPage = 100

// ClientConfig holds settings for the shilpkaar CLI and any other consumer of
// the favorites REST client.
type ClientConfig struct {
	APIURL   string        // SHILPKAAR_API_URL, including the API base path
	Token    string        // SHILPKAAR_TOKEN, a bearer token from /auth/login
	Timeout  time.Duration // SHILPKAAR_TIMEOUT, applied per request
	PageSize int           // SHILPKAAR_PAGE_SIZE, capped at MaxFavoritesPage
	LogLevel string        // LOG_LEVEL
}

// LoadClient reads client configuration from the environment and validates it.
func LoadClient() (ClientConfig, error) {
	cfg := ClientConfig{
		APIURL:   strings.TrimRight(getenv("SHILPKAAR_API_URL", "http://localhost:8080/api/v1"), "/"),
		Token:    strings.TrimSpace(getenv("SHILPKAAR_TOKEN", "")),
		Timeout:  getdur("SHILPKAAR_TIMEOUT", 10*time.Second),
		PageSize: getint("SHILPKAAR_PAGE_SIZE", MaxFavoritesPage),
		LogLevel: strings.ToLower(getenv("LOG_LEVEL", "warn")),
	}

	if cfg.PageSize > MaxFavoritesPage {
		cfg.PageSize = MaxFavoritesPage
	}
	if cfg.PageSize < 1 {
		return cfg, errors.New("SHILPKAAR_PAGE_SIZE must be >= 1")
	}
	if cfg.Timeout <= 0 {
		return cfg, errors.New("SHILPKAAR_TIMEOUT must be > 0")
	}
	u, err := url.Parse(cfg.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return cfg, errors.New("SHILPKAAR_API_URL must be an absolute URL")
	}
	return cfg, nil
}
