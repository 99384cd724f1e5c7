// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server settings
// (timeouts, logging, persistence, auth, caching, rate limiting, observability)
// and the client settings used by the shilpkaar CLI.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "shilpkaar-api")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// AuthConfig holds JWT signing settings.
type AuthConfig struct {
	JWTSecret string        // JWT_SECRET
	JWTTTL    time.Duration // JWT_TTL
	Issuer    string        // JWT_ISSUER
}

// RedisConfig holds the optional favorites count cache settings.
// An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string        // REDIS_ADDR (e.g. "localhost:6379")
	Password string        // REDIS_PASSWORD
	DB       int           // REDIS_DB
	CountTTL time.Duration // FAVORITES_COUNT_TTL
}

// Config holds all configuration values for the HTTP service.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// Persistence
	DBDriver    string // sqlite|postgres
	DBPath      string // SQLite path
	DatabaseURL string // Postgres DSN (Supabase connection string)
	SeedPath    string // optional JSON catalog seeded at startup

	// Auth
	Auth AuthConfig

	// Favorites count cache
	Redis RedisConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Observability
	OTEL OTELConfig
}

// MustLoad is Load for composition roots that cannot continue without config.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the server configuration from the environment. Unparseable
// values fall back to their defaults; out-of-range values are errors.
func Load() (Config, error) {
	cfg := Config{
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		DBDriver:    strings.ToLower(getenv("DB_DRIVER", "sqlite")),
		DBPath:      getenv("DB_PATH", "shilpkaar.db"),
		DatabaseURL: getenv("DATABASE_URL", ""),
		SeedPath:    getenv("SEED_PATH", ""),

		Auth: AuthConfig{
			JWTSecret: getenv("JWT_SECRET", ""),
			JWTTTL:    getdur("JWT_TTL", 24*time.Hour),
			Issuer:    getenv("JWT_ISSUER", "shilpkaar-api"),
		},
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", ""),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getint("REDIS_DB", 0),
			CountTTL: getdur("FAVORITES_COUNT_TTL", 5*time.Minute),
		},

		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		CORS: CORSConfig{AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", ""))},

		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "shilpkaar-api"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}
	cfg.normalize()
	return cfg, cfg.validate()
}

// devSecret signs tokens in GIN_MODE=debug when JWT_SECRET is unset.
const devSecret = "shilpkaar-dev-secret-change-me"

func (c *Config) normalize() {
	if c.LogLevel == "warning" {
		c.LogLevel = "warn"
	}
	if !oneOf(c.GinMode, "debug", "release", "test") {
		c.GinMode = "release"
	}
	if oneOf(c.DBDriver, "postgresql", "supabase") {
		c.DBDriver = "postgres"
	}
	if c.Auth.JWTSecret == "" && c.GinMode == "debug" {
		c.Auth.JWTSecret = devSecret
	}
}

// rule is one validation check; msg is reported when ok is false.
type rule struct {
	ok  bool
	msg string
}

// validate reports the first failed rule.
func (c Config) validate() error {
	rules := []rule{
		{oneOf(c.LogLevel, "debug", "info", "warn", "error", "fatal", "panic"),
			"LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic"},
		{strings.TrimSpace(c.Port) != "", "PORT must not be empty"},
		{c.ReadTimeout > 0 && c.ReadHeaderTimeout > 0 && c.WriteTimeout > 0 && c.IdleTimeout > 0,
			"timeouts must be positive durations"},
		{c.MaxHeaderBytes > 0, "MAX_HEADER_BYTES must be > 0"},
		{oneOf(c.DBDriver, "sqlite", "postgres"), "DB_DRIVER must be one of: sqlite, postgres"},
		{c.DBDriver != "sqlite" || strings.TrimSpace(c.DBPath) != "", "DB_PATH must not be empty"},
		{c.DBDriver != "postgres" || strings.TrimSpace(c.DatabaseURL) != "",
			"DATABASE_URL must be set when DB_DRIVER=postgres"},
		{len(c.Auth.JWTSecret) >= 16, "JWT_SECRET must be at least 16 bytes"},
		{c.Auth.JWTTTL > 0, "JWT_TTL must be > 0"},
		{c.Redis.DB >= 0, "REDIS_DB must be >= 0"},
		{c.Redis.CountTTL > 0, "FAVORITES_COUNT_TTL must be > 0"},
		{c.RateRPS >= 0, "RATE_RPS must be >= 0"},
		{c.RateBurst >= 1, "RATE_BURST must be >= 1"},
		{c.Security.HSTSMaxAge >= 0, "HSTS_MAX_AGE must be >= 0"},
		{c.IdempotencyTTL > 0, "IDEMPOTENCY_TTL must be > 0"},
		{c.OTEL.SampleRatio >= 0 && c.OTEL.SampleRatio <= 1, "OTEL_TRACES_SAMPLER_ARG must be in [0,1]"},
	}
	for _, r := range rules {
		if !r.ok {
			return errors.New(r.msg)
		}
	}
	return nil
}

func oneOf(v string, set ...string) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}

// lookup returns parse(os.Getenv(k)), or def when k is unset, empty or
// does not parse.
func lookup[T any](k string, def T, parse func(string) (T, error)) T {
	v, ok := os.LookupEnv(k)
	if !ok || v == "" {
		return def
	}
	out, err := parse(v)
	if err != nil {
		return def
	}
	return out
}

func getenv(k, def string) string {
	return lookup(k, def, func(v string) (string, error) { return v, nil })
}

func getint(k string, def int) int { return lookup(k, def, strconv.Atoi) }

func getdur(k string, def time.Duration) time.Duration { return lookup(k, def, time.ParseDuration) }

func getfloat(k string, def float64) float64 {
	return lookup(k, def, func(v string) (float64, error) { return strconv.ParseFloat(v, 64) })
}

var errNotBool = errors.New("not a boolean")

func getbool(k string, def bool) bool {
	return lookup(k, def, func(v string) (bool, error) {
		v = strings.ToLower(strings.TrimSpace(v))
		switch {
		case oneOf(v, "1", "true", "yes", "y", "on"):
			return true, nil
		case oneOf(v, "0", "false", "no", "n", "off"):
			return false, nil
		}
		return false, errNotBool
	})
}

// splitCSV splits on commas, trimming blanks and dropping empty items.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeBasePath returns p with one leading slash and no trailing one.
// Blank means root.
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	return "/" + p
}
