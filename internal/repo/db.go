// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver, local/dev) and PostgreSQL (Supabase in production),
// tracing instrumentation, and schema migrations.
package repo

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/shilpkaar/marketplace-api/internal/config"
	"github.com/shilpkaar/marketplace-api/internal/domain"
)

// ErrNotFound is gorm.ErrRecordNotFound under the name services match on.
var ErrNotFound = gorm.ErrRecordNotFound

// Open selects the driver configured in cfg, opens the database, and installs
// the OpenTelemetry GORM plugin so every query produces a span.
func Open(cfg config.Config) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case "postgres":
		db, err = OpenPostgres(cfg.DatabaseURL)
	case "sqlite", "":
		db, err = OpenSQLite(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, err
	}
	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, fmt.Errorf("install gorm tracing: %w", err)
	}
	return db, nil
}

// pool bounds a database/sql connection pool.
type pool struct {
	maxOpen, maxIdle  int
	idleTime, maxLife time.Duration
}

func (p pool) apply(db *gorm.DB) (*sql.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(p.maxOpen)
	sqlDB.SetMaxIdleConns(p.maxIdle)
	if p.idleTime > 0 {
		sqlDB.SetConnMaxIdleTime(p.idleTime)
	}
	sqlDB.SetConnMaxLifetime(p.maxLife)
	return sqlDB, nil
}

var (
	sqlitePool   = pool{maxOpen: 10, maxIdle: 10, idleTime: 5 * time.Minute, maxLife: 30 * time.Minute}
	postgresPool = pool{maxOpen: 25, maxIdle: 5, maxLife: 5 * time.Minute}

	// sqlitePragmas are applied right after open.
	sqlitePragmas = []string{
		"journal_mode=WAL",
		"synchronous=NORMAL",
		"foreign_keys=ON",
		"busy_timeout=5000",
	}
)

// OpenSQLite opens (or creates) the SQLite file at path. The parent
// directory must already exist.
func OpenSQLite(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	for _, p := range sqlitePragmas {
		if err := db.Exec("PRAGMA " + p).Error; err != nil {
			return nil, fmt.Errorf("sqlite pragma %s: %w", p, err)
		}
	}
	if _, err := sqlitePool.apply(db); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenPostgres connects with a DSN or URL; a Supabase connection string
// works as-is. TranslateError surfaces unique violations as
// gorm.ErrDuplicatedKey.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	sqlDB, err := postgresPool.apply(db)
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates every table the API owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Product{},
		&domain.Favorite{},
		&domain.Idempotency{},
	)
}
