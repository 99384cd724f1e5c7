// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file loads a JSON catalog into an empty or partially
// populated database.
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shilpkaar/marketplace-api/internal/domain"
)

// SeedUser is a user entry in a seed file. Unlike domain.User, the password
// hash is read from JSON.
type SeedUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	PasswordHash string `json:"password_hash"`
}

// SeedFile is the on-disk catalog format.
//
//	{"users": [...], "products": [...]}
type SeedFile struct {
	Users    []SeedUser       `json:"users"`
	Products []domain.Product `json:"products"`
}

// SeedResult reports how many rows a seed run inserted. Existing rows (same
// id) are left untouched and not counted.
type SeedResult struct {
	Users    int64
	Products int64
}

// SeedFromPath opens path and applies it with Seed.
func SeedFromPath(ctx context.Context, db *gorm.DB, path string) (SeedResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return SeedResult{}, err
	}
	defer f.Close()
	return Seed(ctx, db, f)
}

// Seed decodes a SeedFile from r and inserts its users and products in one
// transaction. Rows whose primary key already exists are skipped, so seeding
// is safe to repeat on every start.
func Seed(ctx context.Context, db *gorm.DB, r io.Reader) (SeedResult, error) {
	var sf SeedFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sf); err != nil {
		return SeedResult{}, fmt.Errorf("decode seed: %w", err)
	}

	var res SeedResult
	now := time.Now().UTC()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, su := range sf.Users {
			if su.ID == "" || su.Email == "" {
				return fmt.Errorf("seed user %d: id and email are required", i)
			}
			role := su.Role
			if role == "" {
				role = domain.RoleArtisan
			}
			u := domain.User{
				ID:           su.ID,
				Email:        strings.ToLower(strings.TrimSpace(su.Email)),
				PasswordHash: su.PasswordHash,
				Name:         su.Name,
				Role:         role,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			out := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&u)
			if out.Error != nil {
				return fmt.Errorf("seed user %s: %w", su.ID, out.Error)
			}
			res.Users += out.RowsAffected
		}
		for i := range sf.Products {
			p := sf.Products[i]
			if p.ID == "" || p.Name == "" {
				return fmt.Errorf("seed product %d: id and name are required", i)
			}
			if p.Currency == "" {
				p.Currency = "INR"
			}
			if p.CreatedAt.IsZero() {
				p.CreatedAt = now
			}
			p.UpdatedAt = now
			out := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&p)
			if out.Error != nil {
				return fmt.Errorf("seed product %s: %w", p.ID, out.Error)
			}
			res.Products += out.RowsAffected
		}
		return nil
	})
	return res, err
}
