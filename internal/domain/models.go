// Package domain defines the persistence models for users, catalog products,
// and favorites. These types are mapped with GORM and form the core data
// layer of the marketplace API.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Roles a marketplace user may hold.
const (
	RoleCustomer = "customer"
	RoleArtisan  = "artisan"
)

// User is a marketplace account. Artisans list products; customers (and
// artisans) can favorite them.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Email: unique, stored lowercased.
//   - PasswordHash: bcrypt hash, never serialized.
//   - Name: display name.
//   - Role: "customer" or "artisan" (enforced by DB constraint).
type User struct {
	ID           string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email"      gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	PasswordHash string    `json:"-"          gorm:"type:varchar(255);not null"`
	Name         string    `json:"name"       gorm:"type:varchar(255);not null;default:''"`
	Role         string    `json:"role"       gorm:"type:varchar(16);not null;default:'customer';check:role IN ('customer','artisan')"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Product is a handcrafted item listed by an artisan. Images and Tags are
// JSON-serialized so the schema stays portable between SQLite and Postgres.
type Product struct {
	ID          string         `json:"id"          gorm:"type:char(36);primaryKey"`
	ArtisanID   string         `json:"artisan_id"  gorm:"type:char(36);not null;index:idx_products_artisan"`
	Name        string         `json:"name"        gorm:"type:varchar(255);not null"`
	Description string         `json:"description" gorm:"type:text;not null;default:''"`
	Price       float64        `json:"price"       gorm:"not null;check:price >= 0"`
	Currency    string         `json:"currency"    gorm:"type:varchar(8);not null;default:'INR'"`
	Images      []string       `json:"images"      gorm:"serializer:json;type:text"`
	Stock       int            `json:"stock"       gorm:"not null;default:0;check:stock >= 0"`
	Rating      float64        `json:"rating"      gorm:"not null;default:0"`
	Category    string         `json:"category"    gorm:"type:varchar(64);not null;default:'';index:idx_products_category"`
	Tags        []string       `json:"tags"        gorm:"serializer:json;type:text"`
	CreatedAt   time.Time      `json:"created_at"  gorm:"index:idx_products_created"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"           gorm:"index"`
}

// TableName returns the database table name for Product.
func (Product) TableName() string { return "products" }

// Favorite bookmarks a product for a user. A user can favorite a given
// product at most once (enforced by unique index).
//
// Fields:
//   - ID: UUID primary key (char(36)), server-assigned.
//   - UserID: owning user; immutable after creation.
//   - ProductID: referenced product; immutable after creation.
//   - AddedAt: creation timestamp, server-assigned (UTC).
//   - Product: denormalized snapshot preloaded for display.
type Favorite struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"    gorm:"type:char(36);not null;uniqueIndex:ux_favorites_user_product,priority:1;index:idx_user_favorites,priority:1"`
	ProductID string    `json:"product_id" gorm:"type:char(36);not null;uniqueIndex:ux_favorites_user_product,priority:2;index"`
	AddedAt   time.Time `json:"added_at"   gorm:"not null;index:idx_user_favorites,priority:2"`

	// Product is the favorited item. Favorites are cascade-deleted when the
	// product row is removed.
	Product Product `json:"product" gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Favorite.
func (Favorite) TableName() string { return "favorites" }
