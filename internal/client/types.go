package client

import "time"

// Product mirrors the server's product JSON.
type Product struct {
	ID          string    `json:"id"`
	ArtisanID   string    `json:"artisan_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	Images      []string  `json:"images"`
	Stock       int       `json:"stock"`
	Rating      float64   `json:"rating"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

// Favorite is a user-to-product bookmark with the product snapshot the
// server embeds for display. Treat Product as read-only.
type Favorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	AddedAt   time.Time `json:"added_at"`
	Product   Product   `json:"product"`
}

// Pagination is the metadata attached to list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// FavoritePage is one page of favorites, newest first.
type FavoritePage struct {
	Favorites  []Favorite `json:"favorites"`
	Pagination Pagination `json:"pagination"`
}

// ProductPage is one page of the catalog.
type ProductPage struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// ProductQuery filters ListProducts. Zero values are omitted.
type ProductQuery struct {
	Page     int
	PageSize int
	Category string
	Q        string
}

// NewProduct is the payload of CreateProduct.
type NewProduct struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency,omitempty"`
	Images      []string `json:"images,omitempty"`
	Stock       int      `json:"stock"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// User is an account as the server reports it.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
