// Package services defines the business logic for accounts, the product
// catalog, and favorites. This file centralizes service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

// Favorites errors.
var (
	// ErrInvalidProductID is returned when a request names no product.
	ErrInvalidProductID = errors.New("product id is required")

	// ErrProductNotFound indicates that the referenced product does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrAlreadyFavorited is returned when the (user, product) pair already
	// has a favorite. Duplicate adds are errors, never silent successes.
	ErrAlreadyFavorited = errors.New("product is already in favorites")

	// ErrNotInFavorites is returned when removing a product the user has not
	// favorited.
	ErrNotInFavorites = errors.New("product not found in favorites")
)

// Catalog errors.
var (
	// ErrInvalidProduct is returned when a new product fails validation.
	ErrInvalidProduct = errors.New("invalid product")

	// ErrForbidden is returned when the caller's role does not permit the
	// operation (e.g. a customer listing a product).
	ErrForbidden = errors.New("forbidden")
)

// Account errors.
var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidRole        = errors.New("role must be customer or artisan")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
)
