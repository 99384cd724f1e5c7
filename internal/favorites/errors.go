package favorites

import (
	"errors"
	"net/http"

	"github.com/shilpkaar/marketplace-api/internal/client"
)

// Error kinds. Match with errors.Is; the underlying *client.APIError (if
// any) is reachable with errors.As.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrAlreadyFavorited = errors.New("already in favorites")
	ErrProductNotFound  = errors.New("product not found")
	ErrNotInFavorites   = errors.New("not in favorites")
	ErrFailed           = errors.New("favorites request failed")
)

// User-facing messages recorded in Err().
const (
	msgNotAuthenticated = "Please log in to manage favorites"
	msgAlreadyFavorited = "Product is already in favorites"
	msgProductNotFound  = "Product not found"
	msgNotInFavorites   = "Product not found in favorites"
	msgAddFailed        = "Failed to add to favorites"
	msgRemoveFailed     = "Failed to remove from favorites"
	msgToggleFailed     = "Failed to toggle favorite"
	msgRefreshFailed    = "Failed to load favorites"
)

// Error is what mutating operations return. Message is the text also
// recorded as the store's error.
type Error struct {
	Op      string
	Message string
	Kind    error
	Cause   error
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes both the kind and the transport cause.
func (e *Error) Unwrap() []error {
	out := []error{e.Kind}
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	return out
}

func opError(op string, cause error, byStatus map[int]kind, fallback string) *Error {
	if k, ok := byStatus[client.StatusOf(cause)]; ok {
		return &Error{Op: op, Message: k.msg, Kind: k.err, Cause: cause}
	}
	return &Error{Op: op, Message: fallback, Kind: ErrFailed, Cause: cause}
}

type kind struct {
	err error
	msg string
}

var (
	addKinds = map[int]kind{
		http.StatusBadRequest: {ErrAlreadyFavorited, msgAlreadyFavorited},
		http.StatusConflict:   {ErrAlreadyFavorited, msgAlreadyFavorited},
		http.StatusNotFound:   {ErrProductNotFound, msgProductNotFound},
	}
	removeKinds = map[int]kind{
		http.StatusNotFound: {ErrNotInFavorites, msgNotInFavorites},
	}
	toggleKinds = map[int]kind{
		http.StatusNotFound: {ErrProductNotFound, msgProductNotFound},
	}
)
