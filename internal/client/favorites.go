package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListFavorites fetches one page of the caller's favorites.
func (c *Client) ListFavorites(ctx context.Context, page, pageSize int) (FavoritePage, error) {
	var out FavoritePage
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	err := c.do(ctx, request{method: http.MethodGet, path: "/favorites", query: q}, &out)
	return out, err
}

// AddFavorite favorites productID. Each call carries a fresh Idempotency-Key
// so a retried attempt replays the original record instead of failing as a
// duplicate.
func (c *Client) AddFavorite(ctx context.Context, productID string) (Favorite, error) {
	var out Favorite
	h := http.Header{}
	h.Set(headerIdempotencyKey, c.newKey())
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/favorites",
		body:   map[string]string{"product_id": productID},
		header: h,
	}, &out)
	return out, err
}

// RemoveFavorite deletes the caller's favorite for productID.
func (c *Client) RemoveFavorite(ctx context.Context, productID string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/favorites/" + url.PathEscape(productID)}, nil)
}

type favoriteStatus struct {
	IsFavorited bool `json:"is_favorited"`
}

// ToggleFavorite flips membership server-side and reports the new state.
func (c *Client) ToggleFavorite(ctx context.Context, productID string) (bool, error) {
	var out favoriteStatus
	err := c.do(ctx, request{method: http.MethodPost, path: "/favorites/" + url.PathEscape(productID) + "/toggle"}, &out)
	return out.IsFavorited, err
}

// CheckFavorite asks the server whether productID is favorited.
func (c *Client) CheckFavorite(ctx context.Context, productID string) (bool, error) {
	var out favoriteStatus
	err := c.do(ctx, request{method: http.MethodGet, path: "/favorites/" + url.PathEscape(productID) + "/check"}, &out)
	return out.IsFavorited, err
}

// CountFavorites returns how many favorites the caller has.
func (c *Client) CountFavorites(ctx context.Context) (int64, error) {
	var out struct {
		Count int64 `json:"count"`
	}
	err := c.do(ctx, request{method: http.MethodGet, path: "/favorites/count"}, &out)
	return out.Count, err
}
