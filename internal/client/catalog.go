package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Register creates an account. Role may be "" (customer) or "artisan".
func (c *Client) Register(ctx context.Context, email, password, name, role string) (AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/register",
		body:   map[string]string{"email": email, "password": password, "name": name, "role": role},
	}, &out)
	return out, err
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"email": email, "password": password},
	}, &out)
	return out, err
}

// Me returns the account behind the current token.
func (c *Client) Me(ctx context.Context) (User, error) {
	var out User
	err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me"}, &out)
	return out, err
}

// ListProducts fetches one page of the catalog.
func (c *Client) ListProducts(ctx context.Context, pq ProductQuery) (ProductPage, error) {
	q := url.Values{}
	if pq.Page > 0 {
		q.Set("page", strconv.Itoa(pq.Page))
	}
	if pq.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(pq.PageSize))
	}
	if pq.Category != "" {
		q.Set("category", pq.Category)
	}
	if pq.Q != "" {
		q.Set("q", pq.Q)
	}
	var out ProductPage
	err := c.do(ctx, request{method: http.MethodGet, path: "/products", query: q}, &out)
	return out, err
}

// GetProduct fetches a single product.
func (c *Client) GetProduct(ctx context.Context, id string) (Product, error) {
	var out Product
	err := c.do(ctx, request{method: http.MethodGet, path: "/products/" + url.PathEscape(id)}, &out)
	return out, err
}

// CreateProduct lists a product. The caller must be an artisan.
func (c *Client) CreateProduct(ctx context.Context, p NewProduct) (Product, error) {
	var out Product
	err := c.do(ctx, request{method: http.MethodPost, path: "/products", body: p}, &out)
	return out, err
}
