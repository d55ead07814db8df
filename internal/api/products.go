package api

import (
	"context"
	"net/http"
)

// ListProducts fetches the public product listing.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var resp []Product
	if err := c.doJSON(ctx, http.MethodGet, "/products", nil, &resp, false); err != nil {
		return nil, err
	}
	return resp, nil
}
