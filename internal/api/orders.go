package api

import (
	"context"
	"net/http"
)

// CreateOrder submits the checkout payload. Anonymous endpoint.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	var resp CreateOrderResponse
	if err := c.doJSON(ctx, http.MethodPost, "/orders", req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetOrder fetches an order by id.
func (c *Client) GetOrder(ctx context.Context, id string) (*Order, error) {
	var resp Order
	if err := c.doJSON(ctx, http.MethodGet, "/orders/"+id, nil, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}
