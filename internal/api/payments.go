package api

import (
	"context"
	"net/http"
)

// InitiatePayment creates a pending payment record keyed by
// amount/email/reference and returns the transaction id plus the
// verification token the later verify call must echo back.
func (c *Client) InitiatePayment(ctx context.Context, req InitiatePaymentRequest) (*InitiatePaymentResponse, error) {
	var resp InitiatePaymentResponse
	if err := c.doJSON(ctx, http.MethodPost, "/payments/initiate", req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyPayment completes a payment with the full verification payload.
// The backend cross-checks transaction id and verification token against
// the payment record before marking it completed.
func (c *Client) VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (*VerifyPaymentResponse, error) {
	var resp VerifyPaymentResponse
	if err := c.doJSON(ctx, http.MethodPost, "/payments/verify", req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPayment fetches a payment record by id.
func (c *Client) GetPayment(ctx context.Context, id string) (*Payment, error) {
	var resp Payment
	if err := c.doJSON(ctx, http.MethodGet, "/payments/"+id, nil, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}
