package api

import (
	"context"
	"fmt"
	"net/http"
)

// Admin endpoints all ride under bearer auth; callers gate on role before
// issuing them.

// ListAdminTournaments fetches tournaments owned by the authenticated admin.
func (c *Client) ListAdminTournaments(ctx context.Context) ([]Tournament, error) {
	var resp []Tournament
	if err := c.doJSON(ctx, http.MethodGet, "/admin/tournaments", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateTournament posts a new tournament; a poster file, when present,
// switches the request onto the multipart path.
func (c *Client) CreateTournament(ctx context.Context, fields map[string]string, poster *FileUpload) (*Tournament, error) {
	var resp Tournament
	if err := c.doMultipart(ctx, http.MethodPost, "/admin/tournaments", fields, poster, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateTournament updates an existing tournament, optionally replacing
// its poster.
func (c *Client) UpdateTournament(ctx context.Context, id string, fields map[string]string, poster *FileUpload) (*Tournament, error) {
	var resp Tournament
	if err := c.doMultipart(ctx, http.MethodPut, "/admin/tournaments/"+id, fields, poster, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateTournamentSettings toggles entry acceptance and/or replaces the
// bracket payload. This is a JSON endpoint, unlike the form-based
// tournament update, and it is the only way to open or close entries.
func (c *Client) UpdateTournamentSettings(ctx context.Context, id string, req UpdateTournamentSettingsRequest) (*Tournament, error) {
	var resp tournamentSettingsResponse
	endpoint := fmt.Sprintf("/admin/tournaments/%s/settings", id)
	if err := c.doJSON(ctx, http.MethodPut, endpoint, req, &resp, true); err != nil {
		return nil, err
	}
	return &resp.Tournament, nil
}

// DeleteTournament removes a tournament.
func (c *Client) DeleteTournament(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/admin/tournaments/"+id, nil, nil, true)
}

// ListRegistrations fetches participant registrations for a tournament.
func (c *Client) ListRegistrations(ctx context.Context, tournamentID string) ([]Registration, error) {
	var resp []Registration
	endpoint := fmt.Sprintf("/admin/tournaments/%s/registrations", tournamentID)
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &resp, true); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateTournamentEvent adds an event/category to a tournament.
func (c *Client) CreateTournamentEvent(ctx context.Context, tournamentID string, req CreateEventRequest) (*TournamentEvent, error) {
	var resp TournamentEvent
	endpoint := fmt.Sprintf("/admin/tournaments/%s/events", tournamentID)
	if err := c.doJSON(ctx, http.MethodPost, endpoint, req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateEvent modifies an event/category.
func (c *Client) UpdateEvent(ctx context.Context, eventID string, req CreateEventRequest) (*TournamentEvent, error) {
	var resp TournamentEvent
	if err := c.doJSON(ctx, http.MethodPut, "/admin/events/"+eventID, req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteEvent removes an event/category.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/admin/events/"+eventID, nil, nil, true)
}

// ListAdminProducts fetches products owned by the authenticated admin.
func (c *Client) ListAdminProducts(ctx context.Context) ([]Product, error) {
	var resp []Product
	if err := c.doJSON(ctx, http.MethodGet, "/admin/products", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateProduct posts a new product with an optional image attachment.
func (c *Client) CreateProduct(ctx context.Context, fields map[string]string, image *FileUpload) (*Product, error) {
	var resp Product
	if err := c.doMultipart(ctx, http.MethodPost, "/admin/products", fields, image, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateProduct updates a product, optionally replacing its image.
func (c *Client) UpdateProduct(ctx context.Context, id string, fields map[string]string, image *FileUpload) (*Product, error) {
	var resp Product
	if err := c.doMultipart(ctx, http.MethodPut, "/admin/products/"+id, fields, image, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/admin/products/"+id, nil, nil, true)
}

// GetAdminStats fetches the dashboard aggregates.
func (c *Client) GetAdminStats(ctx context.Context) (*AdminStats, error) {
	var resp AdminStats
	if err := c.doJSON(ctx, http.MethodGet, "/admin/stats", nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateBracket creates a bracket for a tournament.
func (c *Client) CreateBracket(ctx context.Context, req CreateBracketRequest) (*Bracket, error) {
	var resp Bracket
	if err := c.doJSON(ctx, http.MethodPost, "/admin/brackets", req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetBracket fetches the bracket attached to a tournament.
func (c *Client) GetBracket(ctx context.Context, tournamentID string) (*Bracket, error) {
	var resp Bracket
	if err := c.doJSON(ctx, http.MethodGet, "/admin/brackets/"+tournamentID, nil, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RecordMatch appends a match result to a bracket.
func (c *Client) RecordMatch(ctx context.Context, bracketID string, req RecordMatchRequest) error {
	endpoint := fmt.Sprintf("/admin/brackets/%s/match", bracketID)
	var resp messageResponse
	return c.doJSON(ctx, http.MethodPut, endpoint, req, &resp, true)
}
