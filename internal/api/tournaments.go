package api

import (
	"context"
	"fmt"
	"net/http"
)

// ListTournaments fetches the public tournament listing.
func (c *Client) ListTournaments(ctx context.Context) ([]Tournament, error) {
	var resp []Tournament
	if err := c.doJSON(ctx, http.MethodGet, "/tournaments", nil, &resp, false); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetTournament fetches a single tournament record.
func (c *Client) GetTournament(ctx context.Context, id string) (*Tournament, error) {
	var resp Tournament
	if err := c.doJSON(ctx, http.MethodGet, "/tournaments/"+id, nil, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListTournamentEvents fetches the event/category sub-list of a tournament.
func (c *Client) ListTournamentEvents(ctx context.Context, tournamentID string) ([]TournamentEvent, error) {
	var resp []TournamentEvent
	endpoint := fmt.Sprintf("/tournaments/%s/events", tournamentID)
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &resp, false); err != nil {
		return nil, err
	}
	return resp, nil
}

// JoinTournament submits a participant registration. Anonymous endpoint.
func (c *Client) JoinTournament(ctx context.Context, tournamentID string, req JoinTournamentRequest) (*JoinTournamentResponse, error) {
	var resp JoinTournamentResponse
	endpoint := fmt.Sprintf("/tournaments/%s/join", tournamentID)
	if err := c.doJSON(ctx, http.MethodPost, endpoint, req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}
