package admin

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/skylight-sports/storefront/internal/api"
	"github.com/skylight-sports/storefront/internal/validate"
	pkgerrors "github.com/skylight-sports/storefront/pkg/errors"
)

// ProductForm is the validated input for product create/update. The
// typed form replaces the original's untyped form-to-request marshaling;
// a bad form never produces a partial request.
type ProductForm struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Category    string  `json:"category"`
}

func (f ProductForm) fields() map[string]string {
	return map[string]string{
		"name":        f.Name,
		"description": f.Description,
		"price":       strconv.FormatFloat(f.Price, 'f', -1, 64),
		"stock":       strconv.Itoa(f.Stock),
		"category":    f.Category,
	}
}

// TournamentForm is the validated input for tournament create/update.
type TournamentForm struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Venue       string  `json:"venue" validate:"required"`
	GmapsLink   string  `json:"gmaps_link"`
	StartDate   string  `json:"start_date" validate:"required"`
	StartTime   string  `json:"start_time" validate:"required"`
	EndDate     string  `json:"end_date" validate:"required"`
	EndTime     string  `json:"end_time" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Status      string  `json:"status"`
	Capacity    int     `json:"capacity" validate:"gt=0"`
}

func (f TournamentForm) fields() map[string]string {
	m := map[string]string{
		"name":        f.Name,
		"description": f.Description,
		"venue":       f.Venue,
		"gmaps_link":  f.GmapsLink,
		"start_date":  f.StartDate,
		"start_time":  f.StartTime,
		"end_date":    f.EndDate,
		"end_time":    f.EndTime,
		"price":       strconv.FormatFloat(f.Price, 'f', -1, 64),
		"capacity":    strconv.Itoa(f.Capacity),
	}
	// An absent status keeps the server's current value; an empty form
	// field would blank it instead.
	if f.Status != "" {
		m["status"] = f.Status
	}
	return m
}

// EventForm is the validated input for a tournament event/category.
type EventForm struct {
	Name            string  `json:"name" validate:"required"`
	Category        string  `json:"category"`
	EntryFee        float64 `json:"entry_fee" validate:"gte=0"`
	MaxParticipants int     `json:"max_participants" validate:"gt=0"`
}

type gate interface {
	RequireAdmin(ctx context.Context) error
}

// Service wraps the admin REST surface behind the role gate and form
// validation. Every call refuses to go out without a stored admin
// session.
type Service struct {
	api  *api.Client
	gate gate
}

func NewService(client *api.Client, sessionGate gate) (*Service, error) {
	if client == nil {
		return nil, errors.New("api client is required")
	}
	if sessionGate == nil {
		return nil, errors.New("session gate is required")
	}
	return &Service{api: client, gate: sessionGate}, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]api.Product, error) {
	if err := s.gate.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.api.ListAdminProducts(ctx)
}

func (s *Service) CreateProduct(ctx context.Context, form ProductForm, image *api.FileUpload) (*api.Product, error) {
	if err := s.gate.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := validate.Struct(form); err != nil {
		return nil, err
	}
	return s.api.CreateProduct(ctx, form.fields(), image)
}

func (s *Service) UpdateProduct(ctx context.Context, id string, form ProductForm, image *api.FileUpload) (*api.Product, error) {
	if err := s.gate.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := validate.Struct(form); err != nil {
		return nil, err
	}
	return s.api.UpdateProduct(ctx, id, form.fields(), image)
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.gate.RequireAdmin(ctx); err != nil {
		return err
	}
	return s.api.DeleteProduct(ctx, id)
}

func (s *Service) ListTournaments(ctx context.Context) ([]api.Tournament, error) {
	if err := s.gate.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.api.ListAdminTournaments(ctx)
}

func (s *Service) CreateTournament(ctx context.Context, form TournamentForm, poster *api.FileUpload) (*api.Tournament, error) {
	if err := s.gate.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := validate.Struct(form); err != nil {
		return nil, err
	}
	return s.api.CreateTournament(ctx, form.fields(), poster)
}

func (s *Service) UpdateTournament(ctx context.Context, id string, form TournamentForm, poster *api.FileUpload) (*api.Tournament, error) {
	if err := s.gate.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := validate.Struct(form); err != nil {
		return nil, err
	}
	return s.api.UpdateTournament(ctx, id, form.fields(), poster)
}

// UpdateTournamentSettings opens or closes entries and/or pushes a new
// bracket payload. At least one of the two must be present.
func (s *Service) UpdateTournamentSettings(ctx context.Context, id string, acceptEntries *bool, bracketData json.RawMessage) (*api.Tournament, error) {
	if err := s.gate.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if acceptEntries == nil && len(bracketData) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no settings to update")
	}
	return s.api.UpdateTournamentSettings(ctx, id, api.UpdateTournamentSettingsRequest{
		AcceptEntries: acceptEntries,
		BracketData:   bracketData,
	})
}

func (s *Service) DeleteTournament(ctx context.Context, id string) error {
	if err := s.gate.RequireAdmin(ctx); err != nil {
		return err
	}
	return s.api.DeleteTournament(ctx, id)
}

func (s *Service) Registrations(ctx context.Context, tournamentID string) ([]api.Registration, error) {
	if err := s.gate.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.api.ListRegistrations(ctx, tournamentID)
}

func (s *Service) AddEvent(ctx context.Context, tournamentID string, form EventForm) (*api.TournamentEvent, error) {
	if err := s.gate.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := validate.Struct(form); err != nil {
		return nil, err
	}
	return s.api.CreateTournamentEvent(ctx, tournamentID, api.CreateEventRequest{
		Name:            form.Name,
		Category:        form.Category,
		EntryFee:        form.EntryFee,
		MaxParticipants: form.MaxParticipants,
	})
}

func (s *Service) UpdateEvent(ctx context.Context, eventID string, form EventForm) (*api.TournamentEvent, error) {
	if err := s.gate.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := validate.Struct(form); err != nil {
		return nil, err
	}
	return s.api.UpdateEvent(ctx, eventID, api.CreateEventRequest{
		Name:            form.Name,
		Category:        form.Category,
		EntryFee:        form.EntryFee,
		MaxParticipants: form.MaxParticipants,
	})
}

func (s *Service) DeleteEvent(ctx context.Context, eventID string) error {
	if err := s.gate.RequireAdmin(ctx); err != nil {
		return err
	}
	return s.api.DeleteEvent(ctx, eventID)
}

func (s *Service) Stats(ctx context.Context) (*api.AdminStats, error) {
	if err := s.gate.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.api.GetAdminStats(ctx)
}

func (s *Service) CreateBracket(ctx context.Context, tournamentID string, bracketData json.RawMessage) (*api.Bracket, error) {
	if err := s.gate.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.api.CreateBracket(ctx, api.CreateBracketRequest{
		TournamentID: tournamentID,
		BracketData:  bracketData,
	})
}

func (s *Service) Bracket(ctx context.Context, tournamentID string) (*api.Bracket, error) {
	if err := s.gate.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.api.GetBracket(ctx, tournamentID)
}

func (s *Service) RecordMatch(ctx context.Context, bracketID string, match json.RawMessage) error {
	if err := s.gate.RequireAdmin(ctx); err != nil {
		return err
	}
	return s.api.RecordMatch(ctx, bracketID, api.RecordMatchRequest{Match: match})
}
