package tournaments

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/skylight-sports/storefront/internal/api"
	"github.com/skylight-sports/storefront/internal/handoff"
	"github.com/skylight-sports/storefront/internal/validate"
	pkgerrors "github.com/skylight-sports/storefront/pkg/errors"
	"github.com/skylight-sports/storefront/pkg/logger"
)

// JoinForm is the participant registration input. Name, email, and phone
// are required; academy and event/category are optional.
type JoinForm struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required"`
	AcademyName     string `json:"academy_name"`
	SelectedEventID string `json:"selected_event_id"`
}

// Result reports the registration and the payment handoff amount.
type Result struct {
	RegistrationID string
	TournamentName string
	Amount         decimal.Decimal
}

type tournamentAPI interface {
	GetTournament(ctx context.Context, id string) (*api.Tournament, error)
	ListTournamentEvents(ctx context.Context, tournamentID string) ([]api.TournamentEvent, error)
	JoinTournament(ctx context.Context, tournamentID string, req api.JoinTournamentRequest) (*api.JoinTournamentResponse, error)
	ListTournaments(ctx context.Context) ([]api.Tournament, error)
}

// Service is the tournament-entry counterpart to checkout: fetch the
// tournament and its events, submit the registration, then hand the
// entry fee off to the payment flow.
type Service struct {
	api  tournamentAPI
	box  *handoff.Box
	logg *logger.Logger
}

func NewService(client tournamentAPI, box *handoff.Box, logg *logger.Logger) (*Service, error) {
	if client == nil {
		return nil, errors.New("tournament api is required")
	}
	if box == nil {
		return nil, errors.New("handoff box is required")
	}
	return &Service{api: client, box: box, logg: logg}, nil
}

// List returns the public tournament listing.
func (s *Service) List(ctx context.Context) ([]api.Tournament, error) {
	return s.api.ListTournaments(ctx)
}

// Detail returns a tournament together with its event/category sub-list.
func (s *Service) Detail(ctx context.Context, id string) (*api.Tournament, []api.TournamentEvent, error) {
	tournament, err := s.api.GetTournament(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	events, err := s.api.ListTournamentEvents(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return tournament, events, nil
}

// Join validates the form, submits the registration, and writes the
// tournament payment handoff. A full event can still be submitted here;
// rejecting it is the server's call.
func (s *Service) Join(ctx context.Context, tournamentID string, form JoinForm) (*Result, error) {
	if err := validate.Struct(form); err != nil {
		return nil, err
	}

	tournament, err := s.api.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if !tournament.AcceptEntries {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "tournament is not accepting entries")
	}

	registration, err := s.api.JoinTournament(ctx, tournamentID, api.JoinTournamentRequest{
		Name:            form.Name,
		Email:           form.Email,
		Phone:           form.Phone,
		AcademyName:     form.AcademyName,
		SelectedEventID: form.SelectedEventID,
	})
	if err != nil {
		return nil, err
	}

	amount := decimal.NewFromFloat(tournament.Price)
	if err := s.box.PutPending(ctx, handoff.Pending{
		Amount:         amount,
		UserEmail:      form.Email,
		ReferenceType:  handoff.ReferenceTournament,
		ReferenceID:    tournamentID,
		TournamentName: tournament.Name,
	}); err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"tournament_id":   tournamentID,
			"registration_id": registration.RegistrationID,
		}), "registration created, proceeding to payment")
	}
	return &Result{
		RegistrationID: registration.RegistrationID,
		TournamentName: tournament.Name,
		Amount:         amount,
	}, nil
}
