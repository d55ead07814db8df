package tournaments

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/skylight-sports/storefront/internal/api"
	"github.com/skylight-sports/storefront/internal/handoff"
	pkgerrors "github.com/skylight-sports/storefront/pkg/errors"
)

type fakeSessionStore struct {
	docs map[string]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{docs: map[string]string{}}
}

func (f *fakeSessionStore) GetSessionDoc(_ context.Context, sessionID, name string, dest any) (bool, error) {
	raw, ok := f.docs[sessionID+":"+name]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal([]byte(raw), dest)
}

func (f *fakeSessionStore) PutSessionDoc(_ context.Context, sessionID, name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.docs[sessionID+":"+name] = string(raw)
	return nil
}

func (f *fakeSessionStore) DelSessionDoc(_ context.Context, sessionID string, names ...string) error {
	for _, name := range names {
		delete(f.docs, sessionID+":"+name)
	}
	return nil
}

type stubTournamentAPI struct {
	tournament *api.Tournament
	events     []api.TournamentEvent
	joinResp   *api.JoinTournamentResponse
	joinErr    error
	joinCalls  int
	lastJoin   api.JoinTournamentRequest
}

func (s *stubTournamentAPI) GetTournament(_ context.Context, _ string) (*api.Tournament, error) {
	return s.tournament, nil
}

func (s *stubTournamentAPI) ListTournamentEvents(_ context.Context, _ string) ([]api.TournamentEvent, error) {
	return s.events, nil
}

func (s *stubTournamentAPI) JoinTournament(_ context.Context, _ string, req api.JoinTournamentRequest) (*api.JoinTournamentResponse, error) {
	s.joinCalls++
	s.lastJoin = req
	if s.joinErr != nil {
		return nil, s.joinErr
	}
	return s.joinResp, nil
}

func (s *stubTournamentAPI) ListTournaments(_ context.Context) ([]api.Tournament, error) {
	if s.tournament == nil {
		return nil, nil
	}
	return []api.Tournament{*s.tournament}, nil
}

func validJoin() JoinForm {
	return JoinForm{Name: "Dana", Email: "dana@example.com", Phone: "555-0100"}
}

func newFixture(t *testing.T, stub *stubTournamentAPI) (*Service, *handoff.Box) {
	t.Helper()
	box, err := handoff.NewBox(newFakeSessionStore(), "sid")
	if err != nil {
		t.Fatalf("new box: %v", err)
	}
	svc, err := NewService(stub, box, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, box
}

func TestJoinValidatesFormBeforeNetwork(t *testing.T) {
	t.Parallel()

	stub := &stubTournamentAPI{}
	svc, _ := newFixture(t, stub)

	_, err := svc.Join(context.Background(), "t1", JoinForm{Name: "Dana"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if stub.joinCalls != 0 {
		t.Fatal("invalid form must not reach the backend")
	}
}

func TestJoinRejectsClosedTournament(t *testing.T) {
	t.Parallel()

	stub := &stubTournamentAPI{tournament: &api.Tournament{ID: "t1", Name: "Open", AcceptEntries: false}}
	svc, _ := newFixture(t, stub)

	_, err := svc.Join(context.Background(), "t1", validJoin())
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if stub.joinCalls != 0 {
		t.Fatal("closed tournament must not receive a registration")
	}
}

func TestJoinRegistersAndHandsOff(t *testing.T) {
	t.Parallel()

	stub := &stubTournamentAPI{
		tournament: &api.Tournament{ID: "t1", Name: "Spring Open", Price: 75, AcceptEntries: true},
		joinResp:   &api.JoinTournamentResponse{RegistrationID: "reg_1"},
	}
	svc, box := newFixture(t, stub)
	ctx := context.Background()

	form := validJoin()
	form.AcademyName = "Skylight"
	form.SelectedEventID = "ev_1"

	result, err := svc.Join(ctx, "t1", form)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if result.RegistrationID != "reg_1" || result.TournamentName != "Spring Open" {
		t.Fatalf("unexpected result %+v", result)
	}
	if !result.Amount.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("unexpected amount %s", result.Amount)
	}
	if stub.lastJoin.AcademyName != "Skylight" || stub.lastJoin.SelectedEventID != "ev_1" {
		t.Fatalf("unexpected join payload %+v", stub.lastJoin)
	}

	pending, err := box.PeekPending(ctx)
	if err != nil || pending == nil {
		t.Fatalf("peek pending: %+v err=%v", pending, err)
	}
	if pending.ReferenceType != handoff.ReferenceTournament || pending.ReferenceID != "t1" {
		t.Fatalf("unexpected handoff %+v", pending)
	}
	if pending.TournamentName != "Spring Open" || !pending.Amount.Equal(result.Amount) {
		t.Fatalf("unexpected handoff %+v", pending)
	}
}

func TestJoinBackendFailureWritesNoHandoff(t *testing.T) {
	t.Parallel()

	stub := &stubTournamentAPI{
		tournament: &api.Tournament{ID: "t1", Name: "Open", Price: 75, AcceptEntries: true},
		joinErr:    pkgerrors.New(pkgerrors.CodeConflict, "event is full"),
	}
	svc, box := newFixture(t, stub)

	_, err := svc.Join(context.Background(), "t1", validJoin())
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	pending, err := box.PeekPending(context.Background())
	if err != nil || pending != nil {
		t.Fatalf("no handoff should exist, got %+v err=%v", pending, err)
	}
}

func TestDetailReturnsEvents(t *testing.T) {
	t.Parallel()

	stub := &stubTournamentAPI{
		tournament: &api.Tournament{ID: "t1", Name: "Open", AcceptEntries: true},
		events: []api.TournamentEvent{
			{ID: "ev_1", Name: "Adult Gi"},
			{ID: "ev_2", Name: "Kids NoGi"},
		},
	}
	svc, _ := newFixture(t, stub)

	tournament, events, err := svc.Detail(context.Background(), "t1")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if tournament.ID != "t1" || len(events) != 2 {
		t.Fatalf("unexpected detail %+v %+v", tournament, events)
	}
}
