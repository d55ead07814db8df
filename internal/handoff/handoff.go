// Package handoff replaces the original ad hoc session-storage string
// keys with typed, single-use transfer records passed between flow
// stages. Each record is written by one stage and consumed (read then
// deleted) by exactly one later stage.
package handoff

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	pkgerrors "github.com/skylight-sports/storefront/pkg/errors"
)

const (
	pendingDoc = "pendingHandoff"
	infoDoc    = "paymentInfo"
	successDoc = "paymentSuccess"
)

// Reference types discriminate what a payment pays for.
const (
	ReferenceOrder      = "order"
	ReferenceTournament = "tournament"
)

// Pending describes an order or tournament registration awaiting payment.
// At most one exists per session; writing a second silently overwrites
// the first (accepted race, not defended against).
type Pending struct {
	Amount         decimal.Decimal `json:"amount"`
	UserEmail      string          `json:"user_email"`
	ReferenceType  string          `json:"reference_type"`
	ReferenceID    string          `json:"reference_id"`
	TournamentName string          `json:"tournament_name,omitempty"`
}

// PaymentInfo carries the initiated payment identifiers between the
// initiate and verify stages.
type PaymentInfo struct {
	PaymentID         string `json:"payment_id"`
	TransactionID     string `json:"transaction_id"`
	VerificationToken string `json:"verification_token"`
	Pending
}

// Success is the terminal record the confirmation stage renders once.
type Success struct {
	PaymentID     string          `json:"payment_id"`
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   string          `json:"reference_id"`
}

// SessionDocStore is the session-scoped slice of the local store.
type SessionDocStore interface {
	GetSessionDoc(ctx context.Context, sessionID, name string, dest any) (bool, error)
	PutSessionDoc(ctx context.Context, sessionID, name string, value any) error
	DelSessionDoc(ctx context.Context, sessionID string, names ...string) error
}

// Box reads and writes the handoff records of one session.
type Box struct {
	store     SessionDocStore
	sessionID string
}

func NewBox(store SessionDocStore, sessionID string) (*Box, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, errors.New("session id is required")
	}
	return &Box{store: store, sessionID: sessionID}, nil
}

// PutPending stores the pending record, overwriting any prior one.
func (b *Box) PutPending(ctx context.Context, p Pending) error {
	if p.ReferenceType != ReferenceOrder && p.ReferenceType != ReferenceTournament {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown reference type")
	}
	if strings.TrimSpace(p.ReferenceID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "reference id is required")
	}
	return b.store.PutSessionDoc(ctx, b.sessionID, pendingDoc, p)
}

// TakePending consumes the pending record: nil when none exists.
func (b *Box) TakePending(ctx context.Context) (*Pending, error) {
	var p Pending
	found, err := b.store.GetSessionDoc(ctx, b.sessionID, pendingDoc, &p)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	if err := b.store.DelSessionDoc(ctx, b.sessionID, pendingDoc); err != nil {
		return nil, err
	}
	return &p, nil
}

// PeekPending reads without consuming, for display.
func (b *Box) PeekPending(ctx context.Context) (*Pending, error) {
	var p Pending
	found, err := b.store.GetSessionDoc(ctx, b.sessionID, pendingDoc, &p)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &p, nil
}

// PutInfo stores the initiated-payment record.
func (b *Box) PutInfo(ctx context.Context, info PaymentInfo) error {
	return b.store.PutSessionDoc(ctx, b.sessionID, infoDoc, info)
}

// TakeInfo consumes the initiated-payment record.
func (b *Box) TakeInfo(ctx context.Context) (*PaymentInfo, error) {
	var info PaymentInfo
	found, err := b.store.GetSessionDoc(ctx, b.sessionID, infoDoc, &info)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	if err := b.store.DelSessionDoc(ctx, b.sessionID, infoDoc); err != nil {
		return nil, err
	}
	return &info, nil
}

// PutSuccess stores the terminal record for the confirmation stage.
func (b *Box) PutSuccess(ctx context.Context, s Success) error {
	return b.store.PutSessionDoc(ctx, b.sessionID, successDoc, s)
}

// TakeSuccess consumes the terminal record: nil when already consumed
// or never written.
func (b *Box) TakeSuccess(ctx context.Context) (*Success, error) {
	var s Success
	found, err := b.store.GetSessionDoc(ctx, b.sessionID, successDoc, &s)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	if err := b.store.DelSessionDoc(ctx, b.sessionID, successDoc); err != nil {
		return nil, err
	}
	return &s, nil
}

// DropPending deletes the pending record without reading it.
func (b *Box) DropPending(ctx context.Context) error {
	return b.store.DelSessionDoc(ctx, b.sessionID, pendingDoc)
}

// DropInfo deletes the initiated-payment record without reading it.
func (b *Box) DropInfo(ctx context.Context) error {
	return b.store.DelSessionDoc(ctx, b.sessionID, infoDoc)
}

// ClearAll removes every payment-related session key, the confirmation
// stage's terminal cleanup.
func (b *Box) ClearAll(ctx context.Context) error {
	var errs error
	for _, doc := range []string{pendingDoc, infoDoc, successDoc} {
		errs = multierr.Append(errs, b.store.DelSessionDoc(ctx, b.sessionID, doc))
	}
	return errs
}
