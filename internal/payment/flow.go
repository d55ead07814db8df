package payment

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/multierr"

	"github.com/skylight-sports/storefront/internal/api"
	"github.com/skylight-sports/storefront/internal/handoff"
	pkgerrors "github.com/skylight-sports/storefront/pkg/errors"
	"github.com/skylight-sports/storefront/pkg/logger"
)

// ErrNoPendingPayment is returned when the flow is entered with no
// handoff present; callers redirect home instead of crashing.
var ErrNoPendingPayment = pkgerrors.New(pkgerrors.CodeNotFound, "no payment data found")

type paymentAPI interface {
	InitiatePayment(ctx context.Context, req api.InitiatePaymentRequest) (*api.InitiatePaymentResponse, error)
	VerifyPayment(ctx context.Context, req api.VerifyPaymentRequest) (*api.VerifyPaymentResponse, error)
}

// ReferenceSource stands in for the external gateway: it produces the
// free-text payment reference the verify step submits. Implementations
// are an interactive terminal prompt and the simulated gateway service.
type ReferenceSource interface {
	PaymentReference(ctx context.Context, info handoff.PaymentInfo) (string, error)
}

// Flow drives the forward-only payment sequence:
// load -> initiate -> collect reference -> verify -> success.
// There are no backward transitions. A backend rejection at initiate or
// verify halts the flow with the server message; a re-run resumes the
// stored initiated payment when one survives, otherwise it starts over.
type Flow struct {
	api    paymentAPI
	box    *handoff.Box
	source ReferenceSource
	logg   *logger.Logger
}

func NewFlow(client paymentAPI, box *handoff.Box, source ReferenceSource, logg *logger.Logger) (*Flow, error) {
	if client == nil {
		return nil, errors.New("payment api is required")
	}
	if box == nil {
		return nil, errors.New("handoff box is required")
	}
	if source == nil {
		return nil, errors.New("reference source is required")
	}
	return &Flow{api: client, box: box, source: source, logg: logg}, nil
}

// Load reads the pending handoff for display without consuming it; the
// record survives a failed initiate so the user can retry.
func (f *Flow) Load(ctx context.Context) (*handoff.Pending, error) {
	pending, err := f.box.PeekPending(ctx)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, ErrNoPendingPayment
	}
	return pending, nil
}

// Run executes the whole sequence and returns the terminal success
// record, which is also persisted for the confirmation stage. An
// initiated-payment record left by an interrupted earlier run is
// consumed and resumed instead of initiating a duplicate.
func (f *Flow) Run(ctx context.Context) (*handoff.Success, error) {
	if f.logg != nil {
		ctx = f.logg.WithFlow(ctx, "payment")
	}

	pending, err := f.Load(ctx)
	if err != nil {
		return nil, err
	}

	info, err := f.box.TakeInfo(ctx)
	if err != nil {
		return nil, err
	}
	resumed := info != nil
	if !resumed {
		info, err = f.initiate(ctx, *pending)
		if err != nil {
			return nil, err
		}
	}

	reference, err := f.source.PaymentReference(ctx, *info)
	if err != nil {
		return nil, f.keepInfo(ctx, resumed, *info, err)
	}
	if strings.TrimSpace(reference) == "" {
		return nil, f.keepInfo(ctx, resumed, *info,
			pkgerrors.New(pkgerrors.CodeValidation, "payment reference is required"))
	}

	if err := f.verify(ctx, *info, reference); err != nil {
		return nil, f.keepInfo(ctx, resumed, *info, err)
	}

	return f.complete(ctx, *info)
}

func (f *Flow) initiate(ctx context.Context, pending handoff.Pending) (*handoff.PaymentInfo, error) {
	resp, err := f.api.InitiatePayment(ctx, api.InitiatePaymentRequest{
		Amount:        pending.Amount.InexactFloat64(),
		Email:         pending.UserEmail,
		ReferenceID:   pending.ReferenceID,
		ReferenceType: pending.ReferenceType,
	})
	if err != nil {
		return nil, err
	}

	info := handoff.PaymentInfo{
		PaymentID:         resp.PaymentID,
		TransactionID:     resp.TransactionID,
		VerificationToken: resp.VerificationToken,
		Pending:           pending,
	}
	if err := f.box.PutInfo(ctx, info); err != nil {
		return nil, err
	}

	if f.logg != nil {
		f.logg.Info(f.logg.WithFields(ctx, map[string]any{
			"payment_id":     info.PaymentID,
			"transaction_id": info.TransactionID,
		}), "payment initiated")
	}
	return &info, nil
}

// keepInfo writes a consumed record back after a failed resumed attempt
// so the next run re-submits the same payment instead of initiating a
// duplicate. Fresh runs already hold the record from initiate.
func (f *Flow) keepInfo(ctx context.Context, resumed bool, info handoff.PaymentInfo, cause error) error {
	if !resumed {
		return cause
	}
	return multierr.Append(cause, f.box.PutInfo(ctx, info))
}

func (f *Flow) verify(ctx context.Context, info handoff.PaymentInfo, reference string) error {
	_, err := f.api.VerifyPayment(ctx, api.VerifyPaymentRequest{
		PaymentID:         info.PaymentID,
		TransactionID:     info.TransactionID,
		VerificationToken: info.VerificationToken,
		PaymentReference:  reference,
	})
	return err
}

// complete writes the success record and deletes the consumed handoff
// state, the only transition that clears prior stages.
func (f *Flow) complete(ctx context.Context, info handoff.PaymentInfo) (*handoff.Success, error) {
	success := handoff.Success{
		PaymentID:     info.PaymentID,
		TransactionID: info.TransactionID,
		Amount:        info.Amount,
		ReferenceType: info.ReferenceType,
		ReferenceID:   info.ReferenceID,
	}
	if err := f.box.PutSuccess(ctx, success); err != nil {
		return nil, err
	}
	if err := multierr.Combine(f.box.DropInfo(ctx), f.box.DropPending(ctx)); err != nil {
		return nil, err
	}
	if f.logg != nil {
		f.logg.Info(f.logg.WithField(ctx, "payment_id", success.PaymentID), "payment verified")
	}
	return &success, nil
}
