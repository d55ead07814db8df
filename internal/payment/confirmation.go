package payment

import (
	"context"
	"errors"

	"github.com/skylight-sports/storefront/internal/handoff"
	"github.com/skylight-sports/storefront/pkg/logger"
)

// Confirmation renders the terminal success state. The record is read
// exactly once; rendering also clears every payment-related session key,
// the only explicit garbage collection in the flow.
type Confirmation struct {
	box  *handoff.Box
	logg *logger.Logger
}

func NewConfirmation(box *handoff.Box, logg *logger.Logger) (*Confirmation, error) {
	if box == nil {
		return nil, errors.New("handoff box is required")
	}
	return &Confirmation{box: box, logg: logg}, nil
}

// Show consumes and returns the success record. A nil record with nil
// error is the not-found fallback: already consumed or never written.
func (c *Confirmation) Show(ctx context.Context) (*handoff.Success, error) {
	success, err := c.box.TakeSuccess(ctx)
	if err != nil {
		return nil, err
	}
	if success == nil {
		return nil, nil
	}
	if err := c.box.ClearAll(ctx); err != nil {
		// The record was already consumed; cleanup failure is not worth
		// failing the confirmation over.
		if c.logg != nil {
			c.logg.Warn(c.logg.WithField(ctx, "payment_id", success.PaymentID), "payment session cleanup failed")
		}
	}
	return success, nil
}
