package payment

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/skylight-sports/storefront/internal/handoff"
)

func TestShowConsumesSuccessOnce(t *testing.T) {
	t.Parallel()

	box, err := handoff.NewBox(newFakeSessionStore(), "sid")
	if err != nil {
		t.Fatalf("new box: %v", err)
	}
	conf, err := NewConfirmation(box, nil)
	if err != nil {
		t.Fatalf("new confirmation: %v", err)
	}
	ctx := context.Background()

	record := handoff.Success{
		PaymentID:     "pay_1",
		TransactionID: "txn_1",
		Amount:        decimal.NewFromInt(250),
		ReferenceType: handoff.ReferenceOrder,
		ReferenceID:   "ord_1",
	}
	if err := box.PutSuccess(ctx, record); err != nil {
		t.Fatalf("put success: %v", err)
	}

	first, err := conf.Show(ctx)
	if err != nil || first == nil {
		t.Fatalf("first show: %+v err=%v", first, err)
	}
	if first.PaymentID != "pay_1" || !first.Amount.Equal(record.Amount) {
		t.Fatalf("unexpected record %+v", first)
	}

	// A reload of the confirmation finds nothing and falls back.
	second, err := conf.Show(ctx)
	if err != nil {
		t.Fatalf("second show: %v", err)
	}
	if second != nil {
		t.Fatalf("expected consumed record, got %+v", second)
	}
}

func TestShowCleansUpPaymentSession(t *testing.T) {
	t.Parallel()

	store := newFakeSessionStore()
	box, err := handoff.NewBox(store, "sid")
	if err != nil {
		t.Fatalf("new box: %v", err)
	}
	conf, err := NewConfirmation(box, nil)
	if err != nil {
		t.Fatalf("new confirmation: %v", err)
	}
	ctx := context.Background()

	_ = box.PutPending(ctx, handoff.Pending{Amount: decimal.NewFromInt(1), ReferenceType: handoff.ReferenceOrder, ReferenceID: "o"})
	_ = box.PutInfo(ctx, handoff.PaymentInfo{PaymentID: "pay_1"})
	_ = box.PutSuccess(ctx, handoff.Success{PaymentID: "pay_1"})

	if _, err := conf.Show(ctx); err != nil {
		t.Fatalf("show: %v", err)
	}
	if len(store.docs) != 0 {
		t.Fatalf("expected full cleanup, leftover %v", store.docs)
	}
}

func TestShowWithNothingStored(t *testing.T) {
	t.Parallel()

	box, _ := handoff.NewBox(newFakeSessionStore(), "sid")
	conf, _ := NewConfirmation(box, nil)

	record, err := conf.Show(context.Background())
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if record != nil {
		t.Fatalf("expected fallback nil record, got %+v", record)
	}
}
