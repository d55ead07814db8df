package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/skylight-sports/storefront/pkg/errors"
)

const cartDoc = "cart"

// Item is one cart line. Lines are unique by product id; adding an id
// already present merges quantities instead of appending a second row.
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Subtotal returns price multiplied by quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// DocStore is the slice of the local store the cart needs.
type DocStore interface {
	GetDoc(ctx context.Context, name string, dest any) (bool, error)
	PutDoc(ctx context.Context, name string, value any) error
	DelDoc(ctx context.Context, names ...string) error
}

// Manager persists the shopping cart through the local store. Every
// operation is a read-modify-write of the whole cart document; concurrent
// clients can interleave and the last write wins (accepted limitation).
type Manager struct {
	store DocStore
}

func NewManager(store DocStore) (*Manager, error) {
	if store == nil {
		return nil, errors.New("doc store is required")
	}
	return &Manager{store: store}, nil
}

// Add merges the product into the cart, incrementing the quantity when
// the id is already present. A zero qty means one.
func (m *Manager) Add(ctx context.Context, id, name string, price decimal.Decimal, qty int) error {
	if strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	items, err := m.Items(ctx)
	if err != nil {
		return err
	}
	merged := false
	for i := range items {
		if items[i].ID == id {
			items[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, Item{ID: id, Name: name, Price: price, Quantity: qty})
	}
	return m.store.PutDoc(ctx, cartDoc, items)
}

// Remove deletes the line with the given product id. Removing an absent
// id leaves the cart untouched.
func (m *Manager) Remove(ctx context.Context, id string) error {
	items, err := m.Items(ctx)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return m.store.PutDoc(ctx, cartDoc, kept)
}

// SetQuantity replaces the quantity on an existing line. Unknown ids are
// ignored, matching the original quantity editor.
func (m *Manager) SetQuantity(ctx context.Context, id string, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	items, err := m.Items(ctx)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			items[i].Quantity = qty
			return m.store.PutDoc(ctx, cartDoc, items)
		}
	}
	return nil
}

// Clear drops the whole cart document.
func (m *Manager) Clear(ctx context.Context) error {
	return m.store.DelDoc(ctx, cartDoc)
}

// Items returns the cart lines; an absent document is an empty cart.
func (m *Manager) Items(ctx context.Context) ([]Item, error) {
	var items []Item
	if _, err := m.store.GetDoc(ctx, cartDoc, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Total sums price times quantity across all lines.
func (m *Manager) Total(ctx context.Context) (decimal.Decimal, error) {
	items, err := m.Items(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total, nil
}

// Count sums quantities, the cart-badge number.
func (m *Manager) Count(ctx context.Context) (int, error) {
	items, err := m.Items(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count, nil
}
