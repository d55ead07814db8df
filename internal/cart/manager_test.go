package cart

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/skylight-sports/storefront/pkg/errors"
)

// fakeDocStore round-trips documents through JSON the way the real
// store does, so type fidelity bugs surface here too.
type fakeDocStore struct {
	docs    map[string]string
	putHits int
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{docs: map[string]string{}}
}

func (f *fakeDocStore) GetDoc(_ context.Context, name string, dest any) (bool, error) {
	raw, ok := f.docs[name]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal([]byte(raw), dest)
}

func (f *fakeDocStore) PutDoc(_ context.Context, name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.putHits++
	f.docs[name] = string(raw)
	return nil
}

func (f *fakeDocStore) DelDoc(_ context.Context, names ...string) error {
	for _, name := range names {
		delete(f.docs, name)
	}
	return nil
}

func newTestManager(t *testing.T) (*Manager, *fakeDocStore) {
	t.Helper()
	store := newFakeDocStore()
	m, err := NewManager(store)
	require.NoError(t, err)
	return m, store
}

func TestAddMergesByProductID(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Add(ctx, "p1", "Gi", decimal.NewFromInt(100), 1))
	require.NoError(t, m.Add(ctx, "p1", "Gi", decimal.NewFromInt(100), 2))

	items, err := m.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 3, items[0].Quantity)
}

func TestAddZeroQuantityMeansOne(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Add(ctx, "p1", "Belt", decimal.NewFromInt(20), 0))
	count, err := m.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestAddRejectsBadInput(t *testing.T) {
	t.Parallel()

	m, store := newTestManager(t)
	ctx := context.Background()

	err := m.Add(ctx, "", "Gi", decimal.NewFromInt(100), 1)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	err = m.Add(ctx, "p1", "Gi", decimal.NewFromInt(-1), 1)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	err = m.Add(ctx, "p1", "Gi", decimal.NewFromInt(100), -2)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	require.Zero(t, store.putHits, "rejected adds must not write")
}

func TestRemoveAbsentIDIsNoOp(t *testing.T) {
	t.Parallel()

	m, store := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Add(ctx, "p1", "Gi", decimal.NewFromInt(100), 1))
	writesBefore := store.putHits

	require.NoError(t, m.Remove(ctx, "ghost"))
	require.Equal(t, writesBefore, store.putHits, "removing an absent id must not write")

	items, err := m.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestRemoveDeletesLine(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Add(ctx, "p1", "Gi", decimal.NewFromInt(100), 1))
	require.NoError(t, m.Add(ctx, "p2", "Belt", decimal.NewFromInt(20), 1))
	require.NoError(t, m.Remove(ctx, "p1"))

	items, err := m.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "p2", items[0].ID)
}

func TestSetQuantity(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Add(ctx, "p1", "Gi", decimal.NewFromInt(100), 1))
	require.NoError(t, m.SetQuantity(ctx, "p1", 5))

	count, err := m.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, count)

	err = m.SetQuantity(ctx, "p1", 0)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	// Unknown id is silently ignored.
	require.NoError(t, m.SetQuantity(ctx, "ghost", 3))
}

func TestTotal(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Add(ctx, "p1", "Gi", decimal.NewFromInt(100), 2))
	require.NoError(t, m.Add(ctx, "p2", "Belt", decimal.NewFromInt(50), 1))

	total, err := m.Total(ctx)
	require.NoError(t, err)
	require.True(t, total.Equal(decimal.NewFromInt(250)), "got %s", total)
}

func TestClearEmptiesCart(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Add(ctx, "p1", "Gi", decimal.NewFromInt(100), 1))
	require.NoError(t, m.Clear(ctx))

	items, err := m.Items(ctx)
	require.NoError(t, err)
	require.Empty(t, items)

	total, err := m.Total(ctx)
	require.NoError(t, err)
	require.True(t, total.IsZero())
}
