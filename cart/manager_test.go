package cart

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DivyaMourya2k47/ayurveda-glow-api/models"
)

// fakeStore is an in-memory cart.Store with a switchable failure mode.
type fakeStore struct {
	products map[string]models.Product
	items    map[string]models.CartItem
	seq      int
	failErr  error
}

func newFakeStore(products ...models.Product) *fakeStore {
	s := &fakeStore{
		products: make(map[string]models.Product),
		items:    make(map[string]models.CartItem),
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeStore) FetchCart(_ context.Context, userID string) ([]models.CartItem, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	var out []models.CartItem
	for _, item := range s.items {
		if item.UserID == userID {
			item.Product = s.products[item.ProductID]
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *fakeStore) InsertItem(_ context.Context, item *models.CartItem) error {
	if s.failErr != nil {
		return s.failErr
	}
	s.seq++
	item.ID = fmt.Sprintf("item-%d", s.seq)
	s.items[item.ID] = *item
	return nil
}

func (s *fakeStore) UpdateQuantity(_ context.Context, userID, itemID string, quantity int) error {
	if s.failErr != nil {
		return s.failErr
	}
	item, ok := s.items[itemID]
	if !ok || item.UserID != userID {
		return ErrItemNotFound
	}
	item.Quantity = quantity
	s.items[itemID] = item
	return nil
}

func (s *fakeStore) DeleteItem(_ context.Context, userID, itemID string) error {
	if s.failErr != nil {
		return s.failErr
	}
	if item, ok := s.items[itemID]; ok && item.UserID == userID {
		delete(s.items, itemID)
	}
	return nil
}

func (s *fakeStore) DeleteAll(_ context.Context, userID string) error {
	if s.failErr != nil {
		return s.failErr
	}
	for id, item := range s.items {
		if item.UserID == userID {
			delete(s.items, id)
		}
	}
	return nil
}

func product(id string, price string) models.Product {
	return models.Product{ID: id, Name: "Product " + id, Price: decimal.RequireFromString(price), IsActive: true}
}

func newTestManager(t *testing.T, store *fakeStore) *Manager {
	t.Helper()
	mgr := NewManager(store, "user-1")
	require.NoError(t, mgr.Load(context.Background()))
	return mgr
}

func TestAddMergesIntoExistingLine(t *testing.T) {
	store := newFakeStore(product("p1", "20.00"))
	mgr := newTestManager(t, store)
	ctx := context.Background()

	require.NoError(t, mgr.Add(ctx, "p1", 1))
	require.NoError(t, mgr.Add(ctx, "p1", 2))

	items := mgr.Items()
	require.Len(t, items, 1, "one product must occupy exactly one line")
	assert.Equal(t, 3, items[0].Quantity)
	assert.Len(t, store.items, 1)
}

func TestOneLinePerProductUnderMixedSequence(t *testing.T) {
	store := newFakeStore(product("p1", "10.00"), product("p2", "5.50"))
	mgr := newTestManager(t, store)
	ctx := context.Background()

	require.NoError(t, mgr.Add(ctx, "p1", 1))
	require.NoError(t, mgr.Add(ctx, "p2", 2))
	require.NoError(t, mgr.Add(ctx, "p1", 1))

	items := mgr.Items()
	require.NoError(t, mgr.SetQuantity(ctx, items[0].ID, 5))
	require.NoError(t, mgr.Remove(ctx, items[1].ID))
	require.NoError(t, mgr.Add(ctx, "p2", 1))

	seen := make(map[string]int)
	for _, item := range mgr.Items() {
		seen[item.ProductID]++
	}
	for productID, n := range seen {
		assert.Equalf(t, 1, n, "product %s has %d lines", productID, n)
	}
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	store := newFakeStore(product("p1", "10.00"))
	mgr := newTestManager(t, store)

	assert.ErrorIs(t, mgr.Add(context.Background(), "p1", 0), ErrInvalidQuantity)
	assert.ErrorIs(t, mgr.Add(context.Background(), "p1", -2), ErrInvalidQuantity)
	assert.Empty(t, mgr.Items())
}

func TestTotalTracksEveryMutation(t *testing.T) {
	store := newFakeStore(product("p1", "20.00"), product("p2", "15.00"))
	mgr := newTestManager(t, store)
	ctx := context.Background()

	require.NoError(t, mgr.Add(ctx, "p1", 2))
	assert.True(t, mgr.Total().Equal(decimal.RequireFromString("40.00")))

	require.NoError(t, mgr.Add(ctx, "p2", 1))
	assert.True(t, mgr.Total().Equal(decimal.RequireFromString("55.00")))
	assert.Equal(t, 3, mgr.Count())

	var p2Line string
	for _, item := range mgr.Items() {
		if item.ProductID == "p2" {
			p2Line = item.ID
		}
	}
	require.NoError(t, mgr.SetQuantity(ctx, p2Line, 3))
	assert.True(t, mgr.Total().Equal(decimal.RequireFromString("85.00")))

	require.NoError(t, mgr.Remove(ctx, p2Line))
	assert.True(t, mgr.Total().Equal(decimal.RequireFromString("40.00")))
}

func TestSetQuantityBelowOneRemovesLine(t *testing.T) {
	for _, quantity := range []int{0, -1} {
		t.Run(fmt.Sprintf("quantity=%d", quantity), func(t *testing.T) {
			store := newFakeStore(product("p1", "10.00"))
			mgr := newTestManager(t, store)
			ctx := context.Background()

			require.NoError(t, mgr.Add(ctx, "p1", 2))
			itemID := mgr.Items()[0].ID

			require.NoError(t, mgr.SetQuantity(ctx, itemID, quantity))
			assert.Empty(t, mgr.Items())
			assert.Empty(t, store.items, "row must be deleted, never stored non-positive")
		})
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	store := newFakeStore(product("p1", "10.00"), product("p2", "5.00"))
	mgr := newTestManager(t, store)
	ctx := context.Background()

	require.NoError(t, mgr.Add(ctx, "p1", 1))
	require.NoError(t, mgr.Add(ctx, "p2", 1))
	itemID := mgr.Items()[0].ID

	require.NoError(t, mgr.Remove(ctx, itemID))
	require.NoError(t, mgr.Remove(ctx, itemID))

	assert.Len(t, mgr.Items(), 1, "remaining line must survive a duplicate remove")
}

func TestFailedMutationLeavesStateUntouched(t *testing.T) {
	store := newFakeStore(product("p1", "10.00"), product("p2", "5.00"))
	mgr := newTestManager(t, store)
	ctx := context.Background()

	require.NoError(t, mgr.Add(ctx, "p1", 2))
	before := mgr.Items()
	totalBefore := mgr.Total()

	store.failErr = errors.New("connection reset")

	assert.Error(t, mgr.Add(ctx, "p2", 1))
	assert.Error(t, mgr.SetQuantity(ctx, before[0].ID, 9))
	assert.Error(t, mgr.Remove(ctx, before[0].ID))
	assert.Error(t, mgr.Clear(ctx))

	assert.Equal(t, before, mgr.Items())
	assert.True(t, mgr.Total().Equal(totalBefore))
}

func TestLoadFailureKeepsStaleView(t *testing.T) {
	store := newFakeStore(product("p1", "10.00"))
	mgr := newTestManager(t, store)
	ctx := context.Background()

	require.NoError(t, mgr.Add(ctx, "p1", 2))

	store.failErr = errors.New("store unavailable")
	assert.Error(t, mgr.Load(ctx))

	items := mgr.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestClearResetsView(t *testing.T) {
	store := newFakeStore(product("p1", "10.00"), product("p2", "5.00"))
	mgr := newTestManager(t, store)
	ctx := context.Background()

	require.NoError(t, mgr.Add(ctx, "p1", 1))
	require.NoError(t, mgr.Add(ctx, "p2", 4))

	require.NoError(t, mgr.Clear(ctx))
	assert.Empty(t, mgr.Items())
	assert.Equal(t, 0, mgr.Count())
	assert.True(t, mgr.Total().IsZero())
	assert.Empty(t, store.items)
}

func TestRegistryRequiresUser(t *testing.T) {
	reg := NewRegistry(newFakeStore())

	_, err := reg.ForUser(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRegistryReturnsSameManagerPerUser(t *testing.T) {
	reg := NewRegistry(newFakeStore(product("p1", "10.00")))
	ctx := context.Background()

	first, err := reg.ForUser(ctx, "user-1")
	require.NoError(t, err)
	second, err := reg.ForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := reg.ForUser(ctx, "user-2")
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}
