package checkout

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DivyaMourya2k47/ayurveda-glow-api/cart"
	"github.com/DivyaMourya2k47/ayurveda-glow-api/models"
)

// fakeCartStore backs the cart registry for workflow tests.
type fakeCartStore struct {
	products map[string]models.Product
	items    map[string]models.CartItem
	seq      int
}

func newFakeCartStore(products ...models.Product) *fakeCartStore {
	s := &fakeCartStore{
		products: make(map[string]models.Product),
		items:    make(map[string]models.CartItem),
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeCartStore) FetchCart(_ context.Context, userID string) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, item := range s.items {
		if item.UserID == userID {
			item.Product = s.products[item.ProductID]
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *fakeCartStore) InsertItem(_ context.Context, item *models.CartItem) error {
	s.seq++
	item.ID = fmt.Sprintf("item-%d", s.seq)
	s.items[item.ID] = *item
	return nil
}

func (s *fakeCartStore) UpdateQuantity(_ context.Context, userID, itemID string, quantity int) error {
	item, ok := s.items[itemID]
	if !ok || item.UserID != userID {
		return cart.ErrItemNotFound
	}
	item.Quantity = quantity
	s.items[itemID] = item
	return nil
}

func (s *fakeCartStore) DeleteItem(_ context.Context, userID, itemID string) error {
	if item, ok := s.items[itemID]; ok && item.UserID == userID {
		delete(s.items, itemID)
	}
	return nil
}

func (s *fakeCartStore) DeleteAll(_ context.Context, userID string) error {
	for id, item := range s.items {
		if item.UserID == userID {
			delete(s.items, id)
		}
	}
	return nil
}

// fakeOrderStore records orders; block makes CreateOrder wait until released.
type fakeOrderStore struct {
	orders  []*models.Order
	items   [][]models.OrderItem
	failErr error
	block   chan struct{}
	entered chan struct{}
}

func (s *fakeOrderStore) CreateOrder(_ context.Context, order *models.Order, items []models.OrderItem) error {
	if s.entered != nil {
		close(s.entered)
	}
	if s.block != nil {
		<-s.block
	}
	if s.failErr != nil {
		return s.failErr
	}
	order.ID = fmt.Sprintf("order-%d", len(s.orders)+1)
	for i := range items {
		items[i].OrderID = order.ID
	}
	s.orders = append(s.orders, order)
	s.items = append(s.items, items)
	return nil
}

func shippableUser() models.User {
	return models.User{
		ID:       "user-1",
		Email:    "asha@example.com",
		FullName: "Asha Verma",
		Phone:    "9876543210",
		Address:  "12 MG Road",
		City:     "Pune",
		State:    "Maharashtra",
		Pincode:  "411001",
	}
}

func seededWorkflow(t *testing.T, orders *fakeOrderStore, lines map[string]int, products ...models.Product) (*Workflow, *cart.Manager) {
	t.Helper()
	cartStore := newFakeCartStore(products...)
	registry := cart.NewRegistry(cartStore)
	workflow := NewWorkflow(orders, registry)

	mgr, err := registry.ForUser(context.Background(), "user-1")
	require.NoError(t, err)
	for productID, quantity := range lines {
		require.NoError(t, mgr.Add(context.Background(), productID, quantity))
	}
	return workflow, mgr
}

func catalogProduct(id, price string) models.Product {
	return models.Product{ID: id, Name: "Product " + id, Price: decimal.RequireFromString(price), IsActive: true, StockQuantity: 100}
}

func TestCheckoutFreeShippingAboveThreshold(t *testing.T) {
	orders := &fakeOrderStore{}
	workflow, _ := seededWorkflow(t, orders,
		map[string]int{"p1": 2, "p2": 1},
		catalogProduct("p1", "20.00"), catalogProduct("p2", "15.00"))

	order, err := workflow.PlaceOrder(context.Background(), "user-1", shippableUser())
	require.NoError(t, err)

	// subtotal 55.00 > 50.00, so shipping is waived
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("55.00")),
		"got total %s", order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestCheckoutFlatFeeAtOrBelowThreshold(t *testing.T) {
	orders := &fakeOrderStore{}
	workflow, _ := seededWorkflow(t, orders,
		map[string]int{"p1": 1},
		catalogProduct("p1", "10.00"))

	order, err := workflow.PlaceOrder(context.Background(), "user-1", shippableUser())
	require.NoError(t, err)

	// subtotal 10.00 ≤ 50.00, so the 5.00 flat fee applies
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("15.00")),
		"got total %s", order.TotalAmount)
}

func TestCheckoutExactThresholdStillPaysShipping(t *testing.T) {
	orders := &fakeOrderStore{}
	workflow, _ := seededWorkflow(t, orders,
		map[string]int{"p1": 1},
		catalogProduct("p1", "50.00"))

	order, err := workflow.PlaceOrder(context.Background(), "user-1", shippableUser())
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("55.00")))
}

func TestCheckoutEmptyCart(t *testing.T) {
	orders := &fakeOrderStore{}
	workflow, _ := seededWorkflow(t, orders, nil)

	_, err := workflow.PlaceOrder(context.Background(), "user-1", shippableUser())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, orders.orders, "no order row may be created")
}

func TestCheckoutUnauthenticated(t *testing.T) {
	orders := &fakeOrderStore{}
	workflow, _ := seededWorkflow(t, orders, nil)

	_, err := workflow.PlaceOrder(context.Background(), "", shippableUser())
	assert.ErrorIs(t, err, cart.ErrUnauthenticated)
	assert.Empty(t, orders.orders)
}

func TestCheckoutIncompleteProfile(t *testing.T) {
	orders := &fakeOrderStore{}
	workflow, mgr := seededWorkflow(t, orders,
		map[string]int{"p1": 1},
		catalogProduct("p1", "10.00"))

	user := shippableUser()
	user.Pincode = ""

	_, err := workflow.PlaceOrder(context.Background(), "user-1", user)

	var incomplete *IncompleteProfileError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []string{"pincode"}, incomplete.Missing)
	assert.Empty(t, orders.orders, "no order row may be created")
	assert.Len(t, mgr.Items(), 1, "cart must survive a blocked checkout")
}

func TestCheckoutSuccessClearsCartAndSnapshotsLines(t *testing.T) {
	orders := &fakeOrderStore{}
	workflow, mgr := seededWorkflow(t, orders,
		map[string]int{"p1": 2, "p2": 1, "p3": 4},
		catalogProduct("p1", "20.00"), catalogProduct("p2", "15.00"), catalogProduct("p3", "3.25"))

	lineCount := len(mgr.Items())
	order, err := workflow.PlaceOrder(context.Background(), "user-1", shippableUser())
	require.NoError(t, err)

	assert.Empty(t, mgr.Items(), "cart must be empty after success")
	require.Len(t, orders.items, 1)
	assert.Len(t, orders.items[0], lineCount, "one order item per cart line")

	for _, item := range orders.items[0] {
		assert.Equal(t, order.ID, item.OrderID)
		assert.False(t, item.Price.IsZero(), "unit price must be captured at purchase time")
	}

	snapshot := order.ShippingAddress
	assert.Equal(t, "411001", snapshot.Pincode)
	assert.Equal(t, "Pune", snapshot.City)
}

func TestCheckoutFailureKeepsCart(t *testing.T) {
	orders := &fakeOrderStore{failErr: errors.New("store rejected write")}
	workflow, mgr := seededWorkflow(t, orders,
		map[string]int{"p1": 2},
		catalogProduct("p1", "20.00"))

	_, err := workflow.PlaceOrder(context.Background(), "user-1", shippableUser())
	require.Error(t, err)
	assert.Len(t, mgr.Items(), 1, "user must be able to retry from the same cart")

	// retry succeeds once the store recovers
	orders.failErr = nil
	order, err := workflow.PlaceOrder(context.Background(), "user-1", shippableUser())
	require.NoError(t, err)
	assert.Empty(t, mgr.Items())
	assert.NotEmpty(t, order.ID)
}

func TestCheckoutRejectsConcurrentSubmission(t *testing.T) {
	orders := &fakeOrderStore{
		block:   make(chan struct{}),
		entered: make(chan struct{}),
	}
	workflow, _ := seededWorkflow(t, orders,
		map[string]int{"p1": 1},
		catalogProduct("p1", "10.00"))

	done := make(chan error, 1)
	go func() {
		_, err := workflow.PlaceOrder(context.Background(), "user-1", shippableUser())
		done <- err
	}()

	<-orders.entered

	_, err := workflow.PlaceOrder(context.Background(), "user-1", shippableUser())
	assert.ErrorIs(t, err, ErrCheckoutInFlight)

	close(orders.block)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("first checkout never completed")
	}

	require.Len(t, orders.orders, 1, "exactly one order despite the double submit")
}

func TestShippableFromListsAllMissingFields(t *testing.T) {
	user := shippableUser()
	user.Address = " "
	user.City = ""
	user.Pincode = ""

	_, err := ShippableFrom(user)

	var incomplete *IncompleteProfileError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []string{"address", "city", "pincode"}, incomplete.Missing)
}

func TestSnapshotIsDecoupledFromProfile(t *testing.T) {
	user := shippableUser()
	profile, err := ShippableFrom(user)
	require.NoError(t, err)

	snapshot := profile.Snapshot()
	user.City = "Mumbai"

	assert.Equal(t, "Pune", snapshot.City, "later profile edits must not alter the snapshot")
}

func TestShippingCostPolicy(t *testing.T) {
	cases := []struct {
		subtotal string
		want     string
	}{
		{"55.00", "0"},
		{"50.01", "0"},
		{"50.00", "5"},
		{"10.00", "5"},
		{"0", "5"},
	}
	for _, tc := range cases {
		got := ShippingCost(decimal.RequireFromString(tc.subtotal))
		assert.Truef(t, got.Equal(decimal.RequireFromString(tc.want)),
			"subtotal %s: want shipping %s, got %s", tc.subtotal, tc.want, got)
	}
}
