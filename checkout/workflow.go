package checkout

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/DivyaMourya2k47/ayurveda-glow-api/cart"
	"github.com/DivyaMourya2k47/ayurveda-glow-api/models"
)

// Shipping policy: orders above the threshold ship free, everything else
// pays the flat fee.
var (
	FreeShippingThreshold = decimal.NewFromInt(50)
	FlatShippingFee       = decimal.NewFromInt(5)
)

var (
	// ErrEmptyCart blocks checkout of an empty cart; the client should send
	// the user back to the cart view.
	ErrEmptyCart = errors.New("checkout: cart is empty")
	// ErrCheckoutInFlight rejects a second submission while one is pending.
	ErrCheckoutInFlight = errors.New("checkout: order submission already in progress")
	// ErrInsufficientStock fails the whole order when any line exceeds the
	// product's remaining stock.
	ErrInsufficientStock = errors.New("checkout: insufficient stock")
)

// OrderStore persists an order with its items as one atomic write: either
// the order row, every item row, and the stock decrements all commit, or
// none do.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error
}

// Workflow converts a non-empty cart plus a complete shipping profile into
// a persisted order, exactly once, then empties the cart.
type Workflow struct {
	orders OrderStore
	carts  *cart.Registry

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewWorkflow(orders OrderStore, carts *cart.Registry) *Workflow {
	return &Workflow{orders: orders, carts: carts, inFlight: make(map[string]bool)}
}

// ShippingCost applies the free-shipping policy to a subtotal.
func ShippingCost(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FlatShippingFee
}

// PlaceOrder runs the checkout transition for the given user. Preconditions
// are checked before any remote write: an authenticated user, a non-empty
// cart, and a shippable profile. Each line's unit price is captured from the
// cart's product snapshot at this instant. On success the cart is cleared;
// a failed clear is logged and the committed order stands, since re-running
// checkout against the stale cart would place a duplicate.
func (w *Workflow) PlaceOrder(ctx context.Context, userID string, user models.User) (*models.Order, error) {
	mgr, err := w.carts.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := mgr.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	profile, err := ShippableFrom(user)
	if err != nil {
		return nil, err
	}

	if !w.begin(userID) {
		return nil, ErrCheckoutInFlight
	}
	defer w.end(userID)

	// Priced off the same snapshot that becomes the order lines, so the
	// stored total always matches the stored items.
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Subtotal())
	}
	grandTotal := subtotal.Add(ShippingCost(subtotal))

	order := &models.Order{
		UserID:          userID,
		TotalAmount:     grandTotal,
		Status:          models.OrderStatusPending,
		ShippingAddress: profile.Snapshot(),
	}
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
		})
	}

	if err := w.orders.CreateOrder(ctx, order, orderItems); err != nil {
		return nil, err
	}

	if err := mgr.Clear(ctx); err != nil {
		log.Printf("⚠️ Order %s placed but cart clear failed for user %s: %v", order.ID, userID, err)
	}
	return order, nil
}

func (w *Workflow) begin(userID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inFlight[userID] {
		return false
	}
	w.inFlight[userID] = true
	return true
}

func (w *Workflow) end(userID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inFlight, userID)
}
