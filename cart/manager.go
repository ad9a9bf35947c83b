package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/DivyaMourya2k47/ayurveda-glow-api/models"
)

var (
	// ErrUnauthenticated rejects cart access without a signed-in user.
	ErrUnauthenticated = errors.New("cart: user not authenticated")
	// ErrInvalidQuantity rejects Add with a non-positive quantity.
	ErrInvalidQuantity = errors.New("cart: quantity must be at least 1")
	// ErrItemNotFound means the referenced cart line does not exist.
	ErrItemNotFound = errors.New("cart: item not found")
)

// Store is the persistence boundary the manager synchronizes against.
// FetchCart must return items with their Product association resolved.
type Store interface {
	FetchCart(ctx context.Context, userID string) ([]models.CartItem, error)
	InsertItem(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error
	DeleteItem(ctx context.Context, userID, itemID string) error
	DeleteAll(ctx context.Context, userID string) error
}

// Manager owns the in-memory view of one user's cart and keeps it
// synchronized with the store. All operations take the manager lock, so
// mutations issued by the same session apply in issue order. A failed
// remote write leaves the in-memory view exactly as it was.
type Manager struct {
	mu     sync.Mutex
	store  Store
	userID string
	items  []models.CartItem
}

func NewManager(store Store, userID string) *Manager {
	return &Manager{store: store, userID: userID}
}

func (m *Manager) UserID() string { return m.userID }

// Load replaces the in-memory view wholesale from the store. On failure the
// previous view survives untouched (stale-but-available) and the error is
// returned for the caller to log.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.store.FetchCart(ctx, m.userID)
	if err != nil {
		return err
	}
	m.items = items
	return nil
}

// Add puts quantity units of a product into the cart. If a line for the
// product already exists the quantities merge into that line, so the cart
// never holds two rows for the same product. A fresh line is inserted
// remotely and then reconciled by re-fetch, picking up the server-assigned
// id and the joined product snapshot.
func (m *Manager) Add(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.items {
		if m.items[i].ProductID == productID {
			return m.setQuantityLocked(ctx, m.items[i].ID, m.items[i].Quantity+quantity)
		}
	}

	item := &models.CartItem{
		UserID:    m.userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := m.store.InsertItem(ctx, item); err != nil {
		return err
	}

	items, err := m.store.FetchCart(ctx, m.userID)
	if err != nil {
		return err
	}
	m.items = items
	return nil
}

// SetQuantity updates one line's quantity. A quantity below 1 is removal,
// never a stored non-positive value. On success only the affected entry is
// patched in memory.
func (m *Manager) SetQuantity(ctx context.Context, itemID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setQuantityLocked(ctx, itemID, quantity)
}

func (m *Manager) setQuantityLocked(ctx context.Context, itemID string, quantity int) error {
	if quantity < 1 {
		return m.removeLocked(ctx, itemID)
	}

	if err := m.store.UpdateQuantity(ctx, m.userID, itemID, quantity); err != nil {
		return err
	}
	for i := range m.items {
		if m.items[i].ID == itemID {
			m.items[i].Quantity = quantity
			break
		}
	}
	return nil
}

// Remove deletes one line. Removing an already-absent line is a no-op.
func (m *Manager) Remove(ctx context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(ctx, itemID)
}

func (m *Manager) removeLocked(ctx context.Context, itemID string) error {
	if err := m.store.DeleteItem(ctx, m.userID, itemID); err != nil {
		return err
	}
	for i := range m.items {
		if m.items[i].ID == itemID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			break
		}
	}
	return nil
}

// Clear bulk-deletes every line for the user, then resets the view. Used by
// explicit user action and by checkout after a successful order.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.DeleteAll(ctx, m.userID); err != nil {
		return err
	}
	m.items = nil
	return nil
}

// Items returns a copy of the current in-memory view.
func (m *Manager) Items() []models.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.CartItem, len(m.items))
	copy(out, m.items)
	return out
}

// Total is Σ(unit price × quantity) over the in-memory view. No remote call.
func (m *Manager) Total() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := decimal.Zero
	for i := range m.items {
		total = total.Add(m.items[i].Subtotal())
	}
	return total
}

// Count is Σ(quantity), for the cart badge.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for i := range m.items {
		n += m.items[i].Quantity
	}
	return n
}
