package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DivyaMourya2k47/ayurveda-glow-api/cart"
	"github.com/DivyaMourya2k47/ayurveda-glow-api/checkout"
	"github.com/DivyaMourya2k47/ayurveda-glow-api/models"
)

// CartStore is the GORM-backed implementation of cart.Store. Every query is
// scoped by user_id, so one user can never touch another's rows.
type CartStore struct {
	db *gorm.DB
}

func NewCartStore(db *gorm.DB) *CartStore {
	return &CartStore{db: db}
}

func (s *CartStore) FetchCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := s.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *CartStore) InsertItem(ctx context.Context, item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *CartStore) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	result := s.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

func (s *CartStore) DeleteItem(ctx context.Context, userID, itemID string) error {
	// Zero rows affected is fine: removing an already-removed line is a no-op.
	return s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItem{}).Error
}

func (s *CartStore) DeleteAll(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}

// OrderStore is the GORM-backed implementation of checkout.OrderStore.
type OrderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

// CreateOrder writes the order, its items, and the stock decrements in one
// transaction. Product rows are locked for update so concurrent checkouts
// cannot oversell; any shortfall rolls the whole order back.
func (s *OrderStore) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range items {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ?", items[i].ProductID).Error; err != nil {
				return err
			}
			if product.StockQuantity < items[i].Quantity {
				return fmt.Errorf("%w: %s", checkout.ErrInsufficientStock, product.Name)
			}
			if err := tx.Model(&product).
				Update("stock_quantity", product.StockQuantity-items[i].Quantity).Error; err != nil {
				return err
			}

			items[i].ID = uuid.NewString()
			items[i].OrderID = order.ID
		}

		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return tx.Create(&items).Error
	})
}

// UserOrders returns a user's order history, newest first, with items and
// their product snapshots preloaded.
func (s *OrderStore) UserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Items").
		Preload("Items.Product").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// OrderByID fetches one order. When userID is non-empty the lookup is
// scoped to that owner.
func (s *OrderStore) OrderByID(ctx context.Context, orderID, userID string) (*models.Order, error) {
	query := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Where("id = ?", orderID)
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var order models.Order
	if err := query.First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}
