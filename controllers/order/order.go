package orderControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DivyaMourya2k47/ayurveda-glow-api/cart"
	"github.com/DivyaMourya2k47/ayurveda-glow-api/checkout"
	"github.com/DivyaMourya2k47/ayurveda-glow-api/models"
	"github.com/DivyaMourya2k47/ayurveda-glow-api/store"
)

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// POST /orders/checkout
//
// Each precondition failure maps to its own outward effect: missing auth
// redirects to login, an empty cart redirects back to the cart view, and an
// incomplete profile prompts for the missing fields. Nothing is written
// until all three hold.
func CheckoutHandler(db *gorm.DB, workflow *checkout.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "redirect": "/login"})
			return
		}
		userID := userIDVal.(string)

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found", "redirect": "/login"})
			return
		}

		order, err := workflow.PlaceOrder(c.Request.Context(), userID, user)
		if err != nil {
			var incomplete *checkout.IncompleteProfileError
			switch {
			case errors.Is(err, cart.ErrUnauthenticated):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "redirect": "/login"})
			case errors.Is(err, checkout.ErrEmptyCart):
				c.JSON(http.StatusConflict, gin.H{"error": "Cart is empty", "redirect": "/cart"})
			case errors.As(err, &incomplete):
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error":          "Please complete your shipping profile",
					"missing_fields": incomplete.Missing,
					"redirect":       "/profile",
				})
			case errors.Is(err, checkout.ErrCheckoutInFlight):
				c.JSON(http.StatusConflict, gin.H{"error": "An order is already being placed"})
			case errors.Is(err, checkout.ErrInsufficientStock):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order. Please try again."})
			}
			return
		}

		broadcastNewOrder(*order)

		c.JSON(http.StatusCreated, gin.H{
			"order_success": true,
			"order":         order,
			"redirect":      "/orders",
		})
	}
}

// GET /orders
func GetUserOrdersHandler(orders *store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "redirect": "/login"})
			return
		}

		result, err := orders.UserOrders(c.Request.Context(), userIDVal.(string))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// GET /orders/:orderID
func GetOrderByIDHandler(orders *store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "redirect": "/login"})
			return
		}

		order, err := orders.OrderByID(c.Request.Context(), c.Param("orderID"), userIDVal.(string))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /admin/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("Items").
			Preload("Items.Product").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// PUT /admin/orders/:orderID/status
//
// Transitions must follow the status graph; anything else is rejected
// without touching the row.
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}

		if !order.Status.CanTransitionTo(newStatus) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Cannot move order from " + string(order.Status) + " to " + string(newStatus),
			})
			return
		}

		if err := db.Model(&order).Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}
