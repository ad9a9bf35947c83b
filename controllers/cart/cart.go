package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DivyaMourya2k47/ayurveda-glow-api/cart"
)

type AddItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type SetQuantityInput struct {
	Quantity int `json:"quantity"`
}

// GET /user/cart
func GetUserCart(carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		mgr, ok := managerFor(c, carts)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items": mgr.Items(),
			"total": mgr.Total(),
			"count": mgr.Count(),
		})
	}
}

// POST /user/cart
func AddCartItem(carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		mgr, ok := managerFor(c, carts)
		if !ok {
			return
		}

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.Quantity == 0 {
			input.Quantity = 1
		}

		if err := mgr.Add(c.Request.Context(), input.ProductID, input.Quantity); err != nil {
			if errors.Is(err, cart.ErrInvalidQuantity) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"items": mgr.Items(), "count": mgr.Count()})
	}
}

// PUT /user/cart/:item_id
func UpdateCartItem(carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		mgr, ok := managerFor(c, carts)
		if !ok {
			return
		}

		var input SetQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if err := mgr.SetQuantity(c.Request.Context(), c.Param("item_id"), input.Quantity); err != nil {
			if errors.Is(err, cart.ErrItemNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": mgr.Items(), "count": mgr.Count()})
	}
}

// DELETE /user/cart/:item_id
func DeleteCartItem(carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		mgr, ok := managerFor(c, carts)
		if !ok {
			return
		}

		if err := mgr.Remove(c.Request.Context(), c.Param("item_id")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// DELETE /user/cart
func ClearUserCart(carts *cart.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		mgr, ok := managerFor(c, carts)
		if !ok {
			return
		}

		if err := mgr.Clear(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

func managerFor(c *gin.Context, carts *cart.Registry) (*cart.Manager, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "redirect": "/login"})
		return nil, false
	}

	mgr, err := carts.ForUser(c.Request.Context(), userIDVal.(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "redirect": "/login"})
		return nil, false
	}
	return mgr, true
}
