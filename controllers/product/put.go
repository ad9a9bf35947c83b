package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/DivyaMourya2k47/ayurveda-glow-api/models"
)

type UpdateProductInput struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	ImageURL      *string          `json:"image_url"`
	Category      *string          `json:"category"`
	Ingredients   []string         `json:"ingredients"`
	Benefits      []string         `json:"benefits"`
	Badge         *string          `json:"badge"`
	StockQuantity *int             `json:"stock_quantity"`
	IsActive      *bool            `json:"is_active"`
}

// PUT /admin/products/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}

		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.Price != nil {
			if input.Price.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "price must be non-negative"})
				return
			}
			updates["price"] = *input.Price
		}
		if input.OriginalPrice != nil {
			if input.OriginalPrice.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "original_price must be non-negative"})
				return
			}
			updates["original_price"] = *input.OriginalPrice
		}
		if input.ImageURL != nil {
			updates["image_url"] = *input.ImageURL
		}
		if input.Category != nil {
			updates["category"] = *input.Category
		}
		if input.Ingredients != nil {
			updates["ingredients"] = pq.StringArray(input.Ingredients)
		}
		if input.Benefits != nil {
			updates["benefits"] = pq.StringArray(input.Benefits)
		}
		if input.Badge != nil {
			updates["badge"] = *input.Badge
		}
		if input.StockQuantity != nil {
			if *input.StockQuantity < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "stock_quantity must be non-negative"})
				return
			}
			updates["stock_quantity"] = *input.StockQuantity
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}

		if len(updates) > 0 {
			if err := db.Model(&product).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
				return
			}
		}

		c.JSON(http.StatusOK, product)
	}
}
