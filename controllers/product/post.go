package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/DivyaMourya2k47/ayurveda-glow-api/models"
)

type CreateProductInput struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	ImageURL      string          `json:"image_url"`
	Category      string          `json:"category"`
	Ingredients   []string        `json:"ingredients"`
	Benefits      []string        `json:"benefits"`
	Badge         *string         `json:"badge"`
	StockQuantity int             `json:"stock_quantity"`
	IsActive      *bool           `json:"is_active"`
}

// POST /admin/products
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.Price.IsNegative() || input.OriginalPrice.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Prices must be non-negative"})
			return
		}
		if input.StockQuantity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock_quantity must be non-negative"})
			return
		}

		isActive := true
		if input.IsActive != nil {
			isActive = *input.IsActive
		}

		product := models.Product{
			ID:            uuid.NewString(),
			Name:          input.Name,
			Description:   input.Description,
			Price:         input.Price,
			OriginalPrice: input.OriginalPrice,
			ImageURL:      input.ImageURL,
			Category:      input.Category,
			Ingredients:   pq.StringArray(input.Ingredients),
			Benefits:      pq.StringArray(input.Benefits),
			Badge:         input.Badge,
			StockQuantity: input.StockQuantity,
			IsActive:      isActive,
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}
