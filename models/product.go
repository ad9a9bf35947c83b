package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID            string          `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	OriginalPrice decimal.Decimal `gorm:"type:numeric(10,2)" json:"original_price"`
	ImageURL      string          `json:"image_url"`
	Category      string          `gorm:"index" json:"category"`
	Ingredients   pq.StringArray  `gorm:"type:text[]" json:"ingredients"`
	Benefits      pq.StringArray  `gorm:"type:text[]" json:"benefits"`
	Badge         *string         `json:"badge"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}
