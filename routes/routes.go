package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DivyaMourya2k47/ayurveda-glow-api/cart"
	"github.com/DivyaMourya2k47/ayurveda-glow-api/checkout"
	"github.com/DivyaMourya2k47/ayurveda-glow-api/store"
)

// SetupRoutes is the single entry point that wires up all route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	carts := cart.NewRegistry(store.NewCartStore(db))
	orders := store.NewOrderStore(db)
	workflow := checkout.NewWorkflow(orders, carts)

	// Public auth + catalog routes (no middleware)
	SetupAuthRoutes(r, db)

	// User routes (JWT-protected)
	SetupUserRoutes(r, db, carts)

	// Order routes (JWT-protected)
	SetupOrderRoutes(r, db, orders, workflow)

	// Admin routes (JWT + is_admin)
	SetupAdminRoutes(r, db)
}
