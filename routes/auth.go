package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DivyaMourya2k47/ayurveda-glow-api/auth"
	productcontroller "github.com/DivyaMourya2k47/ayurveda-glow-api/controllers/product"
)

// SetupAuthRoutes registers the public endpoints: auth and the catalog.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.Register(db))
		authGroup.POST("/login", auth.Login(db))
	}

	// Catalog browsing needs no session
	r.GET("/products", productcontroller.GetProducts(db))
	r.GET("/products/:id", productcontroller.GetProductByID(db))
}
