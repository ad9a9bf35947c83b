package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DivyaMourya2k47/ayurveda-glow-api/cart"
	cartControllers "github.com/DivyaMourya2k47/ayurveda-glow-api/controllers/cart"
	userControllers "github.com/DivyaMourya2k47/ayurveda-glow-api/controllers/user"
	"github.com/DivyaMourya2k47/ayurveda-glow-api/middleware"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, carts *cart.Registry) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		// ──────────────── User Profile ────────────────
		userGroup.GET("/", userControllers.GetUser(db))    // GET /user/
		userGroup.PUT("/", userControllers.UpdateUser(db)) // PUT /user/

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetUserCart(carts))             // GET /user/cart
			cartGroup.POST("/", cartControllers.AddCartItem(carts))            // POST /user/cart
			cartGroup.PUT("/:item_id", cartControllers.UpdateCartItem(carts))  // PUT /user/cart/:item_id
			cartGroup.DELETE("/:item_id", cartControllers.DeleteCartItem(carts)) // DELETE /user/cart/:item_id
			cartGroup.DELETE("/", cartControllers.ClearUserCart(carts))        // DELETE /user/cart
		}
	}
}
