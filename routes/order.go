package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DivyaMourya2k47/ayurveda-glow-api/checkout"
	orderControllers "github.com/DivyaMourya2k47/ayurveda-glow-api/controllers/order"
	"github.com/DivyaMourya2k47/ayurveda-glow-api/middleware"
	"github.com/DivyaMourya2k47/ayurveda-glow-api/store"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, orders *store.OrderStore, workflow *checkout.Workflow) {
	orderGroup := r.Group("/orders")
	orderGroup.Use(middleware.ValidateToken)
	{
		// Place an order from the current cart
		orderGroup.POST("/checkout", orderControllers.CheckoutHandler(db, workflow))

		// Order history for the signed-in user
		orderGroup.GET("/", orderControllers.GetUserOrdersHandler(orders))
		orderGroup.GET("/:orderID", orderControllers.GetOrderByIDHandler(orders))
	}

	// websocket endpoint for real-time order updates
	r.GET("/orders/ws", orderControllers.OrderWebSocketHandler)
}
