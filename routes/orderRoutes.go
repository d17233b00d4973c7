package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/grocery-api/controllers"
	"github.com/Kariqs/grocery-api/middlewares"
)

func OrderRoutes(server *gin.Engine) {
	order := server.Group("/api/order")
	{
		// The gateway signs its calls; there is no user session.
		order.POST("/webhook", controllers.StripeWebhook)

		order.POST("/cash-on-delivery", middlewares.RequireAuth(), controllers.CashOnDeliveryOrder)
		order.POST("/checkout", middlewares.RequireAuth(), controllers.PaymentCheckout)
		order.GET("/order-list", middlewares.RequireAuth(), controllers.GetOrderDetails)
	}
}
