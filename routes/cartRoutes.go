package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/grocery-api/controllers"
	"github.com/Kariqs/grocery-api/middlewares"
)

func CartRoutes(server *gin.Engine) {
	cart := server.Group("/api/cart", middlewares.RequireAuth())
	{
		cart.POST("/create", controllers.AddToCart)
		cart.GET("/get", controllers.GetCart)
		cart.PUT("/update-qty", controllers.UpdateCartQuantity)
		cart.PUT("/increment/:id", controllers.IncrementCartItem)
		cart.PUT("/decrement/:id", controllers.DecrementCartItem)
		cart.DELETE("/delete-cart-item/:id", controllers.DeleteCartItem)
	}
}
