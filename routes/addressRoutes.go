package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/grocery-api/controllers"
	"github.com/Kariqs/grocery-api/middlewares"
)

func AddressRoutes(server *gin.Engine) {
	address := server.Group("/api/address", middlewares.RequireAuth())
	{
		address.POST("/create", controllers.AddAddress)
		address.GET("/get", controllers.GetAddresses)
		address.PUT("/update/:id", controllers.UpdateAddress)
		address.DELETE("/disable/:id", controllers.DisableAddress)
	}
}
