package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/grocery-api/controllers"
)

func DefaultRoutes(server *gin.Engine) {
	server.GET("/", controllers.GetHome)
}

// RegisterAll mounts every route group on server.
func RegisterAll(server *gin.Engine) {
	DefaultRoutes(server)
	UserRoutes(server)
	CategoryRoutes(server)
	ProductRoutes(server)
	CartRoutes(server)
	AddressRoutes(server)
	OrderRoutes(server)
}
