package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/grocery-api/controllers"
	"github.com/Kariqs/grocery-api/middlewares"
)

func ProductRoutes(server *gin.Engine) {
	product := server.Group("/api/product")
	{
		product.GET("/get", controllers.GetProducts)
		product.GET("/details/:id", controllers.GetProductDetails)
		product.GET("/by-category/:categoryId", controllers.GetProductByCategory)
		product.GET("/by-category/:categoryId/:subCategoryId", controllers.GetProductByCategoryAndSubCategory)
		product.GET("/search", controllers.SearchProduct)

		admin := product.Group("", middlewares.RequireAuth(), middlewares.RequireAdmin())
		admin.POST("/create", controllers.CreateProduct)
		admin.PUT("/update/:id", controllers.UpdateProduct)
		admin.DELETE("/delete/:id", controllers.DeleteProduct)
	}
}
