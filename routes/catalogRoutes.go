package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/grocery-api/controllers"
	"github.com/Kariqs/grocery-api/middlewares"
)

func CategoryRoutes(server *gin.Engine) {
	category := server.Group("/api/category")
	{
		category.GET("/get", controllers.GetCategories)
		category.POST("/add-category", middlewares.RequireAuth(), middlewares.RequireAdmin(), controllers.AddCategory)
		category.PUT("/update/:id", middlewares.RequireAuth(), middlewares.RequireAdmin(), controllers.UpdateCategory)
		category.DELETE("/delete/:id", middlewares.RequireAuth(), middlewares.RequireAdmin(), controllers.DeleteCategory)
	}

	subCategory := server.Group("/api/subcategory")
	{
		subCategory.GET("/get", controllers.GetSubCategories)
		subCategory.POST("/create", middlewares.RequireAuth(), middlewares.RequireAdmin(), controllers.AddSubCategory)
		subCategory.PUT("/update/:id", middlewares.RequireAuth(), middlewares.RequireAdmin(), controllers.UpdateSubCategory)
		subCategory.DELETE("/delete/:id", middlewares.RequireAuth(), middlewares.RequireAdmin(), controllers.DeleteSubCategory)
	}

	server.POST("/api/file/upload", middlewares.RequireAuth(), controllers.UploadImage)
}
