package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/grocery-api/controllers"
	"github.com/Kariqs/grocery-api/middlewares"
)

func UserRoutes(server *gin.Engine) {
	user := server.Group("/api/user")
	{
		user.POST("/register", controllers.RegisterUser)
		user.POST("/verify_email", controllers.VerifyEmail)
		user.POST("/login", controllers.Login)
		user.GET("/logout", middlewares.RequireAuth(), controllers.Logout)
		user.PUT("/upload-avatar", middlewares.RequireAuth(), controllers.UploadAvatar)
		user.PUT("/update-user", middlewares.RequireAuth(), controllers.UpdateUserDetails)
		user.PUT("/forgot-password", controllers.ForgotPassword)
		user.PUT("/verify-forgot-password-otp", controllers.VerifyForgotPasswordOTP)
		user.PUT("/reset-password", controllers.ResetPassword)
		user.POST("/refresh-token", controllers.RefreshToken)
		user.GET("/user-details", middlewares.RequireAuth(), controllers.UserDetails)
	}
}
