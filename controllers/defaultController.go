package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Grocery API. The following are the endpoints for this API:

USER
- POST "/api/user/register" - Create user account
- POST "/api/user/verify_email" - Verify email with the emailed code
- POST "/api/user/login" - Access user account
- GET "/api/user/logout" - Sign out
- PUT "/api/user/upload-avatar" - Upload avatar
- PUT "/api/user/update-user" - Update name, email, mobile or password
- PUT "/api/user/forgot-password" - Email a password reset OTP
- PUT "/api/user/verify-forgot-password-otp" - Check the reset OTP
- PUT "/api/user/reset-password" - Set a new password
- POST "/api/user/refresh-token" - Issue a new access token
- GET "/api/user/user-details" - Current user

CATALOG
- /api/category - add-category, get, update/:id, delete/:id
- /api/subcategory - create, get, update/:id, delete/:id
- /api/product - create, get, details/:id, by-category/:categoryId, by-category/:categoryId/:subCategoryId, search, update/:id, delete/:id
- POST "/api/file/upload" - Upload an image

CART
- POST "/api/cart/create" - Add a product
- GET "/api/cart/get" - Cart with totals
- PUT "/api/cart/update-qty" - Set quantity
- PUT "/api/cart/increment/:id", PUT "/api/cart/decrement/:id"
- DELETE "/api/cart/delete-cart-item/:id"

ADDRESS
- /api/address - create, get, update/:id, disable/:id

ORDER
- POST "/api/order/cash-on-delivery" - Place cash on delivery orders
- POST "/api/order/checkout" - Start a card payment
- POST "/api/order/webhook" - Payment gateway notifications
- GET "/api/order/order-list" - Order history`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
