package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kariqs/grocery-api/initializers"
	"github.com/Kariqs/grocery-api/services"
)

func cartService() *services.CartService {
	return services.NewCartService(initializers.DB)
}

func AddToCart(ctx *gin.Context) {
	var body struct {
		ProductID uint `json:"productId" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Provide productId")
		return
	}

	cart, err := cartService().Add(ctx.Request.Context(), currentUserID(ctx), body.ProductID)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendSuccess(ctx, http.StatusOK, "Item add successfully", cart)
}

func GetCart(ctx *gin.Context) {
	cart, err := cartService().List(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendSuccess(ctx, http.StatusOK, "", cart)
}

func UpdateCartQuantity(ctx *gin.Context) {
	var body struct {
		ID  uint `json:"_id" binding:"required"`
		Qty *int `json:"qty" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "provide _id, qty")
		return
	}

	cart, err := cartService().SetQuantity(ctx.Request.Context(), currentUserID(ctx), body.ID, *body.Qty)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendSuccess(ctx, http.StatusOK, "Update cart", cart)
}

func IncrementCartItem(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, "Provide _id")
		return
	}

	cart, err := cartService().Increment(ctx.Request.Context(), currentUserID(ctx), id)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendSuccess(ctx, http.StatusOK, "Update cart", cart)
}

// DecrementCartItem removes the item once its quantity would reach zero.
func DecrementCartItem(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, "Provide _id")
		return
	}

	cart, err := cartService().Decrement(ctx.Request.Context(), currentUserID(ctx), id)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendSuccess(ctx, http.StatusOK, "Update cart", cart)
}

func DeleteCartItem(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, "Provide _id")
		return
	}

	cart, err := cartService().Remove(ctx.Request.Context(), currentUserID(ctx), id)
	if err != nil {
		respondWithServiceError(ctx, err)
		return
	}
	sendSuccess(ctx, http.StatusOK, "Item remove", cart)
}
