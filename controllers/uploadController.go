package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kariqs/grocery-api/initializers"
	"github.com/Kariqs/grocery-api/utils"
)

const msgUploadFailed = "Unable to upload image"

// NewImageStore opens the store uploads are written to. Tests replace it.
var NewImageStore = func(ctx context.Context) (utils.ImageStore, error) {
	return utils.NewS3Store(ctx, initializers.Config.AWSBucket)
}

func UploadImage(ctx *gin.Context) {
	file, err := ctx.FormFile("image")
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Provide an image")
		return
	}
	if err := utils.ValidateImage(file); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	store, err := NewImageStore(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgUploadFailed, err)
		return
	}
	location, err := store.Upload(ctx.Request.Context(), "category-images", file)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgUploadFailed, err)
		return
	}

	sendSuccess(ctx, http.StatusOK, "Upload done", gin.H{"url": location})
}
