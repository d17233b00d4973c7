package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kariqs/grocery-api/services"
)

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message, "error": true, "success": false})
}

func sendSuccess(ctx *gin.Context, status int, message string, data any) {
	body := gin.H{"message": message, "error": false, "success": true}
	if data != nil {
		body["data"] = data
	}
	sendJSONResponse(ctx, status, body)
}

// respondWithError logs err and sends message without exposing the cause.
func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	if err != nil {
		_ = ctx.Error(err)
		zap.L().Error(message,
			zap.String("path", ctx.FullPath()),
			zap.Error(err),
		)
	}
	sendErrorResponse(ctx, statusCode, message)
}

var kindStatus = map[services.Kind]int{
	services.KindValidation:      http.StatusBadRequest,
	services.KindConflict:        http.StatusConflict,
	services.KindNotFound:        http.StatusNotFound,
	services.KindUnauthenticated: http.StatusUnauthorized,
	services.KindUpstream:        http.StatusBadGateway,
	services.KindPersist:         http.StatusInternalServerError,
}

// respondWithServiceError maps a cart or checkout failure onto a status code.
func respondWithServiceError(ctx *gin.Context, err error) {
	kind := services.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}
	if status >= http.StatusInternalServerError || kind == services.KindUpstream {
		respondWithError(ctx, status, publicMessage(err), err)
		return
	}
	sendErrorResponse(ctx, status, publicMessage(err))
}

func publicMessage(err error) string {
	switch services.KindOf(err) {
	case services.KindUpstream:
		return services.ErrUpstream.Error()
	case services.KindPersist:
		return services.ErrPersistFailed.Error()
	default:
		return err.Error()
	}
}

func currentUserID(ctx *gin.Context) uint {
	return ctx.GetUint("userId")
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
