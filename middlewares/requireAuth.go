package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Kariqs/grocery-api/initializers"
	"github.com/Kariqs/grocery-api/utils"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// BearerOrCookie reads a token from the named cookie, falling back to the Authorization header.
func BearerOrCookie(ctx *gin.Context, cookie string) string {
	if token, err := ctx.Cookie(cookie); err == nil && token != "" {
		return token
	}
	header := ctx.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// RequireAuth verifies the access token and stores the claims as "user" and the id as "userId".
func RequireAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := BearerOrCookie(ctx, AccessTokenCookie)
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Provide token", "error": true, "success": false})
			return
		}

		claims, err := utils.ParseToken(token, initializers.Config.AccessTokenSecret)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized access", "error": true, "success": false})
			return
		}
		userID, ok := utils.ClaimUserID(claims)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized access", "error": true, "success": false})
			return
		}

		ctx.Set("user", claims)
		ctx.Set("userId", userID)
		ctx.Next()
	}
}
