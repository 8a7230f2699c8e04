package middleware

import (
	"net/http"
	"strings"

	"slotwise/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ActorContextKey is where JWTAuthMiddleware stores the authenticated models.Actor.
const ActorContextKey = "actor"

// JWTAuthMiddleware resolves the bearer token into an actor. Tokens are issued
// elsewhere; only the signature, expiry, subject and role are checked here.
func JWTAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
				Code:    "unauthorized",
				Message: "Missing or invalid Authorization header",
			})
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		actor, err := utils.ParseActorToken(secret, tokenString)
		if err != nil {
			utils.GetLogger().Debug("Rejected token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
				Code:    "unauthorized",
				Message: "Invalid token",
			})
			return
		}

		c.Set(ActorContextKey, actor)
		c.Next()
	}
}
