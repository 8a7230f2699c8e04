package handlers

import (
	"errors"
	"io"
	"net/http"

	"slotwise/middleware"
	"slotwise/models"
	"slotwise/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request logger set by middleware.RequestLogger.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

// actorFrom returns the authenticated actor or writes a 401.
func actorFrom(c *gin.Context) (models.Actor, bool) {
	if v, exists := c.Get(middleware.ActorContextKey); exists {
		if actor, ok := v.(models.Actor); ok && actor.UserID != "" {
			return actor, true
		}
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Code: "unauthorized", Message: "Not authenticated"})
	return models.Actor{}, false
}

// bindOptionalJSON binds a body that may be absent.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return false
	}
	return true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		getLogger(c).Debug("Invalid request payload", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return false
	}
	return true
}
