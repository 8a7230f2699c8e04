package handlers

import (
	"net/http"
	"time"

	"slotwise/models"
	"slotwise/services/provider"
	"slotwise/utils"

	"github.com/gin-gonic/gin"
)

// ProviderHandler exposes weekly availability and blackout management.
type ProviderHandler struct {
	Service provider.AvailabilityService
}

func NewProviderHandler(svc provider.AvailabilityService) *ProviderHandler {
	return &ProviderHandler{Service: svc}
}

func (h *ProviderHandler) GetAvailabilityHandler(c *gin.Context) {
	if _, ok := actorFrom(c); !ok {
		return
	}
	weekly, err := h.Service.GetWeeklyAvailability(c.Request.Context(), c.Param("providerId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, weekly)
}

func (h *ProviderHandler) SetAvailabilityHandler(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var input models.WeeklyAvailabilityInput
	if !bindJSON(c, &input) {
		return
	}

	weekly, err := h.Service.SetWeeklyAvailability(c.Request.Context(), actor, c.Param("providerId"), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, weekly)
}

func (h *ProviderHandler) DeactivateAvailabilityHandler(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	if err := h.Service.DeactivateWeeklyAvailability(c.Request.Context(), actor, c.Param("providerId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListBlackoutsHandler serves GET /api/providers/:providerId/blackouts?from=&to=
// with RFC 3339 bounds. Without bounds the next 30 days are listed.
func (h *ProviderHandler) ListBlackoutsHandler(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	from := time.Now().UTC()
	to := from.AddDate(0, 0, 30)
	for name, dst := range map[string]*time.Time{"from": &from, "to": &to} {
		if raw := c.Query(name); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				utils.JSONError(c, http.StatusBadRequest, "Invalid "+name, err.Error())
				return
			}
			*dst = parsed
		}
	}

	blackouts, err := h.Service.ListBlackouts(c.Request.Context(), actor, c.Param("providerId"), from, to)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blackouts": blackouts})
}

func (h *ProviderHandler) CreateBlackoutHandler(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var input models.BlackoutInput
	if !bindJSON(c, &input) {
		return
	}

	blackout, err := h.Service.CreateBlackout(c.Request.Context(), actor, c.Param("providerId"), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, blackout)
}

func (h *ProviderHandler) RemoveBlackoutHandler(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	if err := h.Service.RemoveBlackout(c.Request.Context(), actor, c.Param("blackoutId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
