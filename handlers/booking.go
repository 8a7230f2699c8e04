package handlers

import (
	"net/http"
	"strconv"

	"slotwise/models"
	"slotwise/services/booking"
	"slotwise/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes slot queries and the booking lifecycle.
type BookingHandler struct {
	Service booking.SchedulingService
}

func NewBookingHandler(svc booking.SchedulingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// ListSlotsHandler serves GET /api/providers/:providerId/slots?from=&to=&tz=.
func (h *BookingHandler) ListSlotsHandler(c *gin.Context) {
	if _, ok := actorFrom(c); !ok {
		return
	}
	slots, err := h.Service.ListSlots(c.Request.Context(), models.SlotQuery{
		ProviderUserID: c.Param("providerId"),
		From:           c.Query("from"),
		To:             c.Query("to"),
		TimeZone:       c.Query("tz"),
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var input models.CreateBookingInput
	if !bindJSON(c, &input) {
		return
	}

	created, err := h.Service.CreateBooking(c.Request.Context(), actor, input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	b, err := h.Service.GetBooking(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	query := booking.ListQuery{
		ProviderUserID: c.Query("providerUserId"),
		Status:         c.Query("status"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "Invalid limit", raw)
			return
		}
		query.Limit = limit
	}

	bookings, err := h.Service.ListBookings(c.Request.Context(), actor, query)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if !bindOptionalJSON(c, &body) {
		return
	}

	b, err := h.Service.CancelBooking(c.Request.Context(), actor, c.Param("id"), body.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) CompleteBookingHandler(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	b, err := h.Service.CompleteBooking(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) RescheduleBookingHandler(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var input models.RescheduleInput
	if !bindJSON(c, &input) {
		return
	}

	res, err := h.Service.RescheduleBooking(c.Request.Context(), actor, c.Param("id"), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *BookingHandler) GetHistoryHandler(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	history, err := h.Service.GetHistory(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
