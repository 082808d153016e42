package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/globetrek/booking-backend/errors"
)

// ClientHandler handles HTTP requests for client management.
type ClientHandler struct {
	booking BookingServiceInterface
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(booking BookingServiceInterface) *ClientHandler {
	return &ClientHandler{booking: booking}
}

// DeleteClientHandler removes a client that has no trip memberships.
// DELETE /v1/clients/:id
func (h *ClientHandler) DeleteClientHandler(c *gin.Context) {
	clientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid client ID", c.Param("id")))
		return
	}

	if err := h.booking.DeleteClient(c.Request.Context(), clientID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
