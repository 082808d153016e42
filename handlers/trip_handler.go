package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/globetrek/booking-backend/errors"
	"github.com/globetrek/booking-backend/logger"
	"github.com/globetrek/booking-backend/types"
)

// TripHandler handles HTTP requests for the trip catalog and trip registrations.
type TripHandler struct {
	catalog TripCatalogInterface
	booking BookingServiceInterface
}

// NewTripHandler creates a new TripHandler with the given dependencies.
func NewTripHandler(catalog TripCatalogInterface, booking BookingServiceInterface) *TripHandler {
	return &TripHandler{
		catalog: catalog,
		booking: booking,
	}
}

// RegisterClientResponse is the body returned on successful registration.
type RegisterClientResponse struct {
	ClientID     int64  `json:"clientId"`
	TripID       int64  `json:"tripId"`
	RegisteredAt string `json:"registeredAt"`
}

// ListTripsHandler returns one page of the trip catalog.
// GET /v1/trips?pageNumber=1&pageSize=10
func (h *TripHandler) ListTripsHandler(c *gin.Context) {
	pageNum := intQuery(c, "pageNumber", 1)
	pageSize := intQuery(c, "pageSize", 10)

	page, err := h.catalog.ListTrips(c.Request.Context(), pageNum, pageSize)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// RegisterClientHandler registers a new client onto a trip.
// POST /v1/trips/:id/clients
func (h *TripHandler) RegisterClientHandler(c *gin.Context) {
	log := logger.GetLogger()

	tripID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid trip ID", c.Param("id")))
		return
	}

	var req types.RegisterClientRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	membership, err := h.booking.RegisterClientOnTrip(c.Request.Context(), tripID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	log.Infow("Client registered on trip",
		"tripId", tripID,
		"clientId", membership.ClientID,
		"requestId", c.GetString("request_id"))

	c.JSON(http.StatusCreated, RegisterClientResponse{
		ClientID:     membership.ClientID,
		TripID:       membership.TripID,
		RegisteredAt: membership.RegisteredAt.Format(time.RFC3339),
	})
}

// intQuery reads an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
