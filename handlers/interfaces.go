// Package handlers exposes the HTTP surface of the booking backend.
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	apperrors "github.com/globetrek/booking-backend/errors"
	"github.com/globetrek/booking-backend/types"
)

// BookingServiceInterface is the booking surface consumed by handlers.
type BookingServiceInterface interface {
	RegisterClientOnTrip(ctx context.Context, tripID int64, req types.RegisterClientRequest) (*types.Membership, error)
	DeleteClient(ctx context.Context, clientID int64) error
}

// TripCatalogInterface is the catalog surface consumed by handlers.
type TripCatalogInterface interface {
	ListTrips(ctx context.Context, pageNum, pageSize int) (*types.TripsPage, error)
}

// bindJSONOrError binds the request body into obj, attaching a validation
// error to the context on failure. Returns false when binding failed.
func bindJSONOrError(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		c.Abort()
		return false
	}
	return true
}
