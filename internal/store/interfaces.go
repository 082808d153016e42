// Package store defines the storage abstractions the domain services depend on.
package store

import (
	"context"
	"time"

	"github.com/globetrek/booking-backend/types"
)

// TxStore exposes the write operations available inside a transaction scope.
type TxStore interface {
	// CreateClient inserts a new client and returns its assigned id.
	CreateClient(ctx context.Context, client *types.Client) (int64, error)
	// CreateMembership inserts a new client-trip membership row.
	CreateMembership(ctx context.Context, membership *types.Membership) error
}

// BookingStore provides all client/trip/membership data operations.
type BookingStore interface {
	// CountTrips returns the total number of stored trips.
	CountTrips(ctx context.Context) (int, error)
	// ListTrips returns one page of trips ordered by start date descending,
	// each with its countries and registered clients attached.
	ListTrips(ctx context.Context, offset, limit int) ([]types.Trip, error)

	// FindClientByPesel returns the client with the given pesel, or nil when absent.
	FindClientByPesel(ctx context.Context, pesel string) (*types.Client, error)
	// PeselHasMembership reports whether any membership references a client
	// with the given pesel, across all trips.
	PeselHasMembership(ctx context.Context, pesel string) (bool, error)
	// FindTripByID returns the trip with the given id, or nil when absent.
	FindTripByID(ctx context.Context, id int64) (*types.Trip, error)
	// TripStartsBefore reports whether the trip's start date is strictly
	// before the given instant.
	TripStartsBefore(ctx context.Context, id int64, instant time.Time) (bool, error)

	// FindClientByID returns the client with the given id, or nil when absent.
	FindClientByID(ctx context.Context, id int64) (*types.Client, error)
	// CountMembershipsForClient returns the number of memberships referencing
	// the client.
	CountMembershipsForClient(ctx context.Context, id int64) (int, error)
	// DeleteClient removes the client row.
	DeleteClient(ctx context.Context, id int64) error

	// RunInTx executes fn inside a single database transaction. All writes
	// performed through the TxStore commit together or not at all.
	RunInTx(ctx context.Context, fn func(tx TxStore) error) error
}
