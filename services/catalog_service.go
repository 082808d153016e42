package services

import (
	"context"
	"sort"

	apperrors "github.com/globetrek/booking-backend/errors"
	"github.com/globetrek/booking-backend/internal/store"
	"github.com/globetrek/booking-backend/logger"
	"github.com/globetrek/booking-backend/types"
	"go.uber.org/zap"
)

const (
	defaultPageNum  = 1
	defaultPageSize = 10
)

// TripCatalogService computes paginated, shaped pages of the trip catalog.
type TripCatalogService struct {
	store store.BookingStore
	log   *zap.SugaredLogger
}

// NewTripCatalogService creates a new trip catalog service.
func NewTripCatalogService(bookingStore store.BookingStore) *TripCatalogService {
	return &TripCatalogService{
		store: bookingStore,
		log:   logger.GetLogger(),
	}
}

// ListTrips returns one page of trips ordered by start date descending, each
// shaped with its sorted country names and registered client names, plus
// pagination metadata. Page numbers below 1 are coerced to 1 and page sizes
// below 1 to the default of 10; no upper bound is enforced.
func (s *TripCatalogService) ListTrips(ctx context.Context, pageNum, pageSize int) (*types.TripsPage, error) {
	if pageNum < 1 {
		pageNum = defaultPageNum
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	total, err := s.store.CountTrips(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	// Ceiling division; zero trips means zero pages.
	allPages := (total + pageSize - 1) / pageSize

	trips, err := s.store.ListTrips(ctx, (pageNum-1)*pageSize, pageSize)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	summaries := make([]types.TripSummary, 0, len(trips))
	for _, trip := range trips {
		summaries = append(summaries, shapeTrip(trip))
	}

	s.log.Debugw("Listed trips", "pageNum", pageNum, "pageSize", pageSize,
		"allPages", allPages, "returned", len(summaries))

	return &types.TripsPage{
		PageNum:  pageNum,
		PageSize: pageSize,
		AllPages: allPages,
		Trips:    summaries,
	}, nil
}

// shapeTrip projects a stored trip into its catalog form: country names sorted
// ascending, client names kept in store-return order.
func shapeTrip(trip types.Trip) types.TripSummary {
	countries := make([]string, 0, len(trip.Countries))
	for _, c := range trip.Countries {
		countries = append(countries, c.Name)
	}
	sort.Strings(countries)

	clients := make([]types.ClientName, 0, len(trip.Clients))
	for _, c := range trip.Clients {
		clients = append(clients, types.ClientName{
			FirstName: c.FirstName,
			LastName:  c.LastName,
		})
	}

	return types.TripSummary{
		Name:        trip.Name,
		Description: trip.Description,
		DateFrom:    trip.DateFrom,
		DateTo:      trip.DateTo,
		MaxPeople:   trip.MaxPeople,
		Countries:   countries,
		Clients:     clients,
	}
}
