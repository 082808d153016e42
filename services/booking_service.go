package services

import (
	"context"
	"time"

	apperrors "github.com/globetrek/booking-backend/errors"
	"github.com/globetrek/booking-backend/internal/dates"
	"github.com/globetrek/booking-backend/internal/store"
	"github.com/globetrek/booking-backend/logger"
	"github.com/globetrek/booking-backend/types"
	"go.uber.org/zap"
)

// BookingService orchestrates the register-client-on-trip workflow: an ordered
// sequence of precondition checks followed by a two-step write inside a single
// transaction. It also owns the client deletion guard.
type BookingService struct {
	store store.BookingStore
	log   *zap.SugaredLogger
	now   func() time.Time
}

// NewBookingService creates a new booking service.
func NewBookingService(bookingStore store.BookingStore) *BookingService {
	return &BookingService{
		store: bookingStore,
		log:   logger.GetLogger(),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// RegisterClientOnTrip validates the request and, if every check passes,
// creates the client and its trip membership atomically. The checks run in a
// fixed order and short-circuit on the first failure; no writes happen until
// all of them pass.
func (s *BookingService) RegisterClientOnTrip(ctx context.Context, tripID int64, req types.RegisterClientRequest) (*types.Membership, error) {
	if err := s.runPreconditions(ctx, tripID, req.Pesel); err != nil {
		return nil, err
	}

	paymentDate, err := dates.ParsePaymentDate(req.PaymentDate)
	if err != nil {
		return nil, apperrors.ValidationFailed("invalid payment date format", req.PaymentDate)
	}

	membership := &types.Membership{
		TripID:       tripID,
		RegisteredAt: s.now(),
		PaymentDate:  paymentDate,
	}

	err = s.store.RunInTx(ctx, func(tx store.TxStore) error {
		clientID, err := tx.CreateClient(ctx, &types.Client{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Telephone: req.Telephone,
			Pesel:     req.Pesel,
		})
		if err != nil {
			return err
		}
		membership.ClientID = clientID
		return tx.CreateMembership(ctx, membership)
	})
	if err != nil {
		if _, ok := err.(*apperrors.AppError); ok {
			return nil, err
		}
		s.log.Errorw("Registration transaction failed",
			"tripId", tripID, "pesel", logger.MaskPesel(req.Pesel), "error", err)
		return nil, apperrors.NewDatabaseError(err)
	}

	s.log.Infow("Registered client on trip",
		"tripId", tripID, "clientId", membership.ClientID,
		"pesel", logger.MaskPesel(req.Pesel))
	return membership, nil
}

// runPreconditions executes the ordered read-only checks. Each check
// short-circuits: later checks do not run once one fails.
func (s *BookingService) runPreconditions(ctx context.Context, tripID int64, pesel string) error {
	existing, err := s.store.FindClientByPesel(ctx, pesel)
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	if existing != nil {
		return apperrors.Conflict("client already exists",
			"a client with this pesel is already registered")
	}

	// Deliberately global: a pesel with a membership on any trip is rejected,
	// not only on the target trip.
	assigned, err := s.store.PeselHasMembership(ctx, pesel)
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	if assigned {
		return apperrors.Conflict("client already registered on a trip",
			"a membership already exists for this pesel")
	}

	trip, err := s.store.FindTripByID(ctx, tripID)
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	if trip == nil {
		return apperrors.NotFound("trip", tripID)
	}

	started, err := s.store.TripStartsBefore(ctx, tripID, s.now())
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	if started {
		return apperrors.InvalidState("trip already occurred",
			"the trip's start date is in the past")
	}
	return nil
}

// DeleteClient removes a client. Deletion is rejected while any membership
// still references the client.
func (s *BookingService) DeleteClient(ctx context.Context, clientID int64) error {
	client, err := s.store.FindClientByID(ctx, clientID)
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	if client == nil {
		return apperrors.NotFound("client", clientID)
	}

	memberships, err := s.store.CountMembershipsForClient(ctx, clientID)
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	if memberships > 0 {
		return apperrors.InvalidState("client has trip memberships",
			"a client assigned to at least one trip cannot be deleted")
	}

	if err := s.store.DeleteClient(ctx, clientID); err != nil {
		if _, ok := err.(*apperrors.AppError); ok {
			return err
		}
		return apperrors.NewDatabaseError(err)
	}

	s.log.Infow("Deleted client", "clientId", clientID)
	return nil
}
