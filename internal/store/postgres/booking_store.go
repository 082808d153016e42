// Package postgres implements the booking store on top of PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/globetrek/booking-backend/errors"
	"github.com/globetrek/booking-backend/internal/store"
	"github.com/globetrek/booking-backend/logger"
	"github.com/globetrek/booking-backend/types"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the store needs. pgxmock satisfies it too.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Ensure BookingStore implements store.BookingStore.
var _ store.BookingStore = (*BookingStore)(nil)

// BookingStore implements store.BookingStore using PostgreSQL.
type BookingStore struct {
	db DB
}

// NewBookingStore creates a new PostgreSQL-backed booking store.
func NewBookingStore(db DB) *BookingStore {
	return &BookingStore{db: db}
}

// CountTrips implements store.BookingStore.
func (s *BookingStore) CountTrips(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM trips`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count trips: %w", err)
	}
	return count, nil
}

// ListTrips implements store.BookingStore. It returns one page of trips
// ordered by start date descending and attaches countries and clients to each
// trip in two follow-up queries.
func (s *BookingStore) ListTrips(ctx context.Context, offset, limit int) ([]types.Trip, error) {
	query := `
		SELECT id, name, description, date_from, date_to, max_people
		FROM trips
		ORDER BY date_from DESC
		OFFSET $1 LIMIT $2`

	rows, err := s.db.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []types.Trip
	var tripIDs []int64
	index := make(map[int64]int)
	for rows.Next() {
		var t types.Trip
		err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.DateFrom, &t.DateTo, &t.MaxPeople)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip row: %w", err)
		}
		index[t.ID] = len(trips)
		trips = append(trips, t)
		tripIDs = append(tripIDs, t.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading trip rows: %w", err)
	}

	if len(trips) == 0 {
		return []types.Trip{}, nil
	}

	if err := s.attachCountries(ctx, trips, tripIDs, index); err != nil {
		return nil, err
	}
	if err := s.attachClients(ctx, trips, tripIDs, index); err != nil {
		return nil, err
	}
	return trips, nil
}

func (s *BookingStore) attachCountries(ctx context.Context, trips []types.Trip, tripIDs []int64, index map[int64]int) error {
	query := `
		SELECT ct.trip_id, c.id, c.name
		FROM countries c
		JOIN country_trips ct ON ct.country_id = c.id
		WHERE ct.trip_id = ANY($1)`

	rows, err := s.db.Query(ctx, query, tripIDs)
	if err != nil {
		return fmt.Errorf("failed to query trip countries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tripID int64
		var country types.Country
		if err := rows.Scan(&tripID, &country.ID, &country.Name); err != nil {
			return fmt.Errorf("failed to scan country row: %w", err)
		}
		i := index[tripID]
		trips[i].Countries = append(trips[i].Countries, country)
	}
	return rows.Err()
}

func (s *BookingStore) attachClients(ctx context.Context, trips []types.Trip, tripIDs []int64, index map[int64]int) error {
	query := `
		SELECT m.trip_id, cl.id, cl.first_name, cl.last_name, cl.email, cl.telephone, cl.pesel
		FROM clients cl
		JOIN client_trips m ON m.client_id = cl.id
		WHERE m.trip_id = ANY($1)`

	rows, err := s.db.Query(ctx, query, tripIDs)
	if err != nil {
		return fmt.Errorf("failed to query trip clients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tripID int64
		var client types.Client
		err := rows.Scan(&tripID, &client.ID, &client.FirstName, &client.LastName,
			&client.Email, &client.Telephone, &client.Pesel)
		if err != nil {
			return fmt.Errorf("failed to scan client row: %w", err)
		}
		i := index[tripID]
		trips[i].Clients = append(trips[i].Clients, client)
	}
	return rows.Err()
}

// FindClientByPesel implements store.BookingStore. Returns nil when no client
// has the given pesel.
func (s *BookingStore) FindClientByPesel(ctx context.Context, pesel string) (*types.Client, error) {
	query := `
		SELECT id, first_name, last_name, email, telephone, pesel
		FROM clients
		WHERE pesel = $1`

	var c types.Client
	err := s.db.QueryRow(ctx, query, pesel).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Telephone, &c.Pesel)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find client by pesel: %w", err)
	}
	return &c, nil
}

// PeselHasMembership implements store.BookingStore. The check is global
// across all trips.
func (s *BookingStore) PeselHasMembership(ctx context.Context, pesel string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM client_trips m
			JOIN clients c ON c.id = m.client_id
			WHERE c.pesel = $1
		)`

	var exists bool
	if err := s.db.QueryRow(ctx, query, pesel).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check memberships for pesel: %w", err)
	}
	return exists, nil
}

// FindTripByID implements store.BookingStore. Returns nil when absent.
func (s *BookingStore) FindTripByID(ctx context.Context, id int64) (*types.Trip, error) {
	query := `
		SELECT id, name, description, date_from, date_to, max_people
		FROM trips
		WHERE id = $1`

	var t types.Trip
	err := s.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Description, &t.DateFrom, &t.DateTo, &t.MaxPeople)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find trip: %w", err)
	}
	return &t, nil
}

// TripStartsBefore implements store.BookingStore.
func (s *BookingStore) TripStartsBefore(ctx context.Context, id int64, instant time.Time) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM trips WHERE id = $1 AND date_from < $2)`

	var started bool
	if err := s.db.QueryRow(ctx, query, id, instant).Scan(&started); err != nil {
		return false, fmt.Errorf("failed to check trip start date: %w", err)
	}
	return started, nil
}

// FindClientByID implements store.BookingStore. Returns nil when absent.
func (s *BookingStore) FindClientByID(ctx context.Context, id int64) (*types.Client, error) {
	query := `
		SELECT id, first_name, last_name, email, telephone, pesel
		FROM clients
		WHERE id = $1`

	var c types.Client
	err := s.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Telephone, &c.Pesel)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find client: %w", err)
	}
	return &c, nil
}

// CountMembershipsForClient implements store.BookingStore.
func (s *BookingStore) CountMembershipsForClient(ctx context.Context, id int64) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM client_trips WHERE client_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count memberships for client: %w", err)
	}
	return count, nil
}

// DeleteClient implements store.BookingStore.
func (s *BookingStore) DeleteClient(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("client", id)
	}
	return nil
}

// RunInTx implements store.BookingStore. It executes fn within a single
// transaction, committing only if fn returns nil.
func (s *BookingStore) RunInTx(ctx context.Context, fn func(tx store.TxStore) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		// Rollback is a no-op after a successful commit.
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.GetLogger().Errorw("Failed to rollback transaction", "error", err)
		}
	}()

	if err := fn(&txStore{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// txStore exposes the write operations bound to an open transaction.
type txStore struct {
	tx pgx.Tx
}

var _ store.TxStore = (*txStore)(nil)

// CreateClient inserts a new client row. A unique-constraint violation on
// pesel is reported as the same conflict the pre-check would have raised.
func (t *txStore) CreateClient(ctx context.Context, client *types.Client) (int64, error) {
	query := `
		INSERT INTO clients (first_name, last_name, email, telephone, pesel)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id int64
	err := t.tx.QueryRow(ctx, query,
		client.FirstName, client.LastName, client.Email, client.Telephone, client.Pesel,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, apperrors.Conflict("client already exists",
				fmt.Sprintf("pesel %s is already registered", logger.MaskPesel(client.Pesel)))
		}
		return 0, fmt.Errorf("failed to insert client: %w", err)
	}
	return id, nil
}

// CreateMembership inserts a new client-trip membership row.
func (t *txStore) CreateMembership(ctx context.Context, membership *types.Membership) error {
	query := `
		INSERT INTO client_trips (client_id, trip_id, registered_at, payment_date)
		VALUES ($1, $2, $3, $4)`

	_, err := t.tx.Exec(ctx, query,
		membership.ClientID, membership.TripID, membership.RegisteredAt, membership.PaymentDate)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return apperrors.Conflict("client already registered on a trip",
				fmt.Sprintf("client %d already has a membership for trip %d", membership.ClientID, membership.TripID))
		}
		return fmt.Errorf("failed to insert membership: %w", err)
	}
	return nil
}
