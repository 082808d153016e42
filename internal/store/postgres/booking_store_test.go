package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/globetrek/booking-backend/errors"
	"github.com/globetrek/booking-backend/internal/store"
	"github.com/globetrek/booking-backend/types"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockStore(t *testing.T) (*BookingStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewBookingStore(mock), mock
}

func TestBookingStore_CountTrips(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM trips`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(25))

	count, err := s.CountTrips(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingStore_ListTrips(t *testing.T) {
	s, mock := setupMockStore(t)

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	mock.ExpectQuery(`SELECT id, name, description, date_from, date_to, max_people\s+FROM trips`).
		WithArgs(0, 10).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "date_from", "date_to", "max_people"}).
			AddRow(int64(7), "Alps Hiking", "A week in the Alps", from, to, 20).
			AddRow(int64(3), "Baltic Coast", "Seaside trip", from.AddDate(0, -1, 0), to.AddDate(0, -1, 0), 35))

	mock.ExpectQuery(`FROM countries`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"trip_id", "id", "name"}).
			AddRow(int64(7), int64(1), "Austria").
			AddRow(int64(7), int64(2), "Switzerland").
			AddRow(int64(3), int64(3), "Poland"))

	mock.ExpectQuery(`FROM clients`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"trip_id", "id", "first_name", "last_name", "email", "telephone", "pesel"}).
			AddRow(int64(7), int64(11), "Anna", "Nowak", "anna@example.com", "+48123456789", "12345678901"))

	trips, err := s.ListTrips(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, trips, 2)

	assert.Equal(t, int64(7), trips[0].ID)
	require.Len(t, trips[0].Countries, 2)
	assert.Equal(t, "Austria", trips[0].Countries[0].Name)
	require.Len(t, trips[0].Clients, 1)
	assert.Equal(t, "Anna", trips[0].Clients[0].FirstName)

	assert.Equal(t, int64(3), trips[1].ID)
	require.Len(t, trips[1].Countries, 1)
	assert.Empty(t, trips[1].Clients)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingStore_ListTrips_EmptyPage(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectQuery(`FROM trips`).
		WithArgs(30, 10).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "date_from", "date_to", "max_people"}))

	trips, err := s.ListTrips(context.Background(), 30, 10)
	require.NoError(t, err)
	assert.Empty(t, trips)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingStore_FindClientByPesel_Absent(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectQuery(`FROM clients`).
		WithArgs("12345678901").
		WillReturnError(pgx.ErrNoRows)

	client, err := s.FindClientByPesel(context.Background(), "12345678901")
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestBookingStore_PeselHasMembership(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("12345678901").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	has, err := s.PeselHasMembership(context.Background(), "12345678901")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestBookingStore_TripStartsBefore(t *testing.T) {
	s, mock := setupMockStore(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(7), now).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	started, err := s.TripStartsBefore(context.Background(), 7, now)
	require.NoError(t, err)
	assert.False(t, started)
}

func TestBookingStore_RunInTx_CommitsBothWrites(t *testing.T) {
	s, mock := setupMockStore(t)

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO clients`).
		WithArgs("Anna", "Nowak", "anna@example.com", "+48123456789", "12345678901").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectExec(`INSERT INTO client_trips`).
		WithArgs(int64(42), int64(7), now, (*time.Time)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := s.RunInTx(context.Background(), func(tx store.TxStore) error {
		id, err := tx.CreateClient(context.Background(), &types.Client{
			FirstName: "Anna",
			LastName:  "Nowak",
			Email:     "anna@example.com",
			Telephone: "+48123456789",
			Pesel:     "12345678901",
		})
		if err != nil {
			return err
		}
		return tx.CreateMembership(context.Background(), &types.Membership{
			ClientID:     id,
			TripID:       7,
			RegisteredAt: now,
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingStore_RunInTx_RollsBackWhenMembershipFails(t *testing.T) {
	s, mock := setupMockStore(t)

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO clients`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectExec(`INSERT INTO client_trips`).
		WithArgs(int64(42), int64(7), now, (*time.Time)(nil)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := s.RunInTx(context.Background(), func(tx store.TxStore) error {
		id, err := tx.CreateClient(context.Background(), &types.Client{Pesel: "12345678901"})
		if err != nil {
			return err
		}
		return tx.CreateMembership(context.Background(), &types.Membership{
			ClientID:     id,
			TripID:       7,
			RegisteredAt: now,
		})
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingStore_RunInTx_UniqueViolationIsConflict(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO clients`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
	mock.ExpectRollback()

	err := s.RunInTx(context.Background(), func(tx store.TxStore) error {
		_, err := tx.CreateClient(context.Background(), &types.Client{Pesel: "12345678901"})
		return err
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ConflictError, appErr.Type)
}

func TestBookingStore_DeleteClient(t *testing.T) {
	s, mock := setupMockStore(t)

	t.Run("deletes existing client", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM clients`).
			WithArgs(int64(5)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, s.DeleteClient(context.Background(), 5))
	})

	t.Run("missing client is not found", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM clients`).
			WithArgs(int64(99)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := s.DeleteClient(context.Background(), 99)
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.NotFoundError, appErr.Type)
	})
}
