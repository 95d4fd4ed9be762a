package driver

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/logger"
)

func newMockRepo(t *testing.T) (*PgRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPgRepository(mock, logger.NewLogger("test")), mock
}

func TestCashoutInsufficientFunds(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	// guard earnings >= amount не пропускает списание
	mock.ExpectExec("UPDATE driver_profiles").
		WithArgs("drv-1", 500.0).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	_, err := repo.Cashout(context.Background(), "drv-1", 500)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetAvailabilityUnknownDriver(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE driver_profiles").
		WithArgs("ghost", true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetAvailability(context.Background(), "ghost", true)
	assert.ErrorIs(t, err, ErrDriverNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLocation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE driver_profiles").
		WithArgs("drv-1", 55.75, 37.61).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.UpdateLocation(context.Background(), "drv-1", 55.75, 37.61))
	assert.NoError(t, mock.ExpectationsWereMet())
}
