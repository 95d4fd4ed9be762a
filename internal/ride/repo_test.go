package ride

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

func TestAcceptConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE rides").
		WithArgs("ride-1", "drv-2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("ride-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.Accept(context.Background(), "ride-1", "drv-2")
	assert.ErrorIs(t, err, ErrRideUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptRideMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE rides").
		WithArgs("ride-x", "drv-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("ride-x").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := repo.Accept(context.Background(), "ride-x", "drv-1")
	assert.ErrorIs(t, err, ErrRideNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvanceStatusGuard(t *testing.T) {
	repo, mock := newMockRepo(t)

	// поездка уже ушла из accepted, переход не проходит
	mock.ExpectExec("UPDATE rides").
		WithArgs("ride-1", StatusAccepted, StatusArrived).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	_, err := repo.AdvanceStatus(context.Background(), "ride-1", StatusAccepted, StatusArrived)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRatingOnlyOnce(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE rides SET passenger_rating").
		WithArgs("ride-1", 5, "nice").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, repo.SetRating(context.Background(), "ride-1", true, 5, "nice"))

	mock.ExpectExec("UPDATE rides SET passenger_rating").
		WithArgs("ride-1", 3, "").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	err := repo.SetRating(context.Background(), "ride-1", true, 3, "")
	assert.ErrorIs(t, err, ErrAlreadyRated)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecalcDriverRating(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE driver_profiles").
		WithArgs("drv-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.RecalcDriverRating(context.Background(), "drv-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
