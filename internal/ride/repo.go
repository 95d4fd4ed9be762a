package ride

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/logger"
)

// Repository — хранилище поездок
type Repository interface {
	Create(ctx context.Context, r *Ride) error
	FindByID(ctx context.Context, id string) (*Ride, error)
	Accept(ctx context.Context, rideID, driverID string) (*Ride, error)
	AdvanceStatus(ctx context.Context, rideID, from, to string) (*Ride, error)
	Complete(ctx context.Context, r *Ride, paymentStatus string) (*Ride, error)
	Cancel(ctx context.Context, rideID, byUserID, reason string) (*Ride, error)
	SetRating(ctx context.Context, rideID string, byPassenger bool, rating int, review string) error
	RecalcDriverRating(ctx context.Context, driverID string) error
	RecalcPassengerRating(ctx context.Context, passengerID string) error
	ActiveForUser(ctx context.Context, userID string) (*Ride, error)
	HistoryForUser(ctx context.Context, userID string, limit int) ([]Ride, error)
	PendingRides(ctx context.Context) ([]Ride, error)
}

// Pool — подмножество pgxpool.Pool, достаточное для репозитория.
// В тестах подменяется pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PgRepository — PostgreSQL реализация Repository
type PgRepository struct {
	pool Pool
	log  *logger.Logger
}

func NewPgRepository(pool Pool, log *logger.Logger) *PgRepository {
	return &PgRepository{pool: pool, log: log}
}

const rideColumns = `
	id, ride_number, passenger_id, driver_id, vehicle_class, status,
	pickup_address, pickup_lat, pickup_lng,
	dropoff_address, dropoff_lat, dropoff_lng,
	fare_base, fare_distance, fare_time, fare_surge, fare_total,
	distance_km, duration_min, payment_method, payment_status,
	passenger_rating, passenger_review, driver_rating, driver_review,
	cancelled_by, cancellation_reason,
	started_at, completed_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (*Ride, error) {
	r := &Ride{}
	var (
		driverID, cancelledBy, reason *string
		passengerReview, driverReview *string
		passengerRating, driverRating *int
	)
	err := row.Scan(
		&r.ID, &r.RideNumber, &r.PassengerID, &driverID, &r.VehicleClass, &r.Status,
		&r.Pickup.Address, &r.Pickup.Lat, &r.Pickup.Lng,
		&r.Dropoff.Address, &r.Dropoff.Lat, &r.Dropoff.Lng,
		&r.Fare.Base, &r.Fare.Distance, &r.Fare.Time, &r.Fare.Surge, &r.Fare.Total,
		&r.DistanceKm, &r.DurationMin, &r.PaymentMethod, &r.PaymentStatus,
		&passengerRating, &passengerReview, &driverRating, &driverReview,
		&cancelledBy, &reason,
		&r.StartedAt, &r.CompletedAt, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if driverID != nil {
		r.DriverID = *driverID
	}
	if cancelledBy != nil {
		r.CancelledBy = *cancelledBy
	}
	if reason != nil {
		r.CancellationReason = *reason
	}
	if passengerRating != nil {
		r.PassengerRating = *passengerRating
	}
	if passengerReview != nil {
		r.PassengerReview = *passengerReview
	}
	if driverRating != nil {
		r.DriverRating = *driverRating
	}
	if driverReview != nil {
		r.DriverReview = *driverReview
	}
	return r, nil
}

func (p *PgRepository) Create(ctx context.Context, r *Ride) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO rides (id, ride_number, passenger_id, vehicle_class, status,
		                   pickup_address, pickup_lat, pickup_lng,
		                   dropoff_address, dropoff_lat, dropoff_lng,
		                   fare_base, fare_distance, fare_time, fare_surge, fare_total,
		                   distance_km, duration_min, payment_method, payment_status,
		                   created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		        $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`,
		r.ID, r.RideNumber, r.PassengerID, r.VehicleClass, r.Status,
		r.Pickup.Address, r.Pickup.Lat, r.Pickup.Lng,
		r.Dropoff.Address, r.Dropoff.Lat, r.Dropoff.Lng,
		r.Fare.Base, r.Fare.Distance, r.Fare.Time, r.Fare.Surge, r.Fare.Total,
		r.DistanceKm, r.DurationMin, r.PaymentMethod, r.PaymentStatus,
		r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ride: %w", err)
	}
	return nil
}

func (p *PgRepository) FindByID(ctx context.Context, id string) (*Ride, error) {
	r, err := scanRide(p.pool.QueryRow(ctx, `SELECT`+rideColumns+` FROM rides WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRideNotFound
		}
		return nil, fmt.Errorf("select ride: %w", err)
	}
	return r, nil
}

// Accept назначает водителя условным UPDATE. Гонка двух водителей
// решается на уровне строки: выигрывает тот, чей UPDATE прошёл по
// статусу pending, второй получает ErrRideUnavailable.
func (p *PgRepository) Accept(ctx context.Context, rideID, driverID string) (*Ride, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE rides
		SET driver_id = $2, status = 'accepted', updated_at = now()
		WHERE id = $1 AND status = 'pending' AND driver_id IS NULL
	`, rideID, driverID)
	if err != nil {
		return nil, fmt.Errorf("accept ride: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := p.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rides WHERE id = $1)`, rideID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check ride: %w", err)
		}
		if !exists {
			return nil, ErrRideNotFound
		}
		return nil, ErrRideUnavailable
	}

	// водитель занят до завершения или отмены поездки
	_, err = tx.Exec(ctx, `
		UPDATE driver_profiles SET is_available = FALSE WHERE user_id = $1
	`, driverID)
	if err != nil {
		return nil, fmt.Errorf("mark driver busy: %w", err)
	}

	r, err := scanRide(tx.QueryRow(ctx, `SELECT`+rideColumns+` FROM rides WHERE id = $1`, rideID))
	if err != nil {
		return nil, fmt.Errorf("reload ride: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit accept: %w", err)
	}
	return r, nil
}

// AdvanceStatus переводит поездку по цепочке accepted -> arrived -> started.
// Guard по from защищает от параллельного перехода.
func (p *PgRepository) AdvanceStatus(ctx context.Context, rideID, from, to string) (*Ride, error) {
	started := ""
	if to == StatusStarted {
		started = ", started_at = now()"
	}

	tag, err := p.pool.Exec(ctx, `
		UPDATE rides SET status = $3, updated_at = now()`+started+`
		WHERE id = $1 AND status = $2
	`, rideID, from, to)
	if err != nil {
		return nil, fmt.Errorf("advance ride status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrInvalidTransition
	}
	return p.FindByID(ctx, rideID)
}

// Complete закрывает поездку и обновляет агрегаты обоих профилей
// в одной транзакции
func (p *PgRepository) Complete(ctx context.Context, r *Ride, paymentStatus string) (*Ride, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE rides
		SET status = 'completed', completed_at = now(), payment_status = $2, updated_at = now()
		WHERE id = $1 AND status = 'started'
	`, r.ID, paymentStatus)
	if err != nil {
		return nil, fmt.Errorf("complete ride: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrInvalidTransition
	}

	_, err = tx.Exec(ctx, `
		UPDATE driver_profiles
		SET earnings = earnings + $2, total_rides = total_rides + 1, is_available = TRUE
		WHERE user_id = $1
	`, r.DriverID, r.Fare.Total)
	if err != nil {
		return nil, fmt.Errorf("update driver aggregates: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE passenger_profiles SET total_rides = total_rides + 1 WHERE user_id = $1
	`, r.PassengerID)
	if err != nil {
		return nil, fmt.Errorf("update passenger aggregates: %w", err)
	}

	updated, err := scanRide(tx.QueryRow(ctx, `SELECT`+rideColumns+` FROM rides WHERE id = $1`, r.ID))
	if err != nil {
		return nil, fmt.Errorf("reload ride: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit complete: %w", err)
	}
	return updated, nil
}

func (p *PgRepository) Cancel(ctx context.Context, rideID, byUserID, reason string) (*Ride, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var driverID *string
	err = tx.QueryRow(ctx, `
		UPDATE rides
		SET status = 'cancelled', cancelled_by = $2, cancellation_reason = $3, updated_at = now()
		WHERE id = $1 AND status NOT IN ('completed', 'cancelled')
		RETURNING driver_id
	`, rideID, byUserID, reason).Scan(&driverID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRideNotCancellable
		}
		return nil, fmt.Errorf("cancel ride: %w", err)
	}

	// назначенный водитель возвращается в пул доступных
	if driverID != nil {
		_, err = tx.Exec(ctx, `
			UPDATE driver_profiles SET is_available = TRUE WHERE user_id = $1
		`, *driverID)
		if err != nil {
			return nil, fmt.Errorf("release driver: %w", err)
		}
	}

	r, err := scanRide(tx.QueryRow(ctx, `SELECT`+rideColumns+` FROM rides WHERE id = $1`, rideID))
	if err != nil {
		return nil, fmt.Errorf("reload ride: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit cancel: %w", err)
	}
	return r, nil
}

// SetRating пишет оценку только один раз; повторная попытка не проходит
// по guard IS NULL
func (p *PgRepository) SetRating(ctx context.Context, rideID string, byPassenger bool, rating int, review string) error {
	query := `
		UPDATE rides SET driver_rating = $2, driver_review = $3, updated_at = now()
		WHERE id = $1 AND status = 'completed' AND driver_rating IS NULL`
	if byPassenger {
		query = `
		UPDATE rides SET passenger_rating = $2, passenger_review = $3, updated_at = now()
		WHERE id = $1 AND status = 'completed' AND passenger_rating IS NULL`
	}

	tag, err := p.pool.Exec(ctx, query, rideID, rating, review)
	if err != nil {
		return fmt.Errorf("set rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyRated
	}
	return nil
}

// RecalcDriverRating пересчитывает средний рейтинг водителя по оценкам
// пассажиров
func (p *PgRepository) RecalcDriverRating(ctx context.Context, driverID string) error {
	_, err := p.pool.Exec(ctx, `
		UPDATE driver_profiles
		SET rating = COALESCE((
			SELECT AVG(passenger_rating) FROM rides
			WHERE driver_id = $1 AND passenger_rating IS NOT NULL
		), 0)
		WHERE user_id = $1
	`, driverID)
	if err != nil {
		return fmt.Errorf("recalc driver rating: %w", err)
	}
	return nil
}

func (p *PgRepository) RecalcPassengerRating(ctx context.Context, passengerID string) error {
	_, err := p.pool.Exec(ctx, `
		UPDATE passenger_profiles
		SET rating = COALESCE((
			SELECT AVG(driver_rating) FROM rides
			WHERE passenger_id = $1 AND driver_rating IS NOT NULL
		), 0)
		WHERE user_id = $1
	`, passengerID)
	if err != nil {
		return fmt.Errorf("recalc passenger rating: %w", err)
	}
	return nil
}

// ActiveForUser — текущая незавершенная поездка пользователя
// в любой из ролей
func (p *PgRepository) ActiveForUser(ctx context.Context, userID string) (*Ride, error) {
	r, err := scanRide(p.pool.QueryRow(ctx, `
		SELECT`+rideColumns+`
		FROM rides
		WHERE (passenger_id = $1 OR driver_id = $1)
		  AND status IN ('pending', 'accepted', 'arrived', 'started')
		ORDER BY created_at DESC
		LIMIT 1
	`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoActiveRide
		}
		return nil, fmt.Errorf("select active ride: %w", err)
	}
	return r, nil
}

func (p *PgRepository) HistoryForUser(ctx context.Context, userID string, limit int) ([]Ride, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT`+rideColumns+`
		FROM rides
		WHERE (passenger_id = $1 OR driver_id = $1)
		  AND status IN ('completed', 'cancelled')
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("select ride history: %w", err)
	}
	defer rows.Close()
	return collectRides(rows)
}

// PendingRides — заказы без водителя, старые первыми
func (p *PgRepository) PendingRides(ctx context.Context) ([]Ride, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT`+rideColumns+`
		FROM rides
		WHERE status = 'pending'
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("select pending rides: %w", err)
	}
	defer rows.Close()
	return collectRides(rows)
}

func collectRides(rows pgx.Rows) ([]Ride, error) {
	var rides []Ride
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ride: %w", err)
		}
		rides = append(rides, *r)
	}
	return rides, rows.Err()
}
