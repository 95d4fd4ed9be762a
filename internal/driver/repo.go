package driver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/logger"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/user"
)

// Repository — водительские данные поверх driver_profiles,
// driver_documents и payouts
type Repository interface {
	SetAvailability(ctx context.Context, driverID string, available bool) error
	IsAvailable(ctx context.Context, driverID string) (bool, error)
	AvailableDriverIDs(ctx context.Context) ([]string, error)
	UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error
	UpdateProfile(ctx context.Context, driverID, licenseNumber string, vehicle *user.Vehicle) error
	Earnings(ctx context.Context, driverID string) (*EarningsSummary, error)
	Cashout(ctx context.Context, driverID string, amount float64) (*Payout, error)
	AddDocument(ctx context.Context, driverID string, d *Document) error
	Documents(ctx context.Context, driverID string) ([]Document, error)
}

// Pool — подмножество pgxpool.Pool, в тестах подменяется pgxmock
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type PgRepository struct {
	pool Pool
	log  *logger.Logger
}

func NewPgRepository(pool Pool, log *logger.Logger) *PgRepository {
	return &PgRepository{pool: pool, log: log}
}

func (r *PgRepository) SetAvailability(ctx context.Context, driverID string, available bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE driver_profiles SET is_available = $2 WHERE user_id = $1
	`, driverID, available)
	if err != nil {
		return fmt.Errorf("set availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDriverNotFound
	}
	return nil
}

func (r *PgRepository) IsAvailable(ctx context.Context, driverID string) (bool, error) {
	var available bool
	err := r.pool.QueryRow(ctx, `
		SELECT is_available FROM driver_profiles WHERE user_id = $1
	`, driverID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrDriverNotFound
		}
		return false, fmt.Errorf("select availability: %w", err)
	}
	return available, nil
}

func (r *PgRepository) AvailableDriverIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT dp.user_id
		FROM driver_profiles dp
		JOIN users u ON u.id = dp.user_id
		WHERE dp.is_available AND u.is_active
	`)
	if err != nil {
		return nil, fmt.Errorf("select available drivers: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateLocation сохраняет последнюю известную позицию в профиле.
// Оперативный поиск идёт через Redis, эта запись служит резервом.
func (r *PgRepository) UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE driver_profiles SET current_lat = $2, current_lng = $3 WHERE user_id = $1
	`, driverID, lat, lng)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDriverNotFound
	}
	return nil
}

// UpdateProfile меняет лицензию и/или автомобиль; пустые поля не трогаются
func (r *PgRepository) UpdateProfile(ctx context.Context, driverID, licenseNumber string, vehicle *user.Vehicle) error {
	if licenseNumber != "" {
		tag, err := r.pool.Exec(ctx, `
			UPDATE driver_profiles SET license_number = $2 WHERE user_id = $1
		`, driverID, licenseNumber)
		if err != nil {
			return fmt.Errorf("update license: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrDriverNotFound
		}
	}

	if vehicle != nil {
		data, err := json.Marshal(vehicle)
		if err != nil {
			return fmt.Errorf("marshal vehicle: %w", err)
		}
		tag, err := r.pool.Exec(ctx, `
			UPDATE driver_profiles SET vehicle = $2 WHERE user_id = $1
		`, driverID, data)
		if err != nil {
			return fmt.Errorf("update vehicle: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrDriverNotFound
		}
	}
	return nil
}

func (r *PgRepository) Earnings(ctx context.Context, driverID string) (*EarningsSummary, error) {
	s := &EarningsSummary{}
	err := r.pool.QueryRow(ctx, `
		SELECT earnings, total_rides, rating FROM driver_profiles WHERE user_id = $1
	`, driverID).Scan(&s.Balance, &s.TotalRides, &s.Rating)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDriverNotFound
		}
		return nil, fmt.Errorf("select earnings: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, amount, created_at FROM payouts
		WHERE driver_id = $1
		ORDER BY created_at DESC
		LIMIT 20
	`, driverID)
	if err != nil {
		return nil, fmt.Errorf("select payouts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p Payout
		if err := rows.Scan(&p.ID, &p.Amount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payout: %w", err)
		}
		s.Payouts = append(s.Payouts, p)
	}
	return s, rows.Err()
}

// Cashout списывает сумму с баланса и фиксирует выплату в одной
// транзакции. Guard earnings >= amount защищает от ухода в минус.
func (r *PgRepository) Cashout(ctx context.Context, driverID string, amount float64) (*Payout, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE driver_profiles SET earnings = earnings - $2
		WHERE user_id = $1 AND earnings >= $2
	`, driverID, amount)
	if err != nil {
		return nil, fmt.Errorf("debit earnings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrInsufficientFunds
	}

	p := &Payout{Amount: amount}
	err = tx.QueryRow(ctx, `
		INSERT INTO payouts (driver_id, amount) VALUES ($1, $2)
		RETURNING id, created_at
	`, driverID, amount).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert payout: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit cashout: %w", err)
	}
	return p, nil
}

func (r *PgRepository) AddDocument(ctx context.Context, driverID string, d *Document) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO driver_documents (driver_id, doc_type, url)
		VALUES ($1, $2, $3)
		RETURNING id, uploaded_at
	`, driverID, d.DocType, d.URL).Scan(&d.ID, &d.UploadedAt)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *PgRepository) Documents(ctx context.Context, driverID string) ([]Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, doc_type, url, verified, uploaded_at
		FROM driver_documents
		WHERE driver_id = $1
		ORDER BY uploaded_at DESC
	`, driverID)
	if err != nil {
		return nil, fmt.Errorf("select documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.DocType, &d.URL, &d.Verified, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
