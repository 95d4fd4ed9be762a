package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/logger"
)

// Repository — хранилище учетных записей
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id, name, phone, avatarURL string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateSettings(ctx context.Context, id string, notif NotificationPrefs, sec SecurityPrefs) error
	Deactivate(ctx context.Context, id string) error
	AddTrustedContact(ctx context.Context, userID string, c *TrustedContact) error
	RemoveTrustedContact(ctx context.Context, userID, contactID string) error
	TrustedContacts(ctx context.Context, userID string) ([]TrustedContact, error)
	IncrementPassengerRides(ctx context.Context, passengerID string) error
	AdminIDs(ctx context.Context) ([]string, error)
}

// PgRepository — PostgreSQL реализация Repository
type PgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewPgRepository(pool *pgxpool.Pool, log *logger.Logger) *PgRepository {
	return &PgRepository{pool: pool, log: log}
}

// Create вставляет пользователя и его ролевой профиль в одной транзакции
func (r *PgRepository) Create(ctx context.Context, u *User) error {
	notif, err := json.Marshal(u.NotificationPrefs)
	if err != nil {
		return fmt.Errorf("marshal notification prefs: %w", err)
	}
	sec, err := json.Marshal(u.SecurityPrefs)
	if err != nil {
		return fmt.Errorf("marshal security prefs: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, name, email, phone, password_hash, role, avatar_url,
		                   is_active, is_verified, notification_prefs, security_prefs,
		                   created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		u.ID, u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.AvatarURL,
		u.IsActive, u.IsVerified, notif, sec, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return translateUniqueViolation(err)
	}

	switch u.Role {
	case RoleDriver:
		vehicle, err := json.Marshal(u.DriverProfile.Vehicle)
		if err != nil {
			return fmt.Errorf("marshal vehicle: %w", err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO driver_profiles (user_id, license_number, vehicle)
			VALUES ($1, $2, $3)
		`, u.ID, u.DriverProfile.LicenseNumber, vehicle)
		if err != nil {
			return fmt.Errorf("insert driver profile: %w", err)
		}
	case RolePassenger:
		_, err = tx.Exec(ctx, `INSERT INTO passenger_profiles (user_id) VALUES ($1)`, u.ID)
		if err != nil {
			return fmt.Errorf("insert passenger profile: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *PgRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, "email = $1", email)
}

func (r *PgRepository) findOne(ctx context.Context, where string, arg any) (*User, error) {
	query := `
		SELECT id, name, email, phone, password_hash, role, avatar_url,
		       is_active, is_verified, notification_prefs, security_prefs,
		       created_at, updated_at
		FROM users
		WHERE ` + where

	u := &User{}
	var notif, sec []byte
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.AvatarURL,
		&u.IsActive, &u.IsVerified, &notif, &sec,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}

	_ = json.Unmarshal(notif, &u.NotificationPrefs)
	_ = json.Unmarshal(sec, &u.SecurityPrefs)

	if err := r.loadProfile(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *PgRepository) loadProfile(ctx context.Context, u *User) error {
	switch u.Role {
	case RoleDriver:
		p := &DriverProfile{}
		var vehicle []byte
		err := r.pool.QueryRow(ctx, `
			SELECT license_number, vehicle, is_available, current_lat, current_lng,
			       rating, total_rides, earnings
			FROM driver_profiles WHERE user_id = $1
		`, u.ID).Scan(
			&p.LicenseNumber, &vehicle, &p.IsAvailable, &p.CurrentLat, &p.CurrentLng,
			&p.Rating, &p.TotalRides, &p.Earnings,
		)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("select driver profile: %w", err)
		}
		if err == nil {
			_ = json.Unmarshal(vehicle, &p.Vehicle)
			u.DriverProfile = p
		}
	case RolePassenger:
		p := &PassengerProfile{}
		var methods []byte
		err := r.pool.QueryRow(ctx, `
			SELECT rating, total_rides, payment_methods, wallet_balance
			FROM passenger_profiles WHERE user_id = $1
		`, u.ID).Scan(&p.Rating, &p.TotalRides, &methods, &p.WalletBalance)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("select passenger profile: %w", err)
		}
		if err == nil {
			_ = json.Unmarshal(methods, &p.PaymentMethods)
			u.PassengerProfile = p
		}
	}
	return nil
}

func (r *PgRepository) UpdateProfile(ctx context.Context, id, name, phone, avatarURL string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = COALESCE(NULLIF($2, ''), name),
		    phone = COALESCE(NULLIF($3, ''), phone),
		    avatar_url = COALESCE(NULLIF($4, ''), avatar_url),
		    updated_at = now()
		WHERE id = $1
	`, id, name, phone, avatarURL)
	if err != nil {
		return translateUniqueViolation(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1
	`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgRepository) UpdateSettings(ctx context.Context, id string, notif NotificationPrefs, sec SecurityPrefs) error {
	nb, err := json.Marshal(notif)
	if err != nil {
		return fmt.Errorf("marshal notification prefs: %w", err)
	}
	sb, err := json.Marshal(sec)
	if err != nil {
		return fmt.Errorf("marshal security prefs: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET notification_prefs = $2, security_prefs = $3, updated_at = now()
		WHERE id = $1
	`, id, nb, sb)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate помечает аккаунт неактивным (жёсткого удаления нет)
func (r *PgRepository) Deactivate(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET is_active = FALSE, updated_at = now() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgRepository) AddTrustedContact(ctx context.Context, userID string, c *TrustedContact) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO trusted_contacts (id, user_id, name, phone, relationship, is_guardian)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, userID, c.Name, c.Phone, c.Relationship, c.IsGuardian)
	if err != nil {
		return fmt.Errorf("insert trusted contact: %w", err)
	}
	return nil
}

func (r *PgRepository) RemoveTrustedContact(ctx context.Context, userID, contactID string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM trusted_contacts WHERE id = $1 AND user_id = $2
	`, contactID, userID)
	if err != nil {
		return fmt.Errorf("delete trusted contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrContactNotFound
	}
	return nil
}

func (r *PgRepository) TrustedContacts(ctx context.Context, userID string) ([]TrustedContact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, phone, relationship, is_guardian
		FROM trusted_contacts
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select trusted contacts: %w", err)
	}
	defer rows.Close()

	var contacts []TrustedContact
	for rows.Next() {
		var c TrustedContact
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Relationship, &c.IsGuardian); err != nil {
			return nil, fmt.Errorf("scan trusted contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *PgRepository) IncrementPassengerRides(ctx context.Context, passengerID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE passenger_profiles SET total_rides = total_rides + 1 WHERE user_id = $1
	`, passengerID)
	if err != nil {
		return fmt.Errorf("increment passenger rides: %w", err)
	}
	return nil
}

func (r *PgRepository) AdminIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM users WHERE role = 'admin' AND is_active`)
	if err != nil {
		return nil, fmt.Errorf("select admins: %w", err)
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

// translateUniqueViolation превращает нарушение уникальности email/phone
// в доменную ошибку
func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "users_email_key":
			return ErrEmailTaken
		case "users_phone_key":
			return ErrPhoneTaken
		}
	}
	return fmt.Errorf("write user: %w", err)
}
