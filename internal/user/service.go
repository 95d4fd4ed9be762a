package user

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/auth"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/logger"
)

// Service — операции над учетными записями
type Service struct {
	repo      Repository
	jwt       *auth.JWTService
	passwords *auth.PasswordService
	google    GoogleVerifier
	log       *logger.Logger
}

func NewService(repo Repository, jwt *auth.JWTService, passwords *auth.PasswordService, google GoogleVerifier, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		jwt:       jwt,
		passwords: passwords,
		google:    google,
		log:       log,
	}
}

// RegisterInput — данные регистрации; водитель дополнительно передаёт
// лицензию и автомобиль
type RegisterInput struct {
	Name          string
	Email         string
	Phone         string
	Password      string
	Role          string
	LicenseNumber string
	Vehicle       Vehicle
}

// Register создает пользователя и возвращает его вместе с токеном.
// Роль admin через регистрацию недоступна.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, string, error) {
	if input.Role != RolePassenger && input.Role != RoleDriver {
		return nil, "", ErrInvalidRole
	}

	hash, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := &User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hash,
		Role:         input.Role,
		IsActive:     true,
		NotificationPrefs: NotificationPrefs{
			RideUpdates: true,
			Email:       true,
			SMS:         true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch input.Role {
	case RoleDriver:
		u.DriverProfile = &DriverProfile{
			LicenseNumber: input.LicenseNumber,
			Vehicle:       input.Vehicle,
		}
	case RolePassenger:
		u.PassengerProfile = &PassengerProfile{}
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	s.log.Info(logger.Entry{
		Action:  "user_registered",
		Message: u.Email,
		Additional: map[string]any{
			"user_id": u.ID,
			"role":    u.Role,
		},
	})

	return u, token, nil
}

// Login проверяет учетные данные и возвращает пользователя с токеном
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !s.passwords.Verify(u.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, "", ErrAccountDisabled
	}

	token, err := s.jwt.GenerateToken(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return u, token, nil
}

// GoogleLogin валидирует Google ID token; новый пользователь создается
// как passenger со случайным паролем
func (s *Service) GoogleLogin(ctx context.Context, idToken string) (*User, string, error) {
	email, name, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err == ErrNotFound {
		hash, hashErr := s.passwords.Hash(uuid.New().String())
		if hashErr != nil {
			return nil, "", fmt.Errorf("hash password: %w", hashErr)
		}
		now := time.Now().UTC()
		u = &User{
			ID:           uuid.New().String(),
			Name:         name,
			Email:        email,
			Phone:        "google:" + uuid.New().String()[:13],
			PasswordHash: hash,
			Role:         RolePassenger,
			IsActive:     true,
			IsVerified:   true,
			PassengerProfile: &PassengerProfile{},
			NotificationPrefs: NotificationPrefs{
				RideUpdates: true,
				Email:       true,
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.Create(ctx, u); err != nil {
			return nil, "", err
		}
	} else if err != nil {
		return nil, "", err
	}

	if !u.IsActive {
		return nil, "", ErrAccountDisabled
	}

	token, err := s.jwt.GenerateToken(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return u, token, nil
}

// Me возвращает текущего пользователя вместе с доверенными контактами
func (s *Service) Me(ctx context.Context, userID string) (*User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	contacts, err := s.repo.TrustedContacts(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.TrustedContacts = contacts
	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID, name, phone, avatarURL string) (*User, error) {
	if err := s.repo.UpdateProfile(ctx, userID, name, phone, avatarURL); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, userID)
}

func (s *Service) UpdatePassword(ctx context.Context, userID, current, newPassword string) error {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.passwords.Verify(u.PasswordHash, current) {
		return ErrWrongPassword
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, userID, hash)
}

func (s *Service) UpdateSettings(ctx context.Context, userID string, notif NotificationPrefs, sec SecurityPrefs) error {
	return s.repo.UpdateSettings(ctx, userID, notif, sec)
}

func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.repo.Deactivate(ctx, userID); err != nil {
		return err
	}
	s.log.Info(logger.Entry{
		Action:  "account_deactivated",
		Message: userID,
	})
	return nil
}

func (s *Service) AddTrustedContact(ctx context.Context, userID string, c TrustedContact) (*TrustedContact, error) {
	c.ID = uuid.New().String()
	if err := s.repo.AddTrustedContact(ctx, userID, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) RemoveTrustedContact(ctx context.Context, userID, contactID string) error {
	return s.repo.RemoveTrustedContact(ctx, userID, contactID)
}
