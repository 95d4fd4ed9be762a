package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/auth"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/config"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/logger"
)

// ==== Фейки ====

type fakeRepo struct {
	byID    map[string]*User
	byEmail map[string]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]*User{}, byEmail: map[string]*User{}}
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return ErrEmailTaken
	}
	cp := *u
	f.byID[u.ID] = &cp
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) UpdateProfile(_ context.Context, id, name, phone, avatarURL string) error {
	u, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	if name != "" {
		u.Name = name
	}
	if phone != "" {
		u.Phone = phone
	}
	if avatarURL != "" {
		u.AvatarURL = avatarURL
	}
	return nil
}

func (f *fakeRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeRepo) UpdateSettings(_ context.Context, id string, notif NotificationPrefs, sec SecurityPrefs) error {
	u, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.NotificationPrefs = notif
	u.SecurityPrefs = sec
	return nil
}

func (f *fakeRepo) Deactivate(_ context.Context, id string) error {
	u, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.IsActive = false
	return nil
}

func (f *fakeRepo) AddTrustedContact(_ context.Context, userID string, c *TrustedContact) error {
	u, ok := f.byID[userID]
	if !ok {
		return ErrNotFound
	}
	u.TrustedContacts = append(u.TrustedContacts, *c)
	return nil
}

func (f *fakeRepo) RemoveTrustedContact(_ context.Context, userID, contactID string) error {
	u, ok := f.byID[userID]
	if !ok {
		return ErrNotFound
	}
	for i, c := range u.TrustedContacts {
		if c.ID == contactID {
			u.TrustedContacts = append(u.TrustedContacts[:i], u.TrustedContacts[i+1:]...)
			return nil
		}
	}
	return ErrContactNotFound
}

func (f *fakeRepo) TrustedContacts(_ context.Context, userID string) ([]TrustedContact, error) {
	u, ok := f.byID[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return u.TrustedContacts, nil
}

func (f *fakeRepo) IncrementPassengerRides(context.Context, string) error { return nil }

func (f *fakeRepo) AdminIDs(context.Context) ([]string, error) { return nil, nil }

type fakeGoogle struct {
	email string
	name  string
	err   error
}

func (f *fakeGoogle) Verify(context.Context, string) (string, string, error) {
	return f.email, f.name, f.err
}

func newTestService(repo Repository, google GoogleVerifier) *Service {
	jwt := auth.NewJWTService(config.JWTConfig{Secret: "test", ExpiryMinutes: 60})
	return NewService(repo, jwt, auth.NewPasswordService(), google, logger.NewLogger("test"))
}

// ==== Register ====

func TestRegisterHashesPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGoogle{})

	u, token, err := svc.Register(context.Background(), RegisterInput{
		Name: "Alice", Email: "alice@example.com", Phone: "+100",
		Password: "secret123", Role: RolePassenger,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "secret123", u.PasswordHash)
	assert.True(t, u.IsActive)
	assert.NotNil(t, u.PassengerProfile)
	assert.Nil(t, u.DriverProfile)
}

func TestRegisterDriverGetsProfile(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeGoogle{})

	u, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "Bob", Email: "bob@example.com", Phone: "+200",
		Password: "secret123", Role: RoleDriver,
		LicenseNumber: "DL-42",
		Vehicle:       Vehicle{Type: "sedan", Model: "Prius", Plate: "A100BC"},
	})
	require.NoError(t, err)
	require.NotNil(t, u.DriverProfile)
	assert.Equal(t, "DL-42", u.DriverProfile.LicenseNumber)
	assert.Equal(t, "Prius", u.DriverProfile.Vehicle.Model)
}

func TestRegisterAdminRejected(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeGoogle{})

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "Eve", Email: "eve@example.com", Phone: "+300",
		Password: "secret123", Role: RoleAdmin,
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeGoogle{})
	input := RegisterInput{
		Name: "Alice", Email: "alice@example.com", Phone: "+100",
		Password: "secret123", Role: RolePassenger,
	}

	_, _, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

// ==== Login ====

func TestLogin(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGoogle{})

	registered, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "Alice", Email: "alice@example.com", Phone: "+100",
		Password: "secret123", Role: RolePassenger,
	})
	require.NoError(t, err)

	u, token, err := svc.Login(context.Background(), "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
	assert.NotEmpty(t, token)
}

func TestLoginBadPassword(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeGoogle{})
	_, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "Alice", Email: "alice@example.com", Phone: "+100",
		Password: "secret123", Role: RolePassenger,
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeGoogle{})

	// неизвестный email отвечает той же ошибкой, что и плохой пароль
	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGoogle{})

	u, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "Alice", Email: "alice@example.com", Phone: "+100",
		Password: "secret123", Role: RolePassenger,
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteAccount(context.Background(), u.ID))

	_, _, err = svc.Login(context.Background(), "alice@example.com", "secret123")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

// ==== Google ====

func TestGoogleLoginCreatesPassenger(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGoogle{email: "g@example.com", name: "G User"})

	u, token, err := svc.GoogleLogin(context.Background(), "fake-id-token")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, RolePassenger, u.Role)
	assert.True(t, u.IsVerified)

	// повторный вход находит того же пользователя
	again, _, err := svc.GoogleLogin(context.Background(), "fake-id-token")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
}

func TestGoogleLoginBadToken(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeGoogle{err: errors.New("rejected")})

	_, _, err := svc.GoogleLogin(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// ==== Password ====

func TestUpdatePasswordVerifiesCurrent(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGoogle{})

	u, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "Alice", Email: "alice@example.com", Phone: "+100",
		Password: "secret123", Role: RolePassenger,
	})
	require.NoError(t, err)

	err = svc.UpdatePassword(context.Background(), u.ID, "wrong-current", "newpass99")
	assert.ErrorIs(t, err, ErrWrongPassword)

	require.NoError(t, svc.UpdatePassword(context.Background(), u.ID, "secret123", "newpass99"))

	_, _, err = svc.Login(context.Background(), "alice@example.com", "newpass99")
	assert.NoError(t, err)
}
