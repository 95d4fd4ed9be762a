package safety

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/notify"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/ride"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/logger"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/user"
)

type fakeUsers struct {
	users    map[string]*user.User
	contacts map[string][]user.TrustedContact
	admins   []string
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) TrustedContacts(_ context.Context, id string) ([]user.TrustedContact, error) {
	return f.contacts[id], nil
}

func (f *fakeUsers) AdminIDs(context.Context) ([]string, error) {
	return f.admins, nil
}

type fakeRides struct{ rides map[string]*ride.Ride }

func (f *fakeRides) FindByID(_ context.Context, id string) (*ride.Ride, error) {
	r, ok := f.rides[id]
	if !ok {
		return nil, ride.ErrRideNotFound
	}
	return r, nil
}

type fakeSMS struct {
	sent []string
	fail map[string]bool
}

func (f *fakeSMS) Send(to, _ string) error {
	if f.fail[to] {
		return errors.New("undeliverable")
	}
	f.sent = append(f.sent, to)
	return nil
}

type notification struct {
	event      string
	recipients []string
}

type fakeNotifier struct{ sent []notification }

func (f *fakeNotifier) Notify(_ context.Context, event string, recipients []string, _ any) {
	f.sent = append(f.sent, notification{event: event, recipients: recipients})
}

func newTestService() (*Service, *fakeUsers, *fakeRides, *fakeSMS, *fakeNotifier) {
	users := &fakeUsers{
		users: map[string]*user.User{
			"pass-1": {ID: "pass-1", Name: "Alice", Role: user.RolePassenger},
		},
		contacts: map[string][]user.TrustedContact{
			"pass-1": {
				{Name: "Mom", Phone: "+100"},
				{Name: "Friend", Phone: "+200"},
			},
		},
		admins: []string{"admin-1", "admin-2"},
	}
	rides := &fakeRides{rides: map[string]*ride.Ride{
		"ride-1": {
			ID:          "ride-1",
			RideNumber:  "NV-20260901-ABCD1234",
			PassengerID: "pass-1",
			DriverID:    "drv-1",
			Status:      ride.StatusStarted,
			Dropoff:     ride.Point{Address: "Airport"},
		},
	}}
	sms := &fakeSMS{}
	notifier := &fakeNotifier{}
	svc := NewService(users, rides, sms, notifier, logger.NewLogger("test"))
	return svc, users, rides, sms, notifier
}

func TestSOSNotifiesContactsAndAdmins(t *testing.T) {
	svc, _, _, sms, notifier := newTestService()

	alert, err := svc.Activate(context.Background(), "pass-1", SOSInput{
		RideID: "ride-1",
		Lat:    55.75, Lng: 37.61,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, alert.ContactsNotified)
	assert.ElementsMatch(t, []string{"+100", "+200"}, sms.sent)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, notify.EventSOSActivated, notifier.sent[0].event)
	assert.Equal(t, []string{"admin-1", "admin-2"}, notifier.sent[0].recipients)
}

func TestSOSWithoutRide(t *testing.T) {
	svc, _, _, sms, _ := newTestService()

	alert, err := svc.Activate(context.Background(), "pass-1", SOSInput{Message: "help"})
	require.NoError(t, err)
	assert.Empty(t, alert.RideID)
	assert.Len(t, sms.sent, 2)
}

func TestSOSForeignRideRejected(t *testing.T) {
	svc, users, _, _, _ := newTestService()
	users.users["stranger"] = &user.User{ID: "stranger", Name: "Mallory"}

	_, err := svc.Activate(context.Background(), "stranger", SOSInput{RideID: "ride-1"})
	assert.ErrorIs(t, err, ErrNotRideParty)
}

func TestSOSSurvivesPartialSMSFailure(t *testing.T) {
	svc, _, _, sms, _ := newTestService()
	sms.fail = map[string]bool{"+100": true}

	alert, err := svc.Activate(context.Background(), "pass-1", SOSInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, alert.ContactsNotified)
	assert.Equal(t, []string{"+200"}, sms.sent)
}
