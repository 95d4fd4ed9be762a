package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/notify"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/ride"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/logger"
	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/user"
)

// ==== Фейки ====

type fakeRepo2 struct {
	available map[string]bool
	locations map[string][2]float64
	earnings  map[string]float64
}

func newFakeRepo2() *fakeRepo2 {
	return &fakeRepo2{
		available: map[string]bool{},
		locations: map[string][2]float64{},
		earnings:  map[string]float64{},
	}
}

func (f *fakeRepo2) SetAvailability(_ context.Context, id string, v bool) error {
	f.available[id] = v
	return nil
}

func (f *fakeRepo2) IsAvailable(_ context.Context, id string) (bool, error) {
	return f.available[id], nil
}

func (f *fakeRepo2) AvailableDriverIDs(context.Context) ([]string, error) {
	var ids []string
	for id, ok := range f.available {
		if ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeRepo2) UpdateLocation(_ context.Context, id string, lat, lng float64) error {
	f.locations[id] = [2]float64{lat, lng}
	return nil
}

func (f *fakeRepo2) UpdateProfile(context.Context, string, string, *user.Vehicle) error {
	return nil
}

func (f *fakeRepo2) Earnings(_ context.Context, id string) (*EarningsSummary, error) {
	return &EarningsSummary{Balance: f.earnings[id]}, nil
}

func (f *fakeRepo2) Cashout(_ context.Context, id string, amount float64) (*Payout, error) {
	if f.earnings[id] < amount {
		return nil, ErrInsufficientFunds
	}
	f.earnings[id] -= amount
	return &Payout{ID: "payout-1", Amount: amount}, nil
}

func (f *fakeRepo2) AddDocument(_ context.Context, _ string, d *Document) error {
	d.ID = "doc-1"
	return nil
}

func (f *fakeRepo2) Documents(context.Context, string) ([]Document, error) { return nil, nil }

type fakeGeo2 struct {
	updated []string
	removed []string
}

func (f *fakeGeo2) UpdateDriverLocation(_ context.Context, id string, _, _ float64) error {
	f.updated = append(f.updated, id)
	return nil
}

func (f *fakeGeo2) RemoveDriver(_ context.Context, id string) error {
	f.removed = append(f.removed, id)
	return nil
}

type fakeRides struct{ active *ride.Ride }

func (f *fakeRides) ActiveForUser(context.Context, string) (*ride.Ride, error) {
	if f.active == nil {
		return nil, ride.ErrNoActiveRide
	}
	return f.active, nil
}

type notification struct {
	event      string
	recipients []string
}

type fakeNotifier struct{ sent []notification }

func (f *fakeNotifier) Notify(_ context.Context, event string, recipients []string, _ any) {
	f.sent = append(f.sent, notification{event: event, recipients: recipients})
}

type env struct {
	svc      *Service
	repo     *fakeRepo2
	geo      *fakeGeo2
	rides    *fakeRides
	notifier *fakeNotifier
}

func newEnv() *env {
	e := &env{
		repo:     newFakeRepo2(),
		geo:      &fakeGeo2{},
		rides:    &fakeRides{},
		notifier: &fakeNotifier{},
	}
	e.svc = NewService(e.repo, e.geo, e.rides, e.notifier, logger.NewLogger("test"))
	return e
}

// ==== Tests ====

func TestLocationUpdateAvailableDriverEntersGeoIndex(t *testing.T) {
	e := newEnv()
	e.repo.available["drv-1"] = true

	require.NoError(t, e.svc.UpdateLocation(context.Background(), "drv-1", 55.75, 37.61))

	assert.Equal(t, []string{"drv-1"}, e.geo.updated)
	assert.Empty(t, e.notifier.sent)
	assert.Equal(t, [2]float64{55.75, 37.61}, e.repo.locations["drv-1"])
}

func TestLocationUpdateOfflineDriverSkipsGeoIndex(t *testing.T) {
	e := newEnv()
	e.repo.available["drv-1"] = false

	require.NoError(t, e.svc.UpdateLocation(context.Background(), "drv-1", 55.75, 37.61))

	assert.Empty(t, e.geo.updated)
	// позиция в профиле все равно обновляется
	assert.Equal(t, [2]float64{55.75, 37.61}, e.repo.locations["drv-1"])
}

func TestLocationUpdateOnRideNotifiesPassenger(t *testing.T) {
	e := newEnv()
	e.rides.active = &ride.Ride{
		ID:          "ride-1",
		PassengerID: "pass-1",
		DriverID:    "drv-1",
		Status:      ride.StatusStarted,
	}

	require.NoError(t, e.svc.UpdateLocation(context.Background(), "drv-1", 55.75, 37.61))

	require.Len(t, e.notifier.sent, 1)
	assert.Equal(t, notify.EventDriverLocationUpdate, e.notifier.sent[0].event)
	assert.Equal(t, []string{"pass-1"}, e.notifier.sent[0].recipients)
	// водитель на поездке не возвращается в поисковый индекс
	assert.Empty(t, e.geo.updated)
}

func TestGoingOfflineLeavesGeoIndex(t *testing.T) {
	e := newEnv()

	require.NoError(t, e.svc.SetAvailability(context.Background(), "drv-1", false))
	assert.Equal(t, []string{"drv-1"}, e.geo.removed)

	require.NoError(t, e.svc.SetAvailability(context.Background(), "drv-1", true))
	assert.True(t, e.repo.available["drv-1"])
	// повторного удаления не было
	assert.Len(t, e.geo.removed, 1)
}

func TestCashout(t *testing.T) {
	e := newEnv()
	e.repo.earnings["drv-1"] = 300

	_, err := e.svc.Cashout(context.Background(), "drv-1", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = e.svc.Cashout(context.Background(), "drv-1", 500)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	p, err := e.svc.Cashout(context.Background(), "drv-1", 200)
	require.NoError(t, err)
	assert.Equal(t, 200.0, p.Amount)
	assert.Equal(t, 100.0, e.repo.earnings["drv-1"])
}
