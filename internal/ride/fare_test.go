package ride

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeFare(t *testing.T) {
	tests := []struct {
		name       string
		distanceKm float64
		class      string
		duration   float64
		wantTotal  float64
	}{
		{
			name:       "economy 5km 15min",
			distanceKm: 5,
			class:      ClassEconomy,
			duration:   15,
			wantTotal:  50 + 60 + 15, // base + 5*12 + 15/60*60
		},
		{
			name:       "zero distance is base fare only",
			distanceKm: 0,
			class:      ClassEconomy,
			duration:   0,
			wantTotal:  50,
		},
		{
			name:       "bike is the cheapest class",
			distanceKm: 10,
			class:      ClassBike,
			duration:   30,
			wantTotal:  25 + 70 + 30,
		},
		{
			name:       "premium 2.5km",
			distanceKm: 2.5,
			class:      ClassPremium,
			duration:   10,
			wantTotal:  100 + 55 + 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ComputeFare(tt.distanceKm, tt.class, tt.duration)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantTotal, f.Total, 0.001)
			assert.Zero(t, f.Surge)
			assert.InDelta(t, f.Base+f.Distance+f.Time+f.Surge, f.Total, 0.001)
		})
	}
}

func TestComputeFareUnknownClass(t *testing.T) {
	_, err := ComputeFare(5, "helicopter", 10)
	assert.ErrorIs(t, err, ErrInvalidVehicleClass)

	_, err = ComputeFare(5, "", 10)
	assert.ErrorIs(t, err, ErrInvalidVehicleClass)
}

func TestComputeFareDeterministic(t *testing.T) {
	a, err := ComputeFare(7.3, ClassSUV, 22)
	require.NoError(t, err)
	b, err := ComputeFare(7.3, ClassSUV, 22)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestComputeFareMonotonicInDistance(t *testing.T) {
	short, err := ComputeFare(2, ClassEconomy, 10)
	require.NoError(t, err)
	long, err := ComputeFare(20, ClassEconomy, 10)
	require.NoError(t, err)
	assert.Greater(t, long.Total, short.Total)
}

func TestHaversineKm(t *testing.T) {
	// Москва -> Санкт-Петербург, примерно 634 км
	d := HaversineKm(55.7558, 37.6173, 59.9311, 30.3609)
	assert.InDelta(t, 634, d, 5)

	assert.Zero(t, HaversineKm(10, 20, 10, 20))
}

func TestValidVehicleClass(t *testing.T) {
	for _, class := range []string{ClassEconomy, ClassPremium, ClassSUV, ClassBike} {
		assert.True(t, ValidVehicleClass(class), class)
	}
	assert.False(t, ValidVehicleClass("ECONOMY"))
	assert.False(t, ValidVehicleClass("luxury"))
}
