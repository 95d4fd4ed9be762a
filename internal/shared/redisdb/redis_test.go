package redisdb

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/config"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return New(config.RedisConfig{Addr: mr.Addr()})
}

func TestDriverGeoIndex(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	// два водителя в центре Москвы, один в Питере
	require.NoError(t, c.UpdateDriverLocation(ctx, "drv-near", 37.6173, 55.7558))
	require.NoError(t, c.UpdateDriverLocation(ctx, "drv-close", 37.62, 55.76))
	require.NoError(t, c.UpdateDriverLocation(ctx, "drv-far", 30.3609, 59.9311))

	ids, err := c.NearbyDrivers(ctx, 37.6175, 55.7560, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"drv-near", "drv-close"}, ids)
	assert.NotContains(t, ids, "drv-far")
}

func TestRemoveDriver(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.UpdateDriverLocation(ctx, "drv-1", 37.6173, 55.7558))
	require.NoError(t, c.RemoveDriver(ctx, "drv-1"))

	ids, err := c.NearbyDrivers(ctx, 37.6173, 55.7558, 50)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestLocationUpdateOverwrites(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	// водитель уехал из радиуса, повторный GEOADD двигает его
	require.NoError(t, c.UpdateDriverLocation(ctx, "drv-1", 37.6173, 55.7558))
	require.NoError(t, c.UpdateDriverLocation(ctx, "drv-1", 30.3609, 59.9311))

	ids, err := c.NearbyDrivers(ctx, 37.6173, 55.7558, 10)
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = c.NearbyDrivers(ctx, 30.3609, 59.9311, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"drv-1"}, ids)
}
