package redisdb

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/shared/config"
)

// Ключ geo-множества с текущими позициями доступных водителей
const driverGeoKey = "drivers:geo"

type Client struct{ *redis.Client }

func New(cfg config.RedisConfig) *Client {
	return &Client{redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})}
}

func (c *Client) Ping(ctx context.Context) error { return c.Client.Ping(ctx).Err() }

// UpdateDriverLocation обновляет позицию водителя в geo-индексе
func (c *Client) UpdateDriverLocation(ctx context.Context, driverID string, lng, lat float64) error {
	err := c.GeoAdd(ctx, driverGeoKey, &redis.GeoLocation{
		Name:      driverID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
	if err != nil {
		return fmt.Errorf("geoadd driver %s: %w", driverID, err)
	}
	return nil
}

// RemoveDriver убирает водителя из geo-индекса (ушёл offline)
func (c *Client) RemoveDriver(ctx context.Context, driverID string) error {
	return c.ZRem(ctx, driverGeoKey, driverID).Err()
}

// NearbyDrivers возвращает ID водителей в радиусе radiusKm от точки,
// отсортированных по удалённости
func (c *Client) NearbyDrivers(ctx context.Context, lng, lat, radiusKm float64) ([]string, error) {
	locations, err := c.GeoRadius(ctx, driverGeoKey, lng, lat, &redis.GeoRadiusQuery{
		Radius: radiusKm,
		Unit:   "km",
		Sort:   "ASC",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("georadius: %w", err)
	}

	ids := make([]string, 0, len(locations))
	for _, loc := range locations {
		ids = append(ids, loc.Name)
	}
	return ids, nil
}
