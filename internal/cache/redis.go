package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/joshi-samarth/AirlineManagementSystem/config"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/domain"
	"github.com/redis/go-redis/v9"
)

const flightsPrefix = "cache:flights:"

type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return NewRedisCacheFromClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL,
	)
}

func NewRedisCacheFromClient(client *redis.Client, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, flightsTTL: flightsTTL}
}

// GetFlights returns nil, nil on a cache miss.
func (c *RedisCache) GetFlights(ctx context.Context, key string) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, flightsKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	flights := make([]domain.Flight, 0)
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, key string, flights []domain.Flight) error {
	if flights == nil {
		flights = []domain.Flight{}
	}
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey(key), payload, c.flightsTTL).Err()
}

// InvalidateFlights drops every cached flight listing, whatever its filter.
func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, flightsPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func flightsKey(key string) string {
	return flightsPrefix + key
}
