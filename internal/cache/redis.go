package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/akarpov91/flightbook/config"
	"github.com/akarpov91/flightbook/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache keeps flight search results keyed by their filter so the
// public search endpoint does not hit Postgres on every request. Any
// flight mutation drops the whole keyspace.
type RedisCache struct {
	client    *redis.Client
	searchTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, searchTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		searchTTL: searchTTL,
	}
}

func (c *RedisCache) GetSearch(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, searchKey(filter)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetSearch(ctx context.Context, filter domain.FlightFilter, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, searchKey(filter), payload, c.searchTTL).Err()
}

func (c *RedisCache) InvalidateSearch(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "cache:flights:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func searchKey(filter domain.FlightFilter) string {
	date := ""
	if filter.DepartureDate != nil {
		date = filter.DepartureDate.Format("2006-01-02")
	}
	return fmt.Sprintf("cache:flights:%s|%s|%s", filter.DepartureCode, filter.ArrivalCode, date)
}
