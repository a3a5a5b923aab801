package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"caretrack/internal/models"
	"caretrack/internal/repositories"

	"github.com/redis/go-redis/v9"
)

// CacheService fronts Redis for the hot read paths: settings dropdowns, the
// dashboard summary and refresh-token sessions. Every method degrades to a
// cache miss on Redis errors so the database stays the source of truth.
type CacheService interface {
	GetSettings(ctx context.Context, group string) ([]*models.Setting, error)
	SetSettings(ctx context.Context, group string, settings []*models.Setting, ttl time.Duration) error
	InvalidateSettings(ctx context.Context, group string) error

	GetFinanceTotals(ctx context.Context, key string) (*repositories.FinanceTotals, error)
	SetFinanceTotals(ctx context.Context, key string, totals *repositories.FinanceTotals, ttl time.Duration) error
	InvalidateFinanceTotals(ctx context.Context) error

	SetRefreshToken(ctx context.Context, token, userID string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, token string) (string, error)
	DeleteRefreshToken(ctx context.Context, token string) error

	Ping(ctx context.Context) error
	Close() error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
	return &redisCacheService{client: client}
}

func settingsKey(group string) string {
	return fmt.Sprintf("settings:%s", group)
}

func financeKey(key string) string {
	return fmt.Sprintf("finance:totals:%s", key)
}

func refreshKey(token string) string {
	return fmt.Sprintf("session:refresh:%s", token)
}

func (r *redisCacheService) GetSettings(ctx context.Context, group string) ([]*models.Setting, error) {
	data, err := r.client.Get(ctx, settingsKey(group)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var settings []*models.Setting
	if err := json.Unmarshal([]byte(data), &settings); err != nil {
		log.Printf("cache: corrupt settings entry for group %s: %v", group, err)
		return nil, nil
	}
	return settings, nil
}

func (r *redisCacheService) SetSettings(ctx context.Context, group string, settings []*models.Setting, ttl time.Duration) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, settingsKey(group), data, ttl).Err()
}

func (r *redisCacheService) InvalidateSettings(ctx context.Context, group string) error {
	return r.client.Del(ctx, settingsKey(group)).Err()
}

func (r *redisCacheService) GetFinanceTotals(ctx context.Context, key string) (*repositories.FinanceTotals, error) {
	data, err := r.client.Get(ctx, financeKey(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	totals := &repositories.FinanceTotals{}
	if err := json.Unmarshal([]byte(data), totals); err != nil {
		return nil, nil
	}
	return totals, nil
}

func (r *redisCacheService) SetFinanceTotals(ctx context.Context, key string, totals *repositories.FinanceTotals, ttl time.Duration) error {
	data, err := json.Marshal(totals)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, financeKey(key), data, ttl).Err()
}

func (r *redisCacheService) InvalidateFinanceTotals(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, financeKey("*"), 100).Iterator()
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
	return r.client.Del(ctx, keys...).Err()
}

func (r *redisCacheService) SetRefreshToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	return r.client.Set(ctx, refreshKey(token), userID, ttl).Err()
}

func (r *redisCacheService) GetRefreshToken(ctx context.Context, token string) (string, error) {
	userID, err := r.client.Get(ctx, refreshKey(token)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return userID, err
}

func (r *redisCacheService) DeleteRefreshToken(ctx context.Context, token string) error {
	return r.client.Del(ctx, refreshKey(token)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) Close() error {
	return r.client.Close()
}
