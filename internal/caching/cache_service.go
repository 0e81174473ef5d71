package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"parkmate/internal/models"

	"github.com/redis/go-redis/v9"
)

// CacheService fronts Redis for the read-heavy roster listings and the
// login rate limiter. A cache fault never fails the request; callers fall
// back to the store.
type CacheService interface {
	// Roster caching per user category.
	GetRoster(ctx context.Context, category models.UserType) ([]*models.UserRecord, error)
	SetRoster(ctx context.Context, category models.UserType, records []*models.UserRecord, ttl time.Duration) error
	InvalidateRoster(ctx context.Context, category models.UserType) error

	// Login rate limiting.
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisCacheService connects a Redis-backed cache service. addr may be a
// bare host:port or a redis:// URL.
func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func rosterKey(category models.UserType) string {
	return fmt.Sprintf("parkmate:roster:%s", category)
}

func (r *redisCacheService) GetRoster(ctx context.Context, category models.UserType) ([]*models.UserRecord, error) {
	data, err := r.client.Get(ctx, rosterKey(category)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var records []*models.UserRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *redisCacheService) SetRoster(ctx context.Context, category models.UserType, records []*models.UserRecord, ttl time.Duration) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, rosterKey(category), data, ttl).Err()
}

func (r *redisCacheService) InvalidateRoster(ctx context.Context, category models.UserType) error {
	return r.client.Del(ctx, rosterKey(category)).Err()
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("parkmate:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return false, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
