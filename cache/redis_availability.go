package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/restaurant-reservation/config"
	"github.com/yeremiapane/restaurant-reservation/models"
)

// NewRedisClient returns nil, nil when REDIS_ADDR is not configured.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// AvailabilityCache menyimpan grid availability sebagai JSON dengan TTL.
// Key: availability:{restaurant_id}:{YYYY-MM-DD}. Setiap grid membawa generation
// "{gen restoran}.{gen tanggal}"; invalidasi cukup menaikkan counter, grid dengan
// generation lama dianggap miss.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

type cachedAvailability struct {
	Generation   string              `json:"generation"`
	Availability models.Availability `json:"availability"`
}

func availabilityKey(restaurantID uint, date models.Date) string {
	return fmt.Sprintf("availability:%d:%s", restaurantID, date)
}

func restaurantGenKey(restaurantID uint) string {
	return fmt.Sprintf("availability-gen:%d", restaurantID)
}

func dateGenKey(restaurantID uint, date models.Date) string {
	return fmt.Sprintf("availability-gen:%d:%s", restaurantID, date)
}

func (c *AvailabilityCache) Get(ctx context.Context, restaurantID uint, date models.Date) (models.Availability, string, bool, error) {
	vals, err := c.client.MGet(ctx,
		restaurantGenKey(restaurantID),
		dateGenKey(restaurantID, date),
		availabilityKey(restaurantID, date),
	).Result()
	if err != nil {
		return models.Availability{}, "", false, err
	}
	generation := counter(vals[0]) + "." + counter(vals[1])

	raw, ok := vals[2].(string)
	if !ok {
		return models.Availability{}, generation, false, nil
	}
	var cached cachedAvailability
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return models.Availability{}, generation, false, err
	}
	if cached.Generation != generation {
		return models.Availability{}, generation, false, nil
	}
	return cached.Availability, generation, true, nil
}

func counter(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "0"
}

func (c *AvailabilityCache) Set(ctx context.Context, availability models.Availability, generation string) error {
	raw, err := json.Marshal(cachedAvailability{Generation: generation, Availability: availability})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, availabilityKey(availability.RestaurantID, availability.Date), raw, c.ttl).Err()
}

func (c *AvailabilityCache) Invalidate(ctx context.Context, restaurantID uint, date models.Date) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		c.bump(ctx, pipe, dateGenKey(restaurantID, date))
		pipe.Del(ctx, availabilityKey(restaurantID, date))
		return nil
	})
	return err
}

func (c *AvailabilityCache) InvalidateRestaurant(ctx context.Context, restaurantID uint) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		c.bump(ctx, pipe, restaurantGenKey(restaurantID))
		return nil
	})
	return err
}

// Counter hidup dua kali TTL grid, jadi grid lama sudah kedaluwarsa sebelum
// counter-nya bisa kembali ke 0.
func (c *AvailabilityCache) bump(ctx context.Context, pipe redis.Pipeliner, key string) {
	pipe.Incr(ctx, key)
	if c.ttl > 0 {
		pipe.Expire(ctx, key, 2*c.ttl)
	}
}
