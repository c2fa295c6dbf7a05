package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/warp/loan-schedule/loan"
)

// Redis is a Cache shared between processes. Schedules are stored as JSON;
// decimal values encode as strings, so nothing is lost in transit.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to addr. Entries expire after ttl (zero: never).
func NewRedis(addr string, ttl time.Duration) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Ping checks that the server is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Get(ctx context.Context, key string) (loan.Schedule, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return loan.Schedule{}, false
	}
	if err != nil {
		log.WithFields(log.Fields{
			"key":   key,
			"error": err,
		}).Warn("Redis cache read failed")
		return loan.Schedule{}, false
	}

	var s loan.Schedule
	if err := json.Unmarshal(val, &s); err != nil {
		log.WithFields(log.Fields{
			"key":   key,
			"error": err,
		}).Warn("Discarding undecodable cache entry")
		return loan.Schedule{}, false
	}
	return s, true
}

func (r *Redis) Set(ctx context.Context, key string, s loan.Schedule) error {
	val, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	if err := r.client.Set(ctx, key, val, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

var _ Cache = (*Redis)(nil)
