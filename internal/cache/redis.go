package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Redis is a Cache backed by a Redis server. Every operation swallows
// backend errors and reports a miss, so a down Redis never affects
// correctness, only hit rate.
type Redis struct {
	client *redis.Client
	log    *logrus.Logger
}

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis connects to the given server. The connection is verified with
// a short ping; failure is logged but not fatal, since every later call
// degrades to a miss anyway.
func NewRedis(opts RedisOptions, log *logrus.Logger) *Redis {
	if log == nil {
		log = logrus.StandardLogger()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis unreachable, cache will miss until it recovers")
	}

	return &Redis{client: client, log: log}
}

// Get returns the value for key, or a miss on any backend error.
func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	v, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			r.log.WithError(err).Debug("cache get failed")
		}
		return "", false
	}
	return v, true
}

// Set stores value under key for ttl. Errors are logged and dropped.
func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.log.WithError(err).Debug("cache set failed")
	}
}

// Delete removes key. Errors are logged and dropped.
func (r *Redis) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.log.WithError(err).Debug("cache delete failed")
	}
}

// Exists reports whether key is present, or false on any backend error.
func (r *Redis) Exists(ctx context.Context, key string) bool {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.log.WithError(err).Debug("cache exists failed")
		return false
	}
	return n > 0
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
