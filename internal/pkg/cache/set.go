package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/singleflight"
)

// Set is a namespace of msgpack-encoded values of one type in redis.
type Set[T any] struct {
	// sf collapses concurrent MutexGetSet calls for the same key
	sf singleflight.Group

	client *redis.Client
	prefix string
}

func NewSet[T any](client *redis.Client, prefix string) *Set[T] {
	return &Set[T]{
		client: client,
		prefix: prefix + ":",
	}
}

func (c *Set[T]) key(key string) string {
	return c.prefix + key
}

// Get returns ErrNotFound when the key does not exist.
func (c *Set[T]) Get(ctx context.Context, key string) (T, error) {
	var dest T
	key = c.key(key)
	resp, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return dest, ErrNotFound
		}
		log.Error().Err(err).Str("key", key).Msg("failed to get value from redis")
		return dest, err
	}
	if err := msgpack.Unmarshal(resp, &dest); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to unmarshal value from msgpack from redis")
		return dest, err
	}
	return dest, nil
}

func (c *Set[T]) Set(ctx context.Context, key string, value T, expire time.Duration) error {
	key = c.key(key)
	if l := log.Trace(); l.Enabled() {
		l.Str("key", key).Msg("setting value to redis")
	}
	b, err := msgpack.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to marshal value with msgpack")
		return err
	}
	if err := c.client.Set(ctx, key, b, expire).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to set value to redis")
		return err
	}
	return nil
}

// MutexGetSet returns the cached value for key, or computes it with valueFunc, stores it
// and returns it. Concurrent callers of the same key share one valueFunc execution.
// The boolean result is true when the value has been calculated rather than read from redis.
func (c *Set[T]) MutexGetSet(ctx context.Context, key string, valueFunc func() (T, error), expire time.Duration) (T, bool, error) {
	v, err := c.Get(ctx, key)
	if err == nil {
		return v, false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return v, false, err
	}
	// onwards, cache key does not exist

	res, err, _ := c.sf.Do(key, func() (any, error) {
		// another flight may have finished in-between
		if v, err := c.Get(ctx, key); err == nil {
			return v, nil
		}

		value, err := valueFunc()
		if err != nil {
			log.Error().Err(err).Str("key", c.key(key)).Msg("failed to get value from valueFunc() in MutexGetSet")
			return value, err
		}

		if err := c.Set(ctx, key, value, expire); err != nil {
			// the value is still good to serve
			log.Warn().Err(err).Str("key", c.key(key)).Msg("failed to set value to redis in MutexGetSet")
		}
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, true, err
	}
	return res.(T), true, nil
}

// Clear removes every key of the set.
func (c *Set[T]) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 1000).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 1000 {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		log.Error().Err(err).Str("prefix", c.prefix).Msg("failed to clear cache")
		return err
	}
	if len(batch) > 0 {
		return c.client.Del(ctx, batch...).Err()
	}
	return nil
}
