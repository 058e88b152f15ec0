// Copyright (c) 2026 Emporia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrMiss is returned by Get when the key is absent or holds an empty
	// value. Readers degrade to the store of record on a miss.
	ErrMiss = errors.New("cache: miss")

	// ErrPoolExhausted is returned when no pooled connection becomes
	// available within the configured pool timeout.
	ErrPoolExhausted = errors.New("cache: connection pool exhausted")
)

// Client exposes the operation set of the read-through cache over either
// backing mode (single node or cluster).
//
// All operations borrow a pooled connection for the duration of one call.
// Client is safe for concurrent use.
type Client struct {
	rdb redis.UniversalClient
}

// NewClient wraps an established universal client.
func NewClient(rdb redis.UniversalClient) *Client {
	return &Client{rdb: rdb}
}

// Get fetches the raw bytes stored under key.
//
// Absent keys and empty payloads both report [ErrMiss]: an empty entry
// carries no decodable state and is treated as corrupted.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, wrapErr("get", key, err)
	}

	if len(payload) == 0 {
		return nil, ErrMiss
	}

	return payload, nil
}

// PSetEx stores value under key with a millisecond-precision TTL.
//
// The TTL bounds staleness while the event pipeline is healthy and
// self-heals the cache when it is not.
func (c *Client) PSetEx(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return wrapErr("pset_ex", key, err)
	}
	return nil
}

// Del removes keys. Deleting an absent key is not an error.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return wrapErr("del", fmt.Sprintf("%d keys", len(keys)), err)
	}
	return nil
}

// RPush appends values to the list stored at key.
func (c *Client) RPush(ctx context.Context, key string, values ...any) error {
	if err := c.rdb.RPush(ctx, key, values...).Err(); err != nil {
		return wrapErr("rpush", key, err)
	}
	return nil
}

// LRange returns the list elements between start and stop (inclusive).
func (c *Client) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	values, err := c.rdb.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, wrapErr("lrange", key, err)
	}
	return values, nil
}

// ZAdd inserts member with score into the sorted set at key.
//
// The worker uses this to maintain an expiry-scored index of the listing
// keys it has written, so operators can enumerate and flush them.
func (c *Client) ZAdd(ctx context.Context, key string, score float64, member string) error {
	if err := c.rdb.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err(); err != nil {
		return wrapErr("zadd", key, err)
	}
	return nil
}

// ZRangeByScore returns members of the sorted set with scores in [min, max].
func (c *Client) ZRangeByScore(ctx context.Context, key, min, max string) ([]string, error) {
	values, err := c.rdb.ZRangeByScore(ctx, key, &redis.ZRangeBy{Min: min, Max: max}).Result()
	if err != nil {
		return nil, wrapErr("zrangebyscore", key, err)
	}
	return values, nil
}

// ZRemRangeByScore removes sorted-set members with scores in [min, max].
func (c *Client) ZRemRangeByScore(ctx context.Context, key, min, max string) error {
	if err := c.rdb.ZRemRangeByScore(ctx, key, min, max).Err(); err != nil {
		return wrapErr("zremrangebyscore", key, err)
	}
	return nil
}

// Ping verifies connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return wrapErr("ping", "", err)
	}
	return nil
}

// wrapErr classifies driver errors; pool starvation surfaces as
// [ErrPoolExhausted] so callers can distinguish capacity from I/O faults.
func wrapErr(op, key string, err error) error {
	if errors.Is(err, redis.ErrPoolTimeout) || errors.Is(err, redis.ErrPoolExhausted) {
		return fmt.Errorf("%w: %s %s", ErrPoolExhausted, op, key)
	}
	return fmt.Errorf("cache: %s %s: %w", op, key, err)
}
