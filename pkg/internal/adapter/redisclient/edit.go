package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SetBytes overwrites key with a raw byte payload, keeping no TTL.
func (c *Client) SetBytes(ctx context.Context, key string, value []byte) error {
	if err := c.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// SetString overwrites key with a text payload.
func (c *Client) SetString(ctx context.Context, key, value string) error {
	return c.SetBytes(ctx, key, []byte(value))
}

// HSet writes one field of a hash.
func (c *Client) HSet(ctx context.Context, key, field string, value []byte) error {
	if err := c.rdb.HSet(ctx, key, field, value).Err(); err != nil {
		return fmt.Errorf("hset %q %q: %w", key, field, err)
	}
	return nil
}

// RPush appends items to the tail of a list.
func (c *Client) RPush(ctx context.Context, key string, values ...[]byte) error {
	args := make([]interface{}, 0, len(values))
	for _, v := range values {
		args = append(args, v)
	}
	if err := c.rdb.RPush(ctx, key, args...).Err(); err != nil {
		return fmt.Errorf("rpush %q: %w", key, err)
	}
	return nil
}

// LSet overwrites one list element in place.
func (c *Client) LSet(ctx context.Context, key string, index int64, value []byte) error {
	if err := c.rdb.LSet(ctx, key, index, value).Err(); err != nil {
		return fmt.Errorf("lset %q[%d]: %w", key, index, err)
	}
	return nil
}

// SAdd adds members to a set.
func (c *Client) SAdd(ctx context.Context, key string, members ...[]byte) error {
	args := make([]interface{}, 0, len(members))
	for _, m := range members {
		args = append(args, m)
	}
	if err := c.rdb.SAdd(ctx, key, args...).Err(); err != nil {
		return fmt.Errorf("sadd %q: %w", key, err)
	}
	return nil
}

// ZAdd adds or rescores one member of a sorted set.
func (c *Client) ZAdd(ctx context.Context, key string, member []byte, score float64) error {
	if err := c.rdb.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err(); err != nil {
		return fmt.Errorf("zadd %q: %w", key, err)
	}
	return nil
}

// Delete removes a key.
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("del %q: %w", key, err)
	}
	return nil
}

// Rename moves a key to a new name, replacing any existing target.
func (c *Client) Rename(ctx context.Context, key, newKey string) error {
	if err := c.rdb.Rename(ctx, key, newKey).Err(); err != nil {
		return fmt.Errorf("rename %q to %q: %w", key, newKey, err)
	}
	return nil
}

// SetTTL sets a key's time to live. A negative ttl removes any expiry.
func (c *Client) SetTTL(ctx context.Context, key string, ttl time.Duration) error {
	if ttl < 0 {
		if err := c.rdb.Persist(ctx, key).Err(); err != nil {
			return fmt.Errorf("persist %q: %w", key, err)
		}
		return nil
	}
	if err := c.rdb.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("expire %q: %w", key, err)
	}
	return nil
}
