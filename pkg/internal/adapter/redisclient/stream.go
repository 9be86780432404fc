package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/keyscope/keyscope/pkg/internal/types"
)

// streamReadLimit bounds one blocking read so a burst cannot produce an
// unbounded batch.
const streamReadLimit = 500

// ReadNewRecords blocks for up to block waiting for records with ids
// strictly after afterID. A server-side timeout yields an empty batch and a
// nil error.
func (c *Client) ReadNewRecords(ctx context.Context, key, afterID string, block time.Duration) ([]types.Record, error) {
	streams, err := c.rdb.XRead(ctx, &redis.XReadArgs{
		Streams: []string{key, afterID},
		Count:   streamReadLimit,
		Block:   block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("xread %q after %s: %w", key, afterID, err)
	}
	for _, s := range streams {
		if s.Stream == key {
			return toRecords(s.Messages), nil
		}
	}
	return nil, nil
}

// AppendRecord appends one field/value pair as a new record and returns the
// id the server assigned.
func (c *Client) AppendRecord(ctx context.Context, key, field string, value []byte) (string, error) {
	id, err := c.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: key,
		Values: map[string]interface{}{field: value},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("xadd %q: %w", key, err)
	}
	return id, nil
}
