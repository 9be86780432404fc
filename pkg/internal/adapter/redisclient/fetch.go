package redisclient

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/keyscope/keyscope/pkg/internal/types"
)

// streamFetchLimit bounds how many records a one-shot stream fetch pulls.
const streamFetchLimit = 500

// ScanKeys walks the keyspace with SCAN and returns every key matching
// pattern, sorted.
func (c *Client) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}
	var keys []string
	var cursor uint64
	for {
		page, next, err := c.rdb.Scan(ctx, cursor, pattern, c.scanCount).Result()
		if err != nil {
			return nil, fmt.Errorf("scan %q: %w", pattern, err)
		}
		keys = append(keys, page...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// KeyInfo describes key without fetching its payload. Memory and encoding
// are best effort; servers without the commands report zero values.
func (c *Client) KeyInfo(ctx context.Context, key string) (types.KeyInfo, error) {
	typ, err := c.rdb.Type(ctx, key).Result()
	if err != nil {
		return types.KeyInfo{}, fmt.Errorf("type %q: %w", key, err)
	}
	info := types.KeyInfo{Name: key, Type: typ}

	if ttl, err := c.rdb.TTL(ctx, key).Result(); err == nil {
		info.TTL = int64(ttl.Seconds())
	}
	if mem, err := c.rdb.MemoryUsage(ctx, key).Result(); err == nil {
		info.Memory = mem
	}
	if enc, err := c.rdb.ObjectEncoding(ctx, key).Result(); err == nil {
		info.Encoding = enc
	}
	return info, nil
}

// FetchValue reads the full payload of key, dispatching on its server type.
// Unsupported types come back as ValueUnknown with a note instead of an
// error so the caller can still display something.
func (c *Client) FetchValue(ctx context.Context, key string) (types.Value, error) {
	typ, err := c.rdb.Type(ctx, key).Result()
	if err != nil {
		return types.Value{}, fmt.Errorf("type %q: %w", key, err)
	}
	switch typ {
	case "string":
		return c.fetchBytes(ctx, key)
	case "list":
		return c.fetchList(ctx, key)
	case "set":
		return c.fetchSet(ctx, key)
	case "zset":
		return c.fetchZSet(ctx, key)
	case "hash":
		return c.fetchHash(ctx, key)
	case "stream":
		return c.fetchStream(ctx, key)
	case "none":
		return types.Value{}, fmt.Errorf("key %q does not exist", key)
	default:
		return types.Value{Kind: types.ValueUnknown, Note: typ}, nil
	}
}

func (c *Client) fetchBytes(ctx context.Context, key string) (types.Value, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return types.Value{}, fmt.Errorf("get %q: %w", key, err)
	}
	return types.Value{Kind: types.ValueBytes, Bytes: b}, nil
}

func (c *Client) fetchList(ctx context.Context, key string) (types.Value, error) {
	items, err := c.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return types.Value{}, fmt.Errorf("lrange %q: %w", key, err)
	}
	return types.Value{Kind: types.ValueList, Items: toBytes(items)}, nil
}

func (c *Client) fetchSet(ctx context.Context, key string) (types.Value, error) {
	members, err := c.rdb.SMembers(ctx, key).Result()
	if err != nil {
		return types.Value{}, fmt.Errorf("smembers %q: %w", key, err)
	}
	sort.Strings(members)
	return types.Value{Kind: types.ValueSet, Items: toBytes(members)}, nil
}

func (c *Client) fetchZSet(ctx context.Context, key string) (types.Value, error) {
	zs, err := c.rdb.ZRangeWithScores(ctx, key, 0, -1).Result()
	if err != nil {
		return types.Value{}, fmt.Errorf("zrange %q: %w", key, err)
	}
	members := make([]types.ScoredMember, 0, len(zs))
	for _, z := range zs {
		m, _ := z.Member.(string)
		members = append(members, types.ScoredMember{Member: []byte(m), Score: z.Score})
	}
	return types.Value{Kind: types.ValueZSet, Members: members}, nil
}

func (c *Client) fetchHash(ctx context.Context, key string) (types.Value, error) {
	pairs, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return types.Value{}, fmt.Errorf("hgetall %q: %w", key, err)
	}
	fields := make([]types.Field, 0, len(pairs))
	for name, value := range pairs {
		fields = append(fields, types.Field{Name: name, Value: []byte(value)})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	return types.Value{Kind: types.ValueHash, Pairs: fields}, nil
}

func (c *Client) fetchStream(ctx context.Context, key string) (types.Value, error) {
	msgs, err := c.rdb.XRangeN(ctx, key, "-", "+", streamFetchLimit).Result()
	if err != nil {
		return types.Value{}, fmt.Errorf("xrange %q: %w", key, err)
	}
	return types.Value{Kind: types.ValueStream, Records: toRecords(msgs)}, nil
}

func toBytes(items []string) [][]byte {
	out := make([][]byte, 0, len(items))
	for _, s := range items {
		out = append(out, []byte(s))
	}
	return out
}

// toRecords converts stream messages to records with fields in name order,
// since the server hands field maps back unordered.
func toRecords(msgs []redis.XMessage) []types.Record {
	records := make([]types.Record, 0, len(msgs))
	for _, m := range msgs {
		fields := make([]types.Field, 0, len(m.Values))
		for name, v := range m.Values {
			s, _ := v.(string)
			fields = append(fields, types.Field{Name: name, Value: []byte(s)})
		}
		sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
		records = append(records, types.Record{ID: m.ID, Fields: fields})
	}
	return records
}
