// Package redisclient adapts a Redis-compatible store to the read, stream,
// and edit surfaces the dashboard and its workers consume. The dashboard
// holds one client; each background worker dials its own so a blocked
// stream read never contends with the request path.
package redisclient

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/keyscope/keyscope/pkg/internal/types"
	"github.com/keyscope/keyscope/pkg/internal/utils"
)

const defaultScanCount = 256

// Client wraps a single go-redis connection.
type Client struct {
	componentMetadata types.ComponentMetadata
	loggers           []types.Logger
	rdb               *redis.Client
	opts              *redis.Options
	scanCount         int64
}

// Connect parses url (redis://host:port/db) and opens a connection. The
// connection is verified with a ping before it is handed back.
func Connect(ctx context.Context, url string, options ...types.Option[*Client]) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis url %q: %w", url, err)
	}
	c := &Client{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "REDIS_CLIENT",
		},
		opts:      opts,
		scanCount: defaultScanCount,
	}
	for _, opt := range options {
		opt(c)
	}
	c.rdb = redis.NewClient(opts)
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		_ = c.rdb.Close()
		return nil, fmt.Errorf("redis connect %s: %w", opts.Addr, err)
	}
	c.NotifyLoggers(types.InfoLevel, "redis connected",
		"component", c.componentMetadata, "addr", opts.Addr, "db", opts.DB)
	return c, nil
}

// GetComponentMetadata returns the client metadata.
func (c *Client) GetComponentMetadata() types.ComponentMetadata {
	return c.componentMetadata
}

// ConnectLogger registers loggers for the client.
func (c *Client) ConnectLogger(loggers ...types.Logger) {
	c.loggers = append(c.loggers, loggers...)
}

// NotifyLoggers emits a message to all registered loggers at the given level.
func (c *Client) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	for _, logger := range c.loggers {
		if logger == nil || logger.GetLevel() > level {
			continue
		}
		switch level {
		case types.DebugLevel:
			logger.Debug(msg, keysAndValues...)
		case types.InfoLevel:
			logger.Info(msg, keysAndValues...)
		case types.WarnLevel:
			logger.Warn(msg, keysAndValues...)
		case types.ErrorLevel:
			logger.Error(msg, keysAndValues...)
		}
	}
}

// Addr returns the address the client is connected to.
func (c *Client) Addr() string {
	return c.opts.Addr
}

// DB returns the logical database the client is selected into.
func (c *Client) DB() int {
	return c.opts.DB
}

// SelectDB reopens the connection against another logical database.
func (c *Client) SelectDB(ctx context.Context, db int) error {
	if db < 0 {
		return fmt.Errorf("database index must not be negative, got %d", db)
	}
	if db == c.opts.DB {
		return nil
	}
	next := *c.opts
	next.DB = db
	rdb := redis.NewClient(&next)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("select db %d: %w", db, err)
	}
	_ = c.rdb.Close()
	c.rdb = rdb
	c.opts = &next
	c.NotifyLoggers(types.InfoLevel, "redis database selected",
		"component", c.componentMetadata, "db", db)
	return nil
}

// Ping verifies the connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// DBSize returns the number of keys in the selected database.
func (c *Client) DBSize(ctx context.Context) (int64, error) {
	return c.rdb.DBSize(ctx).Result()
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// ReaderDial returns a dial function that opens a dedicated stream-reading
// connection against the same address and database.
func ReaderDial(url string) types.ReaderDial {
	return func() (types.StreamReader, error) {
		return Connect(context.Background(), url)
	}
}

// AppenderDial returns a dial function that opens a dedicated
// stream-appending connection against the same address and database.
func AppenderDial(url string) types.AppenderDial {
	return func() (types.StreamAppender, error) {
		return Connect(context.Background(), url)
	}
}
