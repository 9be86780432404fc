package builder

import (
	"context"

	redisClient "github.com/keyscope/keyscope/pkg/internal/adapter/redisclient"
	"github.com/keyscope/keyscope/pkg/internal/types"
)

type RedisClient = redisClient.Client

// ConnectRedis opens and verifies a connection to the store at url.
func ConnectRedis(ctx context.Context, url string, options ...types.Option[*RedisClient]) (*RedisClient, error) {
	return redisClient.Connect(ctx, url, options...)
}

// RedisWithLogger registers loggers for the client.
func RedisWithLogger(l ...types.Logger) types.Option[*RedisClient] {
	return redisClient.WithLogger(l...)
}

// RedisWithScanCount sets the SCAN page size.
func RedisWithScanCount(n int64) types.Option[*RedisClient] {
	return redisClient.WithScanCount(n)
}

// RedisReaderDial returns a dial function for a worker's own stream-reading
// connection.
func RedisReaderDial(url string) types.ReaderDial {
	return redisClient.ReaderDial(url)
}

// RedisAppenderDial returns a dial function for a worker's own
// stream-appending connection.
func RedisAppenderDial(url string) types.AppenderDial {
	return redisClient.AppenderDial(url)
}

// FormatRecordID renders a stream record id as a wall-clock label.
func FormatRecordID(id string) string {
	return redisClient.FormatRecordID(id)
}
