package redisclient

import (
	"github.com/keyscope/keyscope/pkg/internal/types"
)

// WithLogger registers loggers for the client.
func WithLogger(l ...types.Logger) types.Option[*Client] {
	return func(c *Client) {
		c.ConnectLogger(l...)
	}
}

// WithScanCount sets the page size SCAN requests from the server.
func WithScanCount(n int64) types.Option[*Client] {
	return func(c *Client) {
		if n > 0 {
			c.scanCount = n
		}
	}
}
