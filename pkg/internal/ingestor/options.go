package ingestor

import (
	"time"

	"github.com/keyscope/keyscope/pkg/internal/types"
)

// WithLogger registers loggers for the worker.
func WithLogger(l ...types.Logger) types.Option[*Ingestor] {
	return func(i *Ingestor) {
		i.ConnectLogger(l...)
	}
}

// WithBlockTimeout sets how long one blocking read waits for new records.
// The worker observes cancellation within one interval.
func WithBlockTimeout(d time.Duration) types.Option[*Ingestor] {
	return func(i *Ingestor) {
		if d > 0 {
			i.blockTimeout = d
		}
	}
}

// WithBackoff sets the sleep after a transient read failure.
func WithBackoff(d time.Duration) types.Option[*Ingestor] {
	return func(i *Ingestor) {
		if d > 0 {
			i.backoff = d
		}
	}
}

// WithBatchBuffer sets the capacity of the forwarding channel.
func WithBatchBuffer(n int) types.Option[*Ingestor] {
	return func(i *Ingestor) {
		if n > 0 {
			i.out = make(chan []types.Record, n)
		}
	}
}
