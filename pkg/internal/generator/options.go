package generator

import (
	"time"

	"github.com/keyscope/keyscope/pkg/internal/types"
)

// WithLogger registers loggers for the worker.
func WithLogger(l ...types.Logger) types.Option[*Generator] {
	return func(g *Generator) {
		g.ConnectLogger(l...)
	}
}

// WithWriteBackoff sets the sleep after a failed append before retrying the
// same record.
func WithWriteBackoff(d time.Duration) types.Option[*Generator] {
	return func(g *Generator) {
		if d > 0 {
			g.writeBackoff = d
		}
	}
}

// WithTimeOffset sets the phase, in cycles, the first record starts at.
func WithTimeOffset(t float64) types.Option[*Generator] {
	return func(g *Generator) {
		g.timeOffset = t
	}
}
