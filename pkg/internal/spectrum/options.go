package spectrum

import "github.com/keyscope/keyscope/pkg/internal/types"

// WithLogger registers loggers for the pipeline.
func WithLogger(l ...types.Logger) types.Option[*Pipeline] {
	return func(p *Pipeline) {
		p.ConnectLogger(l...)
	}
}

// WithComputeFunc overrides the spectrum computation. Tests use it to make
// completion deterministic.
func WithComputeFunc(f ComputeFunc) types.Option[*Pipeline] {
	return func(p *Pipeline) {
		if f != nil {
			p.compute = f
		}
	}
}
