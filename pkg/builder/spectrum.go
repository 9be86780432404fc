package builder

import (
	"github.com/keyscope/keyscope/pkg/internal/meter"
	"github.com/keyscope/keyscope/pkg/internal/spectrum"
	"github.com/keyscope/keyscope/pkg/internal/types"
)

type SpectrumPipeline = spectrum.Pipeline

type SpectrumState = spectrum.State

// NewSpectrumPipeline creates an idle spectrum pipeline.
func NewSpectrumPipeline(options ...types.Option[*SpectrumPipeline]) *SpectrumPipeline {
	return spectrum.NewPipeline(options...)
}

// SpectrumWithLogger registers loggers for the pipeline.
func SpectrumWithLogger(l ...types.Logger) types.Option[*SpectrumPipeline] {
	return spectrum.WithLogger(l...)
}

// SpectrumMagnitude computes the DC-removed magnitude spectrum of a signal.
func SpectrumMagnitude(data []float64) []float64 {
	return spectrum.Magnitude(data)
}

// NewMeter returns a host resource meter for the status line.
func NewMeter() *meter.Meter {
	return meter.NewMeter()
}
