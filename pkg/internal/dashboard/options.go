package dashboard

import (
	"github.com/keyscope/keyscope/pkg/internal/codec"
	"github.com/keyscope/keyscope/pkg/internal/spectrum"
	"github.com/keyscope/keyscope/pkg/internal/types"
)

// WithLogger registers loggers for the dashboard.
func WithLogger(l ...types.Logger) types.Option[*Dashboard] {
	return func(d *Dashboard) {
		d.ConnectLogger(l...)
	}
}

// WithDecodeConfig sets the initial sample type and byte order.
func WithDecodeConfig(t codec.SampleType, o codec.ByteOrder) types.Option[*Dashboard] {
	return func(d *Dashboard) {
		d.sampleType = t
		d.byteOrder = o
	}
}

// WithPlotWindow sets how many of the newest samples an auto-ranged signal
// chart shows.
func WithPlotWindow(n int) types.Option[*Dashboard] {
	return func(d *Dashboard) {
		if n > 0 {
			d.window = n
		}
	}
}

// WithSpectrumPipeline replaces the spectrum pipeline, which tests use to
// gate the compute.
func WithSpectrumPipeline(p *spectrum.Pipeline) types.Option[*Dashboard] {
	return func(d *Dashboard) {
		d.pipeline = p
	}
}

// WithRecordClock sets the formatter that turns a stream record id into a
// wall-clock label for the value view.
func WithRecordClock(f func(string) string) types.Option[*Dashboard] {
	return func(d *Dashboard) {
		if f != nil {
			d.recordClock = f
		}
	}
}
