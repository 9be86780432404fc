// Package dashboard is the single owner of everything the render loop shows:
// the decoded signal, the spectrum pipeline, viewport bounds for both charts,
// and the handles of the two background workers. All state is mutated only
// from the render/input goroutine; workers hand data in through bounded
// channels drained once per tick.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/keyscope/keyscope/pkg/internal/codec"
	"github.com/keyscope/keyscope/pkg/internal/generator"
	"github.com/keyscope/keyscope/pkg/internal/ingestor"
	"github.com/keyscope/keyscope/pkg/internal/meter"
	"github.com/keyscope/keyscope/pkg/internal/spectrum"
	"github.com/keyscope/keyscope/pkg/internal/types"
	"github.com/keyscope/keyscope/pkg/internal/utils"
	"github.com/keyscope/keyscope/pkg/internal/viewport"
)

// Store is the slice of the client the dashboard uses on its own connection.
// Workers never share it; they dial their own.
type Store interface {
	types.ValueFetcher
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
	SetBytes(ctx context.Context, key string, value []byte) error
}

// Dashboard owns the current key, its decoded signal, and all chart state.
type Dashboard struct {
	componentMetadata types.ComponentMetadata
	loggers           []types.Logger

	store        Store
	readerDial   types.ReaderDial
	appenderDial types.AppenderDial
	recordClock  func(string) string

	allKeys    []string
	keys       []string
	filter     string
	currentKey string
	keyInfo    types.KeyInfo
	value      *types.Value

	sampleType codec.SampleType
	byteOrder  codec.ByteOrder
	signal     []float64

	pipeline        *spectrum.Pipeline
	spectrumEnabled bool
	logScale        bool

	signalX   viewport.AxisBounds
	signalY   viewport.AxisBounds
	spectrumX viewport.AxisBounds
	spectrumY viewport.AxisBounds
	window    int

	signalRect   viewport.Rect
	spectrumRect viewport.Rect

	hoverX, hoverY  float64
	hoverOK         bool
	hoverInSpectrum bool
	dragging        bool
	drag            viewport.Drag
	dragInSpectrum  bool

	ingest *ingestor.Ingestor
	gen    *generator.Generator

	meter  *meter.Meter
	status string
}

// NewDashboard wires a dashboard over a connected store. The dials are used
// to give each background worker its own connection.
func NewDashboard(store Store, readerDial types.ReaderDial, appenderDial types.AppenderDial, options ...types.Option[*Dashboard]) *Dashboard {
	d := &Dashboard{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "DASHBOARD",
		},
		store:        store,
		readerDial:   readerDial,
		appenderDial: appenderDial,
		recordClock:  func(id string) string { return id },
		sampleType:   codec.Int16,
		byteOrder:    codec.LittleEndian,
		signalX:      viewport.NewAxisBounds(),
		signalY:      viewport.NewAxisBounds(),
		spectrumX:    viewport.NewAxisBounds(),
		spectrumY:    viewport.NewAxisBounds(),
		window:       viewport.DefaultWindow,
		meter:        meter.NewMeter(),
	}
	for _, opt := range options {
		opt(d)
	}
	if d.pipeline == nil {
		d.pipeline = spectrum.NewPipeline(spectrum.WithLogger(d.loggers...))
	}
	return d
}

// GetComponentMetadata returns the dashboard metadata.
func (d *Dashboard) GetComponentMetadata() types.ComponentMetadata {
	return d.componentMetadata
}

// ConnectLogger registers loggers for the dashboard.
func (d *Dashboard) ConnectLogger(loggers ...types.Logger) {
	d.loggers = append(d.loggers, loggers...)
}

// NotifyLoggers emits a message to all registered loggers at the given level.
func (d *Dashboard) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	for _, logger := range d.loggers {
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

// Keys returns the most recent key listing.
func (d *Dashboard) Keys() []string {
	return d.keys
}

// CurrentKey returns the selected key, empty when nothing is selected.
func (d *Dashboard) CurrentKey() string {
	return d.currentKey
}

// KeyInfo returns the selected key's description.
func (d *Dashboard) KeyInfo() types.KeyInfo {
	return d.keyInfo
}

// Value returns the loaded value, nil when nothing is loaded.
func (d *Dashboard) Value() *types.Value {
	return d.value
}

// Signal returns the decoded plot data. Callers must not mutate it.
func (d *Dashboard) Signal() []float64 {
	return d.signal
}

// SampleType returns the active decode sample type.
func (d *Dashboard) SampleType() codec.SampleType {
	return d.sampleType
}

// ByteOrder returns the active decode byte order.
func (d *Dashboard) ByteOrder() codec.ByteOrder {
	return d.byteOrder
}

// SpectrumEnabled reports whether the spectrum chart is shown.
func (d *Dashboard) SpectrumEnabled() bool {
	return d.spectrumEnabled
}

// SpectrumState exposes the pipeline state for the status line.
func (d *Dashboard) SpectrumState() spectrum.State {
	return d.pipeline.State()
}

// SpectrumDisplay returns the spectrum to draw, log-scaled when enabled.
func (d *Dashboard) SpectrumDisplay() []float64 {
	return spectrum.DisplayData(d.pipeline.Result(), d.logScale)
}

// LogScale reports whether the spectrum is displayed log10-scaled.
func (d *Dashboard) LogScale() bool {
	return d.logScale
}

// ToggleLogScale flips the spectrum display scale.
func (d *Dashboard) ToggleLogScale() {
	d.logScale = !d.logScale
}

// Status returns the free-text status line.
func (d *Dashboard) Status() string {
	return d.status
}

// SetStatus replaces the status line.
func (d *Dashboard) SetStatus(format string, args ...interface{}) {
	d.status = fmt.Sprintf(format, args...)
}

// HostReading samples host CPU and memory for the status line.
func (d *Dashboard) HostReading() meter.Reading {
	return d.meter.Sample()
}

// StatusLine renders the status text with the host resource readout appended.
// Sampling blocks for the meter interval, so call it at display cadence, not
// per tick.
func (d *Dashboard) StatusLine() string {
	reading := d.meter.Sample()
	if d.status == "" {
		return reading.String()
	}
	return d.status + "  |  " + reading.String()
}

// RefreshKeys reloads the key listing for pattern, reapplying any active
// filter.
func (d *Dashboard) RefreshKeys(ctx context.Context, pattern string) error {
	keys, err := d.store.ScanKeys(ctx, pattern)
	if err != nil {
		return fmt.Errorf("refresh keys: %w", err)
	}
	d.allKeys = keys
	d.applyFilter()
	if d.currentKey != "" && !utils.Contains(keys, d.currentKey) {
		d.SetStatus("key %s is no longer listed", d.currentKey)
	}
	return nil
}

// FilterKeys narrows the listing to keys containing substr. An empty filter
// restores the full listing.
func (d *Dashboard) FilterKeys(substr string) {
	d.filter = substr
	d.applyFilter()
}

func (d *Dashboard) applyFilter() {
	if d.filter == "" {
		d.keys = d.allKeys
		return
	}
	d.keys = utils.Filter(d.allKeys, func(k string) bool {
		return strings.Contains(k, d.filter)
	})
}

// SelectKey loads key and replaces all plot state. Moving to a different key
// stops both background workers first, so a stale worker never feeds the new
// selection.
func (d *Dashboard) SelectKey(ctx context.Context, key string) error {
	if key != d.currentKey {
		d.StopWorkers()
	}
	info, err := d.store.KeyInfo(ctx, key)
	if err != nil {
		return fmt.Errorf("select %q: %w", key, err)
	}
	value, err := d.store.FetchValue(ctx, key)
	if err != nil {
		return fmt.Errorf("select %q: %w", key, err)
	}
	d.currentKey = key
	d.keyInfo = info
	d.value = &value
	d.recomputePlot()
	d.NotifyLoggers(types.DebugLevel, "key selected",
		"component", d.componentMetadata, "key", key, "type", info.Type)
	return nil
}

// Reload refetches the current key without touching viewport bounds.
func (d *Dashboard) Reload(ctx context.Context) error {
	if d.currentKey == "" {
		return nil
	}
	return d.SelectKey(ctx, d.currentKey)
}

// CycleSampleType moves the decode sample type forward or backward and
// recomputes the plot.
func (d *Dashboard) CycleSampleType(forward bool) {
	if forward {
		d.sampleType = d.sampleType.Next()
	} else {
		d.sampleType = d.sampleType.Prev()
	}
	d.recomputePlot()
}

// ToggleByteOrder flips the decode byte order and recomputes the plot.
func (d *Dashboard) ToggleByteOrder() {
	d.byteOrder = d.byteOrder.Toggle()
	d.recomputePlot()
}

// ToggleSpectrum shows or hides the spectrum chart, triggering a computation
// when turning on and discarding any state when turning off.
func (d *Dashboard) ToggleSpectrum() {
	d.spectrumEnabled = !d.spectrumEnabled
	if d.spectrumEnabled {
		d.pipeline.Trigger(d.signal)
	} else {
		d.pipeline.Reset()
	}
}

// Tick runs the dashboard's per-frame poll: collects a finished spectrum if
// one arrived and drains any batches the live worker has forwarded. It never
// blocks. It reports whether anything changed that warrants a redraw.
func (d *Dashboard) Tick() bool {
	changed := d.pipeline.Poll()

	if d.ingest != nil {
		appended := 0
	drain:
		for {
			select {
			case batch, ok := <-d.ingest.Records():
				if !ok {
					// Worker loop exited on its own.
					d.ingest = nil
					d.SetStatus("live listener stopped")
					changed = true
					break drain
				}
				if d.AppendRecords(d.ingest.Key(), batch) {
					appended += len(batch)
				}
			default:
				break drain
			}
		}
		if appended > 0 {
			d.SetStatus("stream: +%d records (live)", appended)
			changed = true
		}
	}
	return changed
}

// recomputePlot rebuilds the signal from the loaded value and invalidates the
// spectrum immediately so a redraw never pairs new samples with a stale
// transform.
func (d *Dashboard) recomputePlot() {
	d.signal = extractPlot(d.value, d.sampleType, d.byteOrder)
	d.pipeline.Reset()
	if d.spectrumEnabled {
		d.pipeline.Trigger(d.signal)
	}
}
