package dashboard

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/keyscope/keyscope/pkg/internal/codec"
	"github.com/keyscope/keyscope/pkg/internal/types"
)

// captureSuffix names the sibling key a snapshot is stored under.
const captureSuffix = ":capture"

// capture is the persisted snapshot of a plot: the decoded samples and the
// decode configuration they were produced with.
type capture struct {
	Signal     []float64
	SampleType codec.SampleType
	ByteOrder  codec.ByteOrder
}

// SaveCapture snapshots the current signal and decode configuration to
// `<key>:capture` as zstd-compressed gob. Failures land in the status line.
func (d *Dashboard) SaveCapture(ctx context.Context) error {
	if d.currentKey == "" {
		return fmt.Errorf("capture: no key selected")
	}
	snap := capture{
		Signal:     d.signal,
		SampleType: d.sampleType,
		ByteOrder:  d.byteOrder,
	}

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(snap); err != nil {
		return fmt.Errorf("capture encode: %w", err)
	}
	var compressed bytes.Buffer
	w, err := zstd.NewWriter(&compressed)
	if err != nil {
		return fmt.Errorf("capture compress: %w", err)
	}
	if _, err := w.Write(raw.Bytes()); err != nil {
		_ = w.Close()
		return fmt.Errorf("capture compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("capture compress: %w", err)
	}

	captureKey := d.currentKey + captureSuffix
	if err := d.store.SetBytes(ctx, captureKey, compressed.Bytes()); err != nil {
		return fmt.Errorf("capture write: %w", err)
	}
	d.SetStatus("capture saved to %s (%d samples)", captureKey, len(snap.Signal))
	d.NotifyLoggers(types.InfoLevel, "capture saved",
		"component", d.componentMetadata, "key", captureKey, "samples", len(snap.Signal))
	return nil
}

// LoadCapture restores a snapshot stored next to the current key, replacing
// the signal and decode configuration. The spectrum is recomputed rather than
// restored, since it derives from the signal.
func (d *Dashboard) LoadCapture(ctx context.Context) error {
	if d.currentKey == "" {
		return fmt.Errorf("capture: no key selected")
	}
	captureKey := d.currentKey + captureSuffix
	value, err := d.store.FetchValue(ctx, captureKey)
	if err != nil {
		return fmt.Errorf("capture read: %w", err)
	}
	if value.Kind != types.ValueBytes {
		return fmt.Errorf("capture read: %s holds %v, not bytes", captureKey, value.Kind)
	}

	r, err := zstd.NewReader(bytes.NewReader(value.Bytes))
	if err != nil {
		return fmt.Errorf("capture decompress: %w", err)
	}
	raw, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		return fmt.Errorf("capture decompress: %w", err)
	}

	var snap capture
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&snap); err != nil {
		return fmt.Errorf("capture decode: %w", err)
	}

	d.sampleType = snap.SampleType
	d.byteOrder = snap.ByteOrder
	d.signal = snap.Signal
	d.pipeline.Reset()
	if d.spectrumEnabled {
		d.pipeline.Trigger(d.signal)
	}
	d.SetStatus("capture loaded from %s (%d samples)", captureKey, len(snap.Signal))
	return nil
}
