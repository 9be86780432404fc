package dashboard

import (
	"context"
	"fmt"

	"github.com/keyscope/keyscope/pkg/internal/generator"
	"github.com/keyscope/keyscope/pkg/internal/ingestor"
	"github.com/keyscope/keyscope/pkg/internal/types"
)

// StartIngest launches a live listener pinned to the current stream key. An
// active listener, on any key, is stopped and joined first so batches never
// interleave.
func (d *Dashboard) StartIngest(ctx context.Context) error {
	if d.currentKey == "" || d.keyInfo.Type != "stream" {
		return fmt.Errorf("live listen: select a stream key first")
	}
	if d.ingest != nil {
		_ = d.ingest.Stop()
		d.ingest = nil
	}

	afterID := "0-0"
	if d.value != nil && d.value.Kind == types.ValueStream && len(d.value.Records) > 0 {
		afterID = d.value.Records[len(d.value.Records)-1].ID
	}
	ing := ingestor.NewIngestor(d.currentKey, afterID, d.readerDial,
		ingestor.WithLogger(d.loggers...))
	if err := ing.Start(ctx); err != nil {
		return err
	}
	d.ingest = ing
	d.SetStatus("live: listening on %s", d.currentKey)
	return nil
}

// StopIngest stops and joins the live listener if one is running.
func (d *Dashboard) StopIngest() {
	if d.ingest == nil {
		return
	}
	_ = d.ingest.Stop()
	d.ingest = nil
	d.SetStatus("live: stopped")
}

// IngestRunning reports whether a live listener is attached.
func (d *Dashboard) IngestRunning() bool {
	return d.ingest != nil && d.ingest.IsStarted()
}

// StartGenerator launches a waveform writer pinned to the current key. An
// active generator is stopped and joined first.
func (d *Dashboard) StartGenerator(ctx context.Context, cfg generator.Config) error {
	if d.currentKey == "" {
		return fmt.Errorf("signal gen: select a key first")
	}
	if d.gen != nil {
		_ = d.gen.Stop()
		d.gen = nil
	}

	gen, err := generator.NewGenerator(d.currentKey, cfg, d.appenderDial,
		generator.WithLogger(d.loggers...))
	if err != nil {
		return err
	}
	if err := gen.Start(ctx); err != nil {
		return err
	}
	d.gen = gen
	d.SetStatus("gen: %s -> %s", cfg.Waveform, d.currentKey)
	return nil
}

// StopGenerator stops and joins the waveform writer if one is running.
func (d *Dashboard) StopGenerator() {
	if d.gen == nil {
		return
	}
	_ = d.gen.Stop()
	d.gen = nil
	d.SetStatus("gen: stopped")
}

// GeneratorRunning reports whether a waveform writer is attached.
func (d *Dashboard) GeneratorRunning() bool {
	return d.gen != nil && d.gen.IsStarted()
}

// StopWorkers stops both background workers. Called on navigation away from
// the pinned key and on shutdown.
func (d *Dashboard) StopWorkers() {
	if d.ingest != nil {
		_ = d.ingest.Stop()
		d.ingest = nil
	}
	if d.gen != nil {
		_ = d.gen.Stop()
		d.gen = nil
	}
}
