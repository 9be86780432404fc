// Package generator implements the synthetic waveform worker: a cancellable
// background loop that evaluates one record of a configured waveform per
// tick, encodes it with the active sample type, and appends it to a stream
// key over the worker's own store connection. Phase is carried across
// records so the signal stays continuous at record boundaries.
package generator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/keyscope/keyscope/pkg/internal/types"
	"github.com/keyscope/keyscope/pkg/internal/utils"
)

const (
	defaultWriteBackoff = 500 * time.Millisecond
	sampleField         = "_"
)

// Generator is the synthetic waveform worker. It is pinned to the key it was
// created for; the owner stops it when the selection moves elsewhere.
type Generator struct {
	componentMetadata types.ComponentMetadata
	loggers           []types.Logger
	dial              types.AppenderDial
	key               string
	cfg               Config
	writeBackoff      time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started int32

	mu         sync.Mutex
	timeOffset float64
	written    uint64
}

// NewGenerator creates a stopped worker that will append cfg-shaped records
// to key, dialing its own connection at Start.
func NewGenerator(key string, cfg Config, dial types.AppenderDial, options ...types.Option[*Generator]) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("generator config: %w", err)
	}
	g := &Generator{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "GENERATOR",
		},
		dial:         dial,
		key:          key,
		cfg:          cfg,
		writeBackoff: defaultWriteBackoff,
	}
	for _, opt := range options {
		opt(g)
	}
	return g, nil
}

// GetComponentMetadata returns the worker metadata.
func (g *Generator) GetComponentMetadata() types.ComponentMetadata {
	return g.componentMetadata
}

// ConnectLogger registers loggers for the worker.
func (g *Generator) ConnectLogger(loggers ...types.Logger) {
	g.loggers = append(g.loggers, loggers...)
}

// NotifyLoggers emits a message to all registered loggers at the given level.
func (g *Generator) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	for _, logger := range g.loggers {
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

// Key returns the stream key the worker appends to.
func (g *Generator) Key() string {
	return g.key
}

// IsStarted reports whether the worker loop is running.
func (g *Generator) IsStarted() bool {
	return atomic.LoadInt32(&g.started) == 1
}

// Config returns the worker's waveform configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// TimeOffset returns the phase, in cycles, the next record starts at.
func (g *Generator) TimeOffset() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.timeOffset
}

// RecordsWritten returns how many records the worker has appended.
func (g *Generator) RecordsWritten() uint64 {
	return atomic.LoadUint64(&g.written)
}

// Start dials the worker's own connection and launches the write loop. A
// dial failure is surfaced here and the worker does not start.
func (g *Generator) Start(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&g.started, 0, 1) {
		return fmt.Errorf("generator already started")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	appender, err := g.dial()
	if err != nil {
		atomic.StoreInt32(&g.started, 0)
		return fmt.Errorf("generator connect failed: %w", err)
	}

	g.ctx, g.cancel = context.WithCancel(ctx)
	g.wg.Add(1)
	go g.run(appender)

	g.NotifyLoggers(types.InfoLevel, "generator started",
		"component", g.componentMetadata, "key", g.key,
		"waveform", g.cfg.Waveform.String(), "sampleType", g.cfg.SampleType.String())
	return nil
}

// Stop cancels the loop and blocks until it has exited. It is safe to call
// more than once.
func (g *Generator) Stop() error {
	if !atomic.CompareAndSwapInt32(&g.started, 1, 0) {
		return nil
	}
	g.cancel()
	g.wg.Wait()
	g.NotifyLoggers(types.InfoLevel, "generator stopped",
		"component", g.componentMetadata, "key", g.key, "written", g.RecordsWritten())
	return nil
}

func (g *Generator) run(appender types.StreamAppender) {
	defer g.wg.Done()
	defer func() {
		if err := appender.Close(); err != nil {
			g.NotifyLoggers(types.WarnLevel, "generator connection close failed",
				"component", g.componentMetadata, "error", err)
		}
	}()

	interval := time.Duration(float64(time.Second) / g.cfg.RecordsPerSecond)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-g.ctx.Done():
			return
		case <-ticker.C:
		}

		offset := g.TimeOffset()
		payload := Samples(g.cfg, offset)

		id, err := appender.AppendRecord(g.ctx, g.key, sampleField, payload)
		if err != nil {
			if g.ctx.Err() != nil {
				return
			}
			// Failed write: retry the same record's phase after a pause.
			g.NotifyLoggers(types.WarnLevel, "generator write failed, backing off",
				"component", g.componentMetadata, "key", g.key, "error", err)
			select {
			case <-g.ctx.Done():
				return
			case <-time.After(g.writeBackoff):
			}
			continue
		}

		g.advance()
		atomic.AddUint64(&g.written, 1)
		g.NotifyLoggers(types.DebugLevel, "generator appended record",
			"component", g.componentMetadata, "key", g.key, "id", id, "bytes", len(payload))
	}
}

// advance moves the phase to the start of the next record.
func (g *Generator) advance() {
	g.mu.Lock()
	g.timeOffset += g.cfg.CyclesPerRecord
	g.mu.Unlock()
}
