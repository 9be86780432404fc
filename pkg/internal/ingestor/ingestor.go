// Package ingestor implements the live ingest worker: a cancellable
// background loop that blocking-reads new records from one append-only
// stream and forwards them to the dashboard over a bounded channel. The
// worker owns its own store connection so a blocked read never stalls the
// UI's request path, and it tracks a watermark id so continuation after
// timeouts is duplicate-safe.
package ingestor

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
	defaultBlockTimeout = 1000 * time.Millisecond
	defaultBackoff      = 500 * time.Millisecond
	defaultBatchBuffer  = 16
)

// Ingestor is the live ingest worker. It is pinned to the key it was created
// for; the owner stops it when the selection moves elsewhere.
type Ingestor struct {
	componentMetadata types.ComponentMetadata
	loggers           []types.Logger
	dial              types.ReaderDial
	key               string
	blockTimeout      time.Duration
	backoff           time.Duration

	out    chan []types.Record
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started int32

	mu        sync.Mutex
	watermark string
}

// NewIngestor creates a stopped worker that will read records for key with
// ids after afterID, dialing its own connection at Start.
func NewIngestor(key, afterID string, dial types.ReaderDial, options ...types.Option[*Ingestor]) *Ingestor {
	i := &Ingestor{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "INGESTOR",
		},
		dial:         dial,
		key:          key,
		watermark:    afterID,
		blockTimeout: defaultBlockTimeout,
		backoff:      defaultBackoff,
		out:          make(chan []types.Record, defaultBatchBuffer),
	}
	for _, opt := range options {
		opt(i)
	}
	return i
}

// GetComponentMetadata returns the worker metadata.
func (i *Ingestor) GetComponentMetadata() types.ComponentMetadata {
	return i.componentMetadata
}

// ConnectLogger registers loggers for the worker.
func (i *Ingestor) ConnectLogger(loggers ...types.Logger) {
	i.loggers = append(i.loggers, loggers...)
}

// NotifyLoggers emits a message to all registered loggers at the given level.
func (i *Ingestor) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	for _, logger := range i.loggers {
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

// Key returns the stream key the worker is pinned to.
func (i *Ingestor) Key() string {
	return i.key
}

// IsStarted reports whether the worker loop is running.
func (i *Ingestor) IsStarted() bool {
	return atomic.LoadInt32(&i.started) == 1
}

// Records is the bounded channel batches are forwarded on. It is closed when
// the worker loop exits.
func (i *Ingestor) Records() <-chan []types.Record {
	return i.out
}

// Watermark returns the id of the last record forwarded so far.
func (i *Ingestor) Watermark() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.watermark
}

func (i *Ingestor) setWatermark(id string) {
	i.mu.Lock()
	i.watermark = id
	i.mu.Unlock()
}

// Start dials the worker's own connection and launches the read loop. A dial
// failure is surfaced here and the worker does not start.
func (i *Ingestor) Start(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&i.started, 0, 1) {
		return fmt.Errorf("ingestor already started")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	reader, err := i.dial()
	if err != nil {
		atomic.StoreInt32(&i.started, 0)
		return fmt.Errorf("ingestor connect failed: %w", err)
	}

	i.ctx, i.cancel = context.WithCancel(ctx)
	i.wg.Add(1)
	go i.run(reader)

	i.NotifyLoggers(types.InfoLevel, "ingestor started",
		"component", i.componentMetadata, "key", i.key, "after", i.Watermark())
	return nil
}

// Stop cancels the loop and blocks until it has exited. It is safe to call
// more than once.
func (i *Ingestor) Stop() error {
	if !atomic.CompareAndSwapInt32(&i.started, 1, 0) {
		return nil
	}
	i.cancel()
	i.wg.Wait()
	i.NotifyLoggers(types.InfoLevel, "ingestor stopped",
		"component", i.componentMetadata, "key", i.key, "watermark", i.Watermark())
	return nil
}

func (i *Ingestor) run(reader types.StreamReader) {
	defer i.wg.Done()
	defer close(i.out)
	defer func() {
		if err := reader.Close(); err != nil {
			i.NotifyLoggers(types.WarnLevel, "ingestor connection close failed",
				"component", i.componentMetadata, "error", err)
		}
	}()

	for {
		if i.ctx.Err() != nil {
			return
		}

		records, err := reader.ReadNewRecords(i.ctx, i.key, i.Watermark(), i.blockTimeout)
		if err != nil {
			if i.ctx.Err() != nil {
				return
			}
			// Transient read failure: back off and keep the loop alive.
			i.NotifyLoggers(types.WarnLevel, "ingestor read failed, backing off",
				"component", i.componentMetadata, "key", i.key, "error", err)
			select {
			case <-i.ctx.Done():
				return
			case <-time.After(i.backoff):
			}
			continue
		}
		if len(records) == 0 {
			continue // timeout, nothing new
		}

		i.setWatermark(records[len(records)-1].ID)
		select {
		case i.out <- records:
			i.NotifyLoggers(types.DebugLevel, "ingestor forwarded batch",
				"component", i.componentMetadata, "key", i.key, "count", len(records))
		case <-i.ctx.Done():
			return
		}
	}
}
