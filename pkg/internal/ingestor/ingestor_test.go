package ingestor_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/keyscope/keyscope/pkg/internal/ingestor"
	"github.com/keyscope/keyscope/pkg/internal/types"
)

// scriptedReader replays a fixed sequence of read outcomes, then times out
// forever.
type scriptedReader struct {
	script []readOutcome
	pos    int
	calls  []string // afterID of each call
	closed atomic.Bool
}

type readOutcome struct {
	records []types.Record
	err     error
}

func (r *scriptedReader) ReadNewRecords(ctx context.Context, key, afterID string, block time.Duration) ([]types.Record, error) {
	r.calls = append(r.calls, afterID)
	if r.pos >= len(r.script) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Millisecond):
			return nil, nil
		}
	}
	out := r.script[r.pos]
	r.pos++
	return out.records, out.err
}

func (r *scriptedReader) Close() error {
	r.closed.Store(true)
	return nil
}

func rec(id string) types.Record {
	return types.Record{ID: id, Fields: []types.Field{{Name: "_", Value: []byte{1, 2}}}}
}

func TestIngestor_ForwardsBatchAndAdvancesWatermark(t *testing.T) {
	reader := &scriptedReader{script: []readOutcome{
		{}, // timeout
		{}, // timeout
		{records: []types.Record{rec("1-0"), rec("2-0"), rec("3-0")}},
	}}
	ing := ingestor.NewIngestor("wave", "0-0", func() (types.StreamReader, error) {
		return reader, nil
	})

	if err := ing.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer func() { _ = ing.Stop() }()

	select {
	case batch := <-ing.Records():
		if len(batch) != 3 {
			t.Fatalf("expected 3 records forwarded, got %d", len(batch))
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for batch")
	}
	if got := ing.Watermark(); got != "3-0" {
		t.Errorf("expected watermark 3-0, got %q", got)
	}

	// Pure timeouts must not forward anything.
	select {
	case batch, ok := <-ing.Records():
		if ok {
			t.Fatalf("unexpected extra batch: %v", batch)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestIngestor_ResumesFromWatermark(t *testing.T) {
	reader := &scriptedReader{script: []readOutcome{
		{records: []types.Record{rec("5-0")}},
		{records: []types.Record{rec("6-0")}},
	}}
	ing := ingestor.NewIngestor("wave", "4-0", func() (types.StreamReader, error) {
		return reader, nil
	})

	if err := ing.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	for n := 0; n < 2; n++ {
		select {
		case <-ing.Records():
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for batch")
		}
	}
	if err := ing.Stop(); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}

	if len(reader.calls) < 2 {
		t.Fatalf("expected at least 2 reads, got %d", len(reader.calls))
	}
	if reader.calls[0] != "4-0" || reader.calls[1] != "5-0" {
		t.Errorf("reads did not follow the watermark: %v", reader.calls[:2])
	}
}

func TestIngestor_TransientErrorKeepsLoopAlive(t *testing.T) {
	reader := &scriptedReader{script: []readOutcome{
		{err: errors.New("connection reset")},
		{records: []types.Record{rec("1-0")}},
	}}
	ing := ingestor.NewIngestor("wave", "0-0",
		func() (types.StreamReader, error) { return reader, nil },
		ingestor.WithBackoff(5*time.Millisecond),
	)

	if err := ing.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer func() { _ = ing.Stop() }()

	select {
	case batch := <-ing.Records():
		if len(batch) != 1 || batch[0].ID != "1-0" {
			t.Fatalf("unexpected batch after transient error: %v", batch)
		}
	case <-time.After(time.Second):
		t.Fatal("worker did not survive a transient read error")
	}
}

func TestIngestor_DialFailureDoesNotStart(t *testing.T) {
	dialErr := errors.New("no route to host")
	ing := ingestor.NewIngestor("wave", "0-0", func() (types.StreamReader, error) {
		return nil, dialErr
	})

	err := ing.Start(context.Background())
	if !errors.Is(err, dialErr) {
		t.Fatalf("expected dial error, got %v", err)
	}
	if ing.IsStarted() {
		t.Error("worker must not be started after a dial failure")
	}
	// A later Start with a working dial must succeed.
	ing2 := ingestor.NewIngestor("wave", "0-0", func() (types.StreamReader, error) {
		return &scriptedReader{}, nil
	})
	if err := ing2.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	_ = ing2.Stop()
}

func TestIngestor_StopJoinsAndClosesChannel(t *testing.T) {
	reader := &scriptedReader{}
	ing := ingestor.NewIngestor("wave", "0-0", func() (types.StreamReader, error) {
		return reader, nil
	})
	if err := ing.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	done := make(chan struct{})
	go func() {
		_ = ing.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return within one timeout interval")
	}

	if ing.IsStarted() {
		t.Error("worker should report stopped")
	}
	if !reader.closed.Load() {
		t.Error("worker must close its own connection on exit")
	}
	select {
	case _, ok := <-ing.Records():
		if ok {
			t.Error("expected closed channel after stop")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("records channel was not closed")
	}

	// Stop again is a no-op.
	if err := ing.Stop(); err != nil {
		t.Errorf("second Stop() error: %v", err)
	}
}

func TestIngestor_RestartDoesNotInterleaveBatches(t *testing.T) {
	old := &scriptedReader{script: []readOutcome{
		{records: []types.Record{rec("1-0")}},
	}}
	ingOld := ingestor.NewIngestor("wave", "0-0", func() (types.StreamReader, error) {
		return old, nil
	})
	if err := ingOld.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	// Stop without draining: the old batch stays in the old channel.
	if err := ingOld.Stop(); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}

	fresh := &scriptedReader{script: []readOutcome{
		{records: []types.Record{rec("9-0")}},
	}}
	ingNew := ingestor.NewIngestor("wave", "0-0", func() (types.StreamReader, error) {
		return fresh, nil
	})
	if err := ingNew.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer func() { _ = ingNew.Stop() }()

	// The owner only ever holds the new worker's channel, so the first batch
	// it observes must come from the new worker.
	select {
	case batch := <-ingNew.Records():
		if batch[0].ID != "9-0" {
			t.Fatalf("observed a stale batch: %v", batch)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the new worker's batch")
	}
}
