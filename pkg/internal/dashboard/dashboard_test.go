package dashboard_test

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/keyscope/keyscope/pkg/internal/codec"
	"github.com/keyscope/keyscope/pkg/internal/dashboard"
	"github.com/keyscope/keyscope/pkg/internal/types"
	"github.com/keyscope/keyscope/pkg/internal/viewport"
)

// fakeStore is an in-memory stand-in for the redis client.
type fakeStore struct {
	values map[string]types.Value
	infos  map[string]types.KeyInfo
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		values: map[string]types.Value{},
		infos:  map[string]types.KeyInfo{},
	}
}

func (s *fakeStore) put(key, typ string, v types.Value) {
	s.values[key] = v
	s.infos[key] = types.KeyInfo{Name: key, Type: typ}
}

func (s *fakeStore) FetchValue(ctx context.Context, key string) (types.Value, error) {
	v, ok := s.values[key]
	if !ok {
		return types.Value{}, fmt.Errorf("key %q does not exist", key)
	}
	return v, nil
}

func (s *fakeStore) KeyInfo(ctx context.Context, key string) (types.KeyInfo, error) {
	info, ok := s.infos[key]
	if !ok {
		return types.KeyInfo{}, fmt.Errorf("key %q does not exist", key)
	}
	return info, nil
}

func (s *fakeStore) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	return keys, nil
}

func (s *fakeStore) SetBytes(ctx context.Context, key string, value []byte) error {
	s.put(key, "string", types.Value{Kind: types.ValueBytes, Bytes: append([]byte(nil), value...)})
	return nil
}

// idleReader blocks until cancelled, yielding empty batches.
type idleReader struct{}

func (idleReader) ReadNewRecords(ctx context.Context, key, afterID string, block time.Duration) ([]types.Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Millisecond):
		return nil, nil
	}
}

func (idleReader) Close() error { return nil }

func dialIdle() (types.StreamReader, error) { return idleReader{}, nil }

func noAppender() (types.StreamAppender, error) {
	return nil, fmt.Errorf("not in this test")
}

func int16LE(vals ...int16) []byte {
	b := make([]byte, 0, 2*len(vals))
	for _, v := range vals {
		b = binary.LittleEndian.AppendUint16(b, uint16(v))
	}
	return b
}

func newDashboard(store dashboard.Store) *dashboard.Dashboard {
	return dashboard.NewDashboard(store, dialIdle, noAppender)
}

func TestSelectKey_DecodesBytes(t *testing.T) {
	store := newFakeStore()
	store.put("sig", "string", types.Value{Kind: types.ValueBytes, Bytes: int16LE(1, -2, 300)})
	d := newDashboard(store)

	if err := d.SelectKey(context.Background(), "sig"); err != nil {
		t.Fatalf("SelectKey() error: %v", err)
	}
	want := []float64{1, -2, 300}
	got := d.Signal()
	if len(got) != len(want) {
		t.Fatalf("signal length %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("signal[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if d.KeyInfo().Type != "string" {
		t.Errorf("key info type = %q", d.KeyInfo().Type)
	}
}

func TestFilterKeys_NarrowsListing(t *testing.T) {
	store := newFakeStore()
	store.put("wave:1", "string", types.Value{Kind: types.ValueBytes})
	store.put("wave:2", "string", types.Value{Kind: types.ValueBytes})
	store.put("other", "string", types.Value{Kind: types.ValueBytes})
	d := newDashboard(store)
	if err := d.RefreshKeys(context.Background(), "*"); err != nil {
		t.Fatalf("RefreshKeys() error: %v", err)
	}
	if len(d.Keys()) != 3 {
		t.Fatalf("expected 3 keys, got %d", len(d.Keys()))
	}

	d.FilterKeys("wave")
	if len(d.Keys()) != 2 {
		t.Errorf("filter should keep 2 keys, got %v", d.Keys())
	}
	d.FilterKeys("")
	if len(d.Keys()) != 3 {
		t.Errorf("clearing the filter should restore the listing, got %v", d.Keys())
	}
}

func TestSelectKey_MissingKey(t *testing.T) {
	d := newDashboard(newFakeStore())
	if err := d.SelectKey(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for missing key")
	}
	if d.CurrentKey() != "" {
		t.Error("failed select must not change the current key")
	}
}

func TestPlot_StreamUsesNewestUnderscoreField(t *testing.T) {
	store := newFakeStore()
	store.put("wave", "stream", types.Value{Kind: types.ValueStream, Records: []types.Record{
		{ID: "1-0", Fields: []types.Field{{Name: "_", Value: int16LE(1, 1)}}},
		{ID: "2-0", Fields: []types.Field{
			{Name: "note", Value: []byte("text")},
			{Name: "_", Value: int16LE(7, 8, 9)},
		}},
	}})
	d := newDashboard(store)
	if err := d.SelectKey(context.Background(), "wave"); err != nil {
		t.Fatalf("SelectKey() error: %v", err)
	}
	got := d.Signal()
	if len(got) != 3 || got[0] != 7 || got[2] != 9 {
		t.Errorf("expected newest record's waveform, got %v", got)
	}
}

func TestPlot_ListParsesNumbersThenDecodes(t *testing.T) {
	store := newFakeStore()
	store.put("mix", "list", types.Value{Kind: types.ValueList, Items: [][]byte{
		[]byte("2.5"),
		[]byte(" -3 "),
		int16LE(10),
	}})
	d := newDashboard(store)
	if err := d.SelectKey(context.Background(), "mix"); err != nil {
		t.Fatalf("SelectKey() error: %v", err)
	}
	got := d.Signal()
	if len(got) != 3 || got[0] != 2.5 || got[1] != -3 || got[2] != 10 {
		t.Errorf("list plot = %v", got)
	}
}

func TestPlot_ZSetPlotsScores(t *testing.T) {
	store := newFakeStore()
	store.put("z", "zset", types.Value{Kind: types.ValueZSet, Members: []types.ScoredMember{
		{Member: []byte("a"), Score: 0.5},
		{Member: []byte("b"), Score: math.Inf(1)},
	}})
	d := newDashboard(store)
	if err := d.SelectKey(context.Background(), "z"); err != nil {
		t.Fatalf("SelectKey() error: %v", err)
	}
	got := d.Signal()
	if len(got) != 2 || got[0] != 0.5 || got[1] != 0 {
		t.Errorf("non-finite score must be rewritten to zero, got %v", got)
	}
}

func TestCycleSampleType_Recomputes(t *testing.T) {
	store := newFakeStore()
	store.put("sig", "string", types.Value{Kind: types.ValueBytes, Bytes: []byte{0x01, 0x02}})
	d := newDashboard(store)
	if err := d.SelectKey(context.Background(), "sig"); err != nil {
		t.Fatalf("SelectKey() error: %v", err)
	}

	if len(d.Signal()) != 1 {
		t.Fatalf("int16 decode of 2 bytes should yield 1 sample, got %d", len(d.Signal()))
	}
	d.CycleSampleType(true) // int16 -> int32, too few bytes
	if len(d.Signal()) != 0 {
		t.Errorf("int32 decode of 2 bytes should yield 0 samples, got %d", len(d.Signal()))
	}
	d.CycleSampleType(false)
	if d.SampleType() != codec.Int16 {
		t.Errorf("cycle back should restore int16, got %s", d.SampleType())
	}
}

func TestToggleByteOrder_Recomputes(t *testing.T) {
	store := newFakeStore()
	store.put("sig", "string", types.Value{Kind: types.ValueBytes, Bytes: []byte{0x01, 0x02}})
	d := newDashboard(store)
	if err := d.SelectKey(context.Background(), "sig"); err != nil {
		t.Fatalf("SelectKey() error: %v", err)
	}
	le := d.Signal()[0]
	d.ToggleByteOrder()
	be := d.Signal()[0]
	if le != 0x0201 || be != 0x0102 {
		t.Errorf("byte order toggle: le=%v be=%v", le, be)
	}
}

func TestAppendRecords_KeyMismatchDropped(t *testing.T) {
	store := newFakeStore()
	store.put("wave", "stream", types.Value{Kind: types.ValueStream, Records: []types.Record{
		{ID: "1-0", Fields: []types.Field{{Name: "_", Value: int16LE(1)}}},
	}})
	d := newDashboard(store)
	if err := d.SelectKey(context.Background(), "wave"); err != nil {
		t.Fatalf("SelectKey() error: %v", err)
	}

	batch := []types.Record{{ID: "2-0", Fields: []types.Field{{Name: "_", Value: int16LE(5, 6)}}}}
	if d.AppendRecords("other", batch) {
		t.Error("batch for another key must be dropped")
	}
	if !d.AppendRecords("wave", batch) {
		t.Fatal("batch for the current key must be applied")
	}
	got := d.Signal()
	if len(got) != 2 || got[0] != 5 {
		t.Errorf("plot should follow the appended record, got %v", got)
	}
}

func TestSpectrum_TriggeredAndPolled(t *testing.T) {
	n := 64
	b := make([]byte, 0, 2*n)
	for i := 0; i < n; i++ {
		v := int16(1000 * math.Sin(2*math.Pi*8*float64(i)/float64(n)))
		b = binary.LittleEndian.AppendUint16(b, uint16(v))
	}
	store := newFakeStore()
	store.put("sig", "string", types.Value{Kind: types.ValueBytes, Bytes: b})
	d := newDashboard(store)
	if err := d.SelectKey(context.Background(), "sig"); err != nil {
		t.Fatalf("SelectKey() error: %v", err)
	}

	d.ToggleSpectrum()
	deadline := time.Now().Add(2 * time.Second)
	for len(d.SpectrumDisplay()) == 0 && time.Now().Before(deadline) {
		d.Tick()
		time.Sleep(time.Millisecond)
	}
	display := d.SpectrumDisplay()
	if len(display) != n/2 {
		t.Fatalf("expected %d bins, got %d", n/2, len(display))
	}
	peak := 0
	for i := range display {
		if display[i] > display[peak] {
			peak = i
		}
	}
	if peak != 8 {
		t.Errorf("spectrum peak at bin %d, want 8", peak)
	}

	d.ToggleSpectrum()
	if len(d.SpectrumDisplay()) != 0 {
		t.Error("disabling the spectrum must clear the result")
	}
}

func TestBounds_ManualRejectionKeepsAuto(t *testing.T) {
	d := newDashboard(newFakeStore())
	if err := d.SetSignalBounds(0, 10, 5, 5); err == nil {
		t.Fatal("expected rejection for lo >= hi")
	}
	xLo, xHi, yLo, yHi := d.SignalBounds()
	if xLo != 0 || xHi != 0 || yLo != 0 || yHi != 1 {
		t.Errorf("rejected entry mutated bounds: %v %v %v %v", xLo, xHi, yLo, yHi)
	}
}

func TestScroll_ZoomsChartUnderCursor(t *testing.T) {
	store := newFakeStore()
	vals := make([]int16, 100)
	for i := range vals {
		vals[i] = int16(i)
	}
	store.put("sig", "string", types.Value{Kind: types.ValueBytes, Bytes: int16LE(vals...)})
	d := newDashboard(store)
	if err := d.SelectKey(context.Background(), "sig"); err != nil {
		t.Fatalf("SelectKey() error: %v", err)
	}
	d.SetChartRects(viewport.Rect{X: 0, Y: 0, W: 100, H: 40}, viewport.Rect{})

	before0, before1, _, _ := d.SignalBounds()
	d.Scroll(50, 20, true)
	after0, after1, _, _ := d.SignalBounds()
	if after1-after0 >= before1-before0 {
		t.Errorf("zoom in did not shrink the x span: %v..%v -> %v..%v",
			before0, before1, after0, after1)
	}

	// Outside any chart: no-op.
	b0, b1, _, _ := d.SignalBounds()
	d.Scroll(500, 500, true)
	a0, a1, _, _ := d.SignalBounds()
	if a0 != b0 || a1 != b1 {
		t.Error("scroll outside the charts must not zoom")
	}
}

func TestDrag_PansSignalChart(t *testing.T) {
	store := newFakeStore()
	store.put("sig", "string", types.Value{Kind: types.ValueBytes, Bytes: int16LE(1, 2, 3, 4)})
	d := newDashboard(store)
	if err := d.SelectKey(context.Background(), "sig"); err != nil {
		t.Fatalf("SelectKey() error: %v", err)
	}
	rect := viewport.Rect{X: 0, Y: 0, W: 100, H: 40}
	d.SetChartRects(rect, viewport.Rect{})

	x0, x1, _, _ := d.SignalBounds()
	span := x1 - x0
	d.MouseDown(50, 20)
	d.MouseMove(60, 20) // drag 10 px right -> pan left by 10% of span
	nx0, nx1, _, _ := d.SignalBounds()
	if math.Abs((x0-nx0)-span*0.1) > 1e-9 {
		t.Errorf("pan delta wrong: %v -> %v (span %v)", x0, nx0, span)
	}
	if nx1-nx0 != span {
		t.Errorf("pan must preserve the span: %v vs %v", nx1-nx0, span)
	}
	d.MouseUp()
	d.MouseMove(90, 20)
	mx0, _, _, _ := d.SignalBounds()
	if mx0 != nx0 {
		t.Error("movement after mouse up must not pan")
	}
}

func TestHover_ReportsDataCoordinates(t *testing.T) {
	store := newFakeStore()
	store.put("sig", "string", types.Value{Kind: types.ValueBytes, Bytes: int16LE(0, 10)})
	d := newDashboard(store)
	if err := d.SelectKey(context.Background(), "sig"); err != nil {
		t.Fatalf("SelectKey() error: %v", err)
	}
	d.SetChartRects(viewport.Rect{X: 10, Y: 5, W: 100, H: 40}, viewport.Rect{})

	d.MouseMove(60, 25)
	x, _, inSpectrum, ok := d.HoverData()
	if !ok || inSpectrum {
		t.Fatalf("expected hover inside the signal chart, ok=%v inSpectrum=%v", ok, inSpectrum)
	}
	if x < 0 || x > 2 {
		t.Errorf("hover x out of the data range: %v", x)
	}
	d.MouseMove(0, 0)
	if _, _, _, ok := d.HoverData(); ok {
		t.Error("hover outside the charts must report not ok")
	}
}

func TestCapture_RoundTrip(t *testing.T) {
	store := newFakeStore()
	store.put("sig", "string", types.Value{Kind: types.ValueBytes, Bytes: int16LE(4, 5, 6)})
	d := newDashboard(store)
	if err := d.SelectKey(context.Background(), "sig"); err != nil {
		t.Fatalf("SelectKey() error: %v", err)
	}
	if err := d.SaveCapture(context.Background()); err != nil {
		t.Fatalf("SaveCapture() error: %v", err)
	}
	if _, ok := store.values["sig:capture"]; !ok {
		t.Fatal("capture key was not written")
	}

	// Drift the decode config, then restore.
	d.CycleSampleType(true)
	d.ToggleByteOrder()
	if err := d.LoadCapture(context.Background()); err != nil {
		t.Fatalf("LoadCapture() error: %v", err)
	}
	if d.SampleType() != codec.Int16 || d.ByteOrder() != codec.LittleEndian {
		t.Errorf("capture did not restore decode config: %s %s", d.SampleType(), d.ByteOrder())
	}
	got := d.Signal()
	if len(got) != 3 || got[0] != 4 || got[2] != 6 {
		t.Errorf("capture did not restore the signal: %v", got)
	}
}

func TestWorkers_StoppedOnNavigation(t *testing.T) {
	store := newFakeStore()
	store.put("wave", "stream", types.Value{Kind: types.ValueStream, Records: []types.Record{
		{ID: "1-0", Fields: []types.Field{{Name: "_", Value: int16LE(1)}}},
	}})
	store.put("other", "string", types.Value{Kind: types.ValueBytes, Bytes: int16LE(2)})
	d := newDashboard(store)
	if err := d.SelectKey(context.Background(), "wave"); err != nil {
		t.Fatalf("SelectKey() error: %v", err)
	}
	if err := d.StartIngest(context.Background()); err != nil {
		t.Fatalf("StartIngest() error: %v", err)
	}
	if !d.IngestRunning() {
		t.Fatal("listener should be running")
	}

	if err := d.SelectKey(context.Background(), "other"); err != nil {
		t.Fatalf("SelectKey() error: %v", err)
	}
	if d.IngestRunning() {
		t.Error("navigating away must stop the listener")
	}
}

func TestStartIngest_RequiresStreamKey(t *testing.T) {
	store := newFakeStore()
	store.put("sig", "string", types.Value{Kind: types.ValueBytes, Bytes: int16LE(1)})
	d := newDashboard(store)
	if err := d.SelectKey(context.Background(), "sig"); err != nil {
		t.Fatalf("SelectKey() error: %v", err)
	}
	if err := d.StartIngest(context.Background()); err == nil {
		t.Fatal("listening on a non-stream key must be rejected")
	}
}

func TestStatusLine_IncludesHostReadout(t *testing.T) {
	d := newDashboard(newFakeStore())
	d.SetStatus("ready")
	line := d.StatusLine()
	if !strings.HasPrefix(line, "ready  |  cpu ") {
		t.Errorf("StatusLine() = %q, want status followed by host readout", line)
	}
	if !strings.Contains(line, "% mem ") {
		t.Errorf("StatusLine() = %q, missing memory readout", line)
	}
}
