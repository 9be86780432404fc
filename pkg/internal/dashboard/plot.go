package dashboard

import (
	"math"
	"strconv"
	"strings"

	"github.com/keyscope/keyscope/pkg/internal/codec"
	"github.com/keyscope/keyscope/pkg/internal/types"
	"github.com/keyscope/keyscope/pkg/internal/utils"
)

// extractPlot turns a loaded value into plottable samples. Every kind gets a
// best effort; kinds with nothing numeric plot empty rather than erroring.
func extractPlot(value *types.Value, t codec.SampleType, o codec.ByteOrder) []float64 {
	if value == nil {
		return nil
	}
	var data []float64
	switch value.Kind {
	case types.ValueBytes:
		data = codec.Decode(value.Bytes, t, o)
	case types.ValueStream:
		data = streamPlot(value.Records, t, o)
	case types.ValueList:
		data = itemsPlot(value.Items, t, o)
	case types.ValueHash:
		items := make([][]byte, 0, len(value.Pairs))
		for _, f := range value.Pairs {
			items = append(items, f.Value)
		}
		data = itemsPlot(items, t, o)
	case types.ValueZSet:
		data = make([]float64, 0, len(value.Members))
		for _, m := range value.Members {
			data = append(data, m.Score)
		}
	}
	return utils.Map(data, func(v float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	})
}

// streamPlot plots the newest record's waveform: the first field whose name
// starts with an underscore.
func streamPlot(records []types.Record, t codec.SampleType, o codec.ByteOrder) []float64 {
	if len(records) == 0 {
		return nil
	}
	last := records[len(records)-1]
	for _, f := range last.Fields {
		if strings.HasPrefix(f.Name, "_") {
			return codec.Decode(f.Value, t, o)
		}
	}
	return nil
}

// itemsPlot parses each item as a number when it reads as one, otherwise
// decodes it as a sample buffer.
func itemsPlot(items [][]byte, t codec.SampleType, o codec.ByteOrder) []float64 {
	var data []float64
	for _, item := range items {
		if v, err := strconv.ParseFloat(strings.TrimSpace(string(item)), 64); err == nil {
			data = append(data, v)
			continue
		}
		data = append(data, codec.Decode(item, t, o)...)
	}
	return data
}

// AppendRecords extends the loaded stream with a live batch. Batches for a
// key other than the current one, or arriving while a non-stream value is
// loaded, are dropped. It reports whether the plot changed.
func (d *Dashboard) AppendRecords(key string, records []types.Record) bool {
	if len(records) == 0 || key != d.currentKey {
		return false
	}
	if d.value == nil || d.value.Kind != types.ValueStream {
		return false
	}
	d.value.Records = append(d.value.Records, records...)
	d.recomputePlot()
	return true
}
