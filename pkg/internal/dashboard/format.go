package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/keyscope/keyscope/pkg/internal/codec"
	"github.com/keyscope/keyscope/pkg/internal/types"
)

// streamTail is how many records the value view shows for a stream.
const streamTail = 5

// FormatValue renders the loaded value as the lines of the value pane.
func (d *Dashboard) FormatValue() []string {
	if d.value == nil {
		return []string{"(no value loaded)"}
	}
	switch d.value.Kind {
	case types.ValueBytes:
		return d.formatBytes(d.value.Bytes)
	case types.ValueList:
		lines := make([]string, 0, len(d.value.Items))
		for i, item := range d.value.Items {
			lines = append(lines, fmt.Sprintf("[%d] %s", i, item))
		}
		return lines
	case types.ValueSet:
		lines := make([]string, 0, len(d.value.Items))
		for _, item := range d.value.Items {
			lines = append(lines, fmt.Sprintf("- %s", item))
		}
		return lines
	case types.ValueZSet:
		lines := make([]string, 0, len(d.value.Members))
		for _, m := range d.value.Members {
			lines = append(lines, fmt.Sprintf("%.4f  %s", m.Score, m.Member))
		}
		return lines
	case types.ValueHash:
		lines := make([]string, 0, len(d.value.Pairs))
		for _, f := range d.value.Pairs {
			lines = append(lines, fmt.Sprintf("%s  =>  %s", f.Name, f.Value))
		}
		return lines
	case types.ValueStream:
		return d.formatStream(d.value.Records)
	default:
		return []string{d.value.Note}
	}
}

// formatBytes shows binary payloads as a decoded view over a hex dump, text
// payloads as plain text with JSON pretty-printed when it parses.
func (d *Dashboard) formatBytes(b []byte) []string {
	if codec.IsBinary(b) {
		lines := []string{fmt.Sprintf("── Decoded as %s (%s) ──", d.sampleType, d.byteOrder)}
		lines = append(lines, strings.Split(codec.FormatSamples(b, d.sampleType, d.byteOrder), "\n")...)
		lines = append(lines, "", fmt.Sprintf("── Hex dump (%d bytes) ──", len(b)))
		lines = append(lines, strings.Split(codec.HexDump(b), "\n")...)
		return lines
	}
	if pretty, ok := prettyJSON(b); ok {
		return strings.Split(pretty, "\n")
	}
	return strings.Split(string(b), "\n")
}

func prettyJSON(b []byte) (string, bool) {
	if !json.Valid(b) {
		return "", false
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, b, "", "  "); err != nil {
		return "", false
	}
	return buf.String(), true
}

// formatStream renders the newest records first, capped at the tail length,
// with binary waveform fields summarized as a decoded preview plus hex.
func (d *Dashboard) formatStream(records []types.Record) []string {
	var lines []string
	start := 0
	if len(records) > streamTail {
		start = len(records) - streamTail
		lines = append(lines, fmt.Sprintf("(%d older records hidden)", start), "")
	}
	for i := len(records) - 1; i >= start; i-- {
		r := records[i]
		lines = append(lines, fmt.Sprintf("--- %s (%s) ---", r.ID, d.recordClock(r.ID)))
		for _, f := range r.Fields {
			lines = append(lines, d.formatStreamField(f)...)
		}
	}
	return lines
}

func (d *Dashboard) formatStreamField(f types.Field) []string {
	if !strings.HasPrefix(f.Name, "_") || !codec.IsBinary(f.Value) {
		return []string{fmt.Sprintf("  %s: %s", f.Name, f.Value)}
	}

	var lines []string
	decoded := codec.Decode(f.Value, d.sampleType, d.byteOrder)
	if len(decoded) > 0 {
		preview := make([]string, 0, 8)
		for _, v := range decoded {
			if len(preview) == 8 {
				break
			}
			switch d.sampleType {
			case codec.Float32, codec.Float64:
				preview = append(preview, fmt.Sprintf("%.4f", v))
			default:
				preview = append(preview, fmt.Sprintf("%d", int64(v)))
			}
		}
		suffix := ""
		if len(decoded) > 8 {
			suffix = fmt.Sprintf(" ..(%d vals)", len(decoded))
		}
		lines = append(lines, fmt.Sprintf("  %s [%s]: [%s]%s",
			f.Name, d.sampleType, strings.Join(preview, ", "), suffix))
	}

	hexParts := make([]string, 0, 24)
	for _, b := range f.Value {
		if len(hexParts) == 24 {
			break
		}
		hexParts = append(hexParts, fmt.Sprintf("%02x", b))
	}
	suffix := ""
	if len(f.Value) > 24 {
		suffix = "..."
	}
	lines = append(lines, fmt.Sprintf("  %s [hex, %d bytes]: %s%s",
		f.Name, len(f.Value), strings.Join(hexParts, " "), suffix))
	return lines
}
