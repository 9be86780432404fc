package codec

import (
	"fmt"
	"strings"
)

// IsBinary reports whether a buffer contains control bytes other than tab,
// newline, and carriage return. The value view uses this to decide between a
// plain-text rendering and a hex dump.
func IsBinary(b []byte) bool {
	for _, c := range b {
		if c < 0x20 && c != '\n' && c != '\r' && c != '\t' {
			return true
		}
	}
	return false
}

// HexDump renders bytes as 16-byte rows with an offset column and an ASCII
// sidebar.
func HexDump(b []byte) string {
	var sb strings.Builder
	for off := 0; off < len(b); off += 16 {
		chunk := b[off:]
		if len(chunk) > 16 {
			chunk = chunk[:16]
		}
		fmt.Fprintf(&sb, "%08x  ", off)
		for j := 0; j < 16; j++ {
			if j < len(chunk) {
				fmt.Fprintf(&sb, "%02x ", chunk[j])
			} else {
				sb.WriteString("   ")
			}
			if j == 7 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(" |")
		for _, c := range chunk {
			if c >= 0x21 && c <= 0x7e || c == ' ' {
				sb.WriteByte(c)
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteString("|\n")
	}
	return sb.String()
}

// FormatSamples renders a buffer as human-readable text for the value view:
// a hex dump for Blob, a lossy string for Text, and the decoded values joined
// with commas for numeric types.
func FormatSamples(b []byte, t SampleType, o ByteOrder) string {
	switch t {
	case Blob:
		return HexDump(b)
	case Text:
		return string(b)
	}
	values := Decode(b, t, o)
	if len(values) == 0 {
		return "(no complete values)"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		if t == Float32 || t == Float64 {
			parts[i] = fmt.Sprintf("%.6f", v)
		} else {
			parts[i] = fmt.Sprintf("%d", int64(v))
		}
	}
	return strings.Join(parts, ", ")
}
