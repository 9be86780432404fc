package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidToken is returned by Encode when a token does not parse as
	// the target sample type, or when the input holds no tokens at all.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnsupportedType is returned by Encode for types without a numeric
	// encoding (Text, Blob).
	ErrUnsupportedType = errors.New("unsupported sample type")
)

func (o ByteOrder) order() binary.ByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Decode converts a byte buffer into samples. Elements are read in
// fixed-width chunks; trailing bytes shorter than the element width are
// dropped. Int8 and UInt8 ignore byte order, and Text/Blob fall back to
// per-byte values so any buffer is plottable. Non-finite decoded values are
// rewritten to 0 so the result is always safe to hand to a chart.
func Decode(b []byte, t SampleType, o ByteOrder) []float64 {
	var out []float64
	switch t {
	case Int8:
		out = make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(int8(v))
		}
	case UInt8, Text, Blob:
		out = make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
	case Int16:
		out = decodeChunks(b, 2, func(c []byte) float64 { return float64(int16(o.order().Uint16(c))) })
	case UInt16:
		out = decodeChunks(b, 2, func(c []byte) float64 { return float64(o.order().Uint16(c)) })
	case Int32:
		out = decodeChunks(b, 4, func(c []byte) float64 { return float64(int32(o.order().Uint32(c))) })
	case UInt32:
		out = decodeChunks(b, 4, func(c []byte) float64 { return float64(o.order().Uint32(c)) })
	case Float32:
		out = decodeChunks(b, 4, func(c []byte) float64 { return float64(math.Float32frombits(o.order().Uint32(c))) })
	case Float64:
		out = decodeChunks(b, 8, func(c []byte) float64 { return math.Float64frombits(o.order().Uint64(c)) })
	}
	for i, v := range out {
		if !isFinite(v) {
			out[i] = 0
		}
	}
	return out
}

func decodeChunks(b []byte, width int, f func([]byte) float64) []float64 {
	out := make([]float64, 0, len(b)/width)
	for len(b) >= width {
		out = append(out, f(b[:width]))
		b = b[width:]
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Encode parses a comma- or space-separated list of numeric tokens and packs
// each one with the element width and byte order of t. It is the inverse of
// Decode for the numeric types.
func Encode(input string, t SampleType, o ByteOrder) ([]byte, error) {
	if !t.Numeric() {
		return nil, fmt.Errorf("%w: no numeric encode for %s", ErrUnsupportedType, t)
	}

	tokens := strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == ' ' })
	var clean []string
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			clean = append(clean, tok)
		}
	}
	if len(clean) == 0 {
		return nil, fmt.Errorf("%w: no values to encode", ErrInvalidToken)
	}

	buf := make([]byte, 0, len(clean)*t.Width())
	for _, tok := range clean {
		b, err := encodeToken(tok, t, o)
		if err != nil {
			return nil, err
		}
		buf = append(buf, b...)
	}
	return buf, nil
}

func encodeToken(tok string, t SampleType, o ByteOrder) ([]byte, error) {
	badToken := func() error {
		return fmt.Errorf("%w: %q is not a valid %s", ErrInvalidToken, tok, t)
	}
	switch t {
	case Int8, Int16, Int32:
		bits := t.Width() * 8
		v, err := strconv.ParseInt(tok, 10, bits)
		if err != nil {
			return nil, badToken()
		}
		return packUint(uint64(v), t.Width(), o), nil
	case UInt8, UInt16, UInt32:
		bits := t.Width() * 8
		v, err := strconv.ParseUint(tok, 10, bits)
		if err != nil {
			return nil, badToken()
		}
		return packUint(v, t.Width(), o), nil
	case Float32:
		v, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return nil, badToken()
		}
		return packUint(uint64(math.Float32bits(float32(v))), 4, o), nil
	case Float64:
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, badToken()
		}
		return packUint(math.Float64bits(v), 8, o), nil
	}
	return nil, badToken()
}

func packUint(v uint64, width int, o ByteOrder) []byte {
	b := make([]byte, width)
	switch width {
	case 1:
		b[0] = byte(v)
	case 2:
		o.order().PutUint16(b, uint16(v))
	case 4:
		o.order().PutUint32(b, uint32(v))
	case 8:
		o.order().PutUint64(b, v)
	}
	return b
}

// EncodeSample packs a single value, saturating at the bounds of integer
// types. The signal generator uses it to emit one sample at a time; Text and
// Blob fall back to a little-endian float32 so a generator aimed at a
// non-numeric type still produces plottable records.
func EncodeSample(v float64, t SampleType, o ByteOrder) []byte {
	switch t {
	case Int8:
		return []byte{byte(int8(clamp(v, math.MinInt8, math.MaxInt8)))}
	case UInt8:
		return []byte{byte(clamp(v, 0, math.MaxUint8))}
	case Int16:
		return packUint(uint64(int16(clamp(v, math.MinInt16, math.MaxInt16))), 2, o)
	case UInt16:
		return packUint(uint64(uint16(clamp(v, 0, math.MaxUint16))), 2, o)
	case Int32:
		return packUint(uint64(int32(clamp(v, math.MinInt32, math.MaxInt32))), 4, o)
	case UInt32:
		return packUint(uint64(uint32(clamp(v, 0, math.MaxUint32))), 4, o)
	case Float32:
		return packUint(uint64(math.Float32bits(float32(v))), 4, o)
	case Float64:
		return packUint(math.Float64bits(v), 8, o)
	default:
		return packUint(uint64(math.Float32bits(float32(v))), 4, LittleEndian)
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
