// Package codec converts raw byte buffers to and from numeric sample
// sequences under a configurable sample type and byte order. It is the leaf
// of the signal path: everything the dashboard plots goes through Decode, and
// everything the generator or an edit writes back goes through Encode or
// EncodeSample.
package codec

// SampleType identifies how a byte buffer is sliced and interpreted when
// decoding it into samples.
type SampleType int

const (
	Int8 SampleType = iota
	Int16
	Int32
	UInt8
	UInt16
	UInt32
	Float32
	Float64
	Text
	Blob
)

// sampleTypes is the closed, ordered table Next and Prev cycle over. The
// order matches what the UI presents.
var sampleTypes = [...]SampleType{
	Int8, Int16, Int32, UInt8, UInt16, UInt32, Float32, Float64, Text, Blob,
}

// SampleTypes returns the ordered list of all sample types.
func SampleTypes() []SampleType {
	out := make([]SampleType, len(sampleTypes))
	copy(out, sampleTypes[:])
	return out
}

// Width returns the element width in bytes, or 0 for the variable-width
// Text and Blob types.
func (t SampleType) Width() int {
	switch t {
	case Int8, UInt8:
		return 1
	case Int16, UInt16:
		return 2
	case Int32, UInt32, Float32:
		return 4
	case Float64:
		return 8
	default:
		return 0
	}
}

// Numeric reports whether the type has a fixed-width numeric encoding.
func (t SampleType) Numeric() bool {
	return t != Text && t != Blob
}

func (t SampleType) index() int {
	for i, st := range sampleTypes {
		if st == t {
			return i
		}
	}
	return 0
}

// Next returns the following sample type, wrapping around the table.
func (t SampleType) Next() SampleType {
	return sampleTypes[(t.index()+1)%len(sampleTypes)]
}

// Prev returns the preceding sample type, wrapping around the table.
func (t SampleType) Prev() SampleType {
	i := t.index()
	if i == 0 {
		return sampleTypes[len(sampleTypes)-1]
	}
	return sampleTypes[i-1]
}

func (t SampleType) String() string {
	switch t {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case UInt8:
		return "uint8"
	case UInt16:
		return "uint16"
	case UInt32:
		return "uint32"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Text:
		return "string"
	case Blob:
		return "blob/hex"
	default:
		return "unknown"
	}
}

// ByteOrder selects the endianness of multi-byte elements.
type ByteOrder int

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

// Toggle returns the opposite byte order.
func (o ByteOrder) Toggle() ByteOrder {
	if o == LittleEndian {
		return BigEndian
	}
	return LittleEndian
}

func (o ByteOrder) String() string {
	if o == LittleEndian {
		return "LE"
	}
	return "BE"
}
