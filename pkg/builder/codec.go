package builder

import (
	"github.com/keyscope/keyscope/pkg/internal/codec"
)

type SampleType = codec.SampleType

type ByteOrder = codec.ByteOrder

const (
	Int8    SampleType = codec.Int8
	Int16   SampleType = codec.Int16
	Int32   SampleType = codec.Int32
	UInt8   SampleType = codec.UInt8
	UInt16  SampleType = codec.UInt16
	UInt32  SampleType = codec.UInt32
	Float32 SampleType = codec.Float32
	Float64 SampleType = codec.Float64
	Text    SampleType = codec.Text
	Blob    SampleType = codec.Blob

	LittleEndian ByteOrder = codec.LittleEndian
	BigEndian    ByteOrder = codec.BigEndian
)

// Decode converts a byte buffer into plottable samples.
func Decode(b []byte, t SampleType, o ByteOrder) []float64 {
	return codec.Decode(b, t, o)
}

// Encode parses user-entered numeric tokens into a byte buffer.
func Encode(input string, t SampleType, o ByteOrder) ([]byte, error) {
	return codec.Encode(input, t, o)
}
