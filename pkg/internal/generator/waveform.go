package generator

import (
	"fmt"
	"math"

	"github.com/keyscope/keyscope/pkg/internal/codec"
)

// Waveform selects the shape of the synthetic signal.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Sawtooth
	Triangle
)

var waveforms = []Waveform{Sine, Square, Sawtooth, Triangle}

// Waveforms returns every waveform in cycle order.
func Waveforms() []Waveform {
	out := make([]Waveform, len(waveforms))
	copy(out, waveforms)
	return out
}

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Square:
		return "square"
	case Sawtooth:
		return "sawtooth"
	case Triangle:
		return "triangle"
	default:
		return "unknown"
	}
}

// Next returns the waveform after w, wrapping at the end of the cycle.
func (w Waveform) Next() Waveform {
	return waveforms[(int(w)+1)%len(waveforms)]
}

// Prev returns the waveform before w, wrapping at the start of the cycle.
func (w Waveform) Prev() Waveform {
	return waveforms[(int(w)+len(waveforms)-1)%len(waveforms)]
}

// shape evaluates the unit-amplitude waveform at time t, measured in cycles.
func (w Waveform) shape(t float64) float64 {
	switch w {
	case Square:
		if math.Sin(2*math.Pi*t) >= 0 {
			return 1
		}
		return -1
	case Sawtooth:
		return 2*(t-math.Floor(t)) - 1
	case Triangle:
		p := t - math.Floor(t)
		return 4*math.Abs(p-0.5) - 1
	default:
		return math.Sin(2 * math.Pi * t)
	}
}

// Config describes one record's worth of synthetic signal.
type Config struct {
	Waveform         Waveform
	SampleType       codec.SampleType
	ByteOrder        codec.ByteOrder
	CyclesPerRecord  float64
	Amplitude        float64
	Noise            float64
	SamplesPerRecord int
	RecordsPerSecond float64
}

// Validate reports the first invalid parameter, if any.
func (c Config) Validate() error {
	if c.SamplesPerRecord <= 0 {
		return fmt.Errorf("samples per record must be positive, got %d", c.SamplesPerRecord)
	}
	if c.RecordsPerSecond <= 0 {
		return fmt.Errorf("records per second must be positive, got %g", c.RecordsPerSecond)
	}
	if c.CyclesPerRecord <= 0 {
		return fmt.Errorf("cycles per record must be positive, got %g", c.CyclesPerRecord)
	}
	if c.Amplitude < 0 {
		return fmt.Errorf("amplitude must not be negative, got %g", c.Amplitude)
	}
	if c.Noise < 0 {
		return fmt.Errorf("noise must not be negative, got %g", c.Noise)
	}
	return nil
}

// xorshift64 is a small deterministic noise source. Seeding it from the
// record's time offset makes each record reproducible on its own.
type xorshift64 struct {
	state uint64
}

func newNoiseSource(timeOffset float64) *xorshift64 {
	return &xorshift64{state: math.Float64bits(timeOffset) + 0x9E3779B97F4A7C15}
}

func (x *xorshift64) next() uint64 {
	x.state ^= x.state << 13
	x.state ^= x.state >> 7
	x.state ^= x.state << 17
	return x.state
}

// uniform returns a value in [-1, 1).
func (x *xorshift64) uniform() float64 {
	return float64(x.next())/float64(math.MaxUint64)*2 - 1
}

// Samples evaluates one record of the configured waveform starting at
// timeOffset cycles and encodes it with the configured sample type and
// byte order.
func Samples(cfg Config, timeOffset float64) []byte {
	noise := newNoiseSource(timeOffset)
	out := make([]byte, 0, cfg.SamplesPerRecord*cfg.SampleType.Width())
	for i := 0; i < cfg.SamplesPerRecord; i++ {
		t := timeOffset + cfg.CyclesPerRecord*float64(i)/float64(cfg.SamplesPerRecord)
		v := cfg.Amplitude * cfg.Waveform.shape(t)
		if cfg.Noise > 0 {
			v += cfg.Noise * noise.uniform()
		}
		out = append(out, codec.EncodeSample(v, cfg.SampleType, cfg.ByteOrder)...)
	}
	return out
}
