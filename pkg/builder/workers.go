package builder

import (
	"time"

	"github.com/keyscope/keyscope/pkg/internal/generator"
	"github.com/keyscope/keyscope/pkg/internal/ingestor"
	"github.com/keyscope/keyscope/pkg/internal/types"
)

type Ingestor = ingestor.Ingestor

type Generator = generator.Generator

type GeneratorConfig = generator.Config

type Waveform = generator.Waveform

const (
	Sine     Waveform = generator.Sine
	Square   Waveform = generator.Square
	Sawtooth Waveform = generator.Sawtooth
	Triangle Waveform = generator.Triangle
)

// NewIngestor creates a stopped live ingest worker for key, resuming after
// afterID.
func NewIngestor(key, afterID string, dial types.ReaderDial, options ...types.Option[*Ingestor]) *Ingestor {
	return ingestor.NewIngestor(key, afterID, dial, options...)
}

// IngestorWithLogger registers loggers for the worker.
func IngestorWithLogger(l ...types.Logger) types.Option[*Ingestor] {
	return ingestor.WithLogger(l...)
}

// IngestorWithBlockTimeout sets how long one blocking read waits.
func IngestorWithBlockTimeout(d time.Duration) types.Option[*Ingestor] {
	return ingestor.WithBlockTimeout(d)
}

// IngestorWithBackoff sets the sleep after a transient read failure.
func IngestorWithBackoff(d time.Duration) types.Option[*Ingestor] {
	return ingestor.WithBackoff(d)
}

// NewGenerator creates a stopped waveform worker appending to key.
func NewGenerator(key string, cfg GeneratorConfig, dial types.AppenderDial, options ...types.Option[*Generator]) (*Generator, error) {
	return generator.NewGenerator(key, cfg, dial, options...)
}

// GeneratorWithLogger registers loggers for the worker.
func GeneratorWithLogger(l ...types.Logger) types.Option[*Generator] {
	return generator.WithLogger(l...)
}

// GeneratorWithWriteBackoff sets the sleep after a failed append.
func GeneratorWithWriteBackoff(d time.Duration) types.Option[*Generator] {
	return generator.WithWriteBackoff(d)
}
