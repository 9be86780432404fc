// Package spectrum runs magnitude-spectrum computation off the render
// goroutine. The Pipeline is an explicit three-state machine (Idle,
// Computing, Ready) with a single-slot result channel: at most one
// computation is outstanding, a new trigger supersedes the old receiver, and
// the render loop polls once per frame without blocking.
package spectrum

import (
	"github.com/keyscope/keyscope/pkg/internal/types"
	"github.com/keyscope/keyscope/pkg/internal/utils"
)

// State enumerates the pipeline's phases.
type State int

const (
	// Idle means no computation is running; Result may be empty.
	Idle State = iota
	// Computing means one background computation is in flight.
	Computing
	// Ready means the stored result reflects the last triggered input.
	Ready
)

func (s State) String() string {
	switch s {
	case Computing:
		return "computing"
	case Ready:
		return "ready"
	default:
		return "idle"
	}
}

// ComputeFunc turns samples into spectrum bins. The default is Magnitude;
// tests inject their own.
type ComputeFunc func([]float64) []float64

// Pipeline owns the async spectrum computation for one chart. It must only
// be used from the goroutine that owns the dashboard state; the background
// computation communicates exclusively through the result channel.
type Pipeline struct {
	componentMetadata types.ComponentMetadata
	loggers           []types.Logger
	compute           ComputeFunc
	state             State
	resultCh          chan []float64
	result            []float64
}

// NewPipeline creates an idle pipeline configured with the provided options.
func NewPipeline(options ...types.Option[*Pipeline]) *Pipeline {
	p := &Pipeline{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "SPECTRUM_PIPELINE",
		},
		compute: Magnitude,
		state:   Idle,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// GetComponentMetadata returns the pipeline metadata.
func (p *Pipeline) GetComponentMetadata() types.ComponentMetadata {
	return p.componentMetadata
}

// SetComponentMetadata overrides the name and id of the component.
func (p *Pipeline) SetComponentMetadata(name string, id string) {
	p.componentMetadata.Name = name
	p.componentMetadata.ID = id
}

// ConnectLogger registers loggers for the pipeline.
func (p *Pipeline) ConnectLogger(loggers ...types.Logger) {
	p.loggers = append(p.loggers, loggers...)
}

// NotifyLoggers emits a message to all registered loggers at the given level.
func (p *Pipeline) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	for _, logger := range p.loggers {
		if logger == nil || logger.GetLevel() > level {
			continue
		}
		switch level {
		case types.DebugLevel:
			logger.Debug(msg, keysAndValues...)
		case types.InfoLevel:
			logger.Info(msg, keysAndValues...)
		case types.WarnLevel:
			logger.Warn(msg, keysAndValues...)
		case types.ErrorLevel:
			logger.Error(msg, keysAndValues...)
		}
	}
}

// State returns the current phase.
func (p *Pipeline) State() State {
	return p.state
}

// Result returns the most recently stored spectrum, which may be empty.
func (p *Pipeline) Result() []float64 {
	return p.result
}

// Trigger starts a computation for data, superseding any outstanding one:
// the previous receiver is dropped, so a late result from the old
// computation can never be applied. An empty input short-circuits straight
// to Idle with an empty result.
func (p *Pipeline) Trigger(data []float64) {
	if len(data) == 0 {
		p.state = Idle
		p.result = nil
		p.resultCh = nil
		return
	}

	input := make([]float64, len(data))
	copy(input, data)

	ch := make(chan []float64, 1)
	p.resultCh = ch
	p.state = Computing
	p.NotifyLoggers(types.DebugLevel, "spectrum computation triggered",
		"component", p.componentMetadata, "samples", len(input))

	compute := p.compute
	go func() {
		// Closing after the buffered send lets Poll distinguish a result
		// from a computation that died without producing one.
		defer close(ch)
		ch <- compute(input)
	}()
}

// Reset discards any outstanding computation and stored result.
func (p *Pipeline) Reset() {
	p.state = Idle
	p.result = nil
	p.resultCh = nil
}

// Poll checks for a completed computation without blocking; the render loop
// calls it once per tick. It returns true when a new result was stored.
func (p *Pipeline) Poll() bool {
	if p.resultCh == nil {
		return false
	}
	select {
	case result, ok := <-p.resultCh:
		p.resultCh = nil
		if !ok {
			// Sender gone without a result; treat as a silent failure.
			p.state = Idle
			p.NotifyLoggers(types.WarnLevel, "spectrum computation ended without result",
				"component", p.componentMetadata)
			return false
		}
		p.result = result
		p.state = Ready
		p.NotifyLoggers(types.DebugLevel, "spectrum result stored",
			"component", p.componentMetadata, "bins", len(result))
		return true
	default:
		return false
	}
}
