// Package meter samples host CPU and memory pressure for the dashboard
// status line. Sampling is best effort: a failed probe degrades to zero
// values so the render path never sees an error.
package meter

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

const defaultInterval = 100 * time.Millisecond

// Reading is one snapshot of host resource usage.
type Reading struct {
	CPUPercent     float64
	MemUsedPercent float64
}

// String renders the reading the way the status line shows it.
func (r Reading) String() string {
	return fmt.Sprintf("cpu %.1f%% mem %.1f%%", r.CPUPercent, r.MemUsedPercent)
}

// Meter samples host usage over a short measurement interval.
type Meter struct {
	interval time.Duration
}

// NewMeter returns a meter with the default measurement interval.
func NewMeter() *Meter {
	return &Meter{interval: defaultInterval}
}

// SetInterval adjusts how long one CPU measurement observes the host.
func (m *Meter) SetInterval(d time.Duration) {
	if d > 0 {
		m.interval = d
	}
}

// Sample measures CPU and memory usage. It blocks for the measurement
// interval.
func (m *Meter) Sample() Reading {
	var r Reading
	if cpuPercentages, err := cpu.Percent(m.interval, false); err == nil && len(cpuPercentages) > 0 {
		r.CPUPercent = cpuPercentages[0]
	}
	if memStats, err := mem.VirtualMemory(); err == nil && memStats != nil {
		r.MemUsedPercent = memStats.UsedPercent
	}
	return r
}
