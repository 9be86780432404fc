// Package viewport owns the visible data-space window of a chart and the
// math that moves it: auto-ranging, zoom about a cursor, drag panning, and
// the pixel-to-data mapping used for hover and hit-testing. All functions are
// pure; the dashboard holds the state and calls in from the render/input
// goroutine.
package viewport

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidBound rejects a manual axis range whose low edge is not strictly
// below its high edge.
var ErrInvalidBound = errors.New("invalid bound")

const (
	// DefaultWindow is how many of the newest samples an auto-ranged signal
	// x-axis shows, bounding render cost for long-running streams.
	DefaultWindow = 2000

	// minSpan is the smallest visible span a zoom may produce. Anything
	// tighter would collapse the linear mapping.
	minSpan = 1.0e-6
)

// AxisBounds is one axis of one chart: either auto (recomputed from data each
// draw) or a fixed manual range.
type AxisBounds struct {
	Auto bool
	Lo   float64
	Hi   float64
}

// NewAxisBounds returns bounds in auto mode.
func NewAxisBounds() AxisBounds {
	return AxisBounds{Auto: true}
}

// Set switches the axis to a manual range. The previous state is untouched
// when lo >= hi.
func (b *AxisBounds) Set(lo, hi float64) error {
	if lo >= hi {
		return fmt.Errorf("%w: min %v must be less than max %v", ErrInvalidBound, lo, hi)
	}
	b.Auto = false
	b.Lo, b.Hi = lo, hi
	return nil
}

// Reset returns the axis to auto mode.
func (b *AxisBounds) Reset() {
	b.Auto = true
	b.Lo, b.Hi = 0, 0
}

// AutoBounds computes a y-range from the finite values of data: min/max
// padded by 10% of the range on each side, padding 1.0 when the range is
// zero, and (0, 1) when there is nothing finite to measure.
func AutoBounds(data []float64) (lo, hi float64) {
	finite := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return 0, 1
	}
	min := floats.Min(finite)
	max := floats.Max(finite)
	pad := (max - min) * 0.1
	if pad == 0 {
		pad = 1.0
	}
	return min - pad, max + pad
}

// SignalXBounds returns the visible x-range for a signal of n samples. Auto
// mode shows the newest window samples; manual mode returns the stored range.
func SignalXBounds(n int, window int, b AxisBounds) (lo, hi float64) {
	if !b.Auto {
		return b.Lo, b.Hi
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if n <= window {
		return 0, float64(n)
	}
	return float64(n - window), float64(n)
}

// SpectrumXBounds returns the visible x-range for a spectrum of n bins: the
// full range in auto mode, the stored range otherwise.
func SpectrumXBounds(n int, b AxisBounds) (lo, hi float64) {
	if !b.Auto {
		return b.Lo, b.Hi
	}
	return 0, float64(n)
}

// Zoom scales the span (hi - lo) by 1/factor about the point at fraction frac
// of the current viewport, clamping against absMin/absMax when they are
// finite. A zoom that would shrink the span below minSpan is a no-op.
func Zoom(lo, hi, factor, frac, absMin, absMax float64) (float64, float64) {
	span := hi - lo
	center := lo + frac*span
	newSpan := span / factor
	newLo := center - frac*newSpan
	newHi := center + (1-frac)*newSpan
	if !math.IsInf(absMin, 0) && newLo < absMin {
		newLo = absMin
	}
	if !math.IsInf(absMax, 0) && newHi > absMax {
		newHi = absMax
	}
	if newHi-newLo < minSpan {
		return lo, hi
	}
	return newLo, newHi
}

// Rect is the last-drawn pixel rectangle of a chart's plotting area.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the pixel lies inside the rect.
func (r Rect) Contains(px, py int) bool {
	return px >= r.X && px < r.X+r.W && py >= r.Y && py < r.Y+r.H
}

// PixelToData maps a pixel inside r to data coordinates under the given axis
// ranges. The y axis is inverted because pixel rows grow downward. ok is
// false when the pixel lies outside the rect.
func PixelToData(px, py int, r Rect, xLo, xHi, yLo, yHi float64) (dataX, dataY float64, ok bool) {
	if !r.Contains(px, py) {
		return 0, 0, false
	}
	w := r.W
	if w < 1 {
		w = 1
	}
	h := r.H
	if h < 1 {
		h = 1
	}
	fracX := float64(px-r.X) / float64(w)
	fracY := 1 - float64(py-r.Y)/float64(h)
	return xLo + fracX*(xHi-xLo), yLo + fracY*(yHi-yLo), true
}

// Drag is a pan in progress: the pixel where the button went down and a
// snapshot of the bounds at that moment.
type Drag struct {
	StartX, StartY int
	XLo, XHi       float64
	YLo, YHi       float64
}

// Pan translates the snapshotted bounds by the pixel delta from the drag
// origin to (px, py): x follows the cursor, y is inverted.
func (d Drag) Pan(px, py int, r Rect) (xLo, xHi, yLo, yHi float64) {
	w := r.W
	if w < 1 {
		w = 1
	}
	h := r.H
	if h < 1 {
		h = 1
	}
	dxData := -float64(px-d.StartX) * (d.XHi - d.XLo) / float64(w)
	dyData := float64(py-d.StartY) * (d.YHi - d.YLo) / float64(h)
	return d.XLo + dxData, d.XHi + dxData, d.YLo + dyData, d.YHi + dyData
}
