package dashboard

import (
	"math"

	"github.com/keyscope/keyscope/pkg/internal/viewport"
)

// zoomStep is the span scale applied per scroll notch.
const zoomStep = 1.3

// SetChartRects records where the render step last drew the two plotting
// areas, in terminal cells. Hit-testing of later mouse input runs against
// these.
func (d *Dashboard) SetChartRects(signal, spectrum viewport.Rect) {
	d.signalRect = signal
	d.spectrumRect = spectrum
}

// SignalBounds returns the effective data-space window of the signal chart.
func (d *Dashboard) SignalBounds() (xLo, xHi, yLo, yHi float64) {
	xLo, xHi = viewport.SignalXBounds(len(d.signal), d.window, d.signalX)
	if d.signalY.Auto {
		yLo, yHi = viewport.AutoBounds(d.signal)
	} else {
		yLo, yHi = d.signalY.Lo, d.signalY.Hi
	}
	return xLo, xHi, yLo, yHi
}

// SpectrumBounds returns the effective data-space window of the spectrum
// chart.
func (d *Dashboard) SpectrumBounds() (xLo, xHi, yLo, yHi float64) {
	display := d.SpectrumDisplay()
	xLo, xHi = viewport.SpectrumXBounds(len(display), d.spectrumX)
	if d.spectrumY.Auto {
		yLo, yHi = viewport.AutoBounds(display)
	} else {
		yLo, yHi = d.spectrumY.Lo, d.spectrumY.Hi
	}
	return xLo, xHi, yLo, yHi
}

// SetSignalBounds fixes both signal axes to manual ranges. State is
// untouched on a rejected range.
func (d *Dashboard) SetSignalBounds(xLo, xHi, yLo, yHi float64) error {
	next := d.signalX
	if err := next.Set(xLo, xHi); err != nil {
		return err
	}
	if err := d.signalY.Set(yLo, yHi); err != nil {
		return err
	}
	d.signalX = next
	return nil
}

// SetSpectrumBounds fixes both spectrum axes to manual ranges.
func (d *Dashboard) SetSpectrumBounds(xLo, xHi, yLo, yHi float64) error {
	next := d.spectrumX
	if err := next.Set(xLo, xHi); err != nil {
		return err
	}
	if err := d.spectrumY.Set(yLo, yHi); err != nil {
		return err
	}
	d.spectrumX = next
	return nil
}

// ResetBounds returns every axis to auto mode.
func (d *Dashboard) ResetBounds() {
	d.signalX.Reset()
	d.signalY.Reset()
	d.spectrumX.Reset()
	d.spectrumY.Reset()
}

// HoverData returns the data coordinates under the cursor and which chart
// they belong to. ok is false when the cursor is outside both charts.
func (d *Dashboard) HoverData() (x, y float64, inSpectrum, ok bool) {
	return d.hoverX, d.hoverY, d.hoverInSpectrum, d.hoverOK
}

// hitChart maps a pixel to the chart under it, spectrum first when shown.
func (d *Dashboard) hitChart(px, py int) (inSpectrum, ok bool) {
	if d.spectrumEnabled && d.spectrumRect.Contains(px, py) {
		return true, true
	}
	if d.signalRect.Contains(px, py) {
		return false, true
	}
	return false, false
}

// MouseMove updates hover state and, while a drag is in progress, pans the
// dragged chart by the accumulated pixel delta.
func (d *Dashboard) MouseMove(px, py int) {
	inSpectrum, ok := d.hitChart(px, py)
	d.hoverOK = false
	if ok {
		var dataX, dataY float64
		if inSpectrum {
			xLo, xHi, yLo, yHi := d.SpectrumBounds()
			dataX, dataY, ok = viewport.PixelToData(px, py, d.spectrumRect, xLo, xHi, yLo, yHi)
		} else {
			xLo, xHi, yLo, yHi := d.SignalBounds()
			dataX, dataY, ok = viewport.PixelToData(px, py, d.signalRect, xLo, xHi, yLo, yHi)
		}
		if ok {
			d.hoverX, d.hoverY = dataX, dataY
			d.hoverInSpectrum = inSpectrum
			d.hoverOK = true
		}
	}

	if !d.dragging {
		return
	}
	rect := d.signalRect
	if d.dragInSpectrum {
		rect = d.spectrumRect
	}
	xLo, xHi, yLo, yHi := d.drag.Pan(px, py, rect)
	if d.dragInSpectrum {
		d.spectrumX = viewport.AxisBounds{Lo: xLo, Hi: xHi}
		d.spectrumY = viewport.AxisBounds{Lo: yLo, Hi: yHi}
	} else {
		d.signalX = viewport.AxisBounds{Lo: xLo, Hi: xHi}
		d.signalY = viewport.AxisBounds{Lo: yLo, Hi: yHi}
	}
}

// MouseDown begins a drag pan when the press lands inside a chart,
// snapshotting that chart's bounds as the pan origin.
func (d *Dashboard) MouseDown(px, py int) {
	inSpectrum, ok := d.hitChart(px, py)
	if !ok {
		return
	}
	var xLo, xHi, yLo, yHi float64
	if inSpectrum {
		xLo, xHi, yLo, yHi = d.SpectrumBounds()
	} else {
		xLo, xHi, yLo, yHi = d.SignalBounds()
	}
	d.dragging = true
	d.dragInSpectrum = inSpectrum
	d.drag = viewport.Drag{StartX: px, StartY: py, XLo: xLo, XHi: xHi, YLo: yLo, YHi: yHi}
}

// MouseUp ends any drag in progress.
func (d *Dashboard) MouseUp() {
	d.dragging = false
}

// Scroll zooms the chart under the cursor about the cursor position, in for
// scroll-up and out for scroll-down. The x axis clamps at the data extent;
// the y axis is free.
func (d *Dashboard) Scroll(px, py int, in bool) {
	inSpectrum, ok := d.hitChart(px, py)
	if !ok {
		return
	}
	factor := zoomStep
	if !in {
		factor = 1 / zoomStep
	}

	rect := d.signalRect
	fullX := float64(len(d.signal))
	xLo, xHi, yLo, yHi := d.SignalBounds()
	if inSpectrum {
		rect = d.spectrumRect
		fullX = float64(len(d.SpectrumDisplay()))
		xLo, xHi, yLo, yHi = d.SpectrumBounds()
	}

	fracX := clampFrac(float64(px-rect.X) / float64(max1(rect.W)))
	fracY := clampFrac(1 - float64(py-rect.Y)/float64(max1(rect.H)))

	nxLo, nxHi := viewport.Zoom(xLo, xHi, factor, fracX, 0, fullX)
	nyLo, nyHi := viewport.Zoom(yLo, yHi, factor, fracY, math.Inf(-1), math.Inf(1))
	if inSpectrum {
		d.spectrumX = viewport.AxisBounds{Lo: nxLo, Hi: nxHi}
		d.spectrumY = viewport.AxisBounds{Lo: nyLo, Hi: nyHi}
	} else {
		d.signalX = viewport.AxisBounds{Lo: nxLo, Hi: nxHi}
		d.signalY = viewport.AxisBounds{Lo: nyLo, Hi: nyHi}
	}
}

func clampFrac(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
