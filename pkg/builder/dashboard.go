package builder

import (
	"github.com/keyscope/keyscope/pkg/internal/dashboard"
	"github.com/keyscope/keyscope/pkg/internal/spectrum"
	"github.com/keyscope/keyscope/pkg/internal/types"
	"github.com/keyscope/keyscope/pkg/internal/viewport"
)

type Dashboard = dashboard.Dashboard

type Store = dashboard.Store

type Rect = viewport.Rect

// NewDashboard wires the dashboard state over a connected store and the
// worker dial functions.
func NewDashboard(store Store, readerDial types.ReaderDial, appenderDial types.AppenderDial, options ...types.Option[*Dashboard]) *Dashboard {
	return dashboard.NewDashboard(store, readerDial, appenderDial, options...)
}

// DashboardWithLogger registers loggers for the dashboard.
func DashboardWithLogger(l ...types.Logger) types.Option[*Dashboard] {
	return dashboard.WithLogger(l...)
}

// DashboardWithDecodeConfig sets the initial sample type and byte order.
func DashboardWithDecodeConfig(t SampleType, o ByteOrder) types.Option[*Dashboard] {
	return dashboard.WithDecodeConfig(t, o)
}

// DashboardWithPlotWindow sets how many of the newest samples an auto-ranged
// signal chart shows.
func DashboardWithPlotWindow(n int) types.Option[*Dashboard] {
	return dashboard.WithPlotWindow(n)
}

// DashboardWithSpectrumPipeline replaces the spectrum pipeline.
func DashboardWithSpectrumPipeline(p *spectrum.Pipeline) types.Option[*Dashboard] {
	return dashboard.WithSpectrumPipeline(p)
}

// DashboardWithRecordClock sets the stream record id formatter used by the
// value view.
func DashboardWithRecordClock(f func(string) string) types.Option[*Dashboard] {
	return dashboard.WithRecordClock(f)
}
