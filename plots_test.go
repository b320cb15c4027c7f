// Copyright 2025 Matthew Gall <me@matthewgall.dev>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	chart "github.com/wcharczuk/go-chart/v2"
)

// plotTable has two sites interleaved hour by hour
func plotTable(t *testing.T) *Table {
	t.Helper()
	n := 12
	ratio := make([]float64, n)
	energy := make([]float64, n)
	irradiance := make([]float64, n)
	capacity := make([]float64, n)
	sites := make([]string, n)
	for i := 0; i < n; i++ {
		ratio[i] = 0.8 + float64(i)/100
		energy[i] = float64(i)
		irradiance[i] = float64(i) * 100
		capacity[i] = float64(i%3 + 1)
		sites[i] = "R1"
		if i%2 == 1 {
			sites[i] = "R2"
		}
	}
	table := newTestTable(t, hourlyIndex(n),
		col(DefaultRatioColumn, ratio...),
		col(DefaultEnergyColumn, energy...),
		col(DefaultIrradianceColumn, irradiance...),
		col(DefaultCapacityColumn, capacity...),
	)
	require.NoError(t, table.AddLabels(DefaultSiteColumn, sites))
	return table
}

func timeseriesXValues(t *testing.T, fig *Figure, axes int) int {
	t.Helper()
	ts, ok := fig.Axes[axes].Chart.Series[0].(chart.TimeSeries)
	require.True(t, ok)
	return len(ts.XValues)
}

func TestObserveTimeseries(t *testing.T) {
	plotter := NewPlotter(NewDiscardLogger())
	table := plotTable(t)

	fig, err := plotter.ObserveTimeseries(table, TimeseriesPlotOptions{})
	require.NoError(t, err)
	require.Len(t, fig.Axes, 2)
	assert.Equal(t, 12, timeseriesXValues(t, fig, 0))
	assert.Equal(t, 12, timeseriesXValues(t, fig, 1))
	assert.Equal(t, timeseriesFigureWidth, fig.Width)

	raw, err := fig.Bytes()
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, timeseriesFigureWidth, img.Bounds().Dx())
}

func TestObserveTimeseriesSubsets(t *testing.T) {
	plotter := NewPlotter(NewDiscardLogger())
	table := plotTable(t)

	firstSix := make(Mask, table.Len())
	for i := range firstSix {
		firstSix[i] = i < 6
	}

	tests := []struct {
		name     string
		opts     TimeseriesPlotOptions
		expected int
	}{
		{name: "first n rows", opts: TimeseriesPlotOptions{NPoints: 5}, expected: 5},
		{name: "site", opts: TimeseriesPlotOptions{Site: "R2"}, expected: 6},
		{name: "site then n rows", opts: TimeseriesPlotOptions{Site: "R2", NPoints: 4}, expected: 4},
		{name: "mask", opts: TimeseriesPlotOptions{Mask: firstSix}, expected: 6},
		// n rows are taken before the mask is applied
		{name: "n rows then mask", opts: TimeseriesPlotOptions{Mask: firstSix, NPoints: 4}, expected: 4},
		{name: "site then mask", opts: TimeseriesPlotOptions{Mask: firstSix, Site: "R1"}, expected: 3},
		{name: "unknown site", opts: TimeseriesPlotOptions{Site: "R9"}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fig, err := plotter.ObserveTimeseries(table, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, timeseriesXValues(t, fig, 0))
		})
	}
}

func TestObserveTimeseriesErrors(t *testing.T) {
	plotter := NewPlotter(NewDiscardLogger())
	table := plotTable(t)

	t.Run("mask length", func(t *testing.T) {
		_, err := plotter.ObserveTimeseries(table, TimeseriesPlotOptions{Mask: Mask{true}})
		var mErr *MaskError
		require.ErrorAs(t, err, &mErr)
		assert.Equal(t, 12, mErr.Expected)
	})

	t.Run("missing column", func(t *testing.T) {
		_, err := plotter.ObserveTimeseries(table, TimeseriesPlotOptions{RatioColumn: "pr"})
		var cErr *ColumnError
		require.ErrorAs(t, err, &cErr)
	})

	t.Run("site without site column", func(t *testing.T) {
		_, err := plotter.ObserveTimeseries(table, TimeseriesPlotOptions{Site: "R1", SiteColumn: "system"})
		var cErr *ColumnError
		require.ErrorAs(t, err, &cErr)
	})
}

func TestObserveTimeseriesDoesNotModifyTable(t *testing.T) {
	table := plotTable(t)
	_, err := NewPlotter(NewDiscardLogger()).ObserveTimeseries(table, TimeseriesPlotOptions{Site: "R1", NPoints: 2})
	require.NoError(t, err)
	assert.Equal(t, 12, table.Len())
}

func TestObserveEnergyVsIrradiance(t *testing.T) {
	plotter := NewPlotter(NewDiscardLogger())
	table := plotTable(t)

	fig, err := plotter.ObserveEnergyVsIrradiance(table, ColumnMap{}, nil)
	require.NoError(t, err)
	require.Len(t, fig.Axes, 1)

	c := fig.Axes[0].Chart
	assert.Equal(t, "System capacity (kWh): 1 to 3", c.Title)
	assert.Equal(t, "Irradiance (W/m2)", c.XAxis.Name)
	assert.Equal(t, "Energy production (kWh)", c.YAxis.Name)

	path := filepath.Join(t.TempDir(), "scatter.png")
	require.NoError(t, fig.Save(path))
	assert.FileExists(t, path)
}

func TestObserveEnergyVsIrradianceMask(t *testing.T) {
	plotter := NewPlotter(NewDiscardLogger())
	table := plotTable(t)

	mask := make(Mask, table.Len())
	mask[0], mask[3] = true, true
	fig, err := plotter.ObserveEnergyVsIrradiance(table, ColumnMap{}, mask)
	require.NoError(t, err)

	series, ok := fig.Axes[0].Chart.Series[0].(chart.ContinuousSeries)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 300}, series.XValues)

	_, err = plotter.ObserveEnergyVsIrradiance(table, ColumnMap{}, Mask{true, false})
	var mErr *MaskError
	require.ErrorAs(t, err, &mErr)
}

func TestObserveEnergyVsIrradianceSinglePoint(t *testing.T) {
	table := newTestTable(t, hourlyIndex(2),
		col(DefaultEnergyColumn, 3, 4),
		col(DefaultIrradianceColumn, 500, nan),
		col(DefaultCapacityColumn, 5, 5),
	)
	fig, err := NewPlotter(NewDiscardLogger()).ObserveEnergyVsIrradiance(table, ColumnMap{}, nil)
	require.NoError(t, err)

	raw, err := fig.Bytes()
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)

	drawn := 0
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r != 0xffff || g != 0xffff || b != 0xffff {
				drawn++
			}
		}
	}
	assert.Positive(t, drawn)
}

func TestObserveEnergyVsIrradianceNoData(t *testing.T) {
	table := newTestTable(t, hourlyIndex(2),
		col(DefaultEnergyColumn, 1, 2),
		col(DefaultIrradianceColumn, nan, nan),
		col(DefaultCapacityColumn, 5, 5),
	)
	_, err := NewPlotter(NewDiscardLogger()).ObserveEnergyVsIrradiance(table, ColumnMap{}, nil)
	var dErr *DataError
	require.ErrorAs(t, err, &dErr)
}
