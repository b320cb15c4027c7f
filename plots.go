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
	"fmt"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// TimeseriesPlotOptions selects the rows drawn by ObserveTimeseries
type TimeseriesPlotOptions struct {
	Mask    Mask   // optional, must match the table length
	NPoints int    // first n rows after the site subset; 0 draws all
	Site    string // optional site id matched against SiteColumn

	RatioColumn  string
	EnergyColumn string
	SiteColumn   string
}

// Plotter draws diagnostic figures for production tables
type Plotter struct {
	logger *Logger
}

// NewPlotter creates a new plotter
func NewPlotter(logger *Logger) *Plotter {
	return &Plotter{logger: logger.WithComponent("plotter")}
}

// ObserveTimeseries draws the measured/expected ratio and the generated
// energy over time on two stacked axes.
func (p *Plotter) ObserveTimeseries(t *Table, opts TimeseriesPlotOptions) (*Figure, error) {
	if opts.RatioColumn == "" {
		opts.RatioColumn = DefaultRatioColumn
	}
	if opts.EnergyColumn == "" {
		opts.EnergyColumn = DefaultEnergyColumn
	}
	if opts.SiteColumn == "" {
		opts.SiteColumn = DefaultSiteColumn
	}

	if opts.Mask != nil {
		if len(opts.Mask) != t.Len() {
			return nil, &MaskError{Operation: "timeseries plot", Expected: t.Len(), Actual: len(opts.Mask)}
		}
		p.logger.LogMaskCoverage("timeseries", opts.Mask.Count(), t.Len())
	}

	// Site subset, then the first NPoints rows, then the mask
	var sites []string
	if opts.Site != "" {
		var err error
		if sites, err = t.Labels(opts.SiteColumn); err != nil {
			return nil, err
		}
	}

	var positions []int
	for i := 0; i < t.Len(); i++ {
		if sites != nil && sites[i] != opts.Site {
			continue
		}
		positions = append(positions, i)
	}
	if opts.NPoints > 0 && len(positions) > opts.NPoints {
		positions = positions[:opts.NPoints]
	}
	if opts.Mask != nil {
		kept := positions[:0:0]
		for _, pos := range positions {
			if opts.Mask[pos] {
				kept = append(kept, pos)
			}
		}
		positions = kept
	}
	view := t.Rows(positions)

	ratio, err := view.Column(opts.RatioColumn)
	if err != nil {
		return nil, err
	}
	energy, err := view.Column(opts.EnergyColumn)
	if err != nil {
		return nil, err
	}

	fig := NewFigure(timeseriesFigureWidth, timeseriesFigureHeight)
	if _, err := fig.AddAxes(timeAxes("Measured Energy / Expected Energy", view.Index(), ratio)); err != nil {
		return nil, err
	}
	if _, err := fig.AddAxes(timeAxes("Energy Generated (kWh)", view.Index(), energy)); err != nil {
		return nil, err
	}
	return fig, nil
}

// ObserveEnergyVsIrradiance draws energy production against irradiance,
// coloured by system capacity.
func (p *Plotter) ObserveEnergyVsIrradiance(t *Table, cols ColumnMap, mask Mask) (*Figure, error) {
	if cols.Irradiance == "" {
		cols.Irradiance = DefaultIrradianceColumn
	}
	if cols.Energy == "" {
		cols.Energy = DefaultEnergyColumn
	}
	if cols.Capacity == "" {
		cols.Capacity = DefaultCapacityColumn
	}

	view := t
	if mask != nil {
		if len(mask) != t.Len() {
			return nil, &MaskError{Operation: "scatter plot", Expected: t.Len(), Actual: len(mask)}
		}
		p.logger.LogMaskCoverage("scatter", mask.Count(), t.Len())

		var err error
		if view, err = t.Filter(mask); err != nil {
			return nil, err
		}
	}

	irradiance, err := view.Column(cols.Irradiance)
	if err != nil {
		return nil, err
	}
	energy, err := view.Column(cols.Energy)
	if err != nil {
		return nil, err
	}
	capacity, err := view.Column(cols.Capacity)
	if err != nil {
		return nil, err
	}

	var xs, ys, cs []float64
	for i := range irradiance {
		if math.IsNaN(irradiance[i]) || math.IsNaN(energy[i]) || math.IsNaN(capacity[i]) {
			continue
		}
		xs = append(xs, irradiance[i])
		ys = append(ys, energy[i])
		cs = append(cs, capacity[i])
	}
	if len(xs) == 0 {
		return nil, &DataError{DataType: "scatter plot", Message: "no rows with irradiance, energy and capacity"}
	}

	cmin, cmax := extent(cs)
	if cmin == cmax {
		cmax = cmin + 1
	}
	byCapacity := func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
		return chart.Viridis(cs[index], cmin, cmax)
	}

	c := chart.Chart{
		Title: fmt.Sprintf("System capacity (kWh): %.4g to %.4g", cmin, cmax),
		XAxis: chart.XAxis{
			Name:  "Irradiance (W/m2)",
			Range: paddedRange(xs),
		},
		YAxis: chart.YAxis{
			Name:  "Energy production (kWh)",
			Range: paddedRange(ys),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: "energy",
				Style: chart.Style{
					StrokeWidth:      chart.Disabled,
					DotWidth:         4,
					DotColorProvider: byCapacity,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}

	fig := NewFigure(scatterFigureWidth, scatterFigureHeight)
	if _, err := fig.AddAxes(&Axes{Title: "Energy vs Irradiance", Chart: c, minPoints: 1}); err != nil {
		return nil, err
	}
	return fig, nil
}

// timeAxes builds a dashed black line over time, skipping missing values
func timeAxes(label string, index []time.Time, values []float64) *Axes {
	var xs []time.Time
	var ys []float64
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		xs = append(xs, index[i])
		ys = append(ys, v)
	}

	return &Axes{
		Title: label,
		Chart: chart.Chart{
			XAxis: chart.XAxis{
				ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02 15:04"),
			},
			YAxis: chart.YAxis{
				Name:  label,
				Range: paddedRange(ys),
			},
			Series: []chart.Series{
				chart.TimeSeries{
					Name: label,
					Style: chart.Style{
						StrokeColor:     drawing.ColorBlack.WithAlpha(102),
						StrokeWidth:     1.5,
						StrokeDashArray: []float64{5.0, 5.0},
					},
					XValues: xs,
					YValues: ys,
				},
			},
		},
		points: len(xs),
	}
}

// paddedRange widens a flat range so the chart can still be drawn
func paddedRange(values []float64) chart.Range {
	lo, hi := extent(values)
	if len(values) == 0 {
		lo, hi = 0, 1
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

// extent returns the min and max of values
func extent(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// renderChart draws a chart into PNG bytes
func renderChart(c chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
