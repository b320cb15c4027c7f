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
	"encoding/base64"
	"fmt"

	charts "github.com/vicanso/go-charts/v2"
)

// ChartGenerator handles report chart generation
type ChartGenerator struct {
	theme string
}

// NewChartGenerator creates a new chart generator
func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{
		theme: "dark", // Match our HTML report dark theme
	}
}

// GenerateDailyCompletenessChart creates a line chart of completeness per day
// against the configured threshold
func (cg *ChartGenerator) GenerateDailyCompletenessChart(daily []DailyCompleteness, threshold float64) (string, error) {
	if len(daily) == 0 {
		return "", fmt.Errorf("no completeness data available")
	}

	var scores []float64
	var targets []float64
	var labels []string
	for _, d := range daily {
		labels = append(labels, d.Day.Format("Jan 2"))
		scores = append(scores, d.Score*100)
		targets = append(targets, threshold*100)
	}

	p, err := charts.LineRender(
		[][]float64{scores, targets},
		charts.TitleTextOptionFunc("Daily Completeness (%)"),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc([]string{"Completeness", "Threshold"}, charts.PositionRight),
		charts.ThemeOptionFunc(cg.getTheme()),
		charts.WidthOptionFunc(1200),
		charts.HeightOptionFunc(400),
		charts.PaddingOptionFunc(charts.Box{
			Top:    20,
			Right:  20,
			Bottom: 20,
			Left:   20,
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render completeness chart: %w", err)
	}

	return encodePainter(p)
}

// GenerateCheckPassRateChart creates a bar chart of the pass rate of each check
func (cg *ChartGenerator) GenerateCheckPassRateChart(checks []CheckResult) (string, error) {
	if len(checks) == 0 {
		return "", fmt.Errorf("no checks available")
	}

	var rates []float64
	var labels []string
	for _, c := range checks {
		labels = append(labels, c.Name)
		rates = append(rates, c.PassRate*100)
	}

	p, err := charts.BarRender(
		[][]float64{rates},
		charts.TitleTextOptionFunc("Rows Passing Each Check (%)"),
		charts.XAxisDataOptionFunc(labels),
		charts.ThemeOptionFunc(cg.getTheme()),
		charts.WidthOptionFunc(1200),
		charts.HeightOptionFunc(400),
		charts.PaddingOptionFunc(charts.Box{
			Top:    20,
			Right:  20,
			Bottom: 20,
			Left:   20,
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render pass rate chart: %w", err)
	}

	return encodePainter(p)
}

// encodePainter converts a rendered chart to base64 for embedding in HTML
func encodePainter(p *charts.Painter) (string, error) {
	buf, err := p.Bytes()
	if err != nil {
		return "", fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// getTheme returns the chart theme name
func (cg *ChartGenerator) getTheme() string {
	return cg.theme
}
