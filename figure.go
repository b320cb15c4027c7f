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
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"
)

// Axes is one panel of a figure
type Axes struct {
	Title string
	Chart chart.Chart

	points int
	// minPoints below which the panel is left empty; lines need two
	minPoints int
}

// Figure is an explicit handle on a set of vertically stacked axes.
// Each plot call returns its own figure; nothing is shared between calls.
type Figure struct {
	Width  int
	Height int
	Axes   []*Axes
}

// NewFigure creates an empty figure of the given pixel size
func NewFigure(width, height int) *Figure {
	return &Figure{Width: width, Height: height}
}

// AddAxes appends a panel below the existing ones
func (f *Figure) AddAxes(ax *Axes) (*Axes, error) {
	if ax == nil {
		return nil, fmt.Errorf("axes must not be nil")
	}
	if ax.points == 0 {
		for _, s := range ax.Chart.Series {
			ax.points += seriesLen(s)
		}
	}
	if ax.minPoints == 0 {
		ax.minPoints = 2
	}
	f.Axes = append(f.Axes, ax)
	return ax, nil
}

// Render draws every axes and writes the stacked figure as PNG
func (f *Figure) Render(w io.Writer) error {
	if len(f.Axes) == 0 {
		return &DataError{DataType: "figure", Message: "figure has no axes"}
	}

	panelHeight := f.Height / len(f.Axes)
	canvas := image.NewRGBA(image.Rect(0, 0, f.Width, panelHeight*len(f.Axes)))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	for i, ax := range f.Axes {
		if ax.points < ax.minPoints {
			continue
		}

		c := ax.Chart
		c.Width = f.Width
		c.Height = panelHeight

		raw, err := renderChart(c)
		if err != nil {
			return fmt.Errorf("failed to render axes %q: %w", ax.Title, err)
		}
		panel, err := png.Decode(bytes.NewReader(raw))
		if err != nil {
			return fmt.Errorf("failed to decode axes %q: %w", ax.Title, err)
		}

		offset := image.Pt(0, i*panelHeight)
		draw.Draw(canvas, panel.Bounds().Add(offset), panel, panel.Bounds().Min, draw.Over)
	}

	return png.Encode(w, canvas)
}

// Bytes renders the figure into memory
func (f *Figure) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Base64 renders the figure for embedding in HTML
func (f *Figure) Base64() (string, error) {
	buf, err := f.Bytes()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// Save writes the figure to a PNG file
func (f *Figure) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create figure file: %w", err)
	}
	defer file.Close()

	if err := f.Render(file); err != nil {
		return err
	}
	return file.Close()
}

func seriesLen(s chart.Series) int {
	switch v := s.(type) {
	case chart.TimeSeries:
		return len(v.XValues)
	case chart.ContinuousSeries:
		return len(v.XValues)
	default:
		return 0
	}
}
