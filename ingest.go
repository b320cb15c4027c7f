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
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// missingTokens are read as NaN in numeric columns
var missingTokens = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "None"}

// CSVOptions controls how a production CSV is turned into a Table
type CSVOptions struct {
	TimestampColumn string
	TimestampFormat string
	Location        *time.Location
	LabelColumns    []string
}

// Loader reads production tables from disk
type Loader struct {
	logger *Logger
}

// NewLoader creates a new loader
func NewLoader(logger *Logger) *Loader {
	return &Loader{logger: logger.WithComponent("loader")}
}

// LoadFile opens a CSV file and loads it
func (l *Loader) LoadFile(path string, opts CSVOptions) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	table, err := l.LoadCSV(file, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.logger.LogDataLoaded(path, table.Len(), len(table.Columns()))
	return table, nil
}

// LoadCSV parses CSV with a header row. The timestamp column and the label
// columns are read as text, every other column as float64 with missing
// values as NaN. A column holding only text is kept as labels; a column
// mixing numbers and text is rejected. Rows are ordered by timestamp.
func (l *Loader) LoadCSV(r io.Reader, opts CSVOptions) (*Table, error) {
	if opts.TimestampColumn == "" {
		opts.TimestampColumn = DefaultTimestampColumn
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	types := map[string]series.Type{opts.TimestampColumn: series.String}
	for _, name := range opts.LabelColumns {
		types[name] = series.String
	}

	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.Float),
		dataframe.WithTypes(types),
		dataframe.NaNValues(missingTokens),
	)
	if df.Err != nil {
		return nil, &DataError{DataType: "csv", Message: df.Err.Error()}
	}
	if df.Nrow() == 0 {
		return nil, &DataError{DataType: "csv", Message: "no data rows"}
	}

	names := df.Names()
	if !containsString(names, opts.TimestampColumn) {
		return nil, &ColumnError{Column: opts.TimestampColumn, Available: names}
	}

	raw := df.Col(opts.TimestampColumn).Records()
	stamps := make([]time.Time, len(raw))
	for i, s := range raw {
		ts, err := parseTimestamp(s, opts.TimestampFormat, opts.Location)
		if err != nil {
			return nil, &DataError{
				DataType: "csv",
				Message:  fmt.Sprintf("row %d: %v", i+1, err),
			}
		}
		stamps[i] = ts
	}

	order := make([]int, len(stamps))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return stamps[order[a]].Before(stamps[order[b]])
	})

	index := make([]time.Time, len(order))
	for i, p := range order {
		index[i] = stamps[p]
	}

	table, err := NewTable(index)
	if err != nil {
		return nil, err
	}

	for _, name := range names {
		if name == opts.TimestampColumn {
			continue
		}
		if containsString(opts.LabelColumns, name) {
			if err := table.AddLabels(name, reorderStrings(df.Col(name).Records(), order)); err != nil {
				return nil, err
			}
			continue
		}

		col := df.Col(name)
		values := col.Float()
		if col.Type() == series.String {
			var parsed, firstText int
			values, parsed, firstText = parseNumeric(col)
			if firstText >= 0 {
				if parsed > 0 {
					return nil, &DataError{
						DataType: "csv",
						Message:  fmt.Sprintf("column %q row %d: %q is not numeric", name, firstText+1, col.Elem(firstText).String()),
					}
				}
				l.logger.Warn("Text column kept as labels", "column", name)
				if err := table.AddLabels(name, reorderStrings(col.Records(), order)); err != nil {
					return nil, err
				}
				continue
			}
		}
		if err := table.AddColumn(name, reorderFloats(values, order)); err != nil {
			return nil, err
		}
	}

	return table, nil
}

// parseNumeric reads a column detected as text as numbers, ignoring
// surrounding spaces. It returns the values, how many parsed, and the first
// row that is neither missing nor numeric (-1 when there is none).
func parseNumeric(s series.Series) ([]float64, int, int) {
	values := make([]float64, s.Len())
	parsed, firstText := 0, -1
	for i := range values {
		values[i] = math.NaN()
		el := s.Elem(i)
		if el.IsNA() {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(el.String()), 64)
		if err != nil {
			if firstText < 0 {
				firstText = i
			}
			continue
		}
		values[i] = v
		parsed++
	}
	return values, parsed, firstText
}

// parseTimestamp parses s using layout, or each known layout when layout is empty.
// Zoned timestamps are converted into loc so calendar days follow loc.
func parseTimestamp(s, layout string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if layout != "" {
		ts, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		return ts.In(loc), nil
	}

	for _, l := range timestampLayouts {
		if ts, err := time.ParseInLocation(l, s, loc); err == nil {
			return ts.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp format: %q", s)
}

func reorderFloats(values []float64, order []int) []float64 {
	out := make([]float64, len(order))
	for i, p := range order {
		out[i] = values[p]
	}
	return out
}

func reorderStrings(values []string, order []int) []string {
	out := make([]string, len(order))
	for i, p := range order {
		out[i] = values[p]
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
