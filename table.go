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
	"math"
	"time"
)

// Table is a timestamp-indexed set of numeric columns. Missing values are NaN.
// String columns (such as a site identifier) are kept separately as labels.
type Table struct {
	index   []time.Time
	names   []string
	columns map[string][]float64
	labels  map[string][]string
}

// NewTable creates an empty table over the given index.
// The index must be monotonically non-decreasing; duplicates are allowed.
func NewTable(index []time.Time) (*Table, error) {
	for i := 1; i < len(index); i++ {
		if index[i].Before(index[i-1]) {
			return nil, &ValidationError{
				Field:   "index",
				Value:   index[i].Format(time.RFC3339),
				Message: fmt.Sprintf("timestamp at row %d is earlier than the previous row", i),
			}
		}
	}

	idx := make([]time.Time, len(index))
	copy(idx, index)

	return &Table{
		index:   idx,
		columns: make(map[string][]float64),
		labels:  make(map[string][]string),
	}, nil
}

// AddColumn attaches a numeric column while the table is being built
func (t *Table) AddColumn(name string, values []float64) error {
	if len(values) != len(t.index) {
		return &LengthError{Column: name, Expected: len(t.index), Actual: len(values)}
	}
	if _, exists := t.columns[name]; exists {
		return &ValidationError{Field: "column", Value: name, Message: "duplicate column name"}
	}

	col := make([]float64, len(values))
	copy(col, values)
	t.columns[name] = col
	t.names = append(t.names, name)
	return nil
}

// AddLabels attaches a string column while the table is being built
func (t *Table) AddLabels(name string, values []string) error {
	if len(values) != len(t.index) {
		return &LengthError{Column: name, Expected: len(t.index), Actual: len(values)}
	}

	col := make([]string, len(values))
	copy(col, values)
	t.labels[name] = col
	return nil
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.index)
}

// Index returns a copy of the timestamp index
func (t *Table) Index() []time.Time {
	out := make([]time.Time, len(t.index))
	copy(out, t.index)
	return out
}

// Columns returns the numeric column names in insertion order
func (t *Table) Columns() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Column returns a copy of the values of a numeric column
func (t *Table) Column(name string) ([]float64, error) {
	col, ok := t.columns[name]
	if !ok {
		return nil, &ColumnError{Column: name, Available: t.Columns()}
	}
	out := make([]float64, len(col))
	copy(out, col)
	return out, nil
}

// Labels returns the values of a string column
func (t *Table) Labels(name string) ([]string, error) {
	col, ok := t.labels[name]
	if !ok {
		available := make([]string, 0, len(t.labels))
		for k := range t.labels {
			available = append(available, k)
		}
		return nil, &ColumnError{Column: name, Available: available}
	}
	out := make([]string, len(col))
	copy(out, col)
	return out, nil
}

// HasColumn reports whether a numeric column exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Select returns a table holding only the named numeric columns.
// Label columns are carried along.
func (t *Table) Select(names ...string) (*Table, error) {
	out := t.emptyLike(t.index)
	for _, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		out.columns[name] = col
		out.names = append(out.names, name)
	}
	for name, col := range t.labels {
		out.labels[name] = append([]string(nil), col...)
	}
	return out, nil
}

// Filter returns the rows where mask is true
func (t *Table) Filter(mask Mask) (*Table, error) {
	if len(mask) != t.Len() {
		return nil, &MaskError{Operation: "filter", Expected: t.Len(), Actual: len(mask)}
	}

	positions := make([]int, 0, mask.Count())
	for i, keep := range mask {
		if keep {
			positions = append(positions, i)
		}
	}
	return t.Rows(positions), nil
}

// Head returns the first n rows (all rows when n <= 0 or n >= Len)
func (t *Table) Head(n int) *Table {
	if n <= 0 || n >= t.Len() {
		n = t.Len()
	}
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i
	}
	return t.Rows(positions)
}

// Rows returns a new table made of the given row positions, in order.
// Positions must be ascending to keep the index ordered.
func (t *Table) Rows(positions []int) *Table {
	index := make([]time.Time, len(positions))
	for i, p := range positions {
		index[i] = t.index[p]
	}

	out := t.emptyLike(index)
	for _, name := range t.names {
		src := t.columns[name]
		col := make([]float64, len(positions))
		for i, p := range positions {
			col[i] = src[p]
		}
		out.columns[name] = col
		out.names = append(out.names, name)
	}
	for name, src := range t.labels {
		col := make([]string, len(positions))
		for i, p := range positions {
			col[i] = src[p]
		}
		out.labels[name] = col
	}
	return out
}

func (t *Table) emptyLike(index []time.Time) *Table {
	return &Table{
		index:   index,
		columns: make(map[string][]float64),
		labels:  make(map[string][]string),
	}
}

// Mask marks rows of a table that satisfy a predicate
type Mask []bool

// Count returns the number of true entries
func (m Mask) Count() int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}

// And combines two masks of equal length
func (m Mask) And(other Mask) (Mask, error) {
	if len(m) != len(other) {
		return nil, &MaskError{Operation: "and", Expected: len(m), Actual: len(other)}
	}
	out := make(Mask, len(m))
	for i := range m {
		out[i] = m[i] && other[i]
	}
	return out, nil
}

// AllTrue returns a mask of n true values
func AllTrue(n int) Mask {
	m := make(Mask, n)
	for i := range m {
		m[i] = true
	}
	return m
}

// Series is a single value per timestamp; NaN marks a gap
type Series struct {
	Index  []time.Time
	Values []float64
}

// Len returns the number of entries
func (s Series) Len() int {
	return len(s.Values)
}

// Gaps returns the number of NaN entries
func (s Series) Gaps() int {
	n := 0
	for _, v := range s.Values {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}
