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
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

// testStart is midnight UTC, so hourly rows from it fill whole days
var testStart = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

type namedColumn struct {
	name   string
	values []float64
}

func col(name string, values ...float64) namedColumn {
	return namedColumn{name: name, values: values}
}

// repeat returns n copies of v
func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// stepIndex returns n timestamps spaced step apart from start
func stepIndex(start time.Time, step time.Duration, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * step)
	}
	return out
}

func hourlyIndex(n int) []time.Time {
	return stepIndex(testStart, time.Hour, n)
}

func newTestTable(t *testing.T, index []time.Time, columns ...namedColumn) *Table {
	t.Helper()
	table, err := NewTable(index)
	require.NoError(t, err)
	for _, c := range columns {
		require.NoError(t, table.AddColumn(c.name, c.values))
	}
	return table
}

func float64Ptr(v float64) *float64 {
	return &v
}
