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
	"time"
)

// Filterer computes masks and scores over a single production table.
// It never modifies the table it wraps.
type Filterer struct {
	table *Table
}

// NewFilterer wraps a table
func NewFilterer(t *Table) *Filterer {
	return &Filterer{table: t}
}

// OutOfBounds marks rows of col that lie within bounds.
// With max set the range is inclusive on both ends; without max the value
// must be strictly greater than min. Missing values are never within bounds.
func (f *Filterer) OutOfBounds(col string, min float64, max *float64) (Mask, error) {
	values, err := f.table.Column(col)
	if err != nil {
		return nil, err
	}

	mask := make(Mask, len(values))
	for i, v := range values {
		if max != nil {
			mask[i] = v >= min && v <= *max
		} else {
			mask[i] = v > min
		}
	}
	return mask, nil
}

// IntervalChange flags stagnant data and abrupt changes of col using the
// spread between the max and min of a trailing window. It returns the rows
// that pass together with the mask (true = pass).
func (f *Filterer) IntervalChange(col string, window time.Duration, bound DeltaBound, direction Direction) (*Table, Mask, error) {
	return f.CheckDelta(DeltaCheck{
		Column:    col,
		Window:    window,
		Bound:     bound,
		Direction: direction,
	})
}

// CheckDelta runs a fully specified delta check
func (f *Filterer) CheckDelta(check DeltaCheck) (*Table, Mask, error) {
	if err := check.Validate(); err != nil {
		return nil, nil, err
	}
	values, err := f.table.Column(check.Column)
	if err != nil {
		return nil, nil, err
	}

	// Each bound is its own test; short runs are dropped before combining
	index := f.table.Index()
	stagnant := flagDeltas(index, values, check.Window, DeltaBound{Lower: check.Bound.Lower}, check.Direction)
	dropShortRuns(stagnant, check.MinFailures)
	abrupt := flagDeltas(index, values, check.Window, DeltaBound{Upper: check.Bound.Upper}, check.Direction)
	dropShortRuns(abrupt, check.MinFailures)

	mask := make(Mask, len(values))
	for i := range mask {
		mask[i] = !stagnant[i] && !abrupt[i]
	}

	passed, err := f.table.Filter(mask)
	if err != nil {
		return nil, nil, err
	}
	return passed, mask, nil
}

// DailyCompleteness returns one completeness score per calendar day
func (f *Filterer) DailyCompleteness(frequency string) ([]DayScore, error) {
	freq, err := ParseFrequency(frequency)
	if err != nil {
		return nil, err
	}
	return dailyCompleteness(f.table, freq)
}

// CompletenessScore returns the daily completeness broadcast onto every
// timestamp of the table. The completeness of a day is the fraction of the
// day covered by non-missing values, where each value accounts for one
// frequency interval, averaged across columns.
func (f *Filterer) CompletenessScore(frequency string) (Series, error) {
	daily, err := f.DailyCompleteness(frequency)
	if err != nil {
		return Series{}, err
	}
	return broadcastDaily(f.table.Index(), daily), nil
}
