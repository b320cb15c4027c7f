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

// Direction restricts which deltas count against the upper bound
type Direction string

const (
	// DirectionPositive only considers windows where the minimum occurs before the maximum
	DirectionPositive Direction = "positive"
	// DirectionNegative only considers windows where the maximum occurs before the minimum
	DirectionNegative Direction = "negative"
	// DirectionBoth considers every window
	DirectionBoth Direction = "both"
)

// DeltaBound is the allowed [lower, upper] spread of a window; nil is unbounded
type DeltaBound struct {
	Lower *float64 `yaml:"lower" json:"lower,omitempty"`
	Upper *float64 `yaml:"upper" json:"upper,omitempty"`
}

// DeltaCheck describes a rolling-window stagnation / abrupt change check
type DeltaCheck struct {
	Column      string        `json:"column"`
	Window      time.Duration `json:"window"`
	Bound       DeltaBound    `json:"bound"`
	Direction   Direction     `json:"direction"`
	MinFailures int           `json:"minFailures"`
}

// Validate checks the window, bound and direction
func (c DeltaCheck) Validate() error {
	if c.Window <= 0 {
		return &ValidationError{Field: "window", Value: c.Window.String(), Message: "window must be positive"}
	}
	if c.Bound.Lower != nil && c.Bound.Upper != nil && *c.Bound.Lower > *c.Bound.Upper {
		return &ValidationError{
			Field:   "bound",
			Value:   fmt.Sprintf("[%g, %g]", *c.Bound.Lower, *c.Bound.Upper),
			Message: "lower bound is greater than upper bound",
		}
	}
	switch c.Direction {
	case "", DirectionPositive, DirectionNegative, DirectionBoth:
	default:
		return &ValidationError{Field: "direction", Value: string(c.Direction), Message: "must be positive, negative or both"}
	}
	if c.MinFailures < 0 {
		return &ValidationError{Field: "min_failures", Value: fmt.Sprint(c.MinFailures), Message: "must not be negative"}
	}
	return nil
}

// flagDeltas marks rows belonging to a trailing window whose max-min spread
// violates bound. Only windows that fit entirely inside the series are
// evaluated, and each needs at least two non-missing values.
func flagDeltas(index []time.Time, values []float64, window time.Duration, bound DeltaBound, direction Direction) []bool {
	n := len(values)
	flagged := make([]bool, n)
	if n == 0 {
		return flagged
	}

	mark := func(from, to int) {
		for k := from; k <= to; k++ {
			flagged[k] = true
		}
	}

	firstComplete := index[0].Add(window)
	start := 0
	for i := 0; i < n; i++ {
		windowStart := index[i].Add(-window)
		for index[start].Before(windowStart) {
			start++
		}
		if index[i].Before(firstComplete) {
			continue
		}

		minIdx, maxIdx, count := -1, -1, 0
		for j := start; j <= i; j++ {
			v := values[j]
			if math.IsNaN(v) {
				continue
			}
			count++
			if minIdx < 0 || v < values[minIdx] {
				minIdx = j
			}
			if maxIdx < 0 || v > values[maxIdx] {
				maxIdx = j
			}
		}
		if count < 2 {
			continue
		}

		delta := values[maxIdx] - values[minIdx]

		// Stagnation: the whole window is flat
		if bound.Lower != nil && delta < *bound.Lower {
			mark(start, i)
		}

		// Abrupt change: flag the span between the extremes
		if bound.Upper != nil && delta > *bound.Upper {
			switch direction {
			case DirectionPositive:
				if minIdx < maxIdx {
					mark(minIdx, maxIdx)
				}
			case DirectionNegative:
				if maxIdx < minIdx {
					mark(maxIdx, minIdx)
				}
			default:
				mark(min(minIdx, maxIdx), max(minIdx, maxIdx))
			}
		}
	}

	return flagged
}

// dropShortRuns clears runs of consecutive flags shorter than minFailures
func dropShortRuns(flagged []bool, minFailures int) {
	if minFailures <= 1 {
		return
	}
	for i := 0; i < len(flagged); {
		if !flagged[i] {
			i++
			continue
		}
		j := i
		for j < len(flagged) && flagged[j] {
			j++
		}
		if j-i < minFailures {
			for k := i; k < j; k++ {
				flagged[k] = false
			}
		}
		i = j
	}
}
