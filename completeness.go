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
	"time"
)

// DayScore is the completeness of a single calendar day
type DayScore struct {
	Day   time.Time `json:"day"`
	Score float64   `json:"score"`
}

// startOfDay truncates a timestamp to midnight in its own location
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dailyCompleteness computes the average per-column coverage of every calendar
// day between the first and last timestamp. Days without rows score zero.
// Scores are not clamped: duplicate timestamps can push a day above 1.0.
func dailyCompleteness(t *Table, freq time.Duration) ([]DayScore, error) {
	if t.Len() == 0 {
		return nil, &DataError{DataType: "completeness", Message: "table has no rows"}
	}
	names := t.Columns()
	if len(names) == 0 {
		return nil, &DataError{DataType: "completeness", Message: "table has no numeric columns"}
	}

	index := t.Index()
	loc := index[0].Location()
	first := startOfDay(index[0])
	last := startOfDay(index[len(index)-1].In(loc))

	// Day start (unix seconds) -> position in days
	var days []time.Time
	position := make(map[int64]int)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		position[d.Unix()] = len(days)
		days = append(days, d)
	}

	// Per-day coverage summed across columns
	coverage := make([]float64, len(days))
	freqSeconds := freq.Seconds()
	for _, name := range names {
		values, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		counts := make([]int, len(days))
		for i, v := range values {
			if math.IsNaN(v) {
				continue
			}
			counts[position[startOfDay(index[i].In(loc)).Unix()]]++
		}
		for d, c := range counts {
			coverage[d] += float64(c) * freqSeconds / secondsPerDay
		}
	}

	scores := make([]DayScore, len(days))
	for d, day := range days {
		scores[d] = DayScore{Day: day, Score: coverage[d] / float64(len(names))}
	}
	return scores, nil
}

// broadcastDaily forward-fills daily scores onto every timestamp of index.
// A timestamp that precedes every day start is left as NaN.
func broadcastDaily(index []time.Time, daily []DayScore) Series {
	out := Series{
		Index:  index,
		Values: make([]float64, len(index)),
	}

	d := -1
	for i, ts := range index {
		for d+1 < len(daily) && !daily[d+1].Day.After(ts) {
			d++
		}
		if d < 0 {
			out.Values[i] = math.NaN()
			continue
		}
		out.Values[i] = daily[d].Score
	}
	return out
}
