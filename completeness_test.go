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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletenessScoreFullDay(t *testing.T) {
	table := newTestTable(t, hourlyIndex(24), col("power", repeat(1, 24)...))

	score, err := NewFilterer(table).CompletenessScore("1h")
	require.NoError(t, err)
	require.Equal(t, 24, score.Len())
	for _, v := range score.Values {
		assert.InDelta(t, 1.0, v, 1e-9)
	}
}

func TestCompletenessScoreHalfMissing(t *testing.T) {
	values := repeat(1, 24)
	for i := 0; i < 24; i += 2 {
		values[i] = nan
	}
	table := newTestTable(t, hourlyIndex(24), col("power", values...))

	score, err := NewFilterer(table).CompletenessScore("1h")
	require.NoError(t, err)
	for _, v := range score.Values {
		assert.InDelta(t, 0.5, v, 1e-9)
	}
}

func TestCompletenessScoreAveragesColumns(t *testing.T) {
	table := newTestTable(t, hourlyIndex(24),
		col("power", repeat(1, 24)...),
		col("irradiance", repeat(nan, 24)...),
	)

	daily, err := NewFilterer(table).DailyCompleteness("60min")
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.InDelta(t, 0.5, daily[0].Score, 1e-9)
}

func TestCompletenessScoreIgnoresLabels(t *testing.T) {
	table := newTestTable(t, hourlyIndex(24), col("power", repeat(1, 24)...))
	sites := make([]string, 24)
	require.NoError(t, table.AddLabels("randid", sites))

	daily, err := NewFilterer(table).DailyCompleteness("1h")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, daily[0].Score, 1e-9)
}

func TestDailyCompletenessIncludesEmptyDays(t *testing.T) {
	// 24 rows on day one, nothing on day two, 12 rows on day three
	index := hourlyIndex(24)
	index = append(index, stepIndex(testStart.AddDate(0, 0, 2), time.Hour, 12)...)
	table := newTestTable(t, index, col("power", repeat(2, 36)...))

	daily, err := NewFilterer(table).DailyCompleteness("1h")
	require.NoError(t, err)
	require.Len(t, daily, 3)

	assert.Equal(t, testStart, daily[0].Day)
	assert.Equal(t, testStart.AddDate(0, 0, 1), daily[1].Day)
	assert.InDelta(t, 1.0, daily[0].Score, 1e-9)
	assert.InDelta(t, 0.0, daily[1].Score, 1e-9)
	assert.InDelta(t, 0.5, daily[2].Score, 1e-9)

	score, err := NewFilterer(table).CompletenessScore("1h")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score.Values[0], 1e-9)
	assert.InDelta(t, 0.5, score.Values[35], 1e-9)
	assert.Equal(t, index, score.Index)
}

func TestCompletenessScoreConstantWithinDay(t *testing.T) {
	values := repeat(1, 48)
	for i := 30; i < 40; i++ {
		values[i] = nan
	}
	table := newTestTable(t, hourlyIndex(48), col("power", values...))

	score, err := NewFilterer(table).CompletenessScore("1h")
	require.NoError(t, err)
	for i := 1; i < 24; i++ {
		assert.Equal(t, score.Values[0], score.Values[i])
	}
	for i := 25; i < 48; i++ {
		assert.Equal(t, score.Values[24], score.Values[i])
	}
	assert.InDelta(t, 14.0/24.0, score.Values[24], 1e-9)
}

func TestCompletenessScoreNotClamped(t *testing.T) {
	// Every hour appears twice
	var index []time.Time
	for _, ts := range hourlyIndex(24) {
		index = append(index, ts, ts)
	}
	table := newTestTable(t, index, col("power", repeat(1, 48)...))

	daily, err := NewFilterer(table).DailyCompleteness("1h")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, daily[0].Score, 1e-9)
}

func TestCompletenessScoreSubSecondFrequency(t *testing.T) {
	table := newTestTable(t, stepIndex(testStart, 500*time.Millisecond, 4), col("power", 1, 2, 3, 4))

	daily, err := NewFilterer(table).DailyCompleteness("500ms")
	require.NoError(t, err)
	assert.InDelta(t, 2.0/secondsPerDay, daily[0].Score, 1e-12)
}

func TestCompletenessScoreFollowsIndexLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, loc)
	table := newTestTable(t, stepIndex(start, time.Hour, 24), col("power", repeat(1, 24)...))

	daily, err := NewFilterer(table).DailyCompleteness("1h")
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.InDelta(t, 1.0, daily[0].Score, 1e-9)
	assert.True(t, start.Equal(daily[0].Day))
}

func TestCompletenessScoreErrors(t *testing.T) {
	t.Run("empty table", func(t *testing.T) {
		table := newTestTable(t, nil, col("power"))
		_, err := NewFilterer(table).CompletenessScore("1h")
		var dErr *DataError
		require.ErrorAs(t, err, &dErr)
	})

	t.Run("no numeric columns", func(t *testing.T) {
		table := newTestTable(t, hourlyIndex(2))
		_, err := NewFilterer(table).CompletenessScore("1h")
		var dErr *DataError
		require.ErrorAs(t, err, &dErr)
	})

	t.Run("unparseable frequency", func(t *testing.T) {
		table := newTestTable(t, hourlyIndex(2), col("power", 1, 2))
		_, err := NewFilterer(table).CompletenessScore("1M")
		var fErr *FrequencyError
		require.ErrorAs(t, err, &fErr)
	})
}

func TestBroadcastDailyBeforeFirstDay(t *testing.T) {
	daily := []DayScore{{Day: testStart.AddDate(0, 0, 1), Score: 0.75}}
	index := []time.Time{testStart.Add(23 * time.Hour), testStart.AddDate(0, 0, 1).Add(time.Hour)}

	s := broadcastDaily(index, daily)
	assert.True(t, math.IsNaN(s.Values[0]))
	assert.Equal(t, 0.75, s.Values[1])
}
