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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
	}{
		{"1min", time.Minute},
		{"15min", 15 * time.Minute},
		{"15T", 15 * time.Minute},
		{"5s", 5 * time.Second},
		{"5S", 5 * time.Second},
		{"1h", time.Hour},
		{"1H", time.Hour},
		{"H", time.Hour},
		{"1.5H", 90 * time.Minute},
		{"1D", 24 * time.Hour},
		{"500ms", 500 * time.Millisecond},
		{"30 minutes", 30 * time.Minute},
		{"2 Hours", 2 * time.Hour},
		{"1 day", 24 * time.Hour},
		{"5 Min", 5 * time.Minute},
		{"5 mins", 5 * time.Minute},
		{"30 secs", 30 * time.Second},
		{"10 Sec", 10 * time.Second},
		{"2 hrs", 2 * time.Hour},
		{" 10min ", 10 * time.Minute},
		{"1h30m", 90 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFrequency(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseFrequencyErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "month offset", input: "1M"},
		{name: "month start offset", input: "MS"},
		{name: "spelled month", input: "2 months"},
		{name: "year", input: "1Y"},
		{name: "zero", input: "0min"},
		{name: "negative duration", input: "-5m"},
		{name: "garbage", input: "often"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFrequency(tt.input)
			var fErr *FrequencyError
			require.ErrorAs(t, err, &fErr)
			assert.Equal(t, tt.input, fErr.Value)
		})
	}
}
