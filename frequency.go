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
	"regexp"
	"strconv"
	"strings"
	"time"
)

// frequencyRe captures an optional multiplier followed by a unit, e.g. "15min", "5 seconds", "1.5H"
var frequencyRe = regexp.MustCompile(`^(\d*\.?\d*)\s*([A-Za-zµ]+)$`)

// frequencyUnits maps offset aliases and spelled-out units to a fixed duration.
// Case matters for the single-letter pandas aliases.
var frequencyUnits = map[string]time.Duration{
	"N":   time.Nanosecond,
	"ns":  time.Nanosecond,
	"U":   time.Microsecond,
	"us":  time.Microsecond,
	"µs":  time.Microsecond,
	"L":   time.Millisecond,
	"ms":  time.Millisecond,
	"S":   time.Second,
	"s":   time.Second,
	"sec": time.Second,
	"T":   time.Minute,
	"min": time.Minute,
	"H":   time.Hour,
	"h":   time.Hour,
	"D":   24 * time.Hour,
	"d":   24 * time.Hour,
	"W":   7 * 24 * time.Hour,
	"w":   7 * 24 * time.Hour,
}

// spelledUnits are matched case-insensitively with an optional plural "s"
var spelledUnits = map[string]time.Duration{
	"nanosecond":  time.Nanosecond,
	"microsecond": time.Microsecond,
	"millisecond": time.Millisecond,
	"sec":         time.Second,
	"second":      time.Second,
	"min":         time.Minute,
	"minute":      time.Minute,
	"hr":          time.Hour,
	"hour":        time.Hour,
	"day":         24 * time.Hour,
	"week":        7 * 24 * time.Hour,
}

// variableUnits have no fixed length and cannot describe sample spacing
var variableUnits = map[string]bool{
	"M": true, "MS": true, "ME": true, "Q": true, "QS": true, "QE": true,
	"A": true, "AS": true, "Y": true, "YS": true, "YE": true,
	"month": true, "quarter": true, "year": true,
}

// ParseFrequency converts a frequency string such as "1min", "5s", "1h" or
// "30 minutes" into a duration. Go duration syntax ("1h30m") is accepted as a
// fallback.
func ParseFrequency(s string) (time.Duration, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &FrequencyError{Value: raw, Message: "frequency is empty"}
	}

	if matches := frequencyRe.FindStringSubmatch(s); matches != nil {
		// 1: Multiplier (e.g., "15", may be empty)
		// 2: Unit (e.g., "min")
		multiplier := 1.0
		if matches[1] != "" {
			v, err := strconv.ParseFloat(matches[1], 64)
			if err != nil {
				return 0, &FrequencyError{Value: raw, Message: "invalid multiplier", Err: err}
			}
			multiplier = v
		}

		unit := matches[2]
		if variableUnits[unit] || variableUnits[strings.TrimSuffix(strings.ToLower(unit), "s")] {
			return 0, &FrequencyError{Value: raw, Message: "calendar offsets have no fixed length"}
		}

		base, ok := frequencyUnits[unit]
		if !ok {
			base, ok = spelledUnits[strings.TrimSuffix(strings.ToLower(unit), "s")]
		}
		if ok {
			d := time.Duration(multiplier * float64(base))
			if d <= 0 {
				return 0, &FrequencyError{Value: raw, Message: "frequency must be positive"}
			}
			return d, nil
		}
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, &FrequencyError{Value: raw, Message: "unrecognised frequency", Err: err}
	}
	if d <= 0 {
		return 0, &FrequencyError{Value: raw, Message: "frequency must be positive"}
	}
	return d, nil
}
