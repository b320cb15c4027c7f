// Copyright 2025 Matthew Gall <me@matthewgall.dev>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Analyzer runs the configured data-quality checks over a table
type Analyzer struct {
	config *Config
	logger *Logger

	cache    *Cache
	cacheKey string
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(config *Config, logger *Logger) *Analyzer {
	return &Analyzer{
		config: config,
		logger: logger.WithComponent("analyzer"),
	}
}

// UseCache reuses daily completeness stored under key
func (a *Analyzer) UseCache(cache *Cache, key string) {
	a.cache = cache
	a.cacheKey = key
}

// Analyze performs the complete audit of a table
func (a *Analyzer) Analyze(table *Table) (*AuditResult, error) {
	a.logger.Info("Starting analysis")

	if table.Len() == 0 {
		return nil, &DataError{
			DataType: "table",
			Message:  "production data is required for analysis",
		}
	}

	index := table.Index()
	result := &AuditResult{
		RunID:                uuid.NewString(),
		GeneratedAt:          time.Now(),
		Source:               a.config.Input,
		Frequency:            a.config.Frequency,
		Rows:                 table.Len(),
		Columns:              table.Columns(),
		PeriodStart:          index[0],
		PeriodEnd:            index[len(index)-1],
		MinDailyCompleteness: a.config.MinDailyCompleteness,
	}

	filterer := NewFilterer(table)

	// Completeness
	daily, err := a.dailyCompleteness(filterer)
	if err != nil {
		return nil, fmt.Errorf("completeness score: %w", err)
	}
	result.Daily = a.labelDays(daily)
	result.AvgCompleteness = averageScore(daily)
	for _, d := range result.Daily {
		switch d.Status {
		case DayOverfull:
			result.OverfullDays++
			a.logger.LogCompletenessOverflow(d.Day.Format("2006-01-02"), d.Score)
		case DayIncomplete, DaySparse:
			result.IncompleteDays++
		}
	}
	a.logger.LogAnalysisStage("completeness")

	// Boundary filters
	combined := AllTrue(table.Len())
	for _, rule := range a.config.Bounds {
		mask, err := filterer.OutOfBounds(rule.Column, rule.Min, rule.Max)
		if err != nil {
			return nil, fmt.Errorf("bounds check on %s: %w", rule.Column, err)
		}
		check := newCheckResult(CheckKindBounds, rule.Column, describeBounds(rule), mask)
		a.logger.LogMaskCoverage(check.Name, check.Passed, check.Total)
		result.Checks = append(result.Checks, check)

		if combined, err = combined.And(mask); err != nil {
			return nil, err
		}
	}
	if len(a.config.Bounds) > 0 {
		a.logger.LogAnalysisStage("bounds")
	}

	// Delta checks
	for _, rule := range a.config.DeltaChecks {
		_, mask, err := filterer.CheckDelta(rule.Check())
		if err != nil {
			return nil, fmt.Errorf("delta check on %s: %w", rule.Column, err)
		}
		check := newCheckResult(CheckKindDelta, rule.Column, describeDelta(rule.Check()), mask)
		a.logger.LogMaskCoverage(check.Name, check.Passed, check.Total)
		result.Checks = append(result.Checks, check)

		if combined, err = combined.And(mask); err != nil {
			return nil, err
		}
	}
	if len(a.config.DeltaChecks) > 0 {
		a.logger.LogAnalysisStage("delta")
	}

	result.CombinedMask = combined
	result.RowsPassing = combined.Count()

	a.logger.Info("Analysis completed",
		"days", len(result.Daily),
		"incomplete_days", result.IncompleteDays,
		"checks", len(result.Checks),
		"rows_passing", result.RowsPassing,
	)

	return result, nil
}

// dailyCompleteness scores every day, going through the cache when one is set
func (a *Analyzer) dailyCompleteness(filterer *Filterer) ([]DayScore, error) {
	if a.cache == nil || a.cacheKey == "" {
		return filterer.DailyCompleteness(a.config.Frequency)
	}

	var daily []DayScore
	if found, err := a.cache.Get(a.cacheKey, &daily); err != nil {
		a.logger.Warn("Failed to read cached completeness", "error", err)
	} else if found {
		return daily, nil
	}

	daily, err := filterer.DailyCompleteness(a.config.Frequency)
	if err != nil {
		return nil, err
	}
	if err := a.cache.Set(a.cacheKey, daily, completenessTTL); err != nil {
		a.logger.Warn("Failed to cache completeness", "error", err)
	}
	return daily, nil
}

// labelDays attaches a status to every day score
func (a *Analyzer) labelDays(daily []DayScore) []DailyCompleteness {
	out := make([]DailyCompleteness, len(daily))
	for i, d := range daily {
		out[i] = DailyCompleteness{
			Day:    d.Day,
			Score:  d.Score,
			Status: dayStatus(d.Score, a.config.MinDailyCompleteness),
		}
	}
	return out
}

// dayStatus classifies a completeness score
func dayStatus(score, threshold float64) string {
	switch {
	case score > 1.0:
		return DayOverfull
	case score >= threshold:
		return DayComplete
	case score >= PartialCompleteness:
		return DayIncomplete
	default:
		return DaySparse
	}
}

// averageScore is the mean of the daily scores
func averageScore(daily []DayScore) float64 {
	if len(daily) == 0 {
		return 0
	}
	total := 0.0
	for _, d := range daily {
		total += d.Score
	}
	return total / float64(len(daily))
}

func newCheckResult(kind, column, description string, mask Mask) CheckResult {
	check := CheckResult{
		Name:        fmt.Sprintf("%s:%s", kind, column),
		Kind:        kind,
		Column:      column,
		Description: description,
		Passed:      mask.Count(),
		Total:       len(mask),
		Mask:        mask,
	}
	if check.Total > 0 {
		check.PassRate = float64(check.Passed) / float64(check.Total)
	}
	return check
}

func describeBounds(rule BoundRule) string {
	if rule.Max != nil {
		return fmt.Sprintf("%g ≤ %s ≤ %g", rule.Min, rule.Column, *rule.Max)
	}
	return fmt.Sprintf("%s > %g", rule.Column, rule.Min)
}

func describeDelta(check DeltaCheck) string {
	lower, upper := "-∞", "∞"
	if check.Bound.Lower != nil {
		lower = fmt.Sprintf("%g", *check.Bound.Lower)
	}
	if check.Bound.Upper != nil {
		upper = fmt.Sprintf("%g", *check.Bound.Upper)
	}
	return fmt.Sprintf("Δ over %s in [%s, %s] (%s)", check.Window, lower, upper, check.Direction)
}

// FormatPercentage formats a 0-1 fraction as a percentage
func FormatPercentage(value float64) string {
	return fmt.Sprintf("%.1f%%", value*100)
}
