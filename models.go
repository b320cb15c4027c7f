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
	"time"
)

// Check kinds
const (
	CheckKindBounds = "bounds"
	CheckKindDelta  = "delta"
)

// Day status labels
const (
	DayComplete   = "complete"
	DayIncomplete = "incomplete"
	DaySparse     = "sparse"
	DayOverfull   = "overfull"
)

// CheckResult summarises one filter run over the table
type CheckResult struct {
	Name        string  `json:"name"`
	Kind        string  `json:"kind"` // bounds, delta
	Column      string  `json:"column"`
	Description string  `json:"description"`
	Passed      int     `json:"passed"`
	Total       int     `json:"total"`
	PassRate    float64 `json:"passRate"` // 0-1
	Mask        Mask    `json:"-"`
}

// DailyCompleteness is a day score together with its status label
type DailyCompleteness struct {
	Day    time.Time `json:"day"`
	Score  float64   `json:"score"`
	Status string    `json:"status"` // complete, incomplete, sparse, overfull
}

// AuditResult holds the complete audit output
type AuditResult struct {
	RunID       string    `json:"runId"`
	GeneratedAt time.Time `json:"generatedAt"`
	Source      string    `json:"source"`
	SourceBytes int64     `json:"sourceBytes"`
	Frequency   string    `json:"frequency"`
	Rows        int       `json:"rows"`
	Columns     []string  `json:"columns"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`

	Daily                []DailyCompleteness `json:"daily"`
	AvgCompleteness      float64             `json:"avgCompleteness"`
	MinDailyCompleteness float64             `json:"minDailyCompleteness"`
	IncompleteDays       int                 `json:"incompleteDays"`
	OverfullDays         int                 `json:"overfullDays"`

	Checks       []CheckResult `json:"checks"`
	RowsPassing  int           `json:"rowsPassing"`
	CombinedMask Mask          `json:"-"`

	// Previous run for the same source, if any
	PreviousRunID           string   `json:"previousRunId,omitempty"`
	PreviousAvgCompleteness *float64 `json:"previousAvgCompleteness,omitempty"`

	// Charts (base64 encoded PNG images)
	DailyCompletenessChart string `json:"dailyCompletenessChart,omitempty"`
	CheckPassRateChart     string `json:"checkPassRateChart,omitempty"`
	TimeseriesFigure       string `json:"timeseriesFigure,omitempty"`
}
