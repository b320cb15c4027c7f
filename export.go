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
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
)

// DailyCompletenessRecord is one row of the daily completeness export
type DailyCompletenessRecord struct {
	RunID  string    `parquet:"run_id,snappy"`
	Day    time.Time `parquet:"day,snappy"`
	Score  float64   `parquet:"score,snappy"`
	Status string    `parquet:"status,snappy"`
}

// CheckRowRecord records whether a single row passed a single check
type CheckRowRecord struct {
	RunID     string    `parquet:"run_id,snappy"`
	Timestamp time.Time `parquet:"timestamp,snappy"`
	Check     string    `parquet:"check,snappy"`
	Passed    bool      `parquet:"passed,snappy"`
}

// ConvertDailyRecords flattens the daily scores of a result
func ConvertDailyRecords(result *AuditResult) []DailyCompletenessRecord {
	records := make([]DailyCompletenessRecord, 0, len(result.Daily))
	for _, d := range result.Daily {
		records = append(records, DailyCompletenessRecord{
			RunID:  result.RunID,
			Day:    d.Day,
			Score:  d.Score,
			Status: d.Status,
		})
	}
	return records
}

// ConvertCheckRecords flattens every check mask against the table index
func ConvertCheckRecords(result *AuditResult, index []time.Time) ([]CheckRowRecord, error) {
	var records []CheckRowRecord
	for _, c := range result.Checks {
		if len(c.Mask) != len(index) {
			return nil, &MaskError{Operation: "export " + c.Name, Expected: len(index), Actual: len(c.Mask)}
		}
		for i, passed := range c.Mask {
			records = append(records, CheckRowRecord{
				RunID:     result.RunID,
				Timestamp: index[i],
				Check:     c.Name,
				Passed:    passed,
			})
		}
	}
	return records, nil
}

// ExportParquet writes <prefix>.daily.parquet and, when checks ran,
// <prefix>.checks.parquet. It returns the paths written.
func ExportParquet(result *AuditResult, index []time.Time, prefix string) ([]string, error) {
	dailyPath := prefix + ".daily.parquet"
	if err := writeParquet(dailyPath, ConvertDailyRecords(result)); err != nil {
		return nil, err
	}
	written := []string{dailyPath}

	if len(result.Checks) == 0 {
		return written, nil
	}

	checks, err := ConvertCheckRecords(result, index)
	if err != nil {
		return nil, err
	}
	checksPath := prefix + ".checks.parquet"
	if err := writeParquet(checksPath, checks); err != nil {
		return nil, err
	}
	return append(written, checksPath), nil
}

func writeParquet[T any](path string, data []T) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
