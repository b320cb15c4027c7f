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
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordStructTags(t *testing.T) {
	tests := []struct {
		name    string
		schema  *parquet.Schema
		columns []string
	}{
		{
			name:    "daily",
			schema:  parquet.SchemaOf(new(DailyCompletenessRecord)),
			columns: []string{"run_id", "day", "score", "status"},
		},
		{
			name:    "checks",
			schema:  parquet.SchemaOf(new(CheckRowRecord)),
			columns: []string{"run_id", "timestamp", "check", "passed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, name := range tt.columns {
				_, ok := tt.schema.Lookup(name)
				assert.True(t, ok, "column %s should exist in schema", name)
			}
		})
	}
}

func TestExportParquet(t *testing.T) {
	result, err := NewAnalyzer(auditConfig(), NewDiscardLogger()).Analyze(auditTable(t))
	require.NoError(t, err)

	prefix := filepath.Join(t.TempDir(), "audit")
	paths, err := ExportParquet(result, hourlyIndex(48), prefix)
	require.NoError(t, err)
	require.Equal(t, []string{prefix + ".daily.parquet", prefix + ".checks.parquet"}, paths)

	daily, err := parquet.ReadFile[DailyCompletenessRecord](paths[0])
	require.NoError(t, err)
	require.Len(t, daily, 2)
	assert.Equal(t, result.RunID, daily[0].RunID)
	assert.InDelta(t, 0.5, daily[1].Score, 1e-9)
	assert.Equal(t, DayIncomplete, daily[1].Status)

	checks, err := parquet.ReadFile[CheckRowRecord](paths[1])
	require.NoError(t, err)
	require.Len(t, checks, 48)
	assert.False(t, checks[5].Passed)
	assert.True(t, checks[6].Passed)
}

func TestExportParquetWithoutChecks(t *testing.T) {
	config := auditConfig()
	config.Bounds = nil
	result, err := NewAnalyzer(config, NewDiscardLogger()).Analyze(auditTable(t))
	require.NoError(t, err)

	prefix := filepath.Join(t.TempDir(), "audit")
	paths, err := ExportParquet(result, hourlyIndex(48), prefix)
	require.NoError(t, err)
	assert.Equal(t, []string{prefix + ".daily.parquet"}, paths)

	_, err = os.Stat(prefix + ".checks.parquet")
	assert.True(t, os.IsNotExist(err))
}

func TestConvertCheckRecordsMaskMismatch(t *testing.T) {
	result := &AuditResult{Checks: []CheckResult{{Name: "bounds:x", Mask: Mask{true}}}}
	_, err := ConvertCheckRecords(result, hourlyIndex(2))

	var mErr *MaskError
	require.ErrorAs(t, err, &mErr)
}
