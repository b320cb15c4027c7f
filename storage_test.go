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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedResult(source, runID string, generated time.Time, avg float64) *AuditResult {
	return &AuditResult{
		RunID:           runID,
		GeneratedAt:     generated,
		Source:          source,
		Frequency:       "1h",
		Rows:            24,
		AvgCompleteness: avg,
		Daily:           []DailyCompleteness{{Day: testStart, Score: avg, Status: DayComplete}},
		CombinedMask:    AllTrue(24),
	}
}

func TestSourceKey(t *testing.T) {
	tests := []struct {
		source string
		prefix string
	}{
		{"data/site-1.csv", "site-1-"},
		{"/tmp/my site (2).csv", "my_site_2_-"},
		{"plain", "plain-"},
		{"", "input-"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			key := sourceKey(tt.source)
			assert.True(t, strings.HasPrefix(key, tt.prefix), key)
			assert.Len(t, key, len(tt.prefix)+8)
			assert.Equal(t, key, sourceKey(tt.source))
		})
	}
}

func TestSourceKeySeparatesDirectories(t *testing.T) {
	assert.NotEqual(t, sourceKey("a/site.csv"), sourceKey("b/site.csv"))
	assert.Equal(t, sourceKey("a/site.csv"), sourceKey("a/../a/site.csv"))
}

func TestStorageSaveAndLoadLatest(t *testing.T) {
	storage, err := NewStorage(t.TempDir(), NewDiscardLogger())
	require.NoError(t, err)

	older := storedResult("data/site.csv", "11111111-aaaa", testStart, 0.5)
	newer := storedResult("data/site.csv", "22222222-bbbb", testStart.Add(time.Hour), 0.8)
	other := storedResult("data/other.csv", "33333333-cccc", testStart.Add(2*time.Hour), 0.1)

	for _, r := range []*AuditResult{older, newer, other} {
		path, err := storage.SaveAuditResult(r)
		require.NoError(t, err)
		assert.FileExists(t, path)
	}

	elsewhere, err := storage.LoadLatestAudit("elsewhere/site.csv")
	require.NoError(t, err)
	assert.Nil(t, elsewhere)

	latest, err := storage.LoadLatestAudit("data/site.csv")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "22222222-bbbb", latest.RunID)
	assert.InDelta(t, 0.8, latest.AvgCompleteness, 1e-9)
	require.Len(t, latest.Daily, 1)
	assert.True(t, testStart.Equal(latest.Daily[0].Day))

	// Masks are not persisted
	assert.Nil(t, latest.CombinedMask)

	files, err := storage.ListStoredFiles()
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestStorageLoadLatestNone(t *testing.T) {
	storage, err := NewStorage(t.TempDir(), NewDiscardLogger())
	require.NoError(t, err)

	latest, err := storage.LoadLatestAudit("site.csv")
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestStorageCorruptAudit(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewStorage(dir, NewDiscardLogger())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, sourceKey("site.csv")+"_audit_2024-06-01_00-00-00_x.json"), []byte("{"), 0644))

	_, err = storage.LoadLatestAudit("site.csv")
	var sErr *StorageError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, "decode_json", sErr.Operation)
}
