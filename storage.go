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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Storage handles persistent storage of audit results
type Storage struct {
	basePath string
	logger   *Logger
}

// NewStorage creates a new storage handler
func NewStorage(basePath string, logger *Logger) (*Storage, error) {
	// Ensure storage directory exists
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, &StorageError{
			Operation: "create_directory",
			Path:      basePath,
			Err:       err,
		}
	}

	logger.Debug("Storage initialized", "path", basePath)

	return &Storage{
		basePath: basePath,
		logger:   logger,
	}, nil
}

// sourceKey turns an input path into a file name prefix. The base name keeps
// files readable and a hash of the absolute path keeps same-named inputs
// in different directories apart.
func sourceKey(source string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	key := unsafeKeyChars.ReplaceAllString(base, "_")
	if key == "" || key == "_" || source == "" {
		key = "input"
	}

	abs, err := filepath.Abs(source)
	if err != nil {
		abs = source
	}
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(abs)))
	return fmt.Sprintf("%s-%s", key, id.String()[:8])
}

// SaveAuditResult saves an audit result
func (s *Storage) SaveAuditResult(result *AuditResult) (string, error) {
	runID := result.RunID
	if len(runID) > 8 {
		runID = runID[:8]
	}
	filename := fmt.Sprintf("%s_audit_%s_%s.json",
		sourceKey(result.Source),
		result.GeneratedAt.Format("2006-01-02_15-04-05"),
		runID,
	)
	path := filepath.Join(s.basePath, filename)

	s.logger.LogStorageOperation("save_audit", path)

	return path, s.saveJSON(path, result)
}

// LoadLatestAudit loads the most recent audit result for the given source
func (s *Storage) LoadLatestAudit(source string) (*AuditResult, error) {
	pattern := filepath.Join(s.basePath, fmt.Sprintf("%s_audit_*.json", sourceKey(source)))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, &StorageError{
			Operation: "glob_audit",
			Path:      pattern,
			Err:       err,
		}
	}

	if len(matches) == 0 {
		return nil, nil // No previous audit found
	}

	// File names embed the generation time, so the last one is the newest
	sort.Strings(matches)
	latestFile := matches[len(matches)-1]

	s.logger.LogStorageOperation("load_latest_audit", latestFile)

	var result AuditResult
	if err := s.loadJSON(latestFile, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// saveJSON saves data as JSON to a file
func (s *Storage) saveJSON(path string, data interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return &StorageError{
			Operation: "create_file",
			Path:      path,
			Err:       err,
		}
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(data); err != nil {
		return &StorageError{
			Operation: "encode_json",
			Path:      path,
			Err:       err,
		}
	}

	return nil
}

// loadJSON loads data from a JSON file
func (s *Storage) loadJSON(path string, target interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return &StorageError{
			Operation: "open_file",
			Path:      path,
			Err:       err,
		}
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(target); err != nil {
		return &StorageError{
			Operation: "decode_json",
			Path:      path,
			Err:       err,
		}
	}

	return nil
}

// ListStoredFiles lists all files in the storage directory
func (s *Storage) ListStoredFiles() ([]string, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, &StorageError{
			Operation: "list_directory",
			Path:      s.basePath,
			Err:       err,
		}
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}

	return files, nil
}
