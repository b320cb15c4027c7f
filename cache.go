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
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	cacheFileName      = "cache.json"
	completenessTTL    = 7 * 24 * time.Hour
	completenessPrefix = "completeness"
)

// CacheEntry represents a single cached item with expiration
type CacheEntry struct {
	Data      json.RawMessage `json:"data"`
	CachedAt  time.Time       `json:"cached_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// CacheStore holds all cache entries
type CacheStore struct {
	Entries map[string]*CacheEntry `json:"entries"`
}

// Cache is a JSON file cache for derived results such as daily completeness
type Cache struct {
	filePath string
	store    *CacheStore
	mutex    sync.RWMutex
	logger   *Logger
}

// NewCache creates a new JSON file cache in basePath
func NewCache(basePath string, logger *Logger) (*Cache, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, &StorageError{Operation: "create_directory", Path: basePath, Err: err}
	}

	cache := &Cache{
		filePath: filepath.Join(basePath, cacheFileName),
		store:    &CacheStore{Entries: make(map[string]*CacheEntry)},
		logger:   logger,
	}

	// Load existing cache from file
	if err := cache.load(); err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to load cache, starting fresh", "error", err)
		}
	}

	// Clean expired entries on startup
	if err := cache.cleanExpired(); err != nil {
		logger.Warn("Failed to clean cache", "error", err)
	}

	logger.Debug("Cache initialized", "path", cache.filePath, "entries", len(cache.store.Entries))

	return cache, nil
}

// CompletenessKey identifies the daily completeness of one version of a file
// loaded with opts. Any change to the file size, modification time, frequency
// or load options yields a new key.
func CompletenessKey(path, frequency string, opts CSVOptions) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	timezone := time.UTC.String()
	if opts.Location != nil {
		timezone = opts.Location.String()
	}
	labels := append([]string(nil), opts.LabelColumns...)
	sort.Strings(labels)

	return fmt.Sprintf("%s:%s:%d:%d:%s:%s:%q:%q:%q",
		completenessPrefix, abs, info.Size(), info.ModTime().UnixNano(), frequency, timezone,
		opts.TimestampColumn, opts.TimestampFormat, strings.Join(labels, ","),
	), nil
}

// Set stores a value in cache with TTL (time-to-live)
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	// Serialize value to JSON
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	now := time.Now()
	c.store.Entries[key] = &CacheEntry{
		Data:      valueJSON,
		CachedAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	if err := c.save(); err != nil {
		return err
	}

	c.logger.Debug("Cache set", "key", key, "ttl", ttl)
	return nil
}

// Get retrieves a value from cache if it exists and hasn't expired
func (c *Cache) Get(key string, target interface{}) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.store.Entries[key]
	if !exists {
		c.logger.Debug("Cache miss", "key", key)
		return false, nil
	}

	if time.Now().After(entry.ExpiresAt) {
		c.logger.Debug("Cache expired", "key", key)
		return false, nil
	}

	if err := json.Unmarshal(entry.Data, target); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	c.logger.Debug("Cache hit", "key", key, "expires_in", time.Until(entry.ExpiresAt).Round(time.Second))
	return true, nil
}

// Delete removes a cache entry
func (c *Cache) Delete(key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.store.Entries, key)
	return c.save()
}

// cleanExpired removes expired entries (must be called with lock held)
func (c *Cache) cleanExpired() error {
	now := time.Now()
	removed := 0

	for key, entry := range c.store.Entries {
		if now.After(entry.ExpiresAt) {
			delete(c.store.Entries, key)
			removed++
		}
	}

	if removed > 0 {
		c.logger.Info("Cleaned expired cache entries", "count", removed)
		return c.save()
	}

	return nil
}

// Clear removes all cache entries and returns how many were dropped
func (c *Cache) Clear() (int, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	count := len(c.store.Entries)
	c.store.Entries = make(map[string]*CacheEntry)

	if err := c.save(); err != nil {
		return 0, err
	}

	c.logger.Info("Cleared cache", "count", count)
	return count, nil
}

// Stats returns cache statistics
func (c *Cache) Stats() (total int, expired int) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	now := time.Now()
	total = len(c.store.Entries)

	for _, entry := range c.store.Entries {
		if now.After(entry.ExpiresAt) {
			expired++
		}
	}

	return total, expired
}

// Path returns the cache file location
func (c *Cache) Path() string {
	return c.filePath
}

// load reads the cache from disk
func (c *Cache) load() error {
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, c.store); err != nil {
		return fmt.Errorf("failed to unmarshal cache file: %w", err)
	}
	if c.store.Entries == nil {
		c.store.Entries = make(map[string]*CacheEntry)
	}

	return nil
}

// save writes the cache to disk
func (c *Cache) save() error {
	data, err := json.MarshalIndent(c.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return &StorageError{Operation: "write_cache", Path: c.filePath, Err: err}
	}

	return nil
}
