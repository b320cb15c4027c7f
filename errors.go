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
	"strings"
)

// ColumnError is returned when a named column does not exist in a table
type ColumnError struct {
	Column    string
	Available []string
}

func (e *ColumnError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("column not found: %q (table has no columns)", e.Column)
	}
	return fmt.Sprintf("column not found: %q (available: %s)", e.Column, strings.Join(e.Available, ", "))
}

// LengthError is returned when a column does not match the table length
type LengthError struct {
	Column   string
	Expected int
	Actual   int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("column %q has %d values, table has %d rows", e.Column, e.Actual, e.Expected)
}

// MaskError is returned when a mask is applied to a table of a different length
type MaskError struct {
	Operation string
	Expected  int
	Actual    int
}

func (e *MaskError) Error() string {
	return fmt.Sprintf("mask length mismatch in %s: mask has %d values, table has %d rows", e.Operation, e.Actual, e.Expected)
}

// FrequencyError represents a frequency string that could not be parsed
type FrequencyError struct {
	Value   string
	Message string
	Err     error
}

func (e *FrequencyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid frequency %q: %s: %v", e.Value, e.Message, e.Err)
	}
	return fmt.Sprintf("invalid frequency %q: %s", e.Value, e.Message)
}

func (e *FrequencyError) Unwrap() error {
	return e.Err
}

// ValidationError represents a configuration or input validation error
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("validation error for %s (%s): %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// StorageError represents a storage operation error
type StorageError struct {
	Operation string
	Path      string
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s at %s: %v", e.Operation, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// DataError represents insufficient or missing data error
type DataError struct {
	DataType string
	Message  string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("data error for %s: %s", e.DataType, e.Message)
}
