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
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with domain-specific methods
type Logger struct {
	*slog.Logger
}

// NewLogger creates a text-formatted logger
func NewLogger(debug bool) *Logger {
	handler := slog.NewTextHandler(os.Stderr, handlerOptions(debug))
	return &Logger{slog.New(handler)}
}

// NewJSONLogger creates a JSON-formatted logger
func NewJSONLogger(debug bool) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, handlerOptions(debug))
	return &Logger{slog.New(handler)}
}

// NewLoggerForFormat picks the text or JSON logger by name
func NewLoggerForFormat(format string, debug bool) *Logger {
	if format == "json" {
		return NewJSONLogger(debug)
	}
	return NewLogger(debug)
}

// NewDiscardLogger creates a logger that drops everything
func NewDiscardLogger() *Logger {
	return &Logger{slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func handlerOptions(debug bool) *slog.HandlerOptions {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}

// WithComponent adds a component field to the logger
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{l.With("component", component)}
}

// LogDataLoaded logs a table read from disk
func (l *Logger) LogDataLoaded(source string, rows, columns int) {
	l.Info("Data loaded",
		"source", source,
		"rows", rows,
		"columns", columns,
	)
}

// LogAnalysisStage logs analysis stage completion
func (l *Logger) LogAnalysisStage(stage string) {
	l.Info("Analysis stage completed",
		"stage", stage,
	)
}

// LogMaskCoverage logs how many rows a mask keeps
func (l *Logger) LogMaskCoverage(name string, captured, total int) {
	l.Info(fmt.Sprintf("Mask captures %d of %d rows", captured, total),
		"mask", name,
	)
}

// LogCompletenessOverflow logs a day whose completeness exceeds 1.0
func (l *Logger) LogCompletenessOverflow(day string, score float64) {
	l.Warn("Completeness above 1.0, check for duplicate timestamps or a wrong frequency",
		"day", day,
		"score", fmt.Sprintf("%.3f", score),
	)
}

// LogStorageOperation logs storage operations
func (l *Logger) LogStorageOperation(operation, path string) {
	l.Debug("Storage operation",
		"operation", operation,
		"path", path,
	)
}

// UserMessage outputs a message directly to stdout (bypassing structured logging)
func (l *Logger) UserMessage(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}
