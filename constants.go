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

const secondsPerDay = 24 * 60 * 60

// Default production column names
const (
	DefaultTimestampColumn  = "timestamp"
	DefaultRatioColumn      = "measured_expected_ratio"
	DefaultEnergyColumn     = "energy_generated_kWh"
	DefaultIrradianceColumn = "irradiance"
	DefaultCapacityColumn   = "capacity"
	DefaultSiteColumn       = "randid"
)

// Completeness thresholds used for labelling days
const (
	DefaultMinDailyCompleteness = 0.9
	PartialCompleteness         = 0.5
)

// Figure sizes in pixels
const (
	timeseriesFigureWidth  = 1200
	timeseriesFigureHeight = 600
	scatterFigureWidth     = 800
	scatterFigureHeight    = 800
)

// timestampLayouts are tried in order when parsing the timestamp column
var timestampLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04",
}
