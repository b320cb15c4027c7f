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
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var (
	completeColor   = color.New(color.FgGreen)
	incompleteColor = color.New(color.FgYellow)
	sparseColor     = color.New(color.FgRed, color.Bold)
	overfullColor   = color.New(color.FgMagenta, color.Bold)
)

// statusLabel colours a day status for the terminal
func statusLabel(status string) string {
	switch status {
	case DayComplete:
		return completeColor.Sprint(status)
	case DayIncomplete:
		return incompleteColor.Sprint(status)
	case DayOverfull:
		return overfullColor.Sprint(status)
	default:
		return sparseColor.Sprint(status)
	}
}

// PrintConsoleSummary writes the check and daily completeness tables to w
func PrintConsoleSummary(w io.Writer, result *AuditResult) error {
	fmt.Fprintf(w, "☀️  %s: %s rows, %s to %s\n",
		result.Source,
		humanize.Comma(int64(result.Rows)),
		result.PeriodStart.Format("2006-01-02"),
		result.PeriodEnd.Format("2006-01-02"),
	)
	fmt.Fprintf(w, "   Average completeness %s, %d day(s) below %s\n\n",
		FormatPercentage(result.AvgCompleteness),
		result.IncompleteDays,
		FormatPercentage(result.MinDailyCompleteness),
	)

	if len(result.Checks) > 0 {
		if err := printCheckTable(w, result.Checks); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	return printDailyTable(w, result.Daily)
}

func printCheckTable(w io.Writer, checks []CheckResult) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Check", "Rule", "Passed", "Total", "Rate"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, c := range checks {
		data = append(data, []string{
			c.Name,
			c.Description,
			strconv.Itoa(c.Passed),
			strconv.Itoa(c.Total),
			FormatPercentage(c.PassRate),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func printDailyTable(w io.Writer, daily []DailyCompleteness) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Day", "Completeness", "Status"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, d := range daily {
		data = append(data, []string{
			d.Day.Format("2006-01-02"),
			FormatPercentage(d.Score),
			statusLabel(d.Status),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
