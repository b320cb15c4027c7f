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
	"os"

	"github.com/dustin/go-humanize"
)

// Reporter generates markdown reports from audit results
type Reporter struct {
	logger *Logger
}

// NewReporter creates a new report generator
func NewReporter(logger *Logger) *Reporter {
	return &Reporter{
		logger: logger,
	}
}

// GenerateReport creates a markdown report from audit results
func (r *Reporter) GenerateReport(result *AuditResult, outputPath string) error {
	r.logger.Info("Generating report")

	var writer io.Writer
	if outputPath == "" {
		writer = os.Stdout
	} else {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	r.WriteReport(writer, result)

	if outputPath != "" {
		r.logger.Info("Report saved", "path", outputPath)
	}

	return nil
}

// WriteReport writes the markdown report to w
func (r *Reporter) WriteReport(w io.Writer, result *AuditResult) {
	r.writeHeader(w, result)
	r.writeSummary(w, result)
	r.writeChecks(w, result)
	r.writeDailyCompleteness(w, result)
	r.writeFooter(w)
}

// writeHeader writes the report header
func (r *Reporter) writeHeader(w io.Writer, result *AuditResult) {
	fmt.Fprintf(w, "# PV Production Data Audit\n\n")
	fmt.Fprintf(w, "**Generated:** %s\n\n", result.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "**Source:** `%s`", result.Source)
	if result.SourceBytes > 0 {
		fmt.Fprintf(w, " (%s)", humanize.Bytes(uint64(result.SourceBytes)))
	}
	fmt.Fprintf(w, "\n\n")
	fmt.Fprintf(w, "**Period:** %s to %s (%d days)\n\n",
		result.PeriodStart.Format("2006-01-02 15:04"),
		result.PeriodEnd.Format("2006-01-02 15:04"),
		len(result.Daily),
	)
	fmt.Fprintf(w, "**Run:** `%s` · **pvaudit version:** %s\n\n", result.RunID, GetVersion())
	fmt.Fprintf(w, "---\n\n")
}

// writeSummary writes the summary section
func (r *Reporter) writeSummary(w io.Writer, result *AuditResult) {
	fmt.Fprintf(w, "## 📊 Summary\n\n")

	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| Rows | %s |\n", humanize.Comma(int64(result.Rows)))
	fmt.Fprintf(w, "| Columns | %d |\n", len(result.Columns))
	fmt.Fprintf(w, "| Frequency | %s |\n", result.Frequency)
	fmt.Fprintf(w, "| Average completeness | %s |\n", FormatPercentage(result.AvgCompleteness))
	fmt.Fprintf(w, "| Days below %s | %d |\n", FormatPercentage(result.MinDailyCompleteness), result.IncompleteDays)
	fmt.Fprintf(w, "| Rows passing all checks | %s of %s |\n",
		humanize.Comma(int64(result.RowsPassing)),
		humanize.Comma(int64(result.Rows)),
	)
	fmt.Fprintf(w, "\n")

	if result.PreviousAvgCompleteness != nil {
		change := result.AvgCompleteness - *result.PreviousAvgCompleteness
		indicator := "➡️"
		if change > 0.001 {
			indicator = "📈"
		} else if change < -0.001 {
			indicator = "📉"
		}
		fmt.Fprintf(w, "> %s Average completeness changed by %+.1f points since the previous audit (`%s`).\n\n",
			indicator, change*100, result.PreviousRunID)
	}

	if result.OverfullDays > 0 {
		fmt.Fprintf(w, "> ⚠️ %d day(s) score above 100%%. This usually means duplicate timestamps or a frequency coarser than the real sampling interval.\n\n",
			result.OverfullDays)
	}
}

// writeChecks writes the filter results
func (r *Reporter) writeChecks(w io.Writer, result *AuditResult) {
	fmt.Fprintf(w, "## 🔍 Checks\n\n")

	if len(result.Checks) == 0 {
		fmt.Fprintf(w, "No boundary or delta checks configured.\n\n")
		return
	}

	fmt.Fprintf(w, "| Check | Rule | Passing | Rate |\n")
	fmt.Fprintf(w, "|-------|------|---------|------|\n")
	for _, c := range result.Checks {
		fmt.Fprintf(w, "| %s | %s | %s / %s | %s |\n",
			c.Name,
			c.Description,
			humanize.Comma(int64(c.Passed)),
			humanize.Comma(int64(c.Total)),
			FormatPercentage(c.PassRate),
		)
	}
	fmt.Fprintf(w, "\n")
}

// writeDailyCompleteness writes one row per day
func (r *Reporter) writeDailyCompleteness(w io.Writer, result *AuditResult) {
	fmt.Fprintf(w, "## 📅 Daily Completeness\n\n")

	fmt.Fprintf(w, "| Day | Completeness | Status |\n")
	fmt.Fprintf(w, "|-----|--------------|--------|\n")
	for _, d := range result.Daily {
		fmt.Fprintf(w, "| %s | %s | %s %s |\n",
			d.Day.Format("2006-01-02 (Mon)"),
			FormatPercentage(d.Score),
			statusIcon(d.Status),
			d.Status,
		)
	}
	fmt.Fprintf(w, "\n")
}

// writeFooter writes the report footer
func (r *Reporter) writeFooter(w io.Writer) {
	fmt.Fprintf(w, "---\n\n")
	fmt.Fprintf(w, "*Completeness is the fraction of each day covered by non-missing values, assuming each value spans one sampling interval, averaged across columns.*\n\n")
	fmt.Fprintf(w, "*Generated by [pvaudit](https://github.com/matthewgall/pvaudit)*\n")
}

func statusIcon(status string) string {
	switch status {
	case DayComplete:
		return "✅"
	case DayIncomplete:
		return "⚡"
	case DayOverfull:
		return "⚠️"
	default:
		return "❌"
	}
}
