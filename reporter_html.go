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
	"html"
	"io"
	"os"

	"github.com/dustin/go-humanize"
)

// HTMLReporter generates HTML reports with embedded charts
type HTMLReporter struct {
	logger *Logger
}

// NewHTMLReporter creates a new HTML report generator
func NewHTMLReporter(logger *Logger) *HTMLReporter {
	return &HTMLReporter{
		logger: logger,
	}
}

// GenerateHTMLReport generates an HTML report
func (r *HTMLReporter) GenerateHTMLReport(result *AuditResult, outputPath string) error {
	r.logger.Info("Generating HTML report")

	var writer io.Writer
	if outputPath == "" {
		writer = os.Stdout
	} else {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create HTML report file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	r.WriteHTMLReport(writer, result)

	if outputPath != "" {
		r.logger.Info("HTML report saved", "path", outputPath)
	}

	return nil
}

// WriteHTMLReport writes the HTML report to w
func (r *HTMLReporter) WriteHTMLReport(w io.Writer, result *AuditResult) {
	r.writeHTMLHeader(w, result)
	r.writeHTMLSummary(w, result)
	r.writeHTMLCharts(w, result)
	r.writeHTMLChecks(w, result)
	r.writeHTMLDaily(w, result)
	r.writeHTMLFooter(w)
}

func (r *HTMLReporter) writeHTMLHeader(w io.Writer, result *AuditResult) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>PV Production Data Audit</title>
    <style>
        :root {
            --primary-color: #FFB800;
            --secondary-color: #00C896;
            --warning-color: #FFB800;
            --danger-color: #FF006E;
            --success-color: #00C896;
            --bg-color: #0A0F1E;
            --card-bg: #1A2332;
            --text-color: #E8EAF6;
            --text-muted: #9FA8DA;
            --border-color: #2A3550;
        }
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            background: var(--bg-color);
            color: var(--text-color);
            line-height: 1.6;
            padding: 20px;
        }
        .container { max-width: 1200px; margin: 0 auto; }
        header {
            background: linear-gradient(135deg, var(--primary-color), var(--secondary-color));
            padding: 40px;
            border-radius: 16px;
            margin-bottom: 30px;
        }
        h1 { font-size: 2.5em; margin-bottom: 10px; font-weight: 700; }
        .subtitle { color: rgba(255, 255, 255, 0.9); font-size: 1.1em; }
        .card {
            background: var(--card-bg);
            border-radius: 12px;
            padding: 30px;
            margin-bottom: 30px;
            border: 1px solid var(--border-color);
        }
        h2 {
            color: var(--primary-color);
            margin-bottom: 20px;
            font-size: 1.8em;
            border-bottom: 2px solid var(--border-color);
            padding-bottom: 10px;
        }
        table { width: 100%%; border-collapse: collapse; margin: 20px 0; }
        th, td { padding: 12px; text-align: left; border-bottom: 1px solid var(--border-color); }
        th { background: rgba(255, 184, 0, 0.1); color: var(--primary-color); font-weight: 600; }
        .metric-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(250px, 1fr));
            gap: 20px;
            margin: 20px 0;
        }
        .metric-card {
            background: rgba(255, 184, 0, 0.05);
            border: 1px solid var(--border-color);
            border-radius: 8px;
            padding: 20px;
            text-align: center;
        }
        .metric-value { font-size: 2em; font-weight: bold; color: var(--secondary-color); margin: 10px 0; }
        .metric-label { color: var(--text-muted); font-size: 0.9em; }
        .badge { display: inline-block; padding: 6px 12px; border-radius: 20px; font-size: 0.85em; font-weight: 600; }
        .badge-complete { background: var(--success-color); color: white; }
        .badge-incomplete { background: var(--warning-color); color: #0A0F1E; }
        .badge-sparse { background: var(--danger-color); color: white; }
        .badge-overfull { background: #3F51B5; color: white; }
        .chart { width: 100%%; border-radius: 8px; margin: 10px 0; }
        footer { text-align: center; color: var(--text-muted); padding: 20px; }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>☀️ PV Production Data Audit</h1>
            <p class="subtitle">%s · %s to %s</p>
            <p class="subtitle">Generated %s · run %s</p>
        </header>
`,
		html.EscapeString(result.Source),
		result.PeriodStart.Format("2006-01-02"),
		result.PeriodEnd.Format("2006-01-02"),
		result.GeneratedAt.Format("2006-01-02 15:04:05"),
		result.RunID,
	)
}

func (r *HTMLReporter) writeHTMLSummary(w io.Writer, result *AuditResult) {
	fmt.Fprintf(w, `        <div class="card">
            <h2>📊 Summary</h2>
            <div class="metric-grid">
`)
	r.writeMetric(w, "Rows", humanize.Comma(int64(result.Rows)))
	r.writeMetric(w, "Average completeness", FormatPercentage(result.AvgCompleteness))
	r.writeMetric(w, fmt.Sprintf("Days below %s", FormatPercentage(result.MinDailyCompleteness)), fmt.Sprintf("%d", result.IncompleteDays))
	r.writeMetric(w, "Rows passing all checks", humanize.Comma(int64(result.RowsPassing)))
	fmt.Fprintf(w, "            </div>\n")

	if result.PreviousAvgCompleteness != nil {
		fmt.Fprintf(w, "            <p>Average completeness changed by %+.1f points since the previous audit.</p>\n",
			(result.AvgCompleteness-*result.PreviousAvgCompleteness)*100)
	}
	fmt.Fprintf(w, "        </div>\n")
}

func (r *HTMLReporter) writeMetric(w io.Writer, label, value string) {
	fmt.Fprintf(w, `                <div class="metric-card">
                    <div class="metric-label">%s</div>
                    <div class="metric-value">%s</div>
                </div>
`, label, value)
}

func (r *HTMLReporter) writeHTMLCharts(w io.Writer, result *AuditResult) {
	if result.DailyCompletenessChart == "" && result.CheckPassRateChart == "" && result.TimeseriesFigure == "" {
		return
	}

	fmt.Fprintf(w, `        <div class="card">
            <h2>📈 Charts</h2>
`)
	for _, img := range []string{result.DailyCompletenessChart, result.CheckPassRateChart, result.TimeseriesFigure} {
		if img == "" {
			continue
		}
		fmt.Fprintf(w, "            <img class=\"chart\" src=\"data:image/png;base64,%s\" alt=\"chart\">\n", img)
	}
	fmt.Fprintf(w, "        </div>\n")
}

func (r *HTMLReporter) writeHTMLChecks(w io.Writer, result *AuditResult) {
	fmt.Fprintf(w, `        <div class="card">
            <h2>🔍 Checks</h2>
`)
	if len(result.Checks) == 0 {
		fmt.Fprintf(w, "            <p>No boundary or delta checks configured.</p>\n        </div>\n")
		return
	}

	fmt.Fprintf(w, "            <table>\n                <tr><th>Check</th><th>Rule</th><th>Passing</th><th>Rate</th></tr>\n")
	for _, c := range result.Checks {
		fmt.Fprintf(w, "                <tr><td>%s</td><td>%s</td><td>%s / %s</td><td>%s</td></tr>\n",
			html.EscapeString(c.Name),
			html.EscapeString(c.Description),
			humanize.Comma(int64(c.Passed)),
			humanize.Comma(int64(c.Total)),
			FormatPercentage(c.PassRate),
		)
	}
	fmt.Fprintf(w, "            </table>\n        </div>\n")
}

func (r *HTMLReporter) writeHTMLDaily(w io.Writer, result *AuditResult) {
	fmt.Fprintf(w, `        <div class="card">
            <h2>📅 Daily Completeness</h2>
            <table>
                <tr><th>Day</th><th>Completeness</th><th>Status</th></tr>
`)
	for _, d := range result.Daily {
		fmt.Fprintf(w, "                <tr><td>%s</td><td>%s</td><td><span class=\"badge badge-%s\">%s</span></td></tr>\n",
			d.Day.Format("2006-01-02 (Mon)"),
			FormatPercentage(d.Score),
			d.Status,
			d.Status,
		)
	}
	fmt.Fprintf(w, "            </table>\n        </div>\n")
}

func (r *HTMLReporter) writeHTMLFooter(w io.Writer) {
	fmt.Fprintf(w, `
        <footer>
            <p><em>Completeness is the fraction of each day covered by non-missing values, assuming each value spans one sampling interval, averaged across columns.</em></p>
            <p style="margin-top: 10px;">Generated by <a href="https://github.com/matthewgall/pvaudit" style="color: var(--primary-color); text-decoration: none;">pvaudit</a> %s</p>
        </footer>
    </div>
</body>
</html>
`, GetVersion())
}
