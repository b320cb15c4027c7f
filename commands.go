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
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// Flag values shared by every command
var (
	configPath    string
	debugLogging  bool
	inputPath     string
	frequencyFlag string
)

// audit flags
var (
	outputPath  string
	htmlOutput  bool
	parquetPath string
	figurePath  string
	noSummary   bool
	noCache     bool
)

// plot flags
var (
	plotOutput string
	plotPoints int
	plotSite   string
	plotMasked bool
)

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:           "pvaudit",
	Short:         "Audit PV production time series for data quality.",
	Long:          `pvaudit scores how complete a PV production time series is, flags implausible values and steps, and draws diagnostic plots.`,
	Version:       GetVersion(),
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Score completeness and run the configured checks.",
	Long: `Load a production CSV, compute daily completeness, run every configured
boundary and delta check and write a report.

Results are stored so the next audit of the same file can report the change.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runAudit()
	},
}

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Draw diagnostic figures.",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

var plotTimeseriesCmd = &cobra.Command{
	Use:   "timeseries",
	Short: "Plot the measured/expected ratio and energy over time.",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runPlotTimeseries()
	},
}

var plotScatterCmd = &cobra.Command{
	Use:   "scatter",
	Short: "Plot energy against irradiance coloured by capacity.",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runPlotScatter()
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored audit results.",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runHistory()
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the completeness cache.",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache entry counts.",
	RunE: func(_ *cobra.Command, _ []string) error {
		cache, logger, err := openCache()
		if err != nil {
			return err
		}
		total, expired := cache.Stats()
		logger.UserMessage("%s: %d entries (%d expired)", cache.Path(), total, expired)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cache entry.",
	RunE: func(_ *cobra.Command, _ []string) error {
		cache, logger, err := openCache()
		if err != nil {
			return err
		}
		count, err := cache.Clear()
		if err != nil {
			return err
		}
		logger.UserMessage("Removed %d cache entries", count)
		return nil
	},
}

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pvaudit.",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("pvaudit %s\n", GetVersion())
		cmd.Printf("  Commit:  %s\n", commit)
		cmd.Printf("  Built:   %s\n", date)
		cmd.Printf("  Runtime: %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	plotCmd.AddCommand(plotTimeseriesCmd)
	plotCmd.AddCommand(plotScatterCmd)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "Production CSV (overrides config)")
	rootCmd.PersistentFlags().StringVar(&frequencyFlag, "frequency", "", "Sampling frequency such as 15min or 1H (overrides config)")

	auditCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file for report (default: stdout)")
	auditCmd.Flags().BoolVar(&htmlOutput, "html", false, "Generate HTML report instead of Markdown")
	auditCmd.Flags().StringVar(&parquetPath, "parquet", "", "Export daily scores and check masks to Parquet files with this prefix")
	auditCmd.Flags().StringVar(&figurePath, "figure", "", "Save the masked timeseries figure as PNG")
	auditCmd.Flags().BoolVar(&noSummary, "no-summary", false, "Do not print the console summary")
	auditCmd.Flags().BoolVar(&noCache, "no-cache", false, "Recompute daily completeness even when cached")

	for _, c := range []*cobra.Command{plotTimeseriesCmd, plotScatterCmd} {
		c.Flags().StringVarP(&plotOutput, "out", "o", "", "PNG file to write (required)")
		c.Flags().BoolVar(&plotMasked, "masked", false, "Only draw rows passing every configured check")
		_ = c.MarkFlagRequired("out")
	}
	plotTimeseriesCmd.Flags().IntVar(&plotPoints, "npts", 0, "Draw only the first n rows (0 draws all)")
	plotTimeseriesCmd.Flags().StringVar(&plotSite, "site", "", "Draw only rows for this site id")
}

// loadRuntime loads configuration, applies flag overrides and builds the logger
func loadRuntime() (*Config, *Logger, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	if inputPath != "" {
		config.Input = inputPath
	}
	if frequencyFlag != "" {
		config.Frequency = frequencyFlag
	}
	if debugLogging {
		config.Debug = true
	}

	logger := NewLoggerForFormat(config.LogFormat, config.Debug)

	if err := config.Validate(); err != nil {
		return nil, nil, err
	}

	logger.Debug("Configuration loaded", "input", config.Input, "frequency", config.Frequency)
	return config, logger, nil
}

// loadTable reads the configured input file
func loadTable(config *Config, logger *Logger) (*Table, error) {
	opts, err := config.CSVOptions()
	if err != nil {
		return nil, err
	}
	return NewLoader(logger).LoadFile(config.Input, opts)
}

func runAudit() error {
	config, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	logger.Info("Starting pvaudit", "version", GetVersion())

	opts, err := config.CSVOptions()
	if err != nil {
		return err
	}
	table, err := NewLoader(logger).LoadFile(config.Input, opts)
	if err != nil {
		return err
	}

	analyzer := NewAnalyzer(config, logger)
	if !noCache {
		if cache, err := NewCache(config.StoragePath, logger); err != nil {
			logger.Warn("Cache unavailable", "error", err)
		} else if key, err := CompletenessKey(config.Input, config.Frequency, opts); err == nil {
			analyzer.UseCache(cache, key)
		}
	}

	result, err := analyzer.Analyze(table)
	if err != nil {
		return fmt.Errorf("failed to perform analysis: %w", err)
	}
	if info, err := os.Stat(config.Input); err == nil {
		result.SourceBytes = info.Size()
	}

	storage, err := NewStorage(config.StoragePath, logger)
	if err != nil {
		return err
	}

	previous, err := storage.LoadLatestAudit(config.Input)
	if err != nil {
		logger.Warn("Failed to load previous audit", "error", err)
	}
	if previous != nil {
		avg := previous.AvgCompleteness
		result.PreviousRunID = previous.RunID
		result.PreviousAvgCompleteness = &avg
	}

	var figure *Figure
	if htmlOutput || figurePath != "" {
		figure, err = auditFigure(table, result, config, logger)
		if err != nil {
			logger.Warn("Failed to draw timeseries figure", "error", err)
		}
	}

	if htmlOutput {
		attachCharts(result, figure, logger)
	}

	if path, err := storage.SaveAuditResult(result); err != nil {
		logger.Warn("Failed to save audit result", "error", err)
	} else {
		logger.Debug("Audit result saved", "path", path)
	}

	if !noSummary {
		if err := PrintConsoleSummary(os.Stderr, result); err != nil {
			logger.Warn("Failed to print summary", "error", err)
		}
	}

	if htmlOutput {
		if err := NewHTMLReporter(logger).GenerateHTMLReport(result, outputPath); err != nil {
			return err
		}
	} else {
		if err := NewReporter(logger).GenerateReport(result, outputPath); err != nil {
			return err
		}
	}

	if parquetPath != "" {
		paths, err := ExportParquet(result, table.Index(), parquetPath)
		if err != nil {
			return fmt.Errorf("failed to export parquet: %w", err)
		}
		for _, p := range paths {
			fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", p)
		}
	}

	if figurePath != "" && figure != nil {
		if err := figure.Save(figurePath); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote figure to %s\n", figurePath)
	}

	logger.Info("Audit completed successfully")
	return nil
}

// auditFigure draws the timeseries figure for rows passing every check
func auditFigure(table *Table, result *AuditResult, config *Config, logger *Logger) (*Figure, error) {
	return NewPlotter(logger).ObserveTimeseries(table, TimeseriesPlotOptions{
		Mask:         result.CombinedMask,
		RatioColumn:  config.Columns.Ratio,
		EnergyColumn: config.Columns.Energy,
		SiteColumn:   config.Columns.Site,
	})
}

// attachCharts renders the report charts into the result
func attachCharts(result *AuditResult, figure *Figure, logger *Logger) {
	cg := NewChartGenerator()

	if img, err := cg.GenerateDailyCompletenessChart(result.Daily, result.MinDailyCompleteness); err != nil {
		logger.Warn("Failed to generate completeness chart", "error", err)
	} else {
		result.DailyCompletenessChart = img
	}

	if len(result.Checks) > 0 {
		if img, err := cg.GenerateCheckPassRateChart(result.Checks); err != nil {
			logger.Warn("Failed to generate pass rate chart", "error", err)
		} else {
			result.CheckPassRateChart = img
		}
	}

	if figure != nil {
		if img, err := figure.Base64(); err != nil {
			logger.Warn("Failed to render timeseries figure", "error", err)
		} else {
			result.TimeseriesFigure = img
		}
	}
}

// plotMask returns the combined check mask when --masked is set
func plotMask(table *Table, config *Config, logger *Logger) (Mask, error) {
	if !plotMasked {
		return nil, nil
	}
	result, err := NewAnalyzer(config, logger).Analyze(table)
	if err != nil {
		return nil, err
	}
	return result.CombinedMask, nil
}

func runPlotTimeseries() error {
	config, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	table, err := loadTable(config, logger)
	if err != nil {
		return err
	}
	mask, err := plotMask(table, config, logger)
	if err != nil {
		return err
	}

	fig, err := NewPlotter(logger).ObserveTimeseries(table, TimeseriesPlotOptions{
		Mask:         mask,
		NPoints:      plotPoints,
		Site:         plotSite,
		RatioColumn:  config.Columns.Ratio,
		EnergyColumn: config.Columns.Energy,
		SiteColumn:   config.Columns.Site,
	})
	if err != nil {
		return err
	}
	if err := fig.Save(plotOutput); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote figure to %s\n", plotOutput)
	return nil
}

func runPlotScatter() error {
	config, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	table, err := loadTable(config, logger)
	if err != nil {
		return err
	}
	mask, err := plotMask(table, config, logger)
	if err != nil {
		return err
	}

	fig, err := NewPlotter(logger).ObserveEnergyVsIrradiance(table, config.Columns, mask)
	if err != nil {
		return err
	}
	if err := fig.Save(plotOutput); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote figure to %s\n", plotOutput)
	return nil
}

// loadStorageConfig loads configuration for commands that only touch storage
func loadStorageConfig() (*Config, *Logger, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	return config, NewLoggerForFormat(config.LogFormat, config.Debug || debugLogging), nil
}

func openCache() (*Cache, *Logger, error) {
	config, logger, err := loadStorageConfig()
	if err != nil {
		return nil, nil, err
	}
	cache, err := NewCache(config.StoragePath, logger)
	if err != nil {
		return nil, nil, err
	}
	return cache, logger, nil
}

func runHistory() error {
	config, logger, err := loadStorageConfig()
	if err != nil {
		return err
	}

	storage, err := NewStorage(config.StoragePath, logger)
	if err != nil {
		return err
	}
	files, err := storage.ListStoredFiles()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.UserMessage("No stored audits in %s", config.StoragePath)
		return nil
	}
	for _, f := range files {
		if f == cacheFileName {
			continue
		}
		logger.UserMessage("%s", f)
	}
	return nil
}
