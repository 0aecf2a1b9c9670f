// Package main is the entry point for the cadence application.
// This file contains the export subcommand handler.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cadence/internal/config"
	"cadence/internal/fsutil"
	"cadence/internal/habit"
	"cadence/internal/reports"
	"cadence/internal/storage"
)

// exportHelpText is the help message for the export subcommand.
const exportHelpText = `cadence export - Generate habit reports

USAGE:
    cadence export [OPTIONS] [DATE]

OPTIONS:
    -d, --daily        Generate daily report (default)
    -w, --weekly       Generate weekly report
    --data             Export raw habit data instead of a report
    -f, --format FMT   Output format: markdown (default) or json.
                       With --data: json (habits.json shape) or csv (history rows)
    -o, --output FILE  Write to file instead of stdout
    -h, --help         Show this help message

ARGUMENTS:
    DATE               Date for report (YYYY-MM-DD). Defaults to today.
                       For weekly reports, any date within the week works.

DESCRIPTION:
    Generates reports summarizing your habit completions and streaks.
    Reports can be output as Markdown (human-readable) or JSON (machine-readable).

    With --data the command instead dumps the underlying habit data, in a
    shape 'cadence import' accepts on another machine.

EXAMPLES:
    # Today's report in Markdown
    cadence export

    # Specific date
    cadence export 2025-12-14

    # Weekly report
    cadence export --weekly

    # JSON format
    cadence export --format json

    # Save to file
    cadence export --output report.md

    # Weekly JSON report to file
    cadence export --weekly --format json --output weekly.json

    # Raw data for re-import elsewhere
    cadence export --data --format json --output habits.json
    cadence export --data --format csv --output history.csv
`

// runExport handles the "cadence export" subcommand.
func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	dailyFlag := fs.Bool("daily", false, "generate daily report")
	fs.BoolVar(dailyFlag, "d", false, "generate daily report (shorthand)")

	weeklyFlag := fs.Bool("weekly", false, "generate weekly report")
	fs.BoolVar(weeklyFlag, "w", false, "generate weekly report (shorthand)")

	dataFlag := fs.Bool("data", false, "export raw habit data instead of a report")

	formatFlag := fs.String("format", "markdown", "output format: markdown or json")
	fs.StringVar(formatFlag, "f", "markdown", "output format (shorthand)")

	outputFlag := fs.String("output", "", "write to file instead of stdout")
	fs.StringVar(outputFlag, "o", "", "write to file (shorthand)")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, exportHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(exportHelpText)
		os.Exit(0)
	}

	// Validate format
	format := *formatFlag
	if format == "md" {
		format = "markdown"
	}
	if *dataFlag {
		// Markdown is the report default; raw data defaults to JSON.
		if format == "markdown" {
			format = "json"
		}
		if format != "json" && format != "csv" {
			fmt.Fprintf(os.Stderr, "Error: invalid data format %q. Use 'json' or 'csv'.\n", format)
			os.Exit(1)
		}
	} else if format != "markdown" && format != "json" {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q. Use 'markdown' or 'json'.\n", format)
		os.Exit(1)
	}

	// Parse date argument
	date := habit.Stamp(time.Now())
	if fs.NArg() > 0 {
		if !habit.IsStamp(fs.Arg(0)) {
			fmt.Fprintf(os.Stderr, "Error: invalid date %q. Use YYYY-MM-DD format.\n", fs.Arg(0))
			os.Exit(1)
		}
		date = fs.Arg(0)
	}

	// Determine report type (default to daily)
	isWeekly := *weeklyFlag
	if !*dailyFlag && !*weeklyFlag {
		isWeekly = false
	}

	// Load config and storage
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	persist, err := storage.New(cfg.GetDataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	// Generate report or data dump
	var output string
	if *dataFlag {
		if format == "csv" {
			csvOut, err := persist.ExportHistoryCSV()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error exporting history: %v\n", err)
				os.Exit(1)
			}
			output = csvOut
		} else {
			data, err := persist.ExportHabitsJSON()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error exporting habits: %v\n", err)
				os.Exit(1)
			}
			output = string(data)
		}
		writeExport(*outputFlag, output)
		return
	}

	gen := reports.NewGenerator(persist)
	if isWeekly {
		report, err := gen.GenerateWeekly(date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating weekly report: %v\n", err)
			os.Exit(1)
		}

		if format == "json" {
			data, err := reports.FormatWeeklyJSON(report)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error formatting JSON: %v\n", err)
				os.Exit(1)
			}
			output = string(data)
		} else {
			output = reports.FormatWeeklyMarkdown(report)
		}
	} else {
		report, err := gen.GenerateDaily(date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating daily report: %v\n", err)
			os.Exit(1)
		}

		if format == "json" {
			data, err := reports.FormatDailyJSON(report)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error formatting JSON: %v\n", err)
				os.Exit(1)
			}
			output = string(data)
		} else {
			output = reports.FormatDailyMarkdown(report)
		}
	}

	writeExport(*outputFlag, output)
}

// writeExport sends output to a file (atomically) or stdout.
func writeExport(path, output string) {
	if path == "" {
		fmt.Print(output)
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil && filepath.Dir(path) != "." {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}
	if err := fsutil.WriteFileAtomic(path, []byte(output), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Written to %s\n", path)
}
