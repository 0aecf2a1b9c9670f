// Package main is the entry point for the cadence application.
// This file contains the import subcommand handler.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"cadence/internal/config"
	"cadence/internal/importer"
	"cadence/internal/notify"
	"cadence/internal/storage"
	"cadence/internal/store"
)

// importHelpText is the help message for the import subcommand.
const importHelpText = `cadence import - Import habits from a file

USAGE:
    cadence import <format> <file>
    cadence import [OPTIONS] <format> <file>

FORMATS:
    json         Import from a cadence JSON export (habits.json shape)
    csv          Import from a CSV history export

OPTIONS:
    --dry-run    Preview import without making changes
    -h, --help   Show this help message

DESCRIPTION:
    Import habits and their completion history. Supported formats:

    JSON:
      The same shape as habits.json: an object keyed by habit id.
      Use this to move data between machines or restore an export.

    CSV:
      Rows of HabitID,Title,Goal,Date,Done,Value. Habits are rebuilt
      from their history: schedules default to daily and measured
      targets are inferred from the largest recorded value.

    Imported habits replace existing habits with the same id.

EXAMPLES:
    # Import a JSON export
    cadence import json habits.json

    # Import a CSV history
    cadence import csv history.csv

    # Preview before importing
    cadence import --dry-run csv history.csv

    # Show help
    cadence import --help
`

// runImport handles the "cadence import" subcommand.
func runImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	dryRunFlag := fs.Bool("dry-run", false, "preview import without making changes")
	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, importHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(importHelpText)
		os.Exit(0)
	}

	// Need at least format and file
	if fs.NArg() < 2 {
		fmt.Fprintf(os.Stderr, "Error: missing arguments\n\n")
		fmt.Fprintf(os.Stderr, "Usage: cadence import <format> <file>\n")
		fmt.Fprintf(os.Stderr, "Formats: %s\n", strings.Join(importer.SupportedFormats(), ", "))
		fmt.Fprintf(os.Stderr, "\nRun 'cadence import --help' for more information.\n")
		os.Exit(1)
	}

	format := strings.ToLower(fs.Arg(0))
	filePath := fs.Arg(1)

	// Get importer
	imp := importer.GetImporter(format)
	if imp == nil {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", format)
		fmt.Fprintf(os.Stderr, "Supported formats: %s\n", strings.Join(importer.SupportedFormats(), ", "))
		os.Exit(1)
	}

	// Open file
	file, err := os.Open(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	if *dryRunFlag {
		runImportDryRun(imp, file)
	} else {
		runImportActual(imp, file)
	}
}

// runImportDryRun previews the import without making changes.
func runImportDryRun(imp importer.Importer, file *os.File) {
	habits, err := imp.Preview(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing file: %v\n", err)
		os.Exit(1)
	}

	if len(habits) == 0 {
		fmt.Println("No habits found to import.")
		os.Exit(0)
	}

	fmt.Printf("Preview: %d habits to import\n", len(habits))
	fmt.Println("────────────────────────────")

	// Show first 20 habits
	showCount := len(habits)
	if showCount > 20 {
		showCount = 20
	}

	for i := 0; i < showCount; i++ {
		h := habits[i]
		fmt.Printf("  %s (%s, %s", h.Title, h.Repeat, h.Goal)
		if h.Records == 1 {
			fmt.Printf(", 1 record")
		} else if h.Records > 1 {
			fmt.Printf(", %d records", h.Records)
		}
		fmt.Println(")")
	}

	if len(habits) > 20 {
		fmt.Printf("  ... and %d more\n", len(habits)-20)
	}

	fmt.Println()
	fmt.Println("Run without --dry-run to import.")
}

// runImportActual performs the actual import.
func runImportActual(imp importer.Importer, file *os.File) {
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

	habits, err := imp.Parse(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing file: %v\n", err)
		os.Exit(1)
	}

	s := store.New(persist, notify.NewReminders(notify.NewNoop(), false))
	if err := s.Hydrate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading data: %v\n", err)
		os.Exit(1)
	}

	count, err := s.ImportHabits(habits)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
		os.Exit(1)
	}
	s.Flush()

	fmt.Printf("Import complete!\n")
	fmt.Printf("  Imported: %d habits\n", count)
	if skipped := len(habits) - count; skipped > 0 {
		fmt.Printf("  Skipped:  %d items\n", skipped)
	}
}
