// Package main is the entry point for the cadence application.
// It loads configuration, initializes storage, and starts the TUI.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"cadence/internal/config"
	"cadence/internal/notify"
	"cadence/internal/storage"
	"cadence/internal/store"
	"cadence/internal/ui"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const helpText = `cadence - A habit tracker for your terminal

USAGE:
    cadence [OPTIONS]
    cadence <command> [ARGS]

COMMANDS:
    backup           Create a backup of all data
    backup --list    List available backups
    restore NAME     Restore from a specific backup
    restore --latest Restore from the most recent backup
    export           Generate a daily report (Markdown)
    export --weekly  Generate a weekly report
    export -f json   Output report as JSON
    import           Import habits from a file
    import json F    Import from a cadence JSON export
    import csv F     Import from a CSV history export

OPTIONS:
    -h, --help       Show this help message
    -v, --version    Show version information

DESCRIPTION:
    cadence is a terminal-based habit tracker with flexible schedules,
    rep and time goals, per-day timers, and streak statistics.

KEYBINDINGS:
    Global:
        ?            Show help overlay
        s            Show stats (narrow terminals)
        q            Quit

    Dates:
        h/l, ←/→     Previous / next day
        t            Jump back to today

    Habits:
        j/k, ↓/↑     Navigate
        a            Add habit
        e            Edit title and icon
        d/Space      Toggle, count a rep, or start/stop the timer
        +/-          Adjust the recorded value
        m            Mark done regardless of progress
        S            Skip (counts against nothing, keeps the schedule)
        x            Delete habit
        g/G          Go to top/bottom

DATA STORAGE:
    All data is stored in ~/.cadence/ as plain JSON files:
        habits.json  - Habits and completion history
        timers.json  - Running timer sessions

CONFIGURATION:
    Optional config file: ~/.config/cadence/config.yaml
    See documentation for configuration options.

EXAMPLES:
    # Start the app
    cadence

    # Create a backup
    cadence backup

    # Restore from a backup
    cadence restore --latest

    # Generate today's report
    cadence export

    # Generate weekly report as JSON
    cadence export --weekly --format json

    # Show version
    cadence --version

    # Show this help
    cadence --help
`

func main() {
	// Check for subcommands first (before flag parsing)
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "backup":
			runBackup(os.Args[2:])
			return
		case "restore":
			runRestore(os.Args[2:])
			return
		case "export":
			runExport(os.Args[2:])
			return
		case "import":
			runImport(os.Args[2:])
			return
		}
	}

	// Define flags
	showVersion := flag.Bool("version", false, "show version information")
	flag.BoolVar(showVersion, "v", false, "show version information (shorthand)")

	showHelp := flag.Bool("help", false, "show help message")
	flag.BoolVar(showHelp, "h", false, "show help message (shorthand)")

	// Custom usage message
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, helpText)
	}

	flag.Parse()

	// Handle version flag
	if *showVersion {
		fmt.Printf("cadence version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		os.Exit(0)
	}

	// Handle help flag
	if *showHelp {
		fmt.Print(helpText)
		os.Exit(0)
	}

	// Reject unknown arguments
	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown arguments: %v\n\n", flag.Args())
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration (from ~/.config/cadence/config.yaml or defaults)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Initialize persistence with the configured data directory
	persist, err := storage.New(cfg.GetDataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	// Goal-reached reminders are silent unless enabled in config
	notifier := notify.NewNoop()
	if cfg.Notifications.Enabled {
		notifier = notify.New()
	}
	reminders := notify.NewReminders(notifier, cfg.Notifications.Sound)

	s := store.New(persist, reminders)
	if err := s.Hydrate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading data: %v\n", err)
		os.Exit(1)
	}

	// Credit time that passed while the app was closed
	s.ReconcileActiveTimers(time.Now())

	// Create styles from theme config
	styles := ui.NewStylesFromTheme(&cfg.Theme)

	// Create app config with keys and UX settings
	appCfg := &ui.AppConfig{
		Keys:                  &cfg.Keys,
		ConfirmDeletions:      cfg.UX.ConfirmDeletions,
		ShowOnboarding:        cfg.UX.ShowOnboarding,
		NarrowLayoutThreshold: cfg.UX.NarrowLayoutThreshold,
	}

	if err := ui.Run(s, styles, appCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}

	// Settle any in-flight writes before exit
	s.Flush()
}
