package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/lexandro/folderreport/console"
	"github.com/lexandro/folderreport/report"
	"github.com/lexandro/folderreport/walk"
	"github.com/lexandro/folderreport/watcher"
)

// reportConfig holds the flags of the default report command.
type reportConfig struct {
	Root            string
	OutputPath      string
	Sorted          bool
	Watch           bool
	IntervalSeconds int
	LogLevel        string
	LogFile         string
}

func parseReportFlags(args []string, stderr io.Writer) (reportConfig, error) {
	var cfg reportConfig

	flags := flag.NewFlagSet("folderreport", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&cfg.Root, "root", report.DefaultRoot, "Directory to report (a positional argument takes precedence)")
	flags.StringVar(&cfg.OutputPath, "out", report.DefaultOutputPath, "Report file, truncated on every run")
	flags.BoolVar(&cfg.Sorted, "sort", false, "Sort names instead of using filesystem order")
	flags.BoolVar(&cfg.Watch, "watch", false, "Regenerate the report whenever the tree changes")
	flags.IntVar(&cfg.IntervalSeconds, "interval", 0, "Regenerate the report every N seconds (0 disables)")
	flags.StringVar(&cfg.LogLevel, "log-level", "warn", "Log level: debug|info|warn|error")
	flags.StringVar(&cfg.LogFile, "log-file", "", "Log file path (default: stderr)")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage:\n")
		fmt.Fprintf(flags.Output(), "  folderreport [flags] [root]\n")
		fmt.Fprintf(flags.Output(), "  folderreport serve [-root dir] [-log-level level] [-log-file path]\n")
		fmt.Fprintf(flags.Output(), "  folderreport register project|user [dir] [-- serve flags]\n")
		fmt.Fprintf(flags.Output(), "\nA root named serve or register must be given as -root serve or ./serve.\n\nFlags:\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return reportConfig{}, err
	}
	switch flags.NArg() {
	case 0:
	case 1:
		cfg.Root = flags.Arg(0)
	default:
		flags.Usage()
		return reportConfig{}, fmt.Errorf("expected at most one root directory, got %d arguments", flags.NArg())
	}
	if cfg.IntervalSeconds < 0 {
		return reportConfig{}, fmt.Errorf("-interval must not be negative, got %d", cfg.IntervalSeconds)
	}
	return cfg, nil
}

// runReport writes one report and, with -watch or -interval, keeps
// regenerating it until ctx is cancelled. It returns the process exit code.
func runReport(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseReportFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	logger, closeLog := setupLogger(cfg.LogLevel, cfg.LogFile, stderr)
	defer closeLog()

	options := report.Options{
		Root:       cfg.Root,
		OutputPath: cfg.OutputPath,
		Logger:     logger,
	}
	if cfg.Sorted {
		options.Order = walk.OrderSorted
	}

	// The watcher is registered before the first report so changes made while
	// it is written trigger a regeneration.
	var changes <-chan []watcher.Change
	if cfg.Watch {
		rootDir, _ := filepath.Abs(cfg.Root)
		fileWatcher, err := watcher.NewWatcher(rootDir, newReportFileFilter(cfg.OutputPath), 0, logger)
		if err != nil {
			if cfg.IntervalSeconds == 0 {
				logger.Error("failed to start file watcher", "root", rootDir, "error", err)
				console.Fail(stderr, fmt.Errorf("starting watcher: %w", err))
				return 1
			}
			logger.Warn("failed to start file watcher, continuing with periodic refresh only", "error", err)
		} else {
			go fileWatcher.Start()
			defer fileWatcher.Close()
			changes = fileWatcher.Events()
		}
	}

	if err := regenerate(options, stdout); err != nil {
		logger.Error("report failed", "root", options.Root, "output", options.OutputPath, "error", err)
		console.Fail(stderr, err)
		return 1
	}
	if !cfg.Watch && cfg.IntervalSeconds == 0 {
		return 0
	}

	interval := time.Duration(cfg.IntervalSeconds) * time.Second
	if err := runRefreshLoop(ctx, options, changes, interval, stdout, logger); err != nil {
		logger.Error("report refresh failed", "root", options.Root, "error", err)
		console.Fail(stderr, err)
		return 1
	}
	return 0
}

// regenerate writes a complete report and prints the confirmation line.
func regenerate(options report.Options, stdout io.Writer) error {
	summary, err := report.Generate(options)
	if err != nil {
		return err
	}
	return console.Confirm(stdout, summary.OutputPath)
}

// reportFileFilter keeps the watcher from reacting to writes of the report
// file itself.
type reportFileFilter struct {
	reportPath string
}

func newReportFileFilter(outputPath string) *reportFileFilter {
	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		absPath = outputPath
	}
	return &reportFileFilter{reportPath: filepath.Clean(absPath)}
}

func (f *reportFileFilter) ShouldSkip(absolutePath string) bool {
	return filepath.Clean(absolutePath) == f.reportPath
}

var _ watcher.PathFilter = (*reportFileFilter)(nil)
