package report

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/lexandro/folderreport/walk"
)

const (
	// DefaultRoot is the directory reported when none is given.
	DefaultRoot = "."
	// DefaultOutputPath is the report file name used when none is given.
	DefaultOutputPath = "estrutura_pastas.txt"
)

// ErrWriteFailure marks errors creating, writing, flushing or closing the
// output file.
var ErrWriteFailure = errors.New("write failure")

// Options configures a report run.
type Options struct {
	Root       string
	OutputPath string
	Order      walk.Order
	Logger     *slog.Logger
}

// Summary describes a completed report.
type Summary struct {
	Root        string
	OutputPath  string
	Directories int
	Subdirs     int
	Files       int
	Duration    time.Duration
}

func (o Options) withDefaults() Options {
	if o.Root == "" {
		o.Root = DefaultRoot
	}
	if o.OutputPath == "" {
		o.OutputPath = DefaultOutputPath
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Generate walks options.Root and writes the report to options.OutputPath.
// The output file is truncated before the walk starts and is flushed and
// closed on every return path. A failed run may leave a partial file behind.
func Generate(options Options) (summary Summary, err error) {
	options = options.withDefaults()
	start := time.Now()
	logger := options.Logger

	file, err := os.Create(options.OutputPath)
	if err != nil {
		return Summary{}, writeFailure("creating", options.OutputPath, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			err = flatten(multierror.Append(err, writeFailure("closing", options.OutputPath, closeErr)))
		}
	}()

	logger.Debug("report started", "root", options.Root, "output", options.OutputPath)

	rw := NewWriter(file)
	walkErr := walk.Walk(options.Root, options.Order, func(record walk.Record) error {
		if err := rw.WriteRecord(record); err != nil {
			return writeFailure("writing", options.OutputPath, err)
		}
		logger.Debug("directory reported",
			"path", record.Path,
			"subdirs", len(record.Subdirs),
			"files", len(record.Files),
		)
		return nil
	})

	var result error
	if walkErr != nil {
		result = multierror.Append(result, walkErr)
	}
	// A failed write leaves the buffer holding the same error, so flushing
	// would only report it twice.
	if flushErr := rw.Flush(); flushErr != nil && !errors.Is(walkErr, ErrWriteFailure) {
		result = multierror.Append(result, writeFailure("flushing", options.OutputPath, flushErr))
	}
	if result != nil {
		return Summary{}, flatten(result)
	}

	summary = Summary{
		Root:        options.Root,
		OutputPath:  options.OutputPath,
		Directories: rw.Directories(),
		Subdirs:     rw.Subdirs(),
		Files:       rw.Files(),
		Duration:    time.Since(start),
	}
	logger.Info("report complete",
		"root", summary.Root,
		"output", summary.OutputPath,
		"directories", summary.Directories,
		"files", summary.Files,
		"duration", summary.Duration,
	)
	return summary, nil
}

// Render writes the report for root to w without touching the filesystem
// beyond reading the tree. A positive limit stops after that many directory
// blocks; truncated reports whether the limit cut the walk short.
func Render(w io.Writer, root string, order walk.Order, limit int) (directories int, truncated bool, err error) {
	if root == "" {
		root = DefaultRoot
	}
	rw := NewWriter(w)
	err = walk.Walk(root, order, func(record walk.Record) error {
		if limit > 0 && rw.Directories() >= limit {
			truncated = true
			return fs.SkipAll
		}
		return rw.WriteRecord(record)
	})
	if flushErr := rw.Flush(); err == nil && flushErr != nil {
		err = flushErr
	}
	return rw.Directories(), truncated, err
}

func writeFailure(action, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrWriteFailure, action, path, err)
}

// flatten unwraps a single-error multierror so callers see the original error
// text without the "1 error occurred" framing.
func flatten(err error) error {
	var merr *multierror.Error
	if errors.As(err, &merr) && len(merr.Errors) == 1 {
		return merr.Errors[0]
	}
	return err
}
