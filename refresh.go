package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/lexandro/folderreport/report"
	"github.com/lexandro/folderreport/watcher"
)

// runRefreshLoop regenerates the full report on every batch from changes and
// on every tick of interval, one run at a time, until ctx is done. A nil
// changes channel or a zero interval disables that trigger. The first failed
// regeneration ends the loop.
func runRefreshLoop(
	ctx context.Context,
	options report.Options,
	changes <-chan []watcher.Change,
	interval time.Duration,
	stdout io.Writer,
	logger *slog.Logger,
) error {
	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	logger.Info("report refresh started", "watch", changes != nil, "interval", interval)

	for {
		select {
		case <-ctx.Done():
			logger.Info("report refresh stopped")
			return nil

		case batch, ok := <-changes:
			if !ok {
				changes = nil
				if tick == nil {
					return nil
				}
				continue
			}
			logger.Info("tree changed, regenerating report", "changes", len(batch))
			for _, change := range batch {
				logger.Debug("changed", "path", change.Path, "op", change.Op)
			}
			if err := regenerate(options, stdout); err != nil {
				return err
			}

		case <-tick:
			logger.Debug("periodic refresh, regenerating report")
			if err := regenerate(options, stdout); err != nil {
				return err
			}
		}
	}
}
