package tools

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/lexandro/folderreport/report"
)

// FormatSummary describes a finished report on one line.
func FormatSummary(summary report.Summary) string {
	return fmt.Sprintf("report saved to %s: %d directories, %d subdirectory entries, %d files in %s",
		summary.OutputPath,
		summary.Directories,
		summary.Subdirs,
		summary.Files,
		summary.Duration.Round(time.Millisecond),
	)
}

// resolvePath makes a relative path relative to rootDir; absolute paths and
// an empty rootDir leave it unchanged. An empty path resolves to fallback.
func resolvePath(rootDir, path, fallback string) string {
	if path == "" {
		path = fallback
	}
	if rootDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(rootDir, path)
}

// formatFileSize converts bytes to a human-readable string.
func formatFileSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}
