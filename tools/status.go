package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatusArgs defines the input parameters for the folderreport_status tool (none required).
type StatusArgs struct{}

// StatusHandler holds the dependencies for the status tool.
type StatusHandler struct {
	Tracker   *Tracker
	StartTime time.Time
	RootDir   string
	Logger    *slog.Logger
}

// Handle processes a folderreport_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	var builder strings.Builder

	uptime := time.Since(h.StartTime)
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	builder.WriteString("=== folderreport Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Root directory: %s\n", h.RootDir))
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))
	builder.WriteString(fmt.Sprintf("Memory usage: %s (heap: %s)\n",
		formatFileSize(int64(memStats.Alloc)),
		formatFileSize(int64(memStats.HeapAlloc)),
	))

	runs := 0
	if h.Tracker != nil {
		runs = h.Tracker.Runs()
	}
	builder.WriteString(fmt.Sprintf("Reports generated: %d\n", runs))

	if h.Tracker != nil {
		if last, completedAt, ok := h.Tracker.Last(); ok {
			builder.WriteString("\nLast report:\n")
			builder.WriteString(fmt.Sprintf("  Root:        %s\n", last.Root))
			builder.WriteString(fmt.Sprintf("  Output:      %s\n", last.OutputPath))
			builder.WriteString(fmt.Sprintf("  Directories: %d\n", last.Directories))
			builder.WriteString(fmt.Sprintf("  Files:       %d\n", last.Files))
			builder.WriteString(fmt.Sprintf("  Completed:   %s ago\n", formatDuration(time.Since(completedAt))))
		}
	}

	h.Logger.Info("folderreport_status", "reports", runs, "memory", memStats.Alloc, "uptime", uptime)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: builder.String()}},
	}, nil, nil
}
