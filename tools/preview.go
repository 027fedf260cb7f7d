package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lexandro/folderreport/report"
	"github.com/lexandro/folderreport/walk"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultPreviewDirectories = 200

// PreviewArgs defines the input parameters for the folderreport_preview tool.
type PreviewArgs struct {
	Root           string `json:"root,omitempty" jsonschema:"Directory to report, relative to the server root (default: the server root)"`
	Sorted         bool   `json:"sorted,omitempty" jsonschema:"Sort subdirectory and file names instead of using filesystem order"`
	MaxDirectories int    `json:"maxDirectories,omitempty" jsonschema:"Maximum number of directory blocks to return (default 200)"`
}

// PreviewHandler holds the dependencies for the preview tool.
type PreviewHandler struct {
	RootDir string
	Logger  *slog.Logger
}

// Handle processes a folderreport_preview request. The report text is
// returned directly and no file is written.
func (h *PreviewHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args PreviewArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	root := resolvePath(h.RootDir, args.Root, report.DefaultRoot)
	order := walk.OrderNative
	if args.Sorted {
		order = walk.OrderSorted
	}
	limit := args.MaxDirectories
	if limit <= 0 {
		limit = defaultPreviewDirectories
	}

	var builder strings.Builder
	directories, truncated, err := report.Render(&builder, root, order, limit)
	if err != nil {
		h.Logger.Error("folderreport_preview failed", "root", root, "error", err)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Report error: %v", err)}},
			IsError: true,
		}, nil, nil
	}
	if truncated {
		builder.WriteString(fmt.Sprintf("(stopped after %d directories)\n", directories))
	}

	h.Logger.Info("folderreport_preview",
		"root", root,
		"directories", directories,
		"truncated", truncated,
		"elapsed", time.Since(start),
	)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: builder.String()}},
	}, nil, nil
}
