package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lexandro/folderreport/report"
	"github.com/lexandro/folderreport/walk"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// GenerateArgs defines the input parameters for the folderreport_generate tool.
type GenerateArgs struct {
	Root       string `json:"root,omitempty" jsonschema:"Directory to report, relative to the server root (default: the server root)"`
	OutputPath string `json:"outputPath,omitempty" jsonschema:"Report file path, relative to the server root (default estrutura_pastas.txt)"`
	Sorted     bool   `json:"sorted,omitempty" jsonschema:"Sort subdirectory and file names instead of using filesystem order"`
}

// GenerateFunc writes a report. It is report.Generate outside of tests.
type GenerateFunc func(options report.Options) (report.Summary, error)

// GenerateHandler holds the dependencies for the generate tool.
type GenerateHandler struct {
	RootDir  string
	Generate GenerateFunc
	Tracker  *Tracker
	Logger   *slog.Logger
}

// Handle processes a folderreport_generate request.
func (h *GenerateHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args GenerateArgs) (*mcp.CallToolResult, any, error) {
	generate := h.Generate
	if generate == nil {
		generate = report.Generate
	}

	options := report.Options{
		Root:       resolvePath(h.RootDir, args.Root, report.DefaultRoot),
		OutputPath: resolvePath(h.RootDir, args.OutputPath, report.DefaultOutputPath),
		Logger:     h.Logger,
	}
	if args.Sorted {
		options.Order = walk.OrderSorted
	}

	summary, err := generate(options)
	if err != nil {
		h.Logger.Error("folderreport_generate failed", "root", options.Root, "output", options.OutputPath, "error", err)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Report error: %v", err)}},
			IsError: true,
		}, nil, nil
	}

	if h.Tracker != nil {
		h.Tracker.Record(summary)
	}
	h.Logger.Info("folderreport_generate",
		"root", summary.Root,
		"output", summary.OutputPath,
		"directories", summary.Directories,
		"files", summary.Files,
		"elapsed", summary.Duration,
	)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: FormatSummary(summary)}},
	}, nil, nil
}
