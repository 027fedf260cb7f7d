package server

import (
	"github.com/lexandro/folderreport/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "0.2.0"

// Setup creates the MCP server and registers the report tools.
func Setup(
	generateHandler *tools.GenerateHandler,
	previewHandler *tools.PreviewHandler,
	statusHandler *tools.StatusHandler,
) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "folderreport",
			Version: Version,
		},
		&mcp.ServerOptions{
			Instructions: `This server writes plain-text folder structure reports. Each visited directory becomes a block:

Pasta: <path>
  Subpasta: <name>   (one per direct subdirectory)
  Arquivo: <name>    (one per direct file)
----------------------------------------

Use folderreport_preview to read the report without writing a file, and folderreport_generate to save it (default estrutura_pastas.txt).`,
		},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "folderreport_generate",
		Description: `Walk a directory tree and save the folder structure report to a file. The file is truncated first.

Paths are relative to the server root unless absolute:
  - root: directory to report (default: server root)
  - outputPath: report file (default: estrutura_pastas.txt)
  - sorted: sort names instead of filesystem order`,
	}, generateHandler.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "folderreport_preview",
		Description: "Return the folder structure report as text without writing a file. Stops after maxDirectories blocks (default 200).",
	}, previewHandler.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "folderreport_status",
		Description: "Show server status: root directory, uptime, memory usage, and the last generated report.",
	}, statusHandler.Handle)

	return mcpServer
}
