package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/lexandro/folderreport/console"
	"github.com/lexandro/folderreport/register"
	"github.com/lexandro/folderreport/server"
	"github.com/lexandro/folderreport/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "register":
			if err := register.Run(register.DeriveServerName(os.Args[0]), os.Args[2:], os.Stdout); err != nil {
				console.Fail(os.Stderr, err)
				stop()
				os.Exit(1)
			}
			return
		case register.ServeCommand:
			code := runServe(ctx, os.Args[2:], os.Stderr)
			stop()
			os.Exit(code)
		}
	}

	code := runReport(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// runServe starts the MCP server on stdio. Logs never go to stdout, which
// carries the protocol.
func runServe(ctx context.Context, args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("serve", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var rootDir, logLevel, logFile string
	flags.StringVar(&rootDir, "root", "", "Directory reported by default (default: current working directory)")
	flags.StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	flags.StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if rootDir == "" {
		var err error
		rootDir, err = os.Getwd()
		if err != nil {
			fmt.Fprintf(stderr, "Error getting working directory: %v\n", err)
			return 1
		}
	}
	rootDir, _ = filepath.Abs(rootDir)

	logger, closeLog := setupLogger(logLevel, logFile, stderr)
	defer closeLog()

	startTime := time.Now()
	logger.Info("starting folderreport MCP server", "root", rootDir, "version", server.Version)

	tracker := &tools.Tracker{}
	mcpServer := server.Setup(
		&tools.GenerateHandler{RootDir: rootDir, Tracker: tracker, Logger: logger},
		&tools.PreviewHandler{RootDir: rootDir, Logger: logger},
		&tools.StatusHandler{Tracker: tracker, StartTime: startTime, RootDir: rootDir, Logger: logger},
	)

	if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("MCP server error", "error", err)
		return 1
	}
	logger.Info("MCP server stopped", "reports", tracker.Runs())
	return 0
}

// setupLogger creates an slog.Logger writing to fallback or a file. The
// returned func closes the log file, if one was opened.
func setupLogger(level string, logFile string, fallback io.Writer) (*slog.Logger, func()) {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelWarn
	}

	writer := fallback
	closeFn := func() {}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(fallback, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
		} else {
			writer = f
			closeFn = func() { f.Close() }
		}
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler), closeFn
}
