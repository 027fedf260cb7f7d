package tools

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lexandro/folderreport/report"
	"github.com/lexandro/folderreport/walk"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("expected content in result")
	}
	return result.Content[0].(*mcp.TextContent).Text
}

// --- formatting helpers ---

func Test_FormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"Seconds_zero", 0, "0s"},
		{"Seconds_59", 59 * time.Second, "59s"},
		{"Minutes_5m30s", 5*time.Minute + 30*time.Second, "5m30s"},
		{"Hours_2h0m", 2 * time.Hour, "2h0m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatDuration(tt.duration)
			if got != tt.expected {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.duration, got, tt.expected)
			}
		})
	}
}

func Test_FormatFileSize(t *testing.T) {
	if got := formatFileSize(500); got != "500 B" {
		t.Errorf("expected '500 B', got '%s'", got)
	}
	if got := formatFileSize(2048); got != "2.0 KB" {
		t.Errorf("expected '2.0 KB', got '%s'", got)
	}
	if got := formatFileSize(3 * 1024 * 1024); got != "3.0 MB" {
		t.Errorf("expected '3.0 MB', got '%s'", got)
	}
}

func Test_ResolvePath(t *testing.T) {
	rootDir := filepath.Join(string(os.PathSeparator), "project")
	absolute := filepath.Join(string(os.PathSeparator), "elsewhere", "out.txt")

	tests := []struct {
		name     string
		rootDir  string
		path     string
		fallback string
		want     string
	}{
		{"empty uses fallback", rootDir, "", "estrutura_pastas.txt", filepath.Join(rootDir, "estrutura_pastas.txt")},
		{"relative joined", rootDir, "docs", ".", filepath.Join(rootDir, "docs")},
		{"absolute kept", rootDir, absolute, ".", absolute},
		{"no root dir", "", "docs", ".", "docs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolvePath(tt.rootDir, tt.path, tt.fallback)
			if got != tt.want {
				t.Errorf("resolvePath(%q, %q, %q) = %q, want %q", tt.rootDir, tt.path, tt.fallback, got, tt.want)
			}
		})
	}
}

func Test_FormatSummary(t *testing.T) {
	got := FormatSummary(report.Summary{
		OutputPath:  "out.txt",
		Directories: 3,
		Subdirs:     2,
		Files:       7,
		Duration:    1500 * time.Millisecond,
	})
	want := "report saved to out.txt: 3 directories, 2 subdirectory entries, 7 files in 1.5s"
	if got != want {
		t.Errorf("FormatSummary() = %q, want %q", got, want)
	}
}

// --- GenerateHandler ---

func Test_GenerateHandler_WritesReport(t *testing.T) {
	rootDir := t.TempDir()
	os.Mkdir(filepath.Join(rootDir, "src"), 0755)
	tracker := &Tracker{}
	h := &GenerateHandler{RootDir: rootDir, Tracker: tracker, Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, GenerateArgs{OutputPath: "report.txt", Sorted: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got: %s", resultText(t, result))
	}

	outputPath := filepath.Join(rootDir, "report.txt")
	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("expected report file: %v", err)
	}
	if !strings.HasPrefix(string(data), "Pasta: "+rootDir+"\n") {
		t.Errorf("unexpected report start:\n%s", data)
	}
	if !strings.Contains(resultText(t, result), "report saved to "+outputPath) {
		t.Errorf("unexpected summary: %s", resultText(t, result))
	}

	last, _, ok := tracker.Last()
	if !ok || last.OutputPath != outputPath {
		t.Errorf("expected tracker to record %s, got %+v (ok=%v)", outputPath, last, ok)
	}
}

func Test_GenerateHandler_DefaultsAndOrder(t *testing.T) {
	var got report.Options
	h := &GenerateHandler{
		RootDir: "/project",
		Generate: func(options report.Options) (report.Summary, error) {
			got = options
			return report.Summary{OutputPath: options.OutputPath}, nil
		},
		Logger: testLogger(),
	}

	if _, _, err := h.Handle(context.Background(), nil, GenerateArgs{Sorted: true}); err != nil {
		t.Fatal(err)
	}

	if got.Root != filepath.Join("/project", ".") {
		t.Errorf("expected root to default to the server root, got %q", got.Root)
	}
	if got.OutputPath != filepath.Join("/project", report.DefaultOutputPath) {
		t.Errorf("expected default output path, got %q", got.OutputPath)
	}
	if got.Order != walk.OrderSorted {
		t.Errorf("expected sorted order, got %v", got.Order)
	}
}

func Test_GenerateHandler_Error(t *testing.T) {
	h := &GenerateHandler{
		Generate: func(options report.Options) (report.Summary, error) {
			return report.Summary{}, errors.New("disk full")
		},
		Tracker: &Tracker{},
		Logger:  testLogger(),
	}

	result, _, err := h.Handle(context.Background(), nil, GenerateArgs{})
	if err != nil {
		t.Fatalf("expected nil Go error, got: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true")
	}
	if !strings.Contains(resultText(t, result), "disk full") {
		t.Errorf("expected error text, got: %s", resultText(t, result))
	}
	if h.Tracker.Runs() != 0 {
		t.Error("failed runs must not be recorded")
	}
}

// --- PreviewHandler ---

func Test_PreviewHandler_ReturnsReport(t *testing.T) {
	rootDir := t.TempDir()
	os.Mkdir(filepath.Join(rootDir, "a"), 0755)
	os.WriteFile(filepath.Join(rootDir, "f.txt"), []byte("x"), 0644)
	h := &PreviewHandler{RootDir: rootDir, Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, PreviewArgs{})
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, result)

	for _, want := range []string{"  Subpasta: a\n", "  Arquivo: f.txt\n", report.Separator} {
		if !strings.Contains(text, want) {
			t.Errorf("expected preview to contain %q, got:\n%s", want, text)
		}
	}
	if _, err := os.Stat(filepath.Join(rootDir, report.DefaultOutputPath)); !os.IsNotExist(err) {
		t.Error("preview must not write a report file")
	}
}

func Test_PreviewHandler_Truncates(t *testing.T) {
	rootDir := t.TempDir()
	for _, name := range []string{"a", "b", "c"} {
		os.Mkdir(filepath.Join(rootDir, name), 0755)
	}
	h := &PreviewHandler{RootDir: rootDir, Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, PreviewArgs{MaxDirectories: 1})
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, result)
	if strings.Count(text, report.Separator) != 1 {
		t.Errorf("expected one block, got:\n%s", text)
	}
	if !strings.Contains(text, "stopped after 1 directories") {
		t.Errorf("expected truncation note, got:\n%s", text)
	}
}

func Test_PreviewHandler_MissingRoot(t *testing.T) {
	h := &PreviewHandler{RootDir: t.TempDir(), Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, PreviewArgs{Root: "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for missing root")
	}
	if !strings.Contains(resultText(t, result), "path not found") {
		t.Errorf("expected not-found message, got: %s", resultText(t, result))
	}
}

// --- StatusHandler ---

func Test_StatusHandler_BeforeAnyReport(t *testing.T) {
	h := &StatusHandler{Tracker: &Tracker{}, StartTime: time.Now(), RootDir: "/test/project", Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, StatusArgs{})
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, result)

	for _, check := range []string{"folderreport Status", "/test/project", "Reports generated: 0"} {
		if !strings.Contains(text, check) {
			t.Errorf("expected output to contain %q, got:\n%s", check, text)
		}
	}
	if strings.Contains(text, "Last report") {
		t.Errorf("expected no last report section, got:\n%s", text)
	}
}

func Test_StatusHandler_WithLastReport(t *testing.T) {
	tracker := &Tracker{}
	tracker.Record(report.Summary{Root: "/test/project", OutputPath: "/test/project/out.txt", Directories: 4, Files: 9})
	h := &StatusHandler{Tracker: tracker, StartTime: time.Now(), RootDir: "/test/project", Logger: testLogger()}

	result, _, err := h.Handle(context.Background(), nil, StatusArgs{})
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, result)

	for _, check := range []string{"Reports generated: 1", "Output:      /test/project/out.txt", "Directories: 4", "Files:       9"} {
		if !strings.Contains(text, check) {
			t.Errorf("expected output to contain %q, got:\n%s", check, text)
		}
	}
}
