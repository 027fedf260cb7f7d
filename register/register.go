// Package register adds the folderreport MCP server to a Claude config file.
package register

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ServeCommand is the subcommand that starts the MCP server.
const ServeCommand = "serve"

// ErrUsage is returned when the register arguments are malformed.
var ErrUsage = errors.New("usage: register project [directory] [-- server flags] | register user [-- server flags]")

type serverEntry struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// Request is a parsed register invocation.
type Request struct {
	Scope      string // "project" or "user"
	Directory  string // project directory, "." by default
	ServerArgs []string
}

// Run registers serverName according to args (everything after "register")
// and reports the config path written on out.
func Run(serverName string, args []string, out io.Writer) error {
	request, err := ParseArgs(args)
	if err != nil {
		return err
	}

	binaryPath, err := detectBinaryPath()
	if err != nil {
		return err
	}
	configPath, err := resolveConfigPath(request.Scope, request.Directory)
	if err != nil {
		return err
	}

	entry := buildEntry(binaryPath, serveArgs(request))
	if err := writeConfig(configPath, serverName, entry); err != nil {
		return err
	}

	fmt.Fprintf(out, "Registered %q in %s\n", serverName, configPath)
	return nil
}

// ParseArgs splits register arguments into scope, directory and forwarded
// server flags.
func ParseArgs(args []string) (Request, error) {
	if len(args) == 0 {
		return Request{}, ErrUsage
	}

	request := Request{Scope: args[0]}
	if request.Scope != "project" && request.Scope != "user" {
		return Request{}, fmt.Errorf("unknown scope %q: %w", request.Scope, ErrUsage)
	}

	rest := args[1:]
	for i, arg := range rest {
		if arg == "--" {
			request.ServerArgs = rest[i+1:]
			rest = rest[:i]
			break
		}
	}

	switch {
	case request.Scope == "user" && len(rest) > 0:
		return Request{}, fmt.Errorf("user scope takes no directory: %w", ErrUsage)
	case len(rest) > 1:
		return Request{}, fmt.Errorf("too many arguments %v: %w", rest, ErrUsage)
	case len(rest) == 1:
		request.Directory = rest[0]
	case request.Scope == "project":
		request.Directory = "."
	}
	return request, nil
}

// DeriveServerName extracts a server name from a binary path by stripping
// .exe and -mcp suffixes.
func DeriveServerName(binaryPath string) string {
	name := filepath.Base(binaryPath)
	name = strings.TrimSuffix(name, ".exe")
	name = strings.TrimSuffix(name, "-mcp")
	return name
}

// serveArgs builds the server command line. Project registrations pin the
// server root to the project directory unless -root was forwarded.
func serveArgs(request Request) []string {
	args := []string{ServeCommand}
	if request.Scope == "project" && !hasRootFlag(request.ServerArgs) {
		if absDir, err := filepath.Abs(request.Directory); err == nil {
			args = append(args, "-root", absDir)
		}
	}
	return append(args, request.ServerArgs...)
}

func hasRootFlag(args []string) bool {
	for _, arg := range args {
		name, _, _ := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if strings.HasPrefix(arg, "-") && name == "root" {
			return true
		}
	}
	return false
}

func detectBinaryPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("getting executable path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", exe, err)
	}
	return resolved, nil
}

func resolveConfigPath(scope string, directory string) (string, error) {
	if scope == "project" {
		absDir, err := filepath.Abs(directory)
		if err != nil {
			return "", fmt.Errorf("resolving directory %s: %w", directory, err)
		}
		return filepath.Join(absDir, ".mcp.json"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".claude.json"), nil
}

func buildEntry(binaryPath string, args []string) serverEntry {
	if runtime.GOOS == "windows" {
		return serverEntry{
			Command: "cmd",
			Args:    append([]string{"/C", binaryPath}, args...),
		}
	}
	return serverEntry{Command: binaryPath, Args: args}
}

// writeConfig merges entry into the mcpServers object of configPath, keeping
// every other key, and replaces the file atomically.
func writeConfig(configPath string, serverName string, entry serverEntry) error {
	config := map[string]any{}
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("parsing existing config %s: %w", configPath, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("reading config %s: %w", configPath, err)
	}

	servers, ok := config["mcpServers"].(map[string]any)
	if !ok {
		if _, exists := config["mcpServers"]; exists {
			return fmt.Errorf("mcpServers in %s is not an object", configPath)
		}
		servers = map[string]any{}
		config["mcpServers"] = servers
	}
	servers[serverName] = entry

	output, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	output = append(output, '\n')

	return replaceFile(configPath, output)
}

// replaceFile writes data to a temp file next to path and renames it over path.
func replaceFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".mcp-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file %s: %w", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, path, err)
	}
	return nil
}
