// Package register adds this server to an MCP client configuration file.
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

// Scopes accepted by the register subcommand.
const (
	ScopeProject = "project" // <directory>/.mcp.json
	ScopeUser    = "user"    // ~/.claude.json
)

var errUsage = errors.New("usage")

type mcpServerEntry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// Options is a parsed register command line.
type Options struct {
	Scope      string
	Directory  string            // project scope only
	Env        map[string]string // from -e KEY=VALUE
	ServerArgs []string          // everything after "--"
}

// Run executes the register subcommand.
// serverName is the MCP server name (e.g. "assetview").
// args is os.Args[2:] (everything after "register").
func Run(serverName string, args []string, stdout, stderr io.Writer) error {
	options, err := ParseArgs(args)
	if err != nil {
		if errors.Is(err, errUsage) {
			printUsage(stderr)
		}
		return err
	}

	binaryPath, err := detectBinaryPath()
	if err != nil {
		return fmt.Errorf("detecting binary path: %w", err)
	}

	configPath, err := resolveConfigPath(options.Scope, options.Directory)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}

	entry := buildEntry(binaryPath, options.ServerArgs)
	entry.Env = options.Env

	if err := writeConfig(configPath, serverName, entry); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(stdout, "Registered %q in %s\n", serverName, configPath)
	return nil
}

func printUsage(w io.Writer) {
	binaryName := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  %s register project [directory]            # → <directory>/.mcp.json (default: .)\n", binaryName)
	fmt.Fprintf(w, "  %s register user                           # → ~/.claude.json\n", binaryName)
	fmt.Fprintf(w, "  %s register user -e ASSETVIEW_CONTENT=/data # set server environment (repeatable)\n", binaryName)
	fmt.Fprintf(w, "  %s register project . -- -manifest m.json  # forward args to server\n", binaryName)
}

// DeriveServerName extracts a server name from a binary path by stripping .exe and -mcp suffixes.
func DeriveServerName(binaryPath string) string {
	name := filepath.Base(binaryPath)
	name = strings.TrimSuffix(name, ".exe")
	name = strings.TrimSuffix(name, "-mcp")
	return name
}

// ParseArgs parses "<scope> [directory] [-e KEY=VALUE]... [-- server args...]".
func ParseArgs(args []string) (Options, error) {
	if len(args) == 0 {
		return Options{}, fmt.Errorf("%w: missing scope", errUsage)
	}

	options := Options{Scope: args[0]}
	if options.Scope != ScopeProject && options.Scope != ScopeUser {
		return Options{}, fmt.Errorf("%w: unknown scope %q (must be \"project\" or \"user\")", errUsage, options.Scope)
	}
	if options.Scope == ScopeProject {
		options.Directory = "."
	}

	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		switch {
		case arg == "--":
			options.ServerArgs = rest[i+1:]
			return options, nil
		case arg == "-e" || arg == "--env":
			if i+1 >= len(rest) {
				return Options{}, fmt.Errorf("%w: %s needs KEY=VALUE", errUsage, arg)
			}
			i++
			key, value, ok := strings.Cut(rest[i], "=")
			if !ok || key == "" {
				return Options{}, fmt.Errorf("%w: invalid environment entry %q", errUsage, rest[i])
			}
			if options.Env == nil {
				options.Env = make(map[string]string)
			}
			options.Env[key] = value
		case options.Scope == ScopeProject && i == 0:
			options.Directory = arg
		default:
			return Options{}, fmt.Errorf("%w: unexpected argument %q", errUsage, arg)
		}
	}
	return options, nil
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
	if scope == ScopeProject {
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

func buildEntry(binaryPath string, serverArgs []string) mcpServerEntry {
	if runtime.GOOS == "windows" {
		args := []string{"/C", binaryPath}
		args = append(args, serverArgs...)
		return mcpServerEntry{
			Command: "cmd",
			Args:    args,
		}
	}
	return mcpServerEntry{
		Command: binaryPath,
		Args:    serverArgs,
	}
}

// writeConfig adds or replaces serverName under mcpServers, keeping every other key.
func writeConfig(configPath string, serverName string, entry mcpServerEntry) error {
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

	servers, ok := config["mcpServers"]
	if !ok {
		servers = map[string]any{}
		config["mcpServers"] = servers
	}
	serversMap, ok := servers.(map[string]any)
	if !ok {
		return fmt.Errorf("mcpServers in %s is not an object", configPath)
	}
	serversMap[serverName] = entry

	output, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	output = append(output, '\n')

	configDir := filepath.Dir(configPath)
	tmpFile, err := os.CreateTemp(configDir, ".mcp-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", configDir, err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(output); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file %s: %w", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, configPath, err)
	}
	return nil
}
