package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/lexandro/assetview-mcp/ignore"
	"github.com/lexandro/assetview-mcp/manifest"
)

// excludePatterns is a repeatable CLI flag for custom ignore patterns.
type excludePatterns []string

func (e *excludePatterns) String() string { return strings.Join(*e, ", ") }
func (e *excludePatterns) Set(value string) error {
	*e = append(*e, value)
	return nil
}

// runGenerate executes the generate subcommand: it scans a directory and writes the
// manifest in its JSON and script forms.
func runGenerate(args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("generate", flag.ContinueOnError)

	var rootDir, jsonPath, jsPath string
	var useGitignore, noDefaults bool
	var excludes excludePatterns

	flags.StringVar(&rootDir, "root", "assets", "Directory to scan")
	flags.StringVar(&jsonPath, "json", manifest.DefaultFileName, "Path to write the JSON manifest (empty skips)")
	flags.StringVar(&jsPath, "js", "assets-manifest.js", "Path to write the script manifest (empty skips)")
	flags.Var(&excludes, "exclude", "Extra ignore pattern (repeatable)")
	flags.BoolVar(&useGitignore, "gitignore", false, "Skip files matched by <root>/.gitignore")
	flags.BoolVar(&noDefaults, "no-default-ignores", false, "Include VCS metadata and OS/partial-download files")
	if err := flags.Parse(args); err != nil {
		return err
	}

	matcher := ignore.NewMatcher(ignore.MatcherOptions{
		RootDir:        rootDir,
		CustomPatterns: excludes,
		UseGitignore:   useGitignore,
		SkipDefaults:   noDefaults,
	})

	entries, err := manifest.Generate(manifest.GenerateOptions{RootDir: rootDir, Matcher: matcher})
	if err != nil {
		return err
	}

	var written []string
	if jsonPath != "" {
		if err := manifest.WriteJSON(jsonPath, entries); err != nil {
			return err
		}
		written = append(written, jsonPath)
	}
	if jsPath != "" {
		if err := manifest.WriteJS(jsPath, entries); err != nil {
			return err
		}
		written = append(written, jsPath)
	}

	fmt.Fprintf(stdout, "Wrote %d entries to %s\n", len(entries), strings.Join(written, " and "))
	return nil
}
