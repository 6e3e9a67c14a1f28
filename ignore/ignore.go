// Package ignore decides which files under an asset root are left out of a generated manifest.
package ignore

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// Matcher combines default patterns, the root's .gitignore and extra doublestar patterns.
// It is immutable after construction and safe for concurrent use.
type Matcher struct {
	rootDir        string
	gitIgnore      gitignore.GitIgnore
	customPatterns []string
	skipDefaults   bool
}

// MatcherOptions configures the matcher.
type MatcherOptions struct {
	RootDir        string
	CustomPatterns []string // doublestar patterns against the root-relative path or base name
	UseGitignore   bool     // honour <RootDir>/.gitignore
	SkipDefaults   bool     // disable DefaultPatterns
}

// NewMatcher creates a matcher for the given root.
func NewMatcher(options MatcherOptions) *Matcher {
	rootDir, err := filepath.Abs(options.RootDir)
	if err != nil {
		rootDir = options.RootDir
	}
	matcher := &Matcher{
		rootDir:      rootDir,
		skipDefaults: options.SkipDefaults,
	}
	for _, pattern := range options.CustomPatterns {
		matcher.customPatterns = append(matcher.customPatterns, filepath.ToSlash(pattern))
	}
	if options.UseGitignore {
		matcher.gitIgnore = loadIgnoreFile(filepath.Join(rootDir, ".gitignore"), rootDir)
	}
	return matcher
}

// ShouldIgnore reports whether the file or directory at absolutePath is excluded.
// Excluding a directory excludes everything beneath it.
func (m *Matcher) ShouldIgnore(absolutePath string, isDir bool) bool {
	relativePath, err := filepath.Rel(m.rootDir, absolutePath)
	if err != nil {
		relativePath = absolutePath
	}
	relativePath = filepath.ToSlash(relativePath)

	if !m.skipDefaults && matchesDefaultPatterns(relativePath) {
		return true
	}

	if m.gitIgnore != nil {
		if match := m.gitIgnore.Relative(relativePath, isDir); match != nil && match.Ignore() {
			return true
		}
	}

	return m.matchesCustomPatterns(relativePath)
}

func matchesDefaultPatterns(relativePath string) bool {
	baseLower := strings.ToLower(path.Base(relativePath))
	parts := strings.Split(strings.ToLower(relativePath), "/")

	for _, pattern := range DefaultPatterns {
		patternLower := strings.ToLower(pattern)
		if !strings.ContainsAny(pattern, "*?[") {
			for _, part := range parts {
				if part == patternLower {
					return true
				}
			}
			continue
		}
		if matched, err := doublestar.Match(patternLower, baseLower); err == nil && matched {
			return true
		}
	}
	return false
}

func (m *Matcher) matchesCustomPatterns(relativePath string) bool {
	baseName := path.Base(relativePath)
	for _, pattern := range m.customPatterns {
		if matched, err := doublestar.Match(pattern, relativePath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, baseName); err == nil && matched {
			return true
		}
	}
	return false
}

// loadIgnoreFile reads an ignore file; a missing file yields no rules.
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}
