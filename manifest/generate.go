package manifest

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lexandro/assetview-mcp/catalog"
	"github.com/lexandro/assetview-mcp/ignore"
)

// GenerateOptions configures manifest generation.
type GenerateOptions struct {
	RootDir string
	Matcher *ignore.Matcher // optional
}

// Generate walks RootDir and returns one record per regular file, in lexical path order.
// Paths are "<root dir name>/<forward-slash relative path>".
func Generate(options GenerateOptions) ([]catalog.RawEntry, error) {
	root, err := filepath.Abs(options.RootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", options.RootDir, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("root directory not found: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	rootName := filepath.Base(root)
	entries := []catalog.RawEntry{}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if options.Matcher != nil && options.Matcher.ShouldIgnore(path, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		fileInfo, err := d.Info()
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		entries = append(entries, catalog.RawEntry{
			Path: rootName + "/" + filepath.ToSlash(relPath),
			Size: fileInfo.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return entries, nil
}

// WriteJSON writes the manifest as an indented JSON array.
func WriteJSON(outPath string, entries []catalog.RawEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return writeFileAtomic(outPath, data)
}

// WriteJS writes the manifest as a script assigning window.__ASSET_MANIFEST__,
// so a page can embed it without a fetch.
func WriteJS(outPath string, entries []catalog.RawEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	script := make([]byte, 0, len(data)+40)
	script = append(script, "window."+embeddedGlobal+" = "...)
	script = append(script, data...)
	script = append(script, ";"...)
	return writeFileAtomic(outPath, script)
}

// writeFileAtomic writes to a temp file in the target directory, then renames it into place.
// A watcher on the manifest then sees one complete write.
func writeFileAtomic(outPath string, data []byte) error {
	dir := filepath.Dir(outPath)
	tmpFile, err := os.CreateTemp(dir, ".manifest-*.tmp")
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
	if err := os.Rename(tmpPath, outPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, outPath, err)
	}
	return nil
}
