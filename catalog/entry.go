// Package catalog holds the normalized in-memory asset catalog and the pure operations over it:
// batched manifest mapping, substring filtering and incremental pagination.
package catalog

import (
	"strings"

	"github.com/lexandro/assetview-mcp/filetype"
)

// RawEntry is one untrusted manifest record. Paths may use backslash separators.
type RawEntry struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Entry is a normalized catalog record. Entries are immutable once mapped.
type Entry struct {
	ID        int           // index in the manifest, reassigned on every load
	Path      string        // forward-slash path
	Name      string        // final path segment
	Size      int64         // bytes
	SizeLabel string        // human readable size, see FormatSize
	Type      filetype.Type // preview category
}

// NormalizePath converts every backslash separator to a forward slash.
func NormalizePath(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

// NewEntry maps a single raw record to a catalog entry with the given id.
func NewEntry(id int, raw RawEntry) Entry {
	path := NormalizePath(raw.Path)
	return Entry{
		ID:        id,
		Path:      path,
		Name:      path[strings.LastIndexByte(path, '/')+1:],
		Size:      raw.Size,
		SizeLabel: FormatSize(raw.Size),
		Type:      filetype.Detect(path),
	}
}
