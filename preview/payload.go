// Package preview produces bounded previews of catalog entries: media references, truncated
// text, and truncated tables. Content is fetched through a Fetcher on every call.
package preview

import "github.com/lexandro/assetview-mcp/catalog"

// Kind classifies a preview payload.
type Kind string

const (
	KindReference   Kind = "reference"   // embedded by reference, content not fetched
	KindText        Kind = "text"        // Body holds the (possibly truncated) text
	KindTable       Kind = "table"       // Rows holds the (possibly truncated) cells
	KindUnsupported Kind = "unsupported" // Message explains why
	KindFailed      Kind = "failed"      // content could not be fetched
)

// Fixed messages shown for payloads without content.
const (
	MessageSpreadsheet = "Spreadsheet preview not supported here. Use download/open to view."
	MessageUnsupported = "Preview not available. Use download/open to inspect."
	MessageFailed      = "Failed to load preview."
	MessageTruncated   = "Preview truncated for performance. Request the full preview to load everything."
	MessageTableCut    = "Table preview truncated. Request the full preview to see all rows/columns."
)

// Payload is the result of previewing one entry.
type Payload struct {
	Kind  Kind
	Entry catalog.Entry

	Body string     // KindText
	Rows [][]string // KindTable

	// Truncated is set when a limit actually cut content: lines or characters for text,
	// rows for tables.
	Truncated        bool
	ColumnsTruncated bool
	Binary           bool   // text body looks like binary data
	Message          string // KindUnsupported, KindFailed
}

// Limits bounds non-full previews.
type Limits struct {
	LineLimit     int
	CharLimit     int
	TableRowLimit int
	TableColLimit int
}

// DefaultLimits returns the standard preview limits.
func DefaultLimits() Limits {
	return Limits{
		LineLimit:     120,
		CharLimit:     8000,
		TableRowLimit: 20,
		TableColLimit: 10,
	}
}

func (l Limits) withDefaults() Limits {
	defaults := DefaultLimits()
	if l.LineLimit < 1 {
		l.LineLimit = defaults.LineLimit
	}
	if l.CharLimit < 1 {
		l.CharLimit = defaults.CharLimit
	}
	if l.TableRowLimit < 1 {
		l.TableRowLimit = defaults.TableRowLimit
	}
	if l.TableColLimit < 1 {
		l.TableColLimit = defaults.TableColLimit
	}
	return l
}
