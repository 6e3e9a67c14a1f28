package tools

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/lexandro/assetview-mcp/browse"
	"github.com/lexandro/assetview-mcp/catalog"
	"github.com/lexandro/assetview-mcp/preview"
)

// maxCellWidth caps the display width of a table preview cell.
const maxCellWidth = 32

// FormatPage formats the entries revealed by a list call, one line per entry.
func FormatPage(page browse.Page) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%d/%d loaded (%d in catalog, load %s)\n",
		page.Visible, page.MatchedAll, page.Total, page.LoadID))

	if page.MatchedAll == 0 {
		builder.WriteString("\nNo files match your search.\n")
		return builder.String()
	}
	if len(page.Revealed) > 0 {
		builder.WriteString("\n")
		writeEntries(&builder, page.Revealed)
	}
	if page.HasMore {
		builder.WriteString(fmt.Sprintf("\n%d more; call again with more=true to load the next page.\n",
			page.MatchedAll-page.Visible))
	}
	return builder.String()
}

// FormatFindResults formats term search results. The load id lets callers pass the ids
// on to assetview_preview.
func FormatFindResults(result catalog.FindResult) string {
	if len(result.Entries) == 0 {
		return "No files matched."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d files (%d index hits, load %s):\n\n",
		len(result.Entries), result.Total, result.LoadID))
	writeEntries(&builder, result.Entries)
	return builder.String()
}

func writeEntries(builder *strings.Builder, entries []catalog.Entry) {
	maxID := 0
	for _, entry := range entries {
		maxID = max(maxID, entry.ID)
	}
	idWidth := len(fmt.Sprintf("%d", maxID))
	for _, entry := range entries {
		builder.WriteString(fmt.Sprintf("  [%*d] %s  (%s, %s)\n",
			idWidth, entry.ID, entry.Path, entry.Type, entry.SizeLabel))
	}
}

// FormatPreview renders a preview payload as text.
func FormatPreview(payload preview.Payload) string {
	entry := payload.Entry

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("── %s (%s, %s) ──\n", entry.Name, entry.Type, entry.SizeLabel))
	builder.WriteString(fmt.Sprintf("path: %s\n\n", entry.Path))

	switch payload.Kind {
	case preview.KindReference:
		builder.WriteString(fmt.Sprintf("Embed by reference: %s\n", entry.Path))
	case preview.KindText:
		if payload.Binary {
			builder.WriteString("(content looks binary)\n")
		}
		builder.WriteString(payload.Body)
		if !strings.HasSuffix(payload.Body, "\n") {
			builder.WriteString("\n")
		}
		if payload.Truncated {
			builder.WriteString("\n" + preview.MessageTruncated + "\n")
		}
	case preview.KindTable:
		builder.WriteString(FormatTable(payload.Rows))
		if payload.Truncated || payload.ColumnsTruncated {
			builder.WriteString("\n" + preview.MessageTableCut + "\n")
		}
	default:
		builder.WriteString(payload.Message)
		builder.WriteString("\n")
	}
	return builder.String()
}

// FormatTable aligns rows into columns by display width. Wide cells are shortened.
func FormatTable(rows [][]string) string {
	if len(rows) == 0 {
		return "(empty table)\n"
	}

	var widths []int
	for _, row := range rows {
		for col, cell := range row {
			width := min(runewidth.StringWidth(cell), maxCellWidth)
			if col >= len(widths) {
				widths = append(widths, width)
			} else if width > widths[col] {
				widths[col] = width
			}
		}
	}

	var builder strings.Builder
	for _, row := range rows {
		cells := make([]string, len(row))
		for col, cell := range row {
			cell = runewidth.Truncate(cell, maxCellWidth, "…")
			if col < len(row)-1 {
				cell = runewidth.FillRight(cell, widths[col])
			}
			cells[col] = cell
		}
		builder.WriteString(strings.Join(cells, " │ "))
		builder.WriteString("\n")
	}
	return builder.String()
}
