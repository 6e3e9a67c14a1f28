package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/lexandro/assetview-mcp/catalog"
	"github.com/lexandro/assetview-mcp/filetype"
	"github.com/lexandro/assetview-mcp/metrics"
)

// Loader previews catalog entries by type. Every call fetches afresh.
type Loader struct {
	Fetcher Fetcher
	Limits  Limits
	Logger  *slog.Logger
}

// NewLoader creates a loader with the default limits.
func NewLoader(fetcher Fetcher, logger *slog.Logger) *Loader {
	return &Loader{Fetcher: fetcher, Limits: DefaultLimits(), Logger: logger}
}

// Preview builds the payload for entry. With showFull the content is returned untruncated.
// Fetch failures become a KindFailed payload; Preview never returns an error.
func (l *Loader) Preview(ctx context.Context, entry catalog.Entry, showFull bool) Payload {
	start := time.Now()
	payload := l.preview(ctx, entry, showFull)
	metrics.RecordPreview(string(entry.Type), string(payload.Kind), time.Since(start))
	return payload
}

func (l *Loader) preview(ctx context.Context, entry catalog.Entry, showFull bool) Payload {
	payload := Payload{Entry: entry}

	switch {
	case entry.Type.IsReference():
		payload.Kind = KindReference
		return payload
	case entry.Type == filetype.Spreadsheet:
		payload.Kind = KindUnsupported
		payload.Message = MessageSpreadsheet
		return payload
	case entry.Type == filetype.Text, entry.Type == filetype.Data, entry.Type == filetype.Table:
	default:
		payload.Kind = KindUnsupported
		payload.Message = MessageUnsupported
		return payload
	}

	data, err := l.fetch(ctx, entry.Path)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			l.Logger.Debug("preview fetch cancelled", "path", entry.Path)
		} else {
			l.Logger.Error("preview fetch failed", "path", entry.Path, "error", err)
		}
		payload.Kind = KindFailed
		payload.Message = MessageFailed
		return payload
	}
	metrics.RecordPreviewBytes(int64(len(data)))

	text := decodeText(data)
	limits := l.Limits.withDefaults()

	if entry.Type == filetype.Table {
		payload.Kind = KindTable
		payload.Rows, payload.Truncated, payload.ColumnsTruncated = splitTable(text, tableDelimiter(entry.Path), limits, showFull)
		return payload
	}

	payload.Kind = KindText
	payload.Binary = filetype.IsBinaryContent(data)
	if showFull {
		payload.Body = text
		return payload
	}
	payload.Body, payload.Truncated = truncateText(text, limits)
	return payload
}

func (l *Loader) fetch(ctx context.Context, path string) ([]byte, error) {
	if l.Fetcher == nil {
		return nil, &FetchError{Path: path, Err: fmt.Errorf("no content source configured")}
	}
	body, err := l.Fetcher.Fetch(ctx, path)
	if err != nil {
		return nil, &FetchError{Path: path, Err: err}
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &FetchError{Path: path, Err: fmt.Errorf("reading content: %w", err)}
	}
	return data, nil
}

// decodeText decodes UTF-8, or UTF-16 when a byte order mark says so. Invalid sequences
// become U+FFFD.
func decodeText(data []byte) string {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	decoded, _, err := transform.Bytes(decoder, data)
	if err != nil {
		decoded = data
	}
	return strings.ToValidUTF8(string(decoded), "\uFFFD")
}

// splitLines splits on LF or CRLF.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// truncateText keeps the first LineLimit lines, then the first CharLimit characters.
// The empty line after a final newline does not count as a line; when no line is cut the
// final newline is kept.
func truncateText(text string, limits Limits) (string, bool) {
	lines := splitLines(text)
	counted := len(lines)
	if counted > 1 && lines[counted-1] == "" {
		counted--
	}

	truncated := false
	if counted > limits.LineLimit {
		lines = lines[:limits.LineLimit]
		truncated = true
	}
	body := strings.Join(lines, "\n")

	if utf8.RuneCountInString(body) > limits.CharLimit {
		body = cutRunes(body, limits.CharLimit)
		truncated = true
	}
	return body, truncated
}

func cutRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func tableDelimiter(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return "\t"
	}
	return ","
}

// splitTable splits text into rows of cells, skipping blank lines. Unless showFull, rows and
// columns are capped by limits.
func splitTable(text, delimiter string, limits Limits, showFull bool) (rows [][]string, rowsCut, colsCut bool) {
	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !showFull && len(rows) == limits.TableRowLimit {
			rowsCut = true
			break
		}
		cells := strings.Split(line, delimiter)
		if !showFull && len(cells) > limits.TableColLimit {
			cells = cells[:limits.TableColLimit]
			colsCut = true
		}
		rows = append(rows, cells)
	}
	return rows, rowsCut, colsCut
}
