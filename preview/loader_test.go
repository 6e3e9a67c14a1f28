package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/lexandro/assetview-mcp/catalog"
)

// memFetcher serves fixed content per path.
type memFetcher struct {
	files map[string][]byte
	calls int
}

func (f *memFetcher) Fetch(ctx context.Context, path string) (io.ReadCloser, error) {
	f.calls++
	data, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("not found: %s", path)
	}
	return io.NopCloser(strings.NewReader(string(data))), nil
}

func newTestLoader(files map[string]string) (*Loader, *memFetcher) {
	fetcher := &memFetcher{files: map[string][]byte{}}
	for path, content := range files {
		fetcher.files[path] = []byte(content)
	}
	return NewLoader(fetcher, slog.New(slog.NewTextHandler(io.Discard, nil))), fetcher
}

func entryFor(path string) catalog.Entry {
	return catalog.NewEntry(0, catalog.RawEntry{Path: path, Size: 1})
}

func makeLines(count, width int) string {
	line := strings.Repeat("x", width)
	var sb strings.Builder
	for i := 0; i < count; i++ {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func Test_Preview_ReferenceTypesSkipFetch(t *testing.T) {
	loader, fetcher := newTestLoader(nil)

	for _, path := range []string{"doc.pdf", "clip.mp4", "song.mp3"} {
		payload := loader.Preview(context.Background(), entryFor(path), false)
		if payload.Kind != KindReference {
			t.Errorf("%s: expected reference, got %s", path, payload.Kind)
		}
	}
	if fetcher.calls != 0 {
		t.Errorf("expected no fetches, got %d", fetcher.calls)
	}
}

func Test_Preview_Unsupported(t *testing.T) {
	loader, fetcher := newTestLoader(nil)

	sheet := loader.Preview(context.Background(), entryFor("book.xlsx"), false)
	if sheet.Kind != KindUnsupported || sheet.Message != MessageSpreadsheet {
		t.Errorf("unexpected spreadsheet payload: %+v", sheet)
	}
	other := loader.Preview(context.Background(), entryFor("archive.zip"), true)
	if other.Kind != KindUnsupported || other.Message != MessageUnsupported {
		t.Errorf("unexpected file payload: %+v", other)
	}
	if fetcher.calls != 0 {
		t.Errorf("expected no fetches, got %d", fetcher.calls)
	}
}

func Test_Preview_TextLineLimit(t *testing.T) {
	content := makeLines(200, 50)
	loader, _ := newTestLoader(map[string]string{"notes.txt": content})

	payload := loader.Preview(context.Background(), entryFor("notes.txt"), false)
	if payload.Kind != KindText {
		t.Fatalf("expected text, got %s", payload.Kind)
	}
	if got := len(strings.Split(payload.Body, "\n")); got != 120 {
		t.Errorf("expected 120 lines, got %d", got)
	}
	if !payload.Truncated {
		t.Error("expected truncated")
	}

	full := loader.Preview(context.Background(), entryFor("notes.txt"), true)
	if full.Body != content {
		t.Error("expected full content untouched")
	}
	if full.Truncated {
		t.Error("expected full preview not truncated")
	}
}

func Test_Preview_TextCharLimit(t *testing.T) {
	content := strings.Repeat("é", 9000)
	loader, _ := newTestLoader(map[string]string{"a.log": content})

	payload := loader.Preview(context.Background(), entryFor("a.log"), false)
	if n := len([]rune(payload.Body)); n != 8000 {
		t.Errorf("expected 8000 characters, got %d", n)
	}
	if !payload.Truncated {
		t.Error("expected truncated")
	}
}

func Test_Preview_TextExactlyAtLimits(t *testing.T) {
	loader, _ := newTestLoader(map[string]string{"a.txt": makeLines(120, 10)})

	payload := loader.Preview(context.Background(), entryFor("a.txt"), false)
	if payload.Truncated {
		t.Error("expected no truncation at exactly the line limit")
	}
}

func Test_Preview_TextCRLF(t *testing.T) {
	loader, _ := newTestLoader(map[string]string{"a.txt": "one\r\ntwo\r\n"})

	payload := loader.Preview(context.Background(), entryFor("a.txt"), false)
	if payload.Body != "one\ntwo\n" {
		t.Errorf("expected normalized lines, got %q", payload.Body)
	}
}

func Test_Preview_TextKeepsFinalNewline(t *testing.T) {
	tests := map[string]string{
		"a\nb\n":   "a\nb\n",
		"a\nb":     "a\nb",
		"":         "",
		"\n":       "\n",
		"a\nb\n\n": "a\nb\n\n",
	}
	for content, want := range tests {
		loader, _ := newTestLoader(map[string]string{"a.txt": content})

		payload := loader.Preview(context.Background(), entryFor("a.txt"), false)
		if payload.Body != want || payload.Truncated {
			t.Errorf("content %q: expected body %q untruncated, got %q (truncated=%v)", content, want, payload.Body, payload.Truncated)
		}
	}
}

func Test_Preview_TextLineLimitDropsFinalNewline(t *testing.T) {
	loader, _ := newTestLoader(map[string]string{"a.txt": makeLines(121, 1)})

	payload := loader.Preview(context.Background(), entryFor("a.txt"), false)
	if strings.HasSuffix(payload.Body, "\n") || !payload.Truncated {
		t.Errorf("expected 120 lines without trailing newline and truncated, got truncated=%v", payload.Truncated)
	}
}

func Test_Preview_UTF16WithBOM(t *testing.T) {
	// "hi" in UTF-16LE with BOM
	loader, _ := newTestLoader(map[string]string{"a.txt": "\xff\xfeh\x00i\x00"})

	payload := loader.Preview(context.Background(), entryFor("a.txt"), true)
	if payload.Body != "hi" {
		t.Errorf("expected decoded text, got %q", payload.Body)
	}
}

func Test_Preview_BinaryData(t *testing.T) {
	loader, _ := newTestLoader(map[string]string{"blob.dat": "ab\x00cd"})

	payload := loader.Preview(context.Background(), entryFor("blob.dat"), false)
	if payload.Kind != KindText || !payload.Binary {
		t.Errorf("expected binary text payload, got %+v", payload)
	}
}

func Test_Preview_TableTruncation(t *testing.T) {
	var sb strings.Builder
	for r := 0; r < 30; r++ {
		cells := make([]string, 15)
		for c := range cells {
			cells[c] = fmt.Sprintf("r%dc%d", r, c)
		}
		sb.WriteString(strings.Join(cells, ","))
		sb.WriteString("\n")
	}
	loader, _ := newTestLoader(map[string]string{"grid.csv": sb.String()})

	payload := loader.Preview(context.Background(), entryFor("grid.csv"), false)
	if payload.Kind != KindTable {
		t.Fatalf("expected table, got %s", payload.Kind)
	}
	if len(payload.Rows) != 20 {
		t.Errorf("expected 20 rows, got %d", len(payload.Rows))
	}
	for i, row := range payload.Rows {
		if len(row) != 10 {
			t.Errorf("row %d: expected 10 columns, got %d", i, len(row))
		}
	}
	if !payload.Truncated || !payload.ColumnsTruncated {
		t.Errorf("expected rows and columns truncated, got %v/%v", payload.Truncated, payload.ColumnsTruncated)
	}

	full := loader.Preview(context.Background(), entryFor("grid.csv"), true)
	if len(full.Rows) != 30 || len(full.Rows[0]) != 15 || full.Truncated {
		t.Errorf("expected full 30x15 table, got %d rows", len(full.Rows))
	}
}

func Test_Preview_TableTSVAndBlankLines(t *testing.T) {
	loader, _ := newTestLoader(map[string]string{"data/x.TSV": "a\tb\n\n   \r\nc\td\r\n"})

	payload := loader.Preview(context.Background(), entryFor("data/x.TSV"), false)
	if len(payload.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %v", len(payload.Rows), payload.Rows)
	}
	if payload.Rows[1][1] != "d" {
		t.Errorf("expected tab-split cells, got %v", payload.Rows[1])
	}
	if payload.Truncated || payload.ColumnsTruncated {
		t.Error("expected no truncation")
	}
}

func Test_Preview_FetchFailure(t *testing.T) {
	loader, _ := newTestLoader(nil)

	payload := loader.Preview(context.Background(), entryFor("missing.txt"), false)
	if payload.Kind != KindFailed || payload.Message != MessageFailed {
		t.Errorf("expected failed payload, got %+v", payload)
	}
}

func Test_Loader_FetchWrapsError(t *testing.T) {
	loader, _ := newTestLoader(nil)

	_, err := loader.fetch(context.Background(), "missing.txt")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.Path != "missing.txt" {
		t.Errorf("expected path in error, got %q", fetchErr.Path)
	}
}

func Test_Preview_NoCaching(t *testing.T) {
	loader, fetcher := newTestLoader(map[string]string{"a.txt": "v1"})

	loader.Preview(context.Background(), entryFor("a.txt"), false)
	fetcher.files["a.txt"] = []byte("v2")
	payload := loader.Preview(context.Background(), entryFor("a.txt"), false)

	if payload.Body != "v2" || fetcher.calls != 2 {
		t.Errorf("expected a fresh fetch per call, got %q after %d calls", payload.Body, fetcher.calls)
	}
}
