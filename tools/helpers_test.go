package tools

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/assetview-mcp/browse"
	"github.com/lexandro/assetview-mcp/catalog"
	"github.com/lexandro/assetview-mcp/preview"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// staticPreviewer returns a text payload whose body is the entry path.
type staticPreviewer struct{}

func (staticPreviewer) Preview(ctx context.Context, entry catalog.Entry, showFull bool) preview.Payload {
	return preview.Payload{Kind: preview.KindText, Entry: entry, Body: "content of " + entry.Path}
}

func testStore(t *testing.T, paths ...string) *catalog.Store {
	t.Helper()
	entries := make([]catalog.Entry, len(paths))
	for i, path := range paths {
		entries[i] = catalog.NewEntry(i, catalog.RawEntry{Path: path, Size: int64(1024 * (i + 1))})
	}
	store := catalog.NewStore()
	store.Replace(catalog.NewSnapshot("assets-manifest.json", entries))
	return store
}

func testSession(store *catalog.Store, pageSize int) *browse.Session {
	return browse.NewSession(store, staticPreviewer{}, pageSize)
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("expected content in result")
	}
	return result.Content[0].(*mcp.TextContent).Text
}
