package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/lexandro/assetview-mcp/catalog"
)

func newTestFindHandler(t *testing.T, paths ...string) *FindHandler {
	t.Helper()
	store := testStore(t, paths...)
	names, err := catalog.NewNameIndex()
	if err != nil {
		t.Fatalf("failed to create name index: %v", err)
	}
	t.Cleanup(func() { names.Close() })
	if err := names.Rebuild(store.Current(), 0); err != nil {
		t.Fatalf("failed to build name index: %v", err)
	}
	return &FindHandler{Store: store, Names: names, Logger: testLogger()}
}

// loadIDFromFind extracts the load id printed in a find result header.
func loadIDFromFind(t *testing.T, text string) string {
	t.Helper()
	_, rest, ok := strings.Cut(text, "load ")
	if !ok {
		t.Fatalf("no load id in:\n%s", text)
	}
	loadID, _, _ := strings.Cut(rest, "):")
	return loadID
}

func Test_FindHandler_TermsAndType(t *testing.T) {
	h := newTestFindHandler(t, "data/sales_report.csv", "data/sales_report.pdf", "media/intro.mp4")

	result, _, err := h.Handle(context.Background(), nil, FindArgs{Terms: "report", Type: "table"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got: %s", resultText(t, result))
	}
	text := resultText(t, result)
	if !strings.Contains(text, "sales_report.csv") {
		t.Errorf("expected csv match, got:\n%s", text)
	}
	if strings.Contains(text, "sales_report.pdf") {
		t.Errorf("expected pdf filtered out by type, got:\n%s", text)
	}
}

func Test_FindHandler_Glob(t *testing.T) {
	h := newTestFindHandler(t, "a/one.txt", "b/two.txt")

	result, _, _ := h.Handle(context.Background(), nil, FindArgs{Glob: "b/**"})
	text := resultText(t, result)
	if !strings.Contains(text, "b/two.txt") || strings.Contains(text, "a/one.txt") {
		t.Errorf("unexpected glob results:\n%s", text)
	}
}

func Test_FindHandler_Validation(t *testing.T) {
	h := newTestFindHandler(t, "a.txt")

	tests := []struct {
		name string
		args FindArgs
	}{
		{"NoCriteria", FindArgs{}},
		{"UnknownType", FindArgs{Terms: "a", Type: "movie"}},
		{"InvalidGlob", FindArgs{Glob: "[unclosed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := h.Handle(context.Background(), nil, tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.IsError {
				t.Errorf("expected IsError=true, got: %s", resultText(t, result))
			}
		})
	}
}

func Test_FindHandler_ReportsLoadID(t *testing.T) {
	h := newTestFindHandler(t, "data/report.csv")

	result, _, _ := h.Handle(context.Background(), nil, FindArgs{Terms: "report"})
	if got, want := loadIDFromFind(t, resultText(t, result)), h.Store.Current().LoadID.String(); got != want {
		t.Errorf("expected load id %s, got %s", want, got)
	}
}

func Test_FindHandler_IDsRejectedAfterReload(t *testing.T) {
	h := newTestFindHandler(t, "a/first.txt", "b/second.txt")
	session := testSession(h.Store, 10)
	previewHandler := &PreviewHandler{Session: session, Logger: testLogger()}

	result, _, _ := h.Handle(context.Background(), nil, FindArgs{Terms: "second"})
	loadID := loadIDFromFind(t, resultText(t, result))

	// The reload swaps the two paths, so id 1 now names a different file.
	reloaded := catalog.NewSnapshot("assets-manifest.json", []catalog.Entry{
		catalog.NewEntry(0, catalog.RawEntry{Path: "b/second.txt"}),
		catalog.NewEntry(1, catalog.RawEntry{Path: "a/first.txt"}),
	})
	h.Store.Replace(reloaded)
	if err := h.Names.Rebuild(reloaded, 0); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}

	previewResult, _, err := previewHandler.Handle(context.Background(), nil, PreviewArgs{ID: 1, LoadID: loadID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !previewResult.IsError {
		t.Fatalf("expected stale id to be rejected, got:\n%s", resultText(t, previewResult))
	}
	if text := resultText(t, previewResult); !strings.Contains(text, "reloaded") {
		t.Errorf("expected reload message, got %q", text)
	}

	result, _, _ = h.Handle(context.Background(), nil, FindArgs{Terms: "second"})
	fresh := loadIDFromFind(t, resultText(t, result))
	if fresh != reloaded.LoadID.String() {
		t.Fatalf("expected fresh load id %s, got %s", reloaded.LoadID, fresh)
	}
	previewResult, _, _ = previewHandler.Handle(context.Background(), nil, PreviewArgs{ID: 0, LoadID: fresh})
	if text := resultText(t, previewResult); previewResult.IsError || !strings.Contains(text, "content of b/second.txt") {
		t.Errorf("expected preview of b/second.txt, got:\n%s", text)
	}
}
