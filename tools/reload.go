package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/assetview-mcp/catalog"
)

// ReloadArgs defines the input parameters for the assetview_reload tool.
type ReloadArgs struct{}

// ReloadFunc re-reads the manifest and returns the installed snapshot.
// It is provided by main.go to avoid circular dependencies.
type ReloadFunc func(ctx context.Context) (*catalog.Snapshot, error)

// ReloadHandler holds the dependencies for the reload tool.
type ReloadHandler struct {
	DoReload ReloadFunc
	Logger   *slog.Logger
}

// Handle processes an assetview_reload request.
func (h *ReloadHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReloadArgs) (*mcp.CallToolResult, any, error) {
	h.Logger.Info("assetview_reload started")
	start := time.Now()

	snapshot, err := h.DoReload(ctx)
	if err != nil {
		h.Logger.Error("assetview_reload failed", "error", err)
		return errorResult("assetview_reload", fmt.Sprintf("Failed to load manifest: %v", err)), nil, nil
	}

	elapsed := time.Since(start).Round(time.Millisecond)
	h.Logger.Info("assetview_reload complete",
		"entries", len(snapshot.Entries),
		"loadId", snapshot.LoadID,
		"elapsed", elapsed,
	)

	output := fmt.Sprintf("Reload complete: %d files (%s) in %s, load %s. Entry ids were reassigned; list again.",
		len(snapshot.Entries), catalog.FormatSize(snapshot.TotalSizeBytes()), elapsed, snapshot.LoadID)

	return textResult("assetview_reload", output), nil, nil
}
