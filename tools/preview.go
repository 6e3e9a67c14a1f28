package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/assetview-mcp/browse"
)

// PreviewArgs defines the input parameters for the assetview_preview tool.
type PreviewArgs struct {
	ID     int    `json:"id" jsonschema:"Entry id as shown by assetview_list or assetview_find"`
	Full   bool   `json:"full,omitempty" jsonschema:"If true return the whole file instead of a truncated preview"`
	LoadID string `json:"loadId,omitempty" jsonschema:"Load id the entry id came from. When set the call fails if the manifest was reloaded since."`
}

// PreviewHandler holds the dependencies for the preview tool.
type PreviewHandler struct {
	Session *browse.Session
	Logger  *slog.Logger
}

// Handle processes an assetview_preview request.
func (h *PreviewHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args PreviewArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	loadID := uuid.Nil
	if args.LoadID != "" {
		parsed, err := uuid.Parse(args.LoadID)
		if err != nil {
			return errorResult("assetview_preview", fmt.Sprintf("Error: invalid loadId %q", args.LoadID)), nil, nil
		}
		loadID = parsed
	}

	payload, err := h.Session.Select(ctx, args.ID, loadID, args.Full)
	switch {
	case errors.Is(err, browse.ErrStale):
		h.Logger.Debug("assetview_preview superseded", "id", args.ID)
		return errorResult("assetview_preview", "Preview superseded by a newer selection."), nil, nil
	case errors.Is(err, browse.ErrLoadMismatch):
		return errorResult("assetview_preview", "Error: the manifest was reloaded; list again to get current ids."), nil, nil
	case err != nil:
		h.Logger.Warn("assetview_preview failed", "id", args.ID, "error", err)
		return errorResult("assetview_preview", fmt.Sprintf("Preview error: %v", err)), nil, nil
	}

	h.Logger.Info("assetview_preview",
		"id", args.ID,
		"path", payload.Entry.Path,
		"kind", payload.Kind,
		"full", args.Full,
		"truncated", payload.Truncated,
		"elapsed", time.Since(start),
	)

	return textResult("assetview_preview", FormatPreview(payload)), nil, nil
}
