package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/assetview-mcp/browse"
)

// ResetArgs defines the input parameters for the assetview_reset tool.
type ResetArgs struct{}

// ResetHandler holds the dependencies for the reset tool.
type ResetHandler struct {
	Session *browse.Session
	Logger  *slog.Logger
}

// Handle processes an assetview_reset request: clears the query, the selection and the
// full-preview toggle, and shows the first page of the whole catalog.
func (h *ResetHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ResetArgs) (*mcp.CallToolResult, any, error) {
	page, err := h.Session.Refresh()
	if err != nil {
		h.Logger.Warn("assetview_reset failed", "error", err)
		return errorResult("assetview_reset", fmt.Sprintf("Reset error: %v", err)), nil, nil
	}

	h.Logger.Info("assetview_reset", "visible", page.Visible, "total", page.Total)
	return textResult("assetview_reset", FormatPage(page)), nil, nil
}
