package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/assetview-mcp/browse"
	"github.com/lexandro/assetview-mcp/metrics"
)

// ListArgs defines the input parameters for the assetview_list tool.
type ListArgs struct {
	Query    string `json:"query,omitempty" jsonschema:"Case-insensitive substring matched against file names and paths. Empty lists everything."`
	More     bool   `json:"more,omitempty" jsonschema:"If true reveal the next page of the current query instead of starting a new one. query is ignored."`
	PageSize int    `json:"pageSize,omitempty" jsonschema:"Entries revealed per page (default 500)"`
}

// ListHandler holds the dependencies for the list tool.
type ListHandler struct {
	Session *browse.Session
	Logger  *slog.Logger
}

// Handle processes an assetview_list request.
func (h *ListHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ListArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	var page browse.Page
	var err error
	if args.More {
		page, err = h.Session.LoadMore(args.PageSize)
	} else {
		page, err = h.Session.SetQuery(args.Query, args.PageSize)
	}
	if err != nil {
		h.Logger.Warn("assetview_list failed", "query", args.Query, "more", args.More, "error", err)
		return errorResult("assetview_list", fmt.Sprintf("List error: %v", err)), nil, nil
	}

	h.Logger.Info("assetview_list",
		"query", page.Query,
		"more", args.More,
		"revealed", len(page.Revealed),
		"visible", page.Visible,
		"matched", page.MatchedAll,
		"elapsed", time.Since(start),
	)

	return textResult("assetview_list", FormatPage(page)), nil, nil
}

func textResult(tool, text string) *mcp.CallToolResult {
	metrics.RecordToolCall(tool, false)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(tool, text string) *mcp.CallToolResult {
	metrics.RecordToolCall(tool, true)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
