package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/assetview-mcp/catalog"
	"github.com/lexandro/assetview-mcp/filetype"
)

// FindArgs defines the input parameters for the assetview_find tool.
type FindArgs struct {
	Terms      string `json:"terms,omitempty" jsonschema:"Words to find in file names and paths. Supports \"quoted phrase\" and /regex/."`
	Type       string `json:"type,omitempty" jsonschema:"Restrict to one category: pdf, video, audio, table, text, spreadsheet, data, file"`
	Glob       string `json:"glob,omitempty" jsonschema:"Glob pattern the path must match (e.g. dataset/**/*.csv)"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of results to return (default 50)"`
}

// FindHandler holds the dependencies for the find tool.
type FindHandler struct {
	Store  *catalog.Store
	Names  *catalog.NameIndex
	Logger *slog.Logger
}

// Handle processes an assetview_find request.
func (h *FindHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args FindArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if !h.Store.Loaded() {
		return errorResult("assetview_find", "Error: no manifest loaded"), nil, nil
	}
	if args.Terms == "" && args.Type == "" && args.Glob == "" {
		h.Logger.Warn("assetview_find called without criteria")
		return errorResult("assetview_find", "Error: at least one of terms, type or glob is required"), nil, nil
	}

	var fileType filetype.Type
	if args.Type != "" {
		parsed, ok := filetype.Parse(args.Type)
		if !ok {
			return errorResult("assetview_find", fmt.Sprintf("Error: unknown type %q", args.Type)), nil, nil
		}
		fileType = parsed
	}

	result, err := h.Names.Find(catalog.FindOptions{
		Terms:      args.Terms,
		Type:       fileType,
		Glob:       args.Glob,
		MaxResults: args.MaxResults,
	})
	if err != nil {
		h.Logger.Error("assetview_find failed", "terms", args.Terms, "error", err)
		return errorResult("assetview_find", fmt.Sprintf("Search error: %v", err)), nil, nil
	}

	h.Logger.Info("assetview_find",
		"terms", args.Terms,
		"type", fileType,
		"glob", args.Glob,
		"results", len(result.Entries),
		"hits", result.Total,
		"loadId", result.LoadID,
		"elapsed", time.Since(start),
	)

	return textResult("assetview_find", FormatFindResults(result)), nil, nil
}
