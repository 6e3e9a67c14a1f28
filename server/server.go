package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/assetview-mcp/tools"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// Handlers groups the tool handlers registered on the server.
type Handlers struct {
	List    *tools.ListHandler
	Preview *tools.PreviewHandler
	Find    *tools.FindHandler
	Status  *tools.StatusHandler
	Reload  *tools.ReloadHandler
	Reset   *tools.ResetHandler
}

// Setup creates and configures the MCP server with all tool registrations.
func Setup(handlers Handlers) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "assetview-mcp",
			Version: Version,
		},
		&mcp.ServerOptions{
			Instructions: `This server browses a catalog of dataset files described by an asset manifest (path and size per file) and previews their contents.

Typical flow:
- Use assetview_list with a query to filter the catalog by name or path, then more=true to page through the matches
- Use assetview_find for word, phrase or regex search with type and glob filters
- Use assetview_preview with an entry id to inspect a file: text and data files are truncated unless full=true, CSV/TSV files are shown as tables, PDFs and media are returned as references
- Entry ids are only valid for one manifest load; pass loadId to detect a reload`,
		},
	)

	// Register assetview_list tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "assetview_list",
		Description: `List catalog entries matching a case-insensitive substring of the file name or path, a page at a time.

Usage:
  - query: start a new listing (empty lists every file)
  - more=true: reveal the next page of the current listing
Each line shows [id] path (type, size).`,
	}, handlers.List.Handle)

	// Register assetview_preview tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "assetview_preview",
		Description: `Preview one catalog entry by id.

By type:
  - text, data: first 120 lines / 8000 characters (full=true for everything)
  - table (csv, tsv): first 20 rows x 10 columns (full=true for everything)
  - pdf, video, audio: reference to embed, content not fetched
  - spreadsheet, other files: not previewable`,
	}, handlers.Preview.Handle)

	// Register assetview_find tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "assetview_find",
		Description: `Search file names and paths with an index.

Terms formats:
  - Plain words: word-level matching (e.g., "sales report")
  - "quoted words": phrase matching
  - /regex/: regular expression on single words (e.g., "/q[1-4]/")

Filtering:
  - type: one of pdf, video, audio, table, text, spreadsheet, data, file
  - glob: pattern on the path (e.g., "dataset/**/*.csv")`,
	}, handlers.Find.Handle)

	// Register assetview_status tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "assetview_status",
		Description: "Show catalog status: manifest source, load id, file count, total size, files per type, dataset package, memory usage, and uptime.",
	}, handlers.Status.Handle)

	// Register assetview_reload tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "assetview_reload",
		Description: "Re-read the manifest and rebuild the catalog. Entry ids are reassigned; the current query is re-applied and the selection cleared.",
	}, handlers.Reload.Handle)

	// Register assetview_reset tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "assetview_reset",
		Description: "Reset the browsing state: clear the query, the selection and the full-preview toggle.",
	}, handlers.Reset.Handle)

	return mcpServer
}
