package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/assetview-mcp/browse"
	"github.com/lexandro/assetview-mcp/catalog"
)

// DatasetPackage describes the downloadable archive of the whole dataset.
type DatasetPackage struct {
	Title string
	Size  string // display label, e.g. "13.7 GB"
	URL   string
}

// StatusArgs defines the input parameters for the assetview_status tool (none required).
type StatusArgs struct{}

// StatusHandler holds the dependencies for the status tool.
type StatusHandler struct {
	Store     *catalog.Store
	Names     *catalog.NameIndex
	Session   *browse.Session
	Package   DatasetPackage
	StartTime time.Time
	Logger    *slog.Logger
}

// Handle processes an assetview_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	var builder strings.Builder

	snapshot := h.Store.Current()
	uptime := time.Since(h.StartTime)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	builder.WriteString("=== assetview-mcp Status ===\n\n")
	if h.Package.Title != "" {
		builder.WriteString(fmt.Sprintf("Package: %s", h.Package.Title))
		if h.Package.Size != "" {
			builder.WriteString(fmt.Sprintf(" (%s)", h.Package.Size))
		}
		builder.WriteString("\n")
		if h.Package.URL != "" {
			builder.WriteString(fmt.Sprintf("Download: %s\n", h.Package.URL))
		}
	}
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))
	builder.WriteString(fmt.Sprintf("Memory usage: %s (heap: %s)\n",
		catalog.FormatSize(int64(memStats.Alloc)),
		catalog.FormatSize(int64(memStats.HeapAlloc)),
	))

	if snapshot == nil {
		builder.WriteString("\nManifest: not loaded\n")
		h.Logger.Info("assetview_status", "loaded", false, "uptime", uptime)
		return textResult("assetview_status", builder.String()), nil, nil
	}

	h.Logger.Info("assetview_status",
		"entries", len(snapshot.Entries),
		"loadId", snapshot.LoadID,
		"memory", memStats.Alloc,
		"uptime", uptime,
	)

	builder.WriteString(fmt.Sprintf("\nManifest: %s\n", snapshot.Source))
	builder.WriteString(fmt.Sprintf("Load id: %s\n", snapshot.LoadID))
	builder.WriteString(fmt.Sprintf("Loaded: %s (%s ago)\n",
		snapshot.LoadedAt.Format(time.RFC3339), formatDuration(time.Since(snapshot.LoadedAt))))
	builder.WriteString(fmt.Sprintf("Files: %d\n", len(snapshot.Entries)))
	builder.WriteString(fmt.Sprintf("Total size: %s\n", catalog.FormatSize(snapshot.TotalSizeBytes())))
	if h.Names != nil {
		builder.WriteString(fmt.Sprintf("Name-indexed documents: %d\n", h.Names.DocumentCount()))
	}

	if h.Session != nil {
		view := h.Session.View()
		builder.WriteString(fmt.Sprintf("\nQuery: %q (%d/%d loaded)\n", view.Query, view.Visible, view.MatchedAll))
		if view.Selected != nil {
			builder.WriteString(fmt.Sprintf("Selected: [%d] %s\n", view.Selected.ID, view.Selected.Path))
		}
		builder.WriteString(fmt.Sprintf("Full previews: %v\n", view.ShowFull))
		builder.WriteString(fmt.Sprintf("Page size: %d\n", h.Session.PageSize()))
	}

	typeCounts := snapshot.TypeCounts()
	if len(typeCounts) > 0 {
		builder.WriteString("\nTypes:\n")

		type typeEntry struct {
			name  string
			count int
		}
		entries := make([]typeEntry, 0, len(typeCounts))
		for typ, count := range typeCounts {
			entries = append(entries, typeEntry{string(typ), count})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].count != entries[j].count {
				return entries[i].count > entries[j].count
			}
			return entries[i].name < entries[j].name
		})

		for _, entry := range entries {
			builder.WriteString(fmt.Sprintf("  %-12s %d files\n", entry.name, entry.count))
		}
	}

	return textResult("assetview_status", builder.String()), nil, nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}
