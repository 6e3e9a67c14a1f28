package main

import (
	"context"
	"log/slog"

	"github.com/lexandro/assetview-mcp/manifest"
	"github.com/lexandro/assetview-mcp/watcher"
)

// handleManifestChanges reloads the catalog for each debounced manifest change.
// A removed manifest keeps the current snapshot until the file reappears.
func handleManifestChanges(
	ctx context.Context,
	manifestWatcher *watcher.Watcher,
	loader *manifest.Loader,
	logger *slog.Logger,
) {
	for change := range manifestWatcher.Changes() {
		switch change.Op {
		case watcher.OpRemove, watcher.OpRename:
			logger.Warn("manifest removed, keeping current catalog", "path", change.Path, "op", change.Op)
			continue
		}

		logger.Info("manifest changed, reloading", "path", change.Path, "events", change.Events)
		if _, err := loader.Reload(ctx); err != nil {
			logger.Warn("reload after manifest change failed, keeping current catalog", "error", err)
		}
	}
}
