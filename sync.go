package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexandro/assetview-mcp/manifest"
)

// SyncResult holds the outcome of a single sync verification run.
type SyncResult struct {
	Changed  bool // manifest content differed from the loaded snapshot
	Reloaded bool // a reload was attempted and succeeded
	Duration time.Duration
}

// runPeriodicSync re-checks the manifest at the given interval and reloads it when its
// content changed. It covers remote manifests, which cannot be watched.
// It runs until ctx is done.
func runPeriodicSync(ctx context.Context, intervalSeconds int, loader *manifest.Loader, logger *slog.Logger) {
	interval := time.Duration(intervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("periodic sync started", "intervalSeconds", intervalSeconds)

	for {
		select {
		case <-ctx.Done():
			logger.Info("periodic sync stopped")
			return
		case <-ticker.C:
			result, err := performSyncVerification(ctx, loader, logger)
			if err != nil {
				logger.Warn("sync verification failed", "error", err, "duration", result.Duration)
				continue
			}
			if result.Changed {
				logger.Info("sync verification complete",
					"reloaded", result.Reloaded,
					"duration", result.Duration,
				)
			} else {
				logger.Debug("sync verification complete, manifest unchanged", "duration", result.Duration)
			}
		}
	}
}

// performSyncVerification compares the manifest's current content with the loaded
// snapshot and reloads on a mismatch.
func performSyncVerification(ctx context.Context, loader *manifest.Loader, logger *slog.Logger) (SyncResult, error) {
	start := time.Now()
	var result SyncResult

	data, err := loader.Source.Read(ctx)
	if err != nil {
		result.Duration = time.Since(start)
		return result, err
	}

	if manifest.Fingerprint(data) == loader.Digest() {
		result.Duration = time.Since(start)
		return result, nil
	}
	result.Changed = true
	logger.Info("sync: manifest changed", "source", loader.Source.Location)

	if _, err := loader.Reload(ctx); err != nil {
		result.Duration = time.Since(start)
		return result, err
	}
	result.Reloaded = true
	result.Duration = time.Since(start)
	return result, nil
}
