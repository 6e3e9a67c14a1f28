package manifest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/lexandro/assetview-mcp/catalog"
	"github.com/lexandro/assetview-mcp/metrics"
)

// Loader turns a manifest source into the current catalog snapshot.
// Concurrent Reload calls share a single load pass.
type Loader struct {
	Source    Source
	Store     *catalog.Store
	Names     *catalog.NameIndex // optional
	BatchSize int
	Logger    *slog.Logger

	// OnLoaded runs after a new snapshot has been installed.
	OnLoaded func(snapshot *catalog.Snapshot)

	group singleflight.Group

	mu     sync.Mutex
	digest string
}

// Digest returns the fingerprint of the manifest bytes behind the current snapshot,
// or "" before the first successful load.
func (l *Loader) Digest() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.digest
}

// Reload fetches, parses and maps the manifest and installs the resulting snapshot.
// On failure the previous snapshot stays in place.
func (l *Loader) Reload(ctx context.Context) (*catalog.Snapshot, error) {
	result, err, shared := l.group.Do("manifest", func() (interface{}, error) {
		return l.load(context.WithoutCancel(ctx))
	})
	if shared {
		l.Logger.Debug("manifest reload shared with in-flight pass")
	}
	if err != nil {
		return nil, err
	}
	return result.(*catalog.Snapshot), nil
}

func (l *Loader) load(ctx context.Context) (*catalog.Snapshot, error) {
	start := time.Now()
	l.Logger.Info("loading manifest", "source", l.Source.Location)

	data, err := l.Source.Read(ctx)
	if err != nil {
		return nil, l.fail(err, start)
	}
	raw, err := Parse(data)
	if err != nil {
		return nil, l.fail(&LoadError{Source: l.Source.Location, Err: err}, start)
	}
	digest := Fingerprint(data)

	entries, err := catalog.Map(ctx, raw, catalog.MapOptions{
		BatchSize: l.BatchSize,
		OnProgress: func(done, total int) {
			l.Logger.Debug("mapping manifest", "done", done, "total", total)
		},
	})
	if err != nil {
		return nil, l.fail(fmt.Errorf("mapping manifest: %w", err), start)
	}

	snapshot := catalog.NewSnapshot(l.Source.Location, entries)
	l.Store.Replace(snapshot)
	l.mu.Lock()
	l.digest = digest
	l.mu.Unlock()

	if l.Names != nil {
		if err := l.Names.Rebuild(snapshot, l.BatchSize); err != nil {
			// Term search degrades; the catalog itself is usable.
			l.Logger.Warn("failed to rebuild name index", "error", err)
		}
	}
	if l.OnLoaded != nil {
		l.OnLoaded(snapshot)
	}

	elapsed := time.Since(start)
	metrics.RecordManifestLoad(elapsed, len(entries), true)
	l.Logger.Info("manifest loaded",
		"entries", len(entries),
		"loadId", snapshot.LoadID,
		"duration", elapsed,
	)
	return snapshot, nil
}

func (l *Loader) fail(err error, start time.Time) error {
	metrics.RecordManifestLoad(time.Since(start), 0, false)
	l.Logger.Error("failed to load manifest", "source", l.Source.Location, "error", err)
	return err
}
