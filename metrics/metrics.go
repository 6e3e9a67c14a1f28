// Package metrics provides Prometheus metrics for the assetview server.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	manifestLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetview_manifest_loads_total",
			Help: "Total manifest load attempts",
		},
		[]string{"status"},
	)

	manifestLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assetview_manifest_load_duration_seconds",
			Help:    "Time to fetch, parse and map a manifest",
			Buckets: prometheus.DefBuckets,
		},
	)

	catalogEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assetview_catalog_entries",
			Help: "Number of entries in the current catalog",
		},
	)

	previewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetview_previews_total",
			Help: "Total previews served, by file type and payload kind",
		},
		[]string{"type", "kind"},
	)

	previewDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assetview_preview_duration_seconds",
			Help:    "Preview duration in seconds, including the content fetch",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"type"},
	)

	previewBytesFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assetview_preview_bytes_fetched_total",
			Help: "Total bytes fetched for previews",
		},
	)

	stalePreviewsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assetview_stale_previews_total",
			Help: "Previews discarded because a newer selection superseded them",
		},
	)

	toolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetview_tool_calls_total",
			Help: "Total MCP tool calls",
		},
		[]string{"tool", "status"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordManifestLoad records a manifest load attempt and, on success, the catalog size.
func RecordManifestLoad(duration time.Duration, entries int, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	manifestLoadsTotal.WithLabelValues(status).Inc()
	manifestLoadDuration.Observe(duration.Seconds())
	if success {
		catalogEntries.Set(float64(entries))
	}
}

// RecordPreview records a served preview.
func RecordPreview(fileType, kind string, duration time.Duration) {
	previewsTotal.WithLabelValues(fileType, kind).Inc()
	previewDuration.WithLabelValues(fileType).Observe(duration.Seconds())
}

// RecordPreviewBytes records bytes read from a content source.
func RecordPreviewBytes(bytes int64) {
	previewBytesFetched.Add(float64(bytes))
}

// RecordStalePreview records a preview result dropped for being out of date.
func RecordStalePreview() {
	stalePreviewsTotal.Inc()
}

// RecordToolCall records an MCP tool invocation.
func RecordToolCall(tool string, isError bool) {
	status := "success"
	if isError {
		status = "error"
	}
	toolCallsTotal.WithLabelValues(tool, status).Inc()
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server error", "error", err)
	}
}
