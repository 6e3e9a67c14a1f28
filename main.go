package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/assetview-mcp/browse"
	"github.com/lexandro/assetview-mcp/catalog"
	"github.com/lexandro/assetview-mcp/manifest"
	"github.com/lexandro/assetview-mcp/metrics"
	"github.com/lexandro/assetview-mcp/preview"
	"github.com/lexandro/assetview-mcp/register"
	"github.com/lexandro/assetview-mcp/server"
	"github.com/lexandro/assetview-mcp/tools"
	"github.com/lexandro/assetview-mcp/watcher"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "register":
			serverName := register.DeriveServerName(os.Args[0])
			if err := register.Run(serverName, os.Args[2:], os.Stdout, os.Stderr); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "generate":
			if err := runGenerate(os.Args[2:], os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	// Parse CLI flags
	var manifestLocation string
	var contentLocation string
	var batchSize int
	var pageSize int
	var logLevel string
	var logFile string
	var watch bool
	var syncInterval int
	var metricsAddr string
	var httpTimeout time.Duration
	var datasetPackage tools.DatasetPackage

	flag.StringVar(&manifestLocation, "manifest", envOr("ASSETVIEW_MANIFEST", manifest.DefaultFileName), "Manifest file path or http(s) URL (env ASSETVIEW_MANIFEST)")
	flag.StringVar(&contentLocation, "content", envOr("ASSETVIEW_CONTENT", ""), "Content root: directory, http(s) base URL or s3://bucket/prefix (env ASSETVIEW_CONTENT; default: manifest location)")
	flag.IntVar(&batchSize, "batch-size", catalog.DefaultBatchSize, "Manifest entries mapped per batch")
	flag.IntVar(&pageSize, "page-size", catalog.DefaultPageSize, "Entries revealed per list page")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")
	flag.BoolVar(&watch, "watch", false, "Reload when a local manifest file changes")
	flag.IntVar(&syncInterval, "sync-interval", 0, "Seconds between manifest change checks, 0 disables")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	flag.DurationVar(&httpTimeout, "http-timeout", 30*time.Second, "Timeout for manifest and content HTTP requests")
	flag.StringVar(&datasetPackage.Title, "package-title", "", "Title of the downloadable dataset archive")
	flag.StringVar(&datasetPackage.Size, "package-size", "", "Display size of the dataset archive (e.g. 13.7 GB)")
	flag.StringVar(&datasetPackage.URL, "package-url", "", "URL of the dataset archive")
	flag.Parse()

	// Setup logger (always to file or stderr, never to stdout - stdout is for MCP stdio)
	logger := setupLogger(logLevel, logFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := manifest.Source{Location: manifestLocation}
	if contentLocation == "" {
		contentLocation = defaultContentLocation(source)
	}

	logger.Info("starting assetview-mcp",
		"manifest", manifestLocation,
		"content", contentLocation,
		"batchSize", batchSize,
		"pageSize", pageSize,
	)

	startTime := time.Now()
	httpClient := &http.Client{Timeout: httpTimeout}
	source.Client = httpClient

	// Create catalog store and name index
	store := catalog.NewStore()
	names, err := catalog.NewNameIndex()
	if err != nil {
		logger.Error("failed to create name index", "error", err)
		os.Exit(1)
	}
	defer names.Close()

	fetcher, err := preview.NewFetcher(ctx, contentLocation, preview.FetcherOptions{
		HTTPClient: httpClient,
		S3: preview.S3Options{
			Endpoint:  os.Getenv("ASSETVIEW_S3_ENDPOINT"),
			Region:    os.Getenv("ASSETVIEW_S3_REGION"),
			AccessKey: os.Getenv("ASSETVIEW_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("ASSETVIEW_S3_SECRET_KEY"),
		},
	})
	if err != nil {
		// Listing still works; previews of fetched types report failure.
		logger.Warn("content source unavailable, previews will fail", "content", contentLocation, "error", err)
	}
	previewLoader := preview.NewLoader(fetcher, logger)
	session := browse.NewSession(store, previewLoader, pageSize)

	loader := &manifest.Loader{
		Source:    source,
		Store:     store,
		Names:     names,
		BatchSize: batchSize,
		Logger:    logger,
		OnLoaded:  session.Rebase,
	}

	// Perform initial load; the server still starts so the client can see the error and reload
	if _, err := loader.Reload(ctx); err != nil {
		logger.Warn("initial manifest load failed", "error", err)
	} else {
		logger.Info("initial manifest load complete", "duration", time.Since(startTime))
	}

	if metricsAddr != "" {
		go metrics.Serve(ctx, metricsAddr, logger)
	}

	if watch {
		if source.IsRemote() {
			logger.Warn("-watch ignored for remote manifest, use -sync-interval")
		} else if manifestWatcher, err := watcher.NewWatcher([]string{source.Location}, watcher.DefaultQuietPeriod, logger); err != nil {
			logger.Warn("failed to start manifest watcher, continuing without live updates", "error", err)
		} else {
			go manifestWatcher.Start()
			go handleManifestChanges(ctx, manifestWatcher, loader, logger)
			defer manifestWatcher.Close()
		}
	}

	if syncInterval > 0 {
		go runPeriodicSync(ctx, syncInterval, loader, logger)
	}

	// Create tool handlers
	handlers := server.Handlers{
		List:    &tools.ListHandler{Session: session, Logger: logger},
		Preview: &tools.PreviewHandler{Session: session, Logger: logger},
		Find:    &tools.FindHandler{Store: store, Names: names, Logger: logger},
		Status: &tools.StatusHandler{
			Store:     store,
			Names:     names,
			Session:   session,
			Package:   datasetPackage,
			StartTime: startTime,
			Logger:    logger,
		},
		Reload: &tools.ReloadHandler{DoReload: loader.Reload, Logger: logger},
		Reset:  &tools.ResetHandler{Session: session, Logger: logger},
	}

	// Setup and run MCP server on stdio
	mcpServer := server.Setup(handlers)

	logger.Info("MCP server starting on stdio")
	if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("MCP server error", "error", err)
		os.Exit(1)
	}
}

// defaultContentLocation resolves entry paths relative to where the manifest lives:
// the manifest URL's directory, or the local manifest's directory.
func defaultContentLocation(source manifest.Source) string {
	if source.IsRemote() {
		u, err := url.Parse(source.Location)
		if err != nil {
			return source.Location
		}
		dir := path.Dir(u.Path)
		if dir == "." {
			dir = "/"
		}
		u.Path = strings.TrimSuffix(dir, "/") + "/"
		u.RawPath = ""
		u.RawQuery = ""
		u.Fragment = ""
		return u.String()
	}
	return filepath.Dir(source.Location)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// setupLogger creates an slog.Logger writing to stderr or a file.
func setupLogger(level string, logFile string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var writer *os.File
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
			writer = os.Stderr
		} else {
			writer = f
		}
	} else {
		writer = os.Stderr
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}
