package preview

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Fetcher retrieves the raw content of a catalog path.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (io.ReadCloser, error)
}

// FetchError reports that an entry's content could not be retrieved.
type FetchError struct {
	Path string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.Path, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// HTTPFetcher issues a plain GET for each path, resolved against BaseURL.
type HTTPFetcher struct {
	BaseURL *url.URL
	Client  *http.Client // http.DefaultClient when nil
}

// NewHTTPFetcher parses base as the content root URL.
func NewHTTPFetcher(base string, client *http.Client) (*HTTPFetcher, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing content URL %s: %w", base, err)
	}
	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}
	return &HTTPFetcher{BaseURL: baseURL, Client: client}, nil
}

// Fetch returns the response body of a successful GET.
func (f *HTTPFetcher) Fetch(ctx context.Context, path string) (io.ReadCloser, error) {
	path = strings.TrimPrefix(path, "/")
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	target := *f.BaseURL
	target.RawPath = f.BaseURL.EscapedPath() + strings.Join(segments, "/")
	target.Path += path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

// DirFetcher reads paths from a local directory.
type DirFetcher struct {
	Root string
}

// Fetch opens the file at Root/path. Paths that resolve outside Root are rejected.
func (f *DirFetcher) Fetch(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := filepath.Abs(f.Root)
	if err != nil {
		return nil, err
	}
	full := filepath.Join(root, filepath.FromSlash(path))
	rel, err := filepath.Rel(root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("path %s escapes content root", path)
	}
	return os.Open(full)
}

// FetcherOptions configures NewFetcher.
type FetcherOptions struct {
	HTTPClient *http.Client
	S3         S3Options
}

// NewFetcher picks a fetcher for location: http(s) URLs use HTTPFetcher, s3://bucket/prefix
// uses S3Fetcher, anything else is a local directory.
func NewFetcher(ctx context.Context, location string, options FetcherOptions) (Fetcher, error) {
	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		fetcher, err := NewHTTPFetcher(location, options.HTTPClient)
		if err != nil {
			return nil, err
		}
		return fetcher, nil
	case strings.HasPrefix(location, "s3://"):
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(location, "s3://"), "/")
		if bucket == "" {
			return nil, fmt.Errorf("missing bucket in %s", location)
		}
		s3Options := options.S3
		s3Options.Bucket = bucket
		s3Options.Prefix = prefix
		fetcher, err := NewS3Fetcher(ctx, s3Options)
		if err != nil {
			return nil, err
		}
		return fetcher, nil
	default:
		info, err := os.Stat(location)
		if err != nil {
			return nil, fmt.Errorf("content directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("content location %s is not a directory", location)
		}
		return &DirFetcher{Root: location}, nil
	}
}
