package preview

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func Test_HTTPFetcher_EscapesSegments(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte("content"))
	}))
	defer srv.Close()

	fetcher, err := NewHTTPFetcher(srv.URL+"/files", srv.Client())
	if err != nil {
		t.Fatalf("NewHTTPFetcher failed: %v", err)
	}
	body, err := fetcher.Fetch(context.Background(), "set/my file#1.txt")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	data, _ := io.ReadAll(body)
	body.Close()

	if string(data) != "content" {
		t.Errorf("unexpected body %q", data)
	}
	if gotPath != "/files/set/my%20file%231.txt" {
		t.Errorf("unexpected request path %q", gotPath)
	}
}

func Test_HTTPFetcher_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	fetcher, _ := NewHTTPFetcher(srv.URL, srv.Client())
	if _, err := fetcher.Fetch(context.Background(), "a.txt"); err == nil {
		t.Error("expected error for 404")
	}
}

func Test_DirFetcher(t *testing.T) {
	root := t.TempDir()
	os.MkdirAll(filepath.Join(root, "set"), 0755)
	os.WriteFile(filepath.Join(root, "set", "a.txt"), []byte("hello"), 0644)

	fetcher := &DirFetcher{Root: root}
	body, err := fetcher.Fetch(context.Background(), "set/a.txt")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	data, _ := io.ReadAll(body)
	body.Close()
	if string(data) != "hello" {
		t.Errorf("unexpected content %q", data)
	}

	if _, err := fetcher.Fetch(context.Background(), "../outside.txt"); err == nil {
		t.Error("expected traversal to be rejected")
	}
}

func Test_NewFetcher_ByLocation(t *testing.T) {
	ctx := context.Background()

	f, err := NewFetcher(ctx, "https://example.com/assets", FetcherOptions{})
	if err != nil {
		t.Fatalf("NewFetcher(https) failed: %v", err)
	}
	if _, ok := f.(*HTTPFetcher); !ok {
		t.Errorf("expected HTTPFetcher, got %T", f)
	}

	f, err = NewFetcher(ctx, t.TempDir(), FetcherOptions{})
	if err != nil {
		t.Fatalf("NewFetcher(dir) failed: %v", err)
	}
	if _, ok := f.(*DirFetcher); !ok {
		t.Errorf("expected DirFetcher, got %T", f)
	}

	f, err = NewFetcher(ctx, "s3://bucket/prefix", FetcherOptions{S3: S3Options{
		Endpoint:  "http://127.0.0.1:9000",
		AccessKey: "key",
		SecretKey: "secret",
	}})
	if err != nil {
		t.Fatalf("NewFetcher(s3) failed: %v", err)
	}
	s3f, ok := f.(*S3Fetcher)
	if !ok {
		t.Fatalf("expected S3Fetcher, got %T", f)
	}
	if s3f.bucket != "bucket" || s3f.prefix != "prefix/" {
		t.Errorf("unexpected bucket/prefix %q/%q", s3f.bucket, s3f.prefix)
	}

	if _, err := NewFetcher(ctx, "s3://", FetcherOptions{}); err == nil {
		t.Error("expected error for missing bucket")
	}
	if _, err := NewFetcher(ctx, filepath.Join(t.TempDir(), "missing"), FetcherOptions{}); err == nil {
		t.Error("expected error for missing directory")
	}
}
