// Package manifest reads asset manifests, loads them into the catalog and generates them
// from a directory tree.
package manifest

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/lexandro/assetview-mcp/catalog"
)

// DefaultFileName is the manifest resource name used when none is configured.
const DefaultFileName = "assets-manifest.json"

// embeddedGlobal is the variable the JS form of the manifest assigns.
const embeddedGlobal = "__ASSET_MANIFEST__"

// LoadError reports that a manifest could not be obtained or parsed.
// Mapping never starts when a LoadError is returned.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading manifest %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Source locates a manifest: a local file path or an http(s) URL.
type Source struct {
	Location string
	Client   *http.Client // used for URL locations; http.DefaultClient when nil
}

// IsRemote reports whether the manifest is fetched over HTTP.
func (s Source) IsRemote() bool {
	return strings.HasPrefix(s.Location, "http://") || strings.HasPrefix(s.Location, "https://")
}

// Read returns the raw manifest bytes.
func (s Source) Read(ctx context.Context) ([]byte, error) {
	if !s.IsRemote() {
		data, err := os.ReadFile(s.Location)
		if err != nil {
			return nil, &LoadError{Source: s.Location, Err: err}
		}
		return data, nil
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Location, nil)
	if err != nil {
		return nil, &LoadError{Source: s.Location, Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &LoadError{Source: s.Location, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &LoadError{Source: s.Location, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LoadError{Source: s.Location, Err: fmt.Errorf("reading body: %w", err)}
	}
	return data, nil
}

// Load reads and parses the manifest.
func (s Source) Load(ctx context.Context) ([]catalog.RawEntry, error) {
	data, err := s.Read(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Source: s.Location, Err: err}
	}
	return raw, nil
}

// Parse decodes a manifest in either of its two forms: a bare JSON array of {path, size}
// objects, or a script assigning that array to window.__ASSET_MANIFEST__.
func Parse(data []byte) ([]catalog.RawEntry, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))

	if !bytes.HasPrefix(data, []byte("[")) {
		if !bytes.Contains(data, []byte(embeddedGlobal)) {
			return nil, fmt.Errorf("manifest is neither a JSON array nor a %s script", embeddedGlobal)
		}
		start := bytes.IndexByte(data, '[')
		end := bytes.LastIndexByte(data, ']')
		if start < 0 || end < start {
			return nil, fmt.Errorf("no array assigned to %s", embeddedGlobal)
		}
		data = data[start : end+1]
	}

	var entries []*catalog.RawEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing manifest JSON: %w", err)
	}

	raw := make([]catalog.RawEntry, 0, len(entries))
	for i, entry := range entries {
		if entry == nil {
			return nil, fmt.Errorf("manifest record %d is null", i)
		}
		raw = append(raw, *entry)
	}
	return raw, nil
}

// Fingerprint identifies manifest content; equal bytes give equal fingerprints.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
