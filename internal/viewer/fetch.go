package viewer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Fetcher retrieves raw document source for a content path like
// "1-ECMAScript/09-RegExp.md".
type Fetcher interface {
	Fetch(ctx context.Context, path string) (string, error)
}

// DefaultFetchTimeout bounds a single content request.
const DefaultFetchTimeout = 10 * time.Second

// HTTPFetcher fetches content paths relative to a base URL with plain
// GET requests. Any non-2xx status is an error.
type HTTPFetcher struct {
	base   string
	client *http.Client
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher creates a fetcher rooted at base.
func NewHTTPFetcher(base string) *HTTPFetcher {
	return &HTTPFetcher{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: DefaultFetchTimeout},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, path string) (string, error) {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	target := f.base + "/" + strings.Join(segments, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", path, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(body), nil
}

// DirFetcher reads content paths from a local directory, rejecting any
// path that escapes the root.
type DirFetcher struct {
	root string
}

var _ Fetcher = (*DirFetcher)(nil)

// NewDirFetcher creates a fetcher rooted at dir, which must exist.
func NewDirFetcher(dir string) (*DirFetcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving content dir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content dir is not a directory: %s", abs)
	}
	return &DirFetcher{root: abs}, nil
}

func (f *DirFetcher) Fetch(_ context.Context, path string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("path escapes content root: %s", path)
	}
	data, err := os.ReadFile(filepath.Join(f.root, cleaned))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
