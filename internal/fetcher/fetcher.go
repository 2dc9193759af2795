// Package fetcher reads .env content from local files, S3 and Vault.
package fetcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Fetcher retrieves .env content from one kind of backend.
type Fetcher interface {
	// Fetch retrieves the content addressed by uri.
	Fetch(ctx context.Context, uri string) ([]byte, error)

	// Supports returns true if this fetcher handles the given URI scheme.
	Supports(uri string) bool
}

// Registry manages multiple fetchers and routes requests to the appropriate one.
// Nothing is cached: every Fetch reads its source again.
type Registry struct {
	fetchers []Fetcher
}

// NewRegistry creates a new fetcher registry.
func NewRegistry(fetchers ...Fetcher) *Registry {
	return &Registry{
		fetchers: fetchers,
	}
}

// Register adds a fetcher to the registry.
func (r *Registry) Register(f Fetcher) {
	r.fetchers = append(r.fetchers, f)
}

// Fetch retrieves content from the given URI using the appropriate fetcher.
func (r *Registry) Fetch(ctx context.Context, uri string) ([]byte, error) {
	for _, f := range r.fetchers {
		if f.Supports(uri) {
			return f.Fetch(ctx, uri)
		}
	}

	return nil, fmt.Errorf("no fetcher supports URI: %s", uri)
}

// ResolveURI turns an env file reference into a URI. References that
// already carry a scheme are returned unchanged; plain paths become file://
// URIs, relative ones resolved against workDir.
func ResolveURI(workDir, ref string) (string, error) {
	if strings.Contains(ref, "://") {
		return ref, nil
	}
	if ref == "" {
		return "", fmt.Errorf("empty env file reference")
	}

	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", ref, err)
	}
	return "file://" + abs, nil
}
