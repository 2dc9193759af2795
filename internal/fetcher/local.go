package fetcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalFetcher reads .env files from disk. Relative paths are resolved
// against its base directory, not the process working directory.
type LocalFetcher struct {
	baseDir string
}

// NewLocalFetcher creates a fetcher resolving relative paths against
// baseDir. An empty baseDir means the working directory.
func NewLocalFetcher(baseDir string) *LocalFetcher {
	return &LocalFetcher{baseDir: baseDir}
}

// Supports returns true for file:// URIs and for references without a scheme.
func (f *LocalFetcher) Supports(uri string) bool {
	if strings.HasPrefix(uri, "file://") {
		return true
	}
	return uri != "" && !strings.Contains(uri, "://")
}

// Fetch returns the content of the referenced .env file. Directories are
// rejected so that a mistyped --env-file reports something useful.
func (f *LocalFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := f.resolvePath(uri)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("reading env file %s: is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}

	return data, nil
}

// resolvePath turns a file:// URI or bare path into a filesystem path.
func (f *LocalFetcher) resolvePath(uri string) (string, error) {
	if !f.Supports(uri) {
		return "", fmt.Errorf("invalid file URI: %s", uri)
	}

	path := strings.TrimPrefix(uri, "file://")
	if path == "" {
		return "", fmt.Errorf("empty file path in URI: %s", uri)
	}

	if !filepath.IsAbs(path) && f.baseDir != "" {
		path = filepath.Join(f.baseDir, path)
	}
	return filepath.Clean(path), nil
}
