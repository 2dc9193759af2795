package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pavlenkoa/envproc/internal/vault"
)

// SecretReader reads one KV secret as string values.
type SecretReader interface {
	ReadSecret(ctx context.Context, mount, path string, version vault.KVVersion) (map[string]string, error)
}

// VaultFetcher renders a Vault KV secret as .env content.
type VaultFetcher struct {
	reader SecretReader
}

// NewVaultFetcher creates a fetcher reading secrets through reader.
func NewVaultFetcher(reader SecretReader) *VaultFetcher {
	return &VaultFetcher{reader: reader}
}

// Supports returns true for vault:// URIs.
func (f *VaultFetcher) Supports(uri string) bool {
	return strings.HasPrefix(uri, "vault://")
}

// Fetch reads the secret and renders one KEY="VALUE" line per field, sorted
// by key.
func (f *VaultFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	mount, path, version, err := parseVaultURI(uri)
	if err != nil {
		return nil, err
	}

	data, err := f.reader.ReadSecret(ctx, mount, path, version)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", uri, err)
	}

	return renderEnv(data)
}

// parseVaultURI extracts mount, path and KV version from a vault:// URI.
// Format: vault://mount/path/to/secret[?version=1|2]
func parseVaultURI(uri string) (mount, path string, version vault.KVVersion, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid vault URI: %w", err)
	}
	if u.Scheme != "vault" {
		return "", "", 0, fmt.Errorf("invalid vault URI: %s", uri)
	}

	mount = u.Host
	path = strings.Trim(u.Path, "/")
	if mount == "" || path == "" {
		return "", "", 0, fmt.Errorf("invalid vault URI format (expected vault://mount/path): %s", uri)
	}

	version = vault.KVVersionAuto
	if v := u.Query().Get("version"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || (n != 1 && n != 2) {
			return "", "", 0, fmt.Errorf("invalid KV version %q in %s", v, uri)
		}
		version = vault.KVVersion(n)
	}

	return mount, path, version, nil
}

// renderEnv writes data as .env lines. Values are always double quoted so
// that surrounding whitespace and quotes survive parsing.
func renderEnv(data map[string]string) ([]byte, error) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v := data[k]
		if !validKey(k) {
			return nil, fmt.Errorf("secret field %q cannot be used as a variable name", k)
		}
		if strings.ContainsAny(v, "\r\n") {
			return nil, fmt.Errorf("secret field %s: multi-line values are not supported", k)
		}
		fmt.Fprintf(&b, "%s=\"%s\"\n", k, v)
	}
	return []byte(b.String()), nil
}

// validKey reports whether k reads back unchanged as a .env key.
func validKey(k string) bool {
	return k != "" &&
		k == strings.TrimSpace(k) &&
		!strings.HasPrefix(k, "#") &&
		!strings.ContainsAny(k, "=\r\n")
}
