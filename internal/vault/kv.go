package vault

import (
	"context"
	"fmt"
	"strings"
)

// KVVersion represents the KV secrets engine version.
type KVVersion int

// KVVersion constants define the KV secrets engine versions.
const (
	KVVersionAuto KVVersion = 0
	KVVersion1    KVVersion = 1
	KVVersion2    KVVersion = 2
)

// KVClient reads from one KV secrets engine mount.
type KVClient struct {
	client  *Client
	mount   string
	version KVVersion
}

// NewKVClient creates a new KV client for the given mount path.
// If version is KVVersionAuto (0), it will be auto-detected.
func NewKVClient(ctx context.Context, client *Client, mount string, version KVVersion) (*KVClient, error) {
	kv := &KVClient{
		client:  client,
		mount:   strings.Trim(mount, "/"),
		version: version,
	}

	if version == KVVersionAuto {
		kv.version = kv.detectVersion(ctx)
	}

	return kv, nil
}

// detectVersion determines the KV engine version from the mount options,
// assuming version 2 when they cannot be read.
func (kv *KVClient) detectVersion(ctx context.Context) KVVersion {
	mounts, err := kv.client.client.Sys().ListMountsWithContext(ctx)
	if err != nil {
		return KVVersion2
	}

	mount, ok := mounts[kv.mount+"/"]
	if !ok || mount.Options == nil {
		return KVVersion2
	}

	if mount.Options["version"] == "1" {
		return KVVersion1
	}
	return KVVersion2
}

// Read retrieves a secret from the KV store. It returns nil data when the
// secret does not exist.
func (kv *KVClient) Read(ctx context.Context, path string) (map[string]interface{}, error) {
	secret, err := kv.client.client.Logical().ReadWithContext(ctx, kv.buildReadPath(path))
	if err != nil {
		return nil, fmt.Errorf("reading secret at %s: %w", path, err)
	}

	if secret == nil {
		return nil, nil
	}

	// v2 nests the payload under "data"
	if kv.version == KVVersion2 {
		if data, ok := secret.Data["data"].(map[string]interface{}); ok {
			return data, nil
		}
		return nil, nil
	}

	return secret.Data, nil
}

func (kv *KVClient) buildReadPath(path string) string {
	path = strings.TrimPrefix(path, "/")
	if kv.version == KVVersion2 {
		return fmt.Sprintf("%s/data/%s", kv.mount, path)
	}
	return fmt.Sprintf("%s/%s", kv.mount, path)
}

// Mount returns the mount path.
func (kv *KVClient) Mount() string {
	return kv.mount
}

// StringData converts secret values to strings. nil values become empty strings.
func StringData(data map[string]interface{}) map[string]string {
	out := make(map[string]string, len(data))
	for k, v := range data {
		if v == nil {
			out[k] = ""
			continue
		}
		out[k] = fmt.Sprintf("%v", v)
	}
	return out
}
