package vault

import (
	"context"
	"testing"
)

func TestBuildReadPath(t *testing.T) {
	tests := []struct {
		version  KVVersion
		path     string
		expected string
	}{
		{KVVersion1, "myapp/config", "secret/myapp/config"},
		{KVVersion1, "/myapp/config", "secret/myapp/config"},
		{KVVersion2, "myapp/config", "secret/data/myapp/config"},
		{KVVersion2, "/single", "secret/data/single"},
	}

	for _, tt := range tests {
		kv := &KVClient{mount: "secret", version: tt.version}
		if result := kv.buildReadPath(tt.path); result != tt.expected {
			t.Errorf("buildReadPath(%q) v%d = %q, want %q", tt.path, tt.version, result, tt.expected)
		}
	}
}

func TestStringData(t *testing.T) {
	data := map[string]interface{}{
		"GITHUB_TOKEN": "ghp_x",
		"PORT":         float64(8080),
		"DEBUG":        true,
		"EMPTY":        nil,
	}

	got := StringData(data)

	want := map[string]string{
		"GITHUB_TOKEN": "ghp_x",
		"PORT":         "8080",
		"DEBUG":        "true",
		"EMPTY":        "",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("StringData[%s] = %q, want %q", k, got[k], v)
		}
	}
}

func TestNewKVClient_CancelledContext(t *testing.T) {
	client, err := NewClient(context.Background(), Config{
		Address: "http://127.0.0.1:1",
		Auth:    AuthConfig{Method: "token", Token: "test-token"},
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	kv, err := NewKVClient(ctx, client, "/secret/", KVVersionAuto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kv.version != KVVersion2 {
		t.Errorf("expected fallback to v2 when detection is cancelled, got v%d", kv.version)
	}
	if kv.Mount() != "secret" {
		t.Errorf("expected trimmed mount secret, got %q", kv.Mount())
	}

	if _, err := client.ReadSecret(ctx, "secret", "app", KVVersion1); err == nil {
		t.Error("expected error reading with a cancelled context")
	}
}
