// Package vault reads KV secrets that hold .env style variables.
package vault

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/vault/api"
)

// Config contains Vault connection settings.
type Config struct {
	// Address is the Vault server URL (VAULT_ADDR when empty)
	Address string

	// Namespace is the Vault namespace (enterprise feature)
	Namespace string

	// Auth contains authentication settings
	Auth AuthConfig
}

// AuthConfig contains Vault authentication settings.
type AuthConfig struct {
	// Method is the auth method: token or approle
	Method string

	// Token is used for token auth method
	Token string

	// RoleID is used for approle auth method
	RoleID string

	// SecretID is used for approle auth method
	SecretID string

	// MountPath is the auth mount path (default depends on method)
	MountPath string
}

// ConfigFromEnv builds a Config from the standard VAULT_* variables.
func ConfigFromEnv() Config {
	return Config{
		Address:   os.Getenv("VAULT_ADDR"),
		Namespace: os.Getenv("VAULT_NAMESPACE"),
		Auth: AuthConfig{
			Method:    os.Getenv("VAULT_AUTH_METHOD"),
			Token:     os.Getenv("VAULT_TOKEN"),
			RoleID:    os.Getenv("VAULT_ROLE_ID"),
			SecretID:  os.Getenv("VAULT_SECRET_ID"),
			MountPath: os.Getenv("VAULT_AUTH_MOUNT"),
		},
	}
}

// Client wraps the Vault API client with convenience methods.
type Client struct {
	client    *api.Client
	namespace string
}

// NewClient creates a new Vault client from the given configuration.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	vaultCfg := api.DefaultConfig()
	if cfg.Address != "" {
		vaultCfg.Address = cfg.Address
	}

	client, err := api.NewClient(vaultCfg)
	if err != nil {
		return nil, fmt.Errorf("creating vault client: %w", err)
	}

	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	if err := authenticate(ctx, client, cfg.Auth); err != nil {
		return nil, fmt.Errorf("authenticating to vault: %w", err)
	}

	return &Client{
		client:    client,
		namespace: cfg.Namespace,
	}, nil
}

// authenticate sets up authentication based on the config.
func authenticate(ctx context.Context, client *api.Client, auth AuthConfig) error {
	switch auth.Method {
	case "token", "":
		return authenticateToken(client, auth)
	case "approle":
		return authenticateAppRole(ctx, client, auth)
	default:
		return fmt.Errorf("unsupported auth method: %s", auth.Method)
	}
}

// authenticateToken sets up token authentication.
func authenticateToken(client *api.Client, auth AuthConfig) error {
	token := auth.Token
	if token == "" {
		token = os.Getenv("VAULT_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("no token provided: set VAULT_TOKEN")
	}

	client.SetToken(token)
	return nil
}

// authenticateAppRole performs AppRole authentication.
func authenticateAppRole(ctx context.Context, client *api.Client, auth AuthConfig) error {
	if auth.RoleID == "" {
		return fmt.Errorf("approle auth requires VAULT_ROLE_ID")
	}
	if auth.SecretID == "" {
		return fmt.Errorf("approle auth requires VAULT_SECRET_ID")
	}

	mountPath := auth.MountPath
	if mountPath == "" {
		mountPath = "approle"
	}

	secret, err := client.Logical().WriteWithContext(ctx, fmt.Sprintf("auth/%s/login", mountPath), map[string]interface{}{
		"role_id":   auth.RoleID,
		"secret_id": auth.SecretID,
	})
	if err != nil {
		return fmt.Errorf("approle auth login: %w", err)
	}

	if secret == nil || secret.Auth == nil {
		return fmt.Errorf("approle auth: no auth info returned")
	}

	client.SetToken(secret.Auth.ClientToken)
	return nil
}

// Address returns the Vault server address.
func (c *Client) Address() string {
	return c.client.Address()
}

// token returns the current client token.
func (c *Client) token() string {
	return c.client.Token()
}

// ReadSecret reads the secret at path under mount and returns its values as
// strings. A missing secret is an error.
func (c *Client) ReadSecret(ctx context.Context, mount, path string, version KVVersion) (map[string]string, error) {
	kv, err := NewKVClient(ctx, c, mount, version)
	if err != nil {
		return nil, err
	}

	data, err := kv.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("secret not found: %s/%s", kv.Mount(), path)
	}

	return StringData(data), nil
}
