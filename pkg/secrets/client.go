// Package secrets reads collector credentials from HashiCorp Vault.
package secrets

import (
	"github.com/hashicorp/vault/api"

	"github.com/device-management-toolkit/redfish-collector/config"
)

// Storager is the credential lookup used by the app wiring.
type Storager interface {
	GetKeyValue(key string) (string, error)
}

// Client implements Storager over a Vault KV v2 mount.
type Client struct {
	client *api.Client
	path   string
}

var _ Storager = (*Client)(nil)

// NewVaultClient creates a Client from an existing Vault API client (for testing).
func NewVaultClient(vaultClient *api.Client, path string) *Client {
	return &Client{client: vaultClient, path: path}
}

// NewClient creates a Client from configuration (production use).
func NewClient(cfg *config.Secrets) (*Client, error) {
	vaultConfig := api.DefaultConfig()
	vaultConfig.Address = cfg.Address

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		return nil, err
	}

	client.SetToken(cfg.Token)

	return &Client{client: client, path: cfg.Path}, nil
}
