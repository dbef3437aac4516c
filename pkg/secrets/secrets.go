package secrets

import (
	"context"
	"fmt"
)

// GetKeyValue reads a single key from the configured secret path.
func (c *Client) GetKeyValue(key string) (string, error) {
	ctx := context.Background()

	secret, err := c.client.Logical().ReadWithContext(ctx, c.path)
	if err != nil {
		return "", err
	}

	if secret == nil {
		return "", fmt.Errorf("secret not found at path: %s", c.path)
	}

	// Extract data from KV v2 response
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected secret data format at %s", c.path)
	}

	value, ok := data[key]
	if !ok {
		return "", fmt.Errorf("key %s not found in secret at path %s", key, c.path)
	}

	strValue, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("value for key %s is not a string", key)
	}

	return strValue, nil
}
