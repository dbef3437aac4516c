package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/device-management-toolkit/redfish-collector/config"
	"github.com/device-management-toolkit/redfish-collector/pkg/logger"
)

type fakeStore struct {
	values map[string]string
}

func (f *fakeStore) GetKeyValue(key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", errors.New("key not found")
	}

	return value, nil
}

func TestLoadCredentials(t *testing.T) { //nolint:paralleltest // shares zerolog global level with other logger users
	cfg := &config.Config{}
	store := &fakeStore{values: map[string]string{
		"username": "monitor",
		"password": "secret",
	}}

	err := loadCredentials(cfg, store, logger.New("error"))
	require.NoError(t, err)
	assert.Equal(t, "monitor", cfg.Target.Username)
	assert.Equal(t, "secret", cfg.Target.Password)
}

func TestLoadCredentials_KeepsConfiguredUsername(t *testing.T) { //nolint:paralleltest // shares zerolog global level with other logger users
	cfg := &config.Config{}
	cfg.Target.Username = "operator"
	store := &fakeStore{values: map[string]string{
		"username": "monitor",
		"password": "secret",
	}}

	err := loadCredentials(cfg, store, logger.New("error"))
	require.NoError(t, err)
	assert.Equal(t, "operator", cfg.Target.Username)
	assert.Equal(t, "secret", cfg.Target.Password)
}

func TestLoadCredentials_MissingPassword(t *testing.T) { //nolint:paralleltest // shares zerolog global level with other logger users
	cfg := &config.Config{}
	store := &fakeStore{values: map[string]string{"username": "monitor"}}

	err := loadCredentials(cfg, store, logger.New("error"))
	assert.Error(t, err)
}

func TestResolveCredentials_SkippedWhenPasswordSet(t *testing.T) { //nolint:paralleltest // shares zerolog global level with other logger users
	cfg := &config.Config{}
	cfg.Target.Password = "already-set"
	cfg.Secrets.Address = "http://localhost:8200"

	err := resolveCredentials(cfg, logger.New("error"))
	require.NoError(t, err)
	assert.Equal(t, "already-set", cfg.Target.Password)
}

func TestResolveCredentials_SkippedWithoutStore(t *testing.T) { //nolint:paralleltest // shares zerolog global level with other logger users
	cfg := &config.Config{}

	err := resolveCredentials(cfg, logger.New("error"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Target.Password)
}
