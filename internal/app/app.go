// Package app configures and runs the collector.
package app

import (
	"fmt"
	"os"

	"github.com/device-management-toolkit/redfish-collector/config"
	"github.com/device-management-toolkit/redfish-collector/internal/collector"
	"github.com/device-management-toolkit/redfish-collector/internal/output"
	"github.com/device-management-toolkit/redfish-collector/internal/redfish"
	"github.com/device-management-toolkit/redfish-collector/pkg/logger"
	"github.com/device-management-toolkit/redfish-collector/pkg/secrets"
)

var Version = "DEVELOPMENT"

// Run creates objects via constructors and performs one snapshot.
func Run(cfg *config.Config) error {
	log := logger.New(cfg.Level)
	cfg.Version = Version
	log.Debug("app - Run - version: " + cfg.Version)
	// route standard library log output through our JSON logger
	logger.SetupStdLog(log)

	if err := resolveCredentials(cfg, log); err != nil {
		return fmt.Errorf("app - Run - resolveCredentials: %w", err)
	}

	client, err := redfish.Connect(cfg.Target, log)
	if err != nil {
		return fmt.Errorf("app - Run - redfish.Connect: %w", err)
	}

	defer client.Close()

	writer := output.NewWriter(os.Stdout)

	col := collector.New(client, writer, collector.NewSectionSet(cfg.Sections, cfg.DisabledSections), log)
	if err := col.Run(); err != nil {
		return fmt.Errorf("app - Run - collector.Run: %w", err)
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("app - Run - writer.Flush: %w", err)
	}

	return nil
}

// resolveCredentials fills the target credentials from the secret store
// when no password was configured directly.
func resolveCredentials(cfg *config.Config, log logger.Interface) error {
	if cfg.Target.Password != "" || cfg.Secrets.Address == "" {
		return nil
	}

	store, err := secrets.NewClient(&cfg.Secrets)
	if err != nil {
		return fmt.Errorf("app - resolveCredentials - secrets.NewClient: %w", err)
	}

	return loadCredentials(cfg, store, log)
}

func loadCredentials(cfg *config.Config, store secrets.Storager, log logger.Interface) error {
	if cfg.Target.Username == "" {
		username, err := store.GetKeyValue("username")
		if err != nil {
			return fmt.Errorf("app - loadCredentials - username: %w", err)
		}

		cfg.Target.Username = username
	}

	password, err := store.GetKeyValue("password")
	if err != nil {
		return fmt.Errorf("app - loadCredentials - password: %w", err)
	}

	cfg.Target.Password = password

	log.Info("app - loadCredentials - target credentials loaded from secret store")

	return nil
}
