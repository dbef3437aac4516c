// Package config holds the collector configuration.
package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v2"
)

type (
	// Config -.
	Config struct {
		App       `yaml:"app"`
		Target    `yaml:"target"`
		Collector `yaml:"collector"`
		Log       `yaml:"logger"`
		Secrets   `yaml:"secrets"`
	}

	// App -.
	App struct {
		Name    string `yaml:"name" env:"APP_NAME"`
		Version string
	}

	// Target identifies the Redfish service to collect from.
	Target struct {
		Host      string        `yaml:"host" env:"TARGET_HOST" validate:"required"`
		Port      string        `yaml:"port" env:"TARGET_PORT"`
		Protocol  string        `yaml:"protocol" env:"TARGET_PROTO" validate:"oneof=http https"`
		Username  string        `yaml:"username" env:"TARGET_USERNAME"`
		Password  string        `yaml:"password" env:"TARGET_PASSWORD"`
		VerifyTLS bool          `yaml:"verify_tls" env:"TARGET_VERIFY_TLS"`
		BasicAuth bool          `yaml:"basic_auth" env:"TARGET_BASIC_AUTH"`
		Timeout   time.Duration `yaml:"timeout" env:"TARGET_TIMEOUT"`
		Retries   int           `yaml:"retries" env:"TARGET_RETRIES" validate:"min=0"`
	}

	// Collector -.
	Collector struct {
		Sections         []string `yaml:"sections" env:"COLLECTOR_SECTIONS"`
		DisabledSections []string `yaml:"disabled_sections" env:"COLLECTOR_DISABLED_SECTIONS"`
	}

	// Log -.
	Log struct {
		Level string `yaml:"log_level" env:"LOG_LEVEL"`
	}

	// Secrets points at an optional Vault KV store holding the target
	// credentials. Only consulted when target.password is empty.
	Secrets struct {
		Address string `yaml:"address" env:"SECRETS_ADDR"`
		Token   string `yaml:"token" env:"SECRETS_TOKEN"`
		Path    string `yaml:"path" env:"SECRETS_PATH"`
	}
)

// DefaultSections is every section the collector knows how to fetch,
// standard graph and OEM extensions alike.
var DefaultSections = []string{
	"Memory",
	"Power",
	"Processors",
	"Thermal",
	"FirmwareInventory",
	"NetworkAdapters",
	"NetworkInterfaces",
	"NetworkDeviceFunctions",
	"NetworkPorts",
	"EthernetInterfaces",
	"Storage",
	"Drives",
	"Volumes",
	"SimpleStorage",
	"ArrayControllers",
	"HostBusAdapters",
	"PhysicalDrives",
	"LogicalDrives",
}

// defaultConfig constructs the in-memory default configuration.
func defaultConfig() *Config {
	return &Config{
		App: App{
			Name:    "redfish-collector",
			Version: "DEVELOPMENT",
		},
		Target: Target{
			Host:      "",
			Port:      "",
			Protocol:  "https",
			Username:  "",
			Password:  "",
			VerifyTLS: false,
			BasicAuth: false,
			Timeout:   10 * time.Second,
			Retries:   2,
		},
		Collector: Collector{
			Sections:         DefaultSections,
			DisabledSections: nil,
		},
		Log: Log{
			Level: "info",
		},
		Secrets: Secrets{
			Address: "",
			Token:   "",
			Path:    "secret/data/redfish-collector",
		},
	}
}

// readOrInitConfig attempts to read the config file; if it doesn't exist,
// writes the provided cfg to disk so the next run starts from a template.
func readOrInitConfig(configPath string, cfg *Config) error {
	err := cleanenv.ReadConfig(configPath, cfg)
	if err == nil {
		return nil
	}

	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		// Write config file out to disk
		configDir := filepath.Dir(configPath)
		if mkErr := os.MkdirAll(configDir, os.ModePerm); mkErr != nil {
			return mkErr
		}

		file, cErr := os.Create(configPath)
		if cErr != nil {
			return cErr
		}
		defer file.Close()

		encoder := yaml.NewEncoder(file)
		defer encoder.Close()

		if encErr := encoder.Encode(cfg); encErr != nil {
			return encErr
		}

		return nil
	}

	return err
}

// NewConfig returns app config. Defaults, then the optional config file,
// then environment variables, in increasing precedence.
func NewConfig() (*Config, error) {
	cfg := defaultConfig()

	var configPathFlag string
	if f := flag.Lookup("config"); f == nil {
		flag.StringVar(&configPathFlag, "config", "", "path to config file")
	} else {
		configPathFlag = f.Value.String()
	}

	if !flag.Parsed() {
		flag.Parse()

		if f := flag.Lookup("config"); f != nil {
			configPathFlag = f.Value.String()
		}
	}

	if configPathFlag != "" {
		if err := readOrInitConfig(configPathFlag, cfg); err != nil {
			return nil, err
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg.Target); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Endpoint assembles the service base URL from protocol, host and port.
func (t Target) Endpoint() string {
	var b strings.Builder

	b.WriteString(t.Protocol)
	b.WriteString("://")
	b.WriteString(t.Host)

	if t.Port != "" {
		b.WriteString(":")
		b.WriteString(t.Port)
	}

	return b.String()
}
