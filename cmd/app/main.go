package main

import (
	"log"

	"github.com/device-management-toolkit/redfish-collector/config"
	"github.com/device-management-toolkit/redfish-collector/internal/app"
)

// Function pointers for better testability.
var (
	initializeConfigFunc = config.NewConfig
	runAppFunc           = app.Run
)

func main() {
	cfg, err := initializeConfigFunc()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	if err := runAppFunc(cfg); err != nil {
		log.Fatalf("Collection failed: %s", err)
	}
}
