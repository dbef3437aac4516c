// Package collector walks the Redfish resource graph and hands each
// result set to the output writer.
package collector

import (
	"github.com/device-management-toolkit/redfish-collector/internal/redfish"
)

type (
	// Fetcher is the resource access the walk needs.
	Fetcher interface {
		Fetch(path string) (redfish.Resource, error)
		FetchCollection(col redfish.Resource) []redfish.Resource
		FetchEach(paths []string) []redfish.Resource
	}

	// Emitter receives one result set per section block.
	Emitter interface {
		Section(name string, records ...[]byte) error
	}
)
