package collector

import (
	"errors"

	"github.com/device-management-toolkit/redfish-collector/internal/redfish"
)

var errNotFound = errors.New("not found")

// fakeFetcher serves resources from a path->body map, mirroring the real
// client's skip-on-failure collection expansion.
type fakeFetcher struct {
	resources map[string]string
	fetched   []string
}

func (f *fakeFetcher) Fetch(path string) (redfish.Resource, error) {
	f.fetched = append(f.fetched, path)

	body, ok := f.resources[path]
	if !ok {
		return redfish.Resource{}, errNotFound
	}

	return redfish.Resource{Path: path, Body: []byte(body)}, nil
}

func (f *fakeFetcher) FetchCollection(col redfish.Resource) []redfish.Resource {
	return f.FetchEach(col.Members())
}

func (f *fakeFetcher) FetchEach(paths []string) []redfish.Resource {
	resources := make([]redfish.Resource, 0, len(paths))

	for _, path := range paths {
		res, err := f.Fetch(path)
		if err != nil {
			continue
		}

		resources = append(resources, res)
	}

	return resources
}

type emittedSection struct {
	name    string
	records [][]byte
}

// fakeEmitter records every section block it receives.
type fakeEmitter struct {
	sections []emittedSection
}

func (e *fakeEmitter) Section(name string, records ...[]byte) error {
	if len(records) == 0 {
		return nil
	}

	e.sections = append(e.sections, emittedSection{name: name, records: records})

	return nil
}

func (e *fakeEmitter) names() []string {
	names := make([]string, 0, len(e.sections))
	for _, s := range e.sections {
		names = append(names, s.name)
	}

	return names
}

func (e *fakeEmitter) recordCount(name string) int {
	count := 0

	for _, s := range e.sections {
		if s.name == name {
			count += len(s.records)
		}
	}

	return count
}

func allSections() SectionSet {
	return NewSectionSet([]string{
		"Memory", "Power", "Processors", "Thermal", "FirmwareInventory",
		"NetworkAdapters", "NetworkInterfaces", "EthernetInterfaces",
		"NetworkDeviceFunctions", "NetworkPorts",
		"Storage", "Drives", "Volumes", "SimpleStorage",
		"ArrayControllers", "HostBusAdapters", "PhysicalDrives", "LogicalDrives",
	}, nil)
}
