package collector

import (
	"strings"

	"github.com/device-management-toolkit/redfish-collector/internal/redfish"
)

// Section names used by the walk itself.
const (
	SectionSystem            = "System"
	SectionChassis           = "Chassis"
	SectionManager           = "Manager"
	SectionStorage           = "Storage"
	SectionDrives            = "Drives"
	SectionVolumes           = "Volumes"
	SectionNetworkAdapters   = "NetworkAdapters"
	SectionFirmwareInventory = "FirmwareInventory"
)

// Candidate sections per resource class. A candidate is fetched when it is
// requested and the resource's link map carries it.
var (
	systemSections = []string{
		"Memory",
		"Processors",
		SectionStorage,
		"SimpleStorage",
		"EthernetInterfaces",
		"NetworkInterfaces",
	}

	chassisSections = []string{
		"Power",
		"Thermal",
		SectionNetworkAdapters,
	}

	adapterSections = []string{
		"NetworkDeviceFunctions",
		"NetworkPorts",
	}
)

// SectionSet is the requested section names, case-insensitive.
type SectionSet struct {
	enabled map[string]bool
}

// NewSectionSet builds the requested set from the configured section list
// minus the disabled one.
func NewSectionSet(sections, disabled []string) SectionSet {
	enabled := make(map[string]bool, len(sections))

	for _, name := range sections {
		enabled[normalize(name)] = true
	}

	for _, name := range disabled {
		delete(enabled, normalize(name))
	}

	return SectionSet{enabled: enabled}
}

// Requested reports whether a section was asked for.
func (s SectionSet) Requested(name string) bool {
	return s.enabled[normalize(name)]
}

// AnyRequested reports whether at least one of the names was asked for.
func (s SectionSet) AnyRequested(names ...string) bool {
	for _, name := range names {
		if s.Requested(name) {
			return true
		}
	}

	return false
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// fetchSections resolves the candidate sections of one resource: fetch the
// linked sub-resource, expand it when it is a collection, emit the result
// set, and recurse where the graph nests (storage, network adapters).
func (c *Collector) fetchSections(candidates []string, res redfish.Resource) {
	for _, name := range candidates {
		if !c.sections.Requested(name) {
			continue
		}

		link := res.Link(name)
		if link == "" {
			continue
		}

		section, err := c.client.Fetch(link)
		if err != nil {
			c.log.Warn("collector - fetchSections - %s: %s", name, err)

			continue
		}

		if !section.IsCollection() {
			c.emit(name, []redfish.Resource{section})

			continue
		}

		if section.MemberCount() == 0 {
			continue
		}

		members := c.client.FetchCollection(section)
		c.emit(name, members)

		switch name {
		case SectionStorage:
			c.fetchStorageChildren(members)
		case SectionNetworkAdapters:
			for _, adapter := range members {
				c.fetchSections(adapterSections, adapter)
			}
		}
	}
}

// fetchStorageChildren gathers the drive and volume records hanging off a
// system's storage subsystems. Drives is an array of hrefs on the storage
// member, Volumes a linked collection.
func (c *Collector) fetchStorageChildren(storage []redfish.Resource) {
	var drives, volumes []redfish.Resource

	for _, member := range storage {
		if c.sections.Requested(SectionDrives) {
			drives = append(drives, c.client.FetchEach(member.Links(SectionDrives))...)
		}

		if !c.sections.Requested(SectionVolumes) {
			continue
		}

		link := member.Link(SectionVolumes)
		if link == "" {
			continue
		}

		col, err := c.client.Fetch(link)
		if err != nil {
			c.log.Warn("collector - fetchStorageChildren - volumes: %s", err)

			continue
		}

		if col.MemberCount() > 0 {
			volumes = append(volumes, c.client.FetchCollection(col)...)
		}
	}

	c.emit(SectionDrives, drives)
	c.emit(SectionVolumes, volumes)
}
