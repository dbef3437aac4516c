package collector

import (
	"fmt"

	"github.com/device-management-toolkit/redfish-collector/internal/redfish"
	"github.com/device-management-toolkit/redfish-collector/pkg/logger"
)

// Collector drives one snapshot: top-level discovery, per-resource
// section resolution, vendor extensions, firmware inventory.
type Collector struct {
	client   Fetcher
	out      Emitter
	sections SectionSet
	log      logger.Interface
}

// New -.
func New(client Fetcher, out Emitter, sections SectionSet, log logger.Interface) *Collector {
	return &Collector{
		client:   client,
		out:      out,
		sections: sections,
		log:      log,
	}
}

// Run walks the graph once. Only the service root is fatal; individual
// resources that fail are skipped so the snapshot stays best effort.
func (c *Collector) Run() error {
	root, err := c.client.Fetch(redfish.ServiceRoot)
	if err != nil {
		return fmt.Errorf("collector - Run - service root: %w", err)
	}

	systems := c.topLevel(root, "Systems")
	chassis := c.topLevel(root, "Chassis")
	managers := c.topLevel(root, "Managers")

	vendor := DetectVendor(managers)
	c.log.Debug("collector - Run - vendor=%s oem=%s firmware=%q", vendor.Name, vendor.OemKey, vendor.Firmware)

	for _, system := range systems {
		c.emit(SectionSystem, []redfish.Resource{system})
		c.fetchSections(systemSections, system)

		if vendor.HasSmartStorage() {
			c.fetchSmartStorage(system, vendor)
		}
	}

	for _, ch := range chassis {
		c.emit(SectionChassis, []redfish.Resource{ch})
		c.fetchSections(chassisSections, ch)
	}

	for _, manager := range managers {
		c.emit(SectionManager, []redfish.Resource{manager})
	}

	if c.sections.Requested(SectionFirmwareInventory) {
		c.fetchFirmwareInventory(root)
	}

	return nil
}

// topLevel expands one of the service root's top-level collections.
func (c *Collector) topLevel(root redfish.Resource, field string) []redfish.Resource {
	link := root.Link(field)
	if link == "" {
		c.log.Warn("collector - topLevel - service root carries no %s link", field)

		return nil
	}

	col, err := c.client.Fetch(link)
	if err != nil {
		c.log.Warn("collector - topLevel - %s: %s", field, err)

		return nil
	}

	return c.client.FetchCollection(col)
}

// fetchFirmwareInventory expands UpdateService/FirmwareInventory, which
// hangs off the service root rather than any system.
func (c *Collector) fetchFirmwareInventory(root redfish.Resource) {
	link := root.Link("UpdateService")
	if link == "" {
		return
	}

	update, err := c.client.Fetch(link)
	if err != nil {
		c.log.Warn("collector - fetchFirmwareInventory - update service: %s", err)

		return
	}

	c.fetchLinkedCollection(SectionFirmwareInventory, update, SectionFirmwareInventory)
}

// emit hands one result set to the writer. Empty sets are dropped inside
// the writer.
func (c *Collector) emit(name string, resources []redfish.Resource) {
	records := make([][]byte, 0, len(resources))

	for _, res := range resources {
		records = append(records, res.Body)
	}

	if err := c.out.Section(name, records...); err != nil {
		c.log.Error(fmt.Errorf("collector - emit - %s: %w", name, err))
	}
}
