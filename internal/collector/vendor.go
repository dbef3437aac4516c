package collector

import (
	"github.com/device-management-toolkit/redfish-collector/internal/redfish"
)

// OEM extension section names.
const (
	SectionArrayControllers = "ArrayControllers"
	SectionHostBusAdapters  = "HostBusAdapters"
	SectionPhysicalDrives   = "PhysicalDrives"
	SectionLogicalDrives    = "LogicalDrives"
)

// VendorModel is the detected vendor data model. OemKey is the envelope
// key the vendor nests its extension links under; it is empty for vendors
// whose graph is purely standard.
type VendorModel struct {
	Name     string
	OemKey   string
	Firmware string
}

// HasSmartStorage reports whether the model carries the HPE smart storage
// link set. Both generations use it: iLO 5 under the "Hpe" key, iLO 4
// under "Hp" with href-style links.
func (v VendorModel) HasSmartStorage() bool {
	return v.OemKey == "Hpe" || v.OemKey == "Hp"
}

// Recognized Oem envelope keys, in detection priority.
var oemKeys = []struct {
	key  string
	name string
}{
	{"Hpe", "HPE"},
	{"Hp", "HPE"},
	{"Dell", "Dell"},
	{"Lenovo", "Lenovo"},
	{"Huawei", "Huawei"},
	{"ts_fujitsu", "Fujitsu"},
	{"Ami", "AMI"},
	{"Supermicro", "Supermicro"},
}

// DetectVendor derives the vendor data model from the managers' firmware
// metadata: the Oem key set plus the firmware version string.
func DetectVendor(managers []redfish.Resource) VendorModel {
	model := VendorModel{Name: "Generic"}

	for _, manager := range managers {
		if model.Firmware == "" {
			model.Firmware = manager.Get("FirmwareVersion").String()
		}

		if model.OemKey != "" {
			continue
		}

		oem := manager.Get("Oem")
		if !oem.IsObject() {
			continue
		}

		for _, candidate := range oemKeys {
			if oem.Get(candidate.key).Exists() {
				model.Name = candidate.name
				model.OemKey = candidate.key

				break
			}
		}
	}

	return model
}

// fetchSmartStorage walks the HPE extension links of one system:
// Oem.<key>.Links.SmartStorage carries the array controller and host bus
// adapter collections outside the standard graph, and each controller
// links its physical and logical drives.
func (c *Collector) fetchSmartStorage(system redfish.Resource, vendor VendorModel) {
	if !c.sections.AnyRequested(SectionArrayControllers, SectionPhysicalDrives, SectionLogicalDrives, SectionHostBusAdapters) {
		return
	}

	// iLO 5 nests the extension links under "Links", iLO 4 under "links";
	// the gjson one-character wildcard matches both envelopes.
	link := system.Link("Oem." + vendor.OemKey + ".?inks.SmartStorage")
	if link == "" {
		return
	}

	smart, err := c.client.Fetch(link)
	if err != nil {
		c.log.Warn("collector - fetchSmartStorage - %s: %s", link, err)

		return
	}

	if c.sections.AnyRequested(SectionArrayControllers, SectionPhysicalDrives, SectionLogicalDrives) {
		c.fetchArrayControllers(smart)
	}

	if c.sections.Requested(SectionHostBusAdapters) {
		c.fetchLinkedCollection(SectionHostBusAdapters, smart, "?inks."+SectionHostBusAdapters)
	}
}

func (c *Collector) fetchArrayControllers(smart redfish.Resource) {
	link := smart.Link("?inks." + SectionArrayControllers)
	if link == "" {
		return
	}

	col, err := c.client.Fetch(link)
	if err != nil {
		c.log.Warn("collector - fetchArrayControllers - %s: %s", link, err)

		return
	}

	controllers := c.client.FetchCollection(col)

	if c.sections.Requested(SectionArrayControllers) {
		c.emit(SectionArrayControllers, controllers)
	}

	var physical, logical []redfish.Resource

	for _, controller := range controllers {
		if c.sections.Requested(SectionPhysicalDrives) {
			physical = append(physical, c.linkedMembers(controller, "?inks.PhysicalDrives", "?inks.DiskDrives")...)
		}

		if c.sections.Requested(SectionLogicalDrives) {
			logical = append(logical, c.linkedMembers(controller, "?inks.LogicalDrives")...)
		}
	}

	c.emit(SectionPhysicalDrives, physical)
	c.emit(SectionLogicalDrives, logical)
}

// linkedMembers expands the collection behind the first link field that is
// present on the resource. The field name differs between the two HPE
// generations (PhysicalDrives on iLO 5, DiskDrives on iLO 4).
func (c *Collector) linkedMembers(res redfish.Resource, fields ...string) []redfish.Resource {
	for _, field := range fields {
		link := res.Link(field)
		if link == "" {
			continue
		}

		col, err := c.client.Fetch(link)
		if err != nil {
			c.log.Warn("collector - linkedMembers - %s: %s", link, err)

			return nil
		}

		return c.client.FetchCollection(col)
	}

	return nil
}

func (c *Collector) fetchLinkedCollection(name string, res redfish.Resource, field string) {
	link := res.Link(field)
	if link == "" {
		return
	}

	col, err := c.client.Fetch(link)
	if err != nil {
		c.log.Warn("collector - fetchLinkedCollection - %s: %s", link, err)

		return
	}

	c.emit(name, c.client.FetchCollection(col))
}
