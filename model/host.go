package model

import "sort"

// HostInfo maps CDash host descriptor names to their values
type HostInfo map[string]string

// Host descriptor keys, in the order they are written to reports.
const (
	HostOSName                  = "OSName"
	HostHostname                = "Hostname"
	HostOSRelease               = "OSRelease"
	HostOSVersion               = "OSVersion"
	HostOSPlatform              = "OSPlatform"
	HostIs64Bits                = "Is64Bits"
	HostNumberOfLogicalCPU      = "NumberOfLogicalCPU"
	HostNumberOfPhysicalCPU     = "NumberOfPhysicalCPU"
	HostTotalPhysicalMemory     = "TotalPhysicalMemory"
	HostVendorString            = "VendorString"
	HostVendorID                = "VendorID"
	HostFamilyID                = "FamilyID"
	HostModelID                 = "ModelID"
	HostProcessorCacheSize      = "ProcessorCacheSize"
	HostProcessorClockFrequency = "ProcessorClockFrequency"
)

// HostKeys lists every key a collected HostInfo carries.
var HostKeys = []string{
	HostOSName,
	HostHostname,
	HostOSRelease,
	HostOSVersion,
	HostOSPlatform,
	HostIs64Bits,
	HostNumberOfLogicalCPU,
	HostNumberOfPhysicalCPU,
	HostTotalPhysicalMemory,
	HostVendorString,
	HostVendorID,
	HostFamilyID,
	HostModelID,
	HostProcessorCacheSize,
	HostProcessorClockFrequency,
}

// Keys returns the keys of h with the well-known descriptors first, in
// HostKeys order, followed by any other keys sorted by name.
func (h HostInfo) Keys() []string {
	keys := make([]string, 0, len(h))
	known := make(map[string]bool, len(HostKeys))
	for _, k := range HostKeys {
		known[k] = true
		if _, ok := h[k]; ok {
			keys = append(keys, k)
		}
	}

	var extra []string
	for k := range h {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)

	return append(keys, extra...)
}
