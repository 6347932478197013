// Package hostinfo collects the machine descriptors that CDash expects on
// every Site element.
package hostinfo

import (
	"fmt"
	"os"
	"strconv"

	"github.com/polaris-ci/polaris-cdash/model"
	"github.com/rs/zerolog"
)

// Resources holds the CPU and memory figures reported for the host.
type Resources struct {
	LogicalCPU    int
	PhysicalCPU   int
	TotalMemoryMB uint64
}

// Fallback is reported when no probe can determine the host resources.
var Fallback = Resources{
	LogicalCPU:    1,
	PhysicalCPU:   1,
	TotalMemoryMB: 1024,
}

// Probe is a source of host resource figures. Collector tries probes in order
// and uses the first one that succeeds.
type Probe interface {
	Name() string
	Resources() (Resources, error)
}

// System identifies the operating system of the host.
type System struct {
	Name     string // e.g. Linux, Darwin
	Hostname string
	Release  string // kernel release
	Version  string // kernel version string
	Machine  string // hardware identifier, e.g. x86_64
}

// Collector builds HostInfo from a system identity source and a list of
// resource probes.
type Collector struct {
	logger zerolog.Logger
	probes []Probe
	system func() System
}

// Option configures a Collector.
type Option func(*Collector)

// WithProbes replaces the default probe list. Passing no probes makes the
// collector always report Fallback.
func WithProbes(probes ...Probe) Option {
	return func(c *Collector) {
		c.probes = probes
	}
}

// WithSystem replaces the operating system identity source.
func WithSystem(fn func() System) Option {
	return func(c *Collector) {
		c.system = fn
	}
}

// New creates a collector that probes the local machine.
func New(logger zerolog.Logger, opts ...Option) *Collector {
	c := &Collector{
		logger: logger,
		probes: []Probe{SystemProbe{}},
		system: localSystem,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Collect returns the host descriptors. It never fails: probe errors are
// logged and the Fallback figures are used instead.
func (c *Collector) Collect() model.HostInfo {
	sys := c.system()
	res := c.resources()

	is64 := "0"
	if strconv.IntSize == 64 {
		is64 = "1"
	}

	return model.HostInfo{
		model.HostOSName:                  sys.Name,
		model.HostHostname:                sys.Hostname,
		model.HostOSRelease:               sys.Release,
		model.HostOSVersion:               sys.Version,
		model.HostOSPlatform:              sys.Machine,
		model.HostIs64Bits:                is64,
		model.HostNumberOfLogicalCPU:      strconv.Itoa(res.LogicalCPU),
		model.HostNumberOfPhysicalCPU:     strconv.Itoa(res.PhysicalCPU),
		model.HostTotalPhysicalMemory:     strconv.FormatUint(res.TotalMemoryMB, 10),
		model.HostVendorString:            "Unknown",
		model.HostVendorID:                "Unknown",
		model.HostFamilyID:                "0",
		model.HostModelID:                 "0",
		model.HostProcessorCacheSize:      "0",
		model.HostProcessorClockFrequency: "0",
	}
}

func (c *Collector) resources() Resources {
	for _, p := range c.probes {
		res, err := p.Resources()
		if err == nil {
			err = res.validate()
		}
		if err != nil {
			c.logger.Debug().Err(err).Str("probe", p.Name()).Msg("Host probe unavailable")
			continue
		}
		c.logger.Debug().
			Str("probe", p.Name()).
			Int("logical_cpu", res.LogicalCPU).
			Int("physical_cpu", res.PhysicalCPU).
			Uint64("memory_mb", res.TotalMemoryMB).
			Msg("Probed host resources")
		return res
	}

	c.logger.Debug().Msg("Using fallback host resources")
	return Fallback
}

func (r Resources) validate() error {
	if r.LogicalCPU <= 0 || r.PhysicalCPU <= 0 || r.TotalMemoryMB == 0 {
		return fmt.Errorf("incomplete resources: logical=%d physical=%d memory=%dMB", r.LogicalCPU, r.PhysicalCPU, r.TotalMemoryMB)
	}
	return nil
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return ""
	}
	return name
}
