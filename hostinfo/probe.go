package hostinfo

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemProbe reads CPU and memory figures from the operating system.
type SystemProbe struct{}

func (SystemProbe) Name() string {
	return "system"
}

func (SystemProbe) Resources() (Resources, error) {
	logical, err := cpu.Counts(true)
	if err != nil {
		return Resources{}, fmt.Errorf("failed to count logical CPUs: %w", err)
	}

	physical, err := cpu.Counts(false)
	if err != nil {
		return Resources{}, fmt.Errorf("failed to count physical CPUs: %w", err)
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return Resources{}, fmt.Errorf("failed to read memory size: %w", err)
	}

	return Resources{
		LogicalCPU:    logical,
		PhysicalCPU:   physical,
		TotalMemoryMB: vm.Total / (1024 * 1024),
	}, nil
}
