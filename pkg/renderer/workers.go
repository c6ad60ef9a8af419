package renderer

import (
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// fallbackWorkers is used when the logical CPU count cannot be determined
const fallbackWorkers = 4

// DetectWorkers returns the number of logical CPUs, or fallbackWorkers when unavailable
func DetectWorkers(logger core.Logger) int {
	count, err := cpu.Counts(true)
	if err != nil || count < 1 {
		logger.Debugf("could not detect logical CPUs (count=%d, err=%v); using %d workers", count, err, fallbackWorkers)
		return fallbackWorkers
	}
	return count
}

// HostInfo describes the machine a render runs on
type HostInfo struct {
	LogicalCPUs  int
	PhysicalCPUs int
	TotalMemory  uint64 // bytes, 0 when unknown
	FreeMemory   uint64 // bytes, 0 when unknown
}

// DetectHost gathers CPU and memory figures; fields that cannot be read are left zero
func DetectHost() HostInfo {
	var info HostInfo
	if logical, err := cpu.Counts(true); err == nil {
		info.LogicalCPUs = logical
	}
	if physical, err := cpu.Counts(false); err == nil {
		info.PhysicalCPUs = physical
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemory = vm.Total
		info.FreeMemory = vm.Available
	}
	return info
}
