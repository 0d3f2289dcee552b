package system

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// MaxWorkers caps the render pool regardless of core count.
const MaxWorkers = 32

// Resources is a snapshot of the host capacity relevant to rendering.
type Resources struct {
	LogicalCPUs    int
	AvailableBytes uint64
}

// Probe reads the host's logical CPU count and available memory. Values that
// cannot be read are left at zero.
func Probe() Resources {
	var r Resources
	if n, err := cpu.Counts(true); err == nil {
		r.LogicalCPUs = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		r.AvailableBytes = vm.Available
	}
	return r
}

// Workers decides how many render workers to run. A positive request wins.
// Otherwise one worker per logical CPU, limited so that the in-flight frames
// (a few per worker) fit in half of the available memory.
func (r Resources) Workers(requested int, frameBytes uint64) int {
	if requested > 0 {
		return min(requested, MaxWorkers)
	}

	n := r.LogicalCPUs
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if frameBytes > 0 && r.AvailableBytes > 0 {
		perWorker := frameBytes * 4
		if fit := int(r.AvailableBytes / 2 / perWorker); fit < n {
			n = fit
		}
	}
	return max(1, min(n, MaxWorkers))
}
