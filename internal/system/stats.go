// Package system samples resource usage of the running director for the
// monitor views.
package system

import (
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Stats is one resource sample.
type Stats struct {
	RSS        uint64  // Resident set size in bytes
	CPUPercent float64 // Process CPU since start, percent of one core
	MemPercent float64 // Host memory in use, percent
	Goroutines int
}

// Sampler reads stats for the current process.
type Sampler struct {
	proc *process.Process
}

// NewSampler returns a sampler bound to this process.
func NewSampler() (*Sampler, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("system: cannot open process: %w", err)
	}
	return &Sampler{proc: proc}, nil
}

// Sample reads a fresh snapshot. Fields that cannot be read stay zero.
func (s *Sampler) Sample() Stats {
	st := Stats{Goroutines: runtime.NumGoroutine()}
	if s == nil || s.proc == nil {
		return st
	}
	if mi, err := s.proc.MemoryInfo(); err == nil && mi != nil {
		st.RSS = mi.RSS
	}
	if cpu, err := s.proc.CPUPercent(); err == nil {
		st.CPUPercent = cpu
	}
	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		st.MemPercent = vm.UsedPercent
	}
	return st
}

// FormatBytes renders a byte count with a binary unit.
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
