// Package sysmon samples the resources used while workloads run: the Go
// runtime's own heap and scheduler counters, and system-wide CPU and memory
// usage.
package sysmon

import (
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Runtime holds the process-level counters read from the Go runtime.
type Runtime struct {
	HeapAlloc    uint64 // bytes of allocated heap objects
	HeapSys      uint64 // bytes obtained from the OS for the heap
	NumGC        uint32
	PauseTotalNs uint64
	Goroutines   int
}

// System holds system-wide usage, both in the 0..100 range.
type System struct {
	CPUPercent float64
	MemPercent float64
}

// Snapshot is one combined reading.
type Snapshot struct {
	Runtime
	System
}

// ReadRuntime reads the runtime counters. It briefly stops the world, so
// callers sample it on a timer rather than per item.
func ReadRuntime() Runtime {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return Runtime{
		HeapAlloc:    ms.HeapAlloc,
		HeapSys:      ms.HeapSys,
		NumGC:        ms.NumGC,
		PauseTotalNs: ms.PauseTotalNs,
		Goroutines:   runtime.NumGoroutine(),
	}
}

// ReadSystem collects system-wide CPU and memory usage.
// CPU uses interval=0 (delta since last call). Fields are zero on error.
func ReadSystem() System {
	var s System
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = clampPercent(pcts[0])
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		s.MemPercent = clampPercent(vmem.UsedPercent)
	}
	return s
}

// Sample reads both halves.
func Sample() Snapshot {
	return Snapshot{Runtime: ReadRuntime(), System: ReadSystem()}
}

func clampPercent(p float64) float64 {
	return min(max(p, 0), 100)
}
