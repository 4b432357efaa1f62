package metrics

import (
	"runtime"
	"time"
)

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	HeapSys      uint64 // bytes obtained from OS for heap
	Sys          uint64 // total bytes obtained from OS
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	HeapObjects  uint64 // number of allocated heap objects
	TotalAlloc   uint64 // cumulative bytes allocated
	Mallocs      uint64 // cumulative heap allocations
}

// MemoryCollector reads runtime memory statistics around benchmark jobs.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		HeapObjects:  m.HeapObjects,
		TotalAlloc:   m.TotalAlloc,
		Mallocs:      m.Mallocs,
	}
}

// MemoryDelta is the change between two snapshots taken around a
// benchmark job. Counters are cumulative in the runtime, so the deltas are
// never negative; HeapAlloc can shrink after a collection and is signed.
type MemoryDelta struct {
	HeapAlloc   int64
	TotalAlloc  uint64
	Mallocs     uint64
	NumGC       uint32
	PauseTotal  time.Duration
	HeapObjects int64
}

// Delta returns the change from before to s.
func (s MemorySnapshot) Delta(before MemorySnapshot) MemoryDelta {
	return MemoryDelta{
		HeapAlloc:   int64(s.HeapAlloc) - int64(before.HeapAlloc),
		TotalAlloc:  s.TotalAlloc - before.TotalAlloc,
		Mallocs:     s.Mallocs - before.Mallocs,
		NumGC:       s.NumGC - before.NumGC,
		PauseTotal:  time.Duration(s.PauseTotalNs - before.PauseTotalNs),
		HeapObjects: int64(s.HeapObjects) - int64(before.HeapObjects),
	}
}

// Measure runs fn between two snapshots and returns the delta.
func (mc *MemoryCollector) Measure(fn func()) MemoryDelta {
	before := mc.Snapshot()
	fn()
	return mc.Snapshot().Delta(before)
}
