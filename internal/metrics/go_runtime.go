// Go runtime metrics for the simulator process itself: ambient process
// observability, independent of the virtual-time simulation domain. Adapted
// from a VictoriaMetrics importer's go_internal_metrics.go, rewired onto a
// Registry instead of its bespoke buffer-writing calling convention.

package metrics

import "runtime"

type GoRuntimeMetrics struct {
	numGoroutine *Gauge
	memSys       *Gauge
	memHeap      *Gauge
	memHeapSys   *Gauge
	memObjects   *Gauge
	mallocsDelta *Counter
	freeDelta    *Counter
	numGCDelta   *Counter

	prevMem runtime.MemStats
	haveMem bool
}

func NewGoRuntimeMetrics(r *Registry) *GoRuntimeMetrics {
	return &GoRuntimeMetrics{
		numGoroutine: r.NewGauge("queueing_party_go_num_goroutine"),
		memSys:       r.NewGauge("queueing_party_go_mem_sys_bytes"),
		memHeap:      r.NewGauge("queueing_party_go_mem_heap_bytes"),
		memHeapSys:   r.NewGauge("queueing_party_go_mem_heap_sys_bytes"),
		memObjects:   r.NewGauge("queueing_party_go_mem_in_use_object_count"),
		mallocsDelta: r.NewCounter("queueing_party_go_mem_malloc_total"),
		freeDelta:    r.NewCounter("queueing_party_go_mem_free_total"),
		numGCDelta:   r.NewCounter("queueing_party_go_mem_gc_total"),
	}
}

// Snap reads current Go runtime stats and updates the registered series.
// Mallocs/Frees/NumGC are cumulative in runtime.MemStats; each Snap adds the
// increase since the previous Snap, so the counters count from the first
// Snap onwards.
func (g *GoRuntimeMetrics) Snap() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	g.numGoroutine.Set(float64(runtime.NumGoroutine()))
	g.memSys.Set(float64(mem.Sys))
	g.memHeap.Set(float64(mem.HeapAlloc))
	g.memHeapSys.Set(float64(mem.HeapSys))
	g.memObjects.Set(float64(mem.HeapObjects))

	if g.haveMem {
		g.mallocsDelta.Add(mem.Mallocs - g.prevMem.Mallocs)
		g.freeDelta.Add(mem.Frees - g.prevMem.Frees)
		g.numGCDelta.Add(uint64(mem.NumGC - g.prevMem.NumGC))
	}
	g.prevMem = mem
	g.haveMem = true
}
