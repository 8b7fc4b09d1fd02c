// The periodic metrics-collection handler: a self-scheduling Handler that
// snapshots process/runtime metrics and scrapes the registry to its sink,
// then proposes itself again. Grounded in spec §4.5.

package engine

import (
	"time"

	"github.com/omegagov/queueing-party/internal/metrics"
)

// MetricsCollector bundles everything the periodic handler needs to sample
// before each scrape.
type MetricsCollector struct {
	sink    *metrics.StdoutSink
	proc    *metrics.ProcessMetrics
	goStats *metrics.GoRuntimeMetrics
	period  LogNormalSpec
}

func NewMetricsCollector(sim *Simulation, sink *metrics.StdoutSink) *MetricsCollector {
	periodTicks := sim.Config.MetricsSamplingPeriodSeconds * float64(sim.Config.TicksPerSecond)
	return &MetricsCollector{
		sink:    sink,
		proc:    metrics.NewProcessMetrics(sim.Registry),
		goStats: metrics.NewGoRuntimeMetrics(sim.Registry),
		period:  Deterministic(periodTicks),
	}
}

// Handler returns the self-scheduling Handler described in spec §4.5.
func (mc *MetricsCollector) Handler() Handler {
	var handler Handler
	handler = func(sim *Simulation, now Tick) []ProposedEvent {
		mc.proc.Snap()
		mc.goStats.Snap()
		mc.sink.Scrape(time.Now())
		return []ProposedEvent{{Delay: mc.period, Handler: handler}}
	}
	return handler
}
