// Process-level metrics for the simulator itself (CPU%, OS identity,
// uptime): ambient observability of the running process, independent of the
// simulated virtual-time domain. Adapted from a VictoriaMetrics importer's
// process_internal_metrics.go / os_info.go.

package metrics

import (
	"fmt"
	"os"
	"time"
)

var OsInfoLabelKeys = []string{"name", "release", "version", "machine"}
var OsReleaseLabelKeys = []string{"id", "name", "pretty_name", "version", "version_codename", "version_id"}

var (
	AvailableCPUCount = getAvailableCPUCount()
	bootTime          = time.Now()
	clktck            int64
)

func init() {
	if bt, err := getOsBootTime(); err == nil {
		bootTime = bt
	} else {
		fmt.Fprintf(os.Stderr, "getOsBootTime(): %v\n", err)
	}
	if c, err := getSysClktck(); err == nil {
		clktck = c
	} else {
		fmt.Fprintf(os.Stderr, "getSysClktck(): %v\n", err)
	}
}

// ProcessMetrics tracks CPU time and process uptime, updated on each Snap,
// and exposes os_info/os_release identity series, computed once at
// construction since they do not change for the life of the process.
type ProcessMetrics struct {
	pcpu     *Gauge
	uptime   *Gauge
	startTs  time.Time
	prevCpu  float64
	prevTs   time.Time
	haveCpu  bool
}

func NewProcessMetrics(r *Registry) *ProcessMetrics {
	pm := &ProcessMetrics{
		pcpu:    r.NewGauge("queueing_party_proc_pcpu"),
		uptime:  r.NewGauge("queueing_party_proc_uptime_sec"),
		startTs: time.Now(),
	}

	osInfo, _ := getOsInfo()
	osRelease, _ := getOsReleaseInfo()

	osInfoGauge := r.NewGaugeVec("queueing_party_os_info", OsInfoLabelKeys)
	values := make([]string, len(OsInfoLabelKeys))
	for i, k := range OsInfoLabelKeys {
		values[i] = osInfo[k]
	}
	osInfoGauge.Set(1, values...)

	osReleaseGauge := r.NewGaugeVec("queueing_party_os_release", OsReleaseLabelKeys)
	releaseValues := make([]string, len(OsReleaseLabelKeys))
	for i, k := range OsReleaseLabelKeys {
		releaseValues[i] = osRelease[k]
	}
	osReleaseGauge.Set(1, releaseValues...)

	return pm
}

// Snap updates the CPU% gauge based on the delta since the previous snap,
// and the uptime gauge.
func (pm *ProcessMetrics) Snap() {
	now := time.Now()
	pm.uptime.Set(now.Sub(pm.startTs).Seconds())

	cpu, err := getMyCpuTime()
	if err != nil {
		return
	}
	if pm.haveCpu {
		dTime := now.Sub(pm.prevTs).Seconds()
		if dTime > 0 {
			pm.pcpu.Set((cpu - pm.prevCpu) / dTime * 100)
		}
	}
	pm.prevCpu, pm.prevTs, pm.haveCpu = cpu, now, true
}
