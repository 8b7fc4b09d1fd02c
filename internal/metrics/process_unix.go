//go:build unix

// Process CPU time accounting, used by ProcessMetrics to derive %CPU.

package metrics

import (
	"golang.org/x/sys/unix"
)

func getCpuTime(who int) (float64, error) {
	rusage := &unix.Rusage{}
	err := unix.Getrusage(who, rusage)
	if err != nil {
		return 0, err
	}
	return (float64(rusage.Utime.Sec+rusage.Stime.Sec) +
		float64(rusage.Utime.Usec+rusage.Stime.Usec)/1e6), nil
}

func getMyCpuTime() (float64, error) {
	return getCpuTime(unix.RUSAGE_SELF)
}
