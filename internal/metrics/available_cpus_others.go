//go:build !linux

package metrics

import "runtime"

func getAvailableCPUCount() int {
	return runtime.NumCPU()
}
