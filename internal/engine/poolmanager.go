// PoolManager maintains a target instance count for some constructed
// resource (a pool of workers, a pool of generators) by invoking a
// constructor or a shutdown closure as needed. Translated from the original
// Rust source's pool.rs.

package engine

import "fmt"

// PoolManager implements spec §4.4. Construct is called to bring an
// instance into being; it returns the closure that shuts that instance back
// down. Shutdowns run oldest-instance-first (FIFO).
type PoolManager struct {
	Construct func() func()
	instances []func()
}

func NewPoolManager(construct func() func()) *PoolManager {
	return &PoolManager{Construct: construct}
}

func (pm *PoolManager) Len() int {
	return len(pm.instances)
}

// SetDesiredInstancesAbsolute implements spec §4.4: grow by constructing new
// instances at the back, shrink by shutting down instances from the front.
func (pm *PoolManager) SetDesiredInstancesAbsolute(n int) {
	for len(pm.instances) < n {
		pm.instances = append(pm.instances, pm.Construct())
	}
	for len(pm.instances) > n {
		shutdown := pm.instances[0]
		pm.instances = pm.instances[1:]
		shutdown()
	}
}

func (pm *PoolManager) SetDesiredInstancesRelative(factor float64) {
	n := int(float64(len(pm.instances)) * factor)
	pm.SetDesiredInstancesAbsolute(n)
}

// SetDesiredInstancesDelta adjusts the absolute count by delta. A delta that
// would drive the count below zero is a programmer error and is fatal.
func (pm *PoolManager) SetDesiredInstancesDelta(delta int) {
	n := len(pm.instances) + delta
	if n < 0 {
		panic(fmt.Sprintf("pool manager: desired instance delta %d would drive count below zero (have %d)", delta, len(pm.instances)))
	}
	pm.SetDesiredInstancesAbsolute(n)
}
