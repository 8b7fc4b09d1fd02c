// Simulation context: the one "owner" of all engine state, holding the
// simulation id, the seeded PRNG tree, the metric registry and the engine's
// global constants.

package engine

import (
	"fmt"
	"math/rand"

	"github.com/omegagov/queueing-party/internal/metrics"
)

const (
	// TicksPerSecond is the default number of virtual ticks per simulated
	// second.
	TicksPerSecond = 1000

	// MetricsSamplingPeriodSeconds is the default period, in simulated
	// seconds, between metric scrapes.
	MetricsSamplingPeriodSeconds = 15

	// MaxWakeupEventMemoLen bounds the shared-rate resource's recent-wakeup
	// dedup window.
	MaxWakeupEventMemoLen = 8

	// MinResourceTimerResetTicks is the resource-timer value at or above
	// which a shared-rate resource with no tenancies resets its timer and
	// cumulative counters to 0 on its next update.
	MinResourceTimerResetTicks = 120 * TicksPerSecond
)

// Config holds the start-time-overridable engine constants (spec §6).
type Config struct {
	TicksPerSecond               uint64
	MetricsSamplingPeriodSeconds float64
	MaxWakeupEventMemoLen        int
	MinResourceTimerResetTicks   uint64
	SimulationID                 uint64
}

func DefaultConfig() *Config {
	return &Config{
		TicksPerSecond:               TicksPerSecond,
		MetricsSamplingPeriodSeconds: MetricsSamplingPeriodSeconds,
		MaxWakeupEventMemoLen:        MaxWakeupEventMemoLen,
		MinResourceTimerResetTicks:   MinResourceTimerResetTicks,
	}
}

// Simulation is the shared-mutable owner of every component. All random
// choices anywhere in the engine must flow, directly or via a PRNG forked at
// construction time, from Simulation.rng — never from an ad hoc unseeded
// source — so that a run is fully reproducible given the seed (spec §9).
type Simulation struct {
	Config   *Config
	Registry *metrics.Registry

	rng *rand.Rand

	EventsDispatched *metrics.Counter
	WorkerUp         *metrics.GaugeVec
	TokensCheckedOut *metrics.CounterVec
	TokenDuration    *metrics.HistogramVec

	// teardown is set once the scheduler loop itself is unwinding from a
	// structural-bug panic; it demotes subsequent worker-drop-without-shutdown
	// violations to a logged diagnostic instead of a second panic, to
	// preserve the first cause (spec §7).
	teardown bool
}

// NewSimulation seeds the simulation PRNG from cfg.SimulationID using a
// splitmix64-style mix, the closest stdlib-reachable analogue of the
// original's Xoshiro256StarStar::seed_from_u64.
func NewSimulation(cfg *Config) *Simulation {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	registry := metrics.NewRegistry(map[string]string{
		"simulation_id": fmt.Sprintf("%016x", cfg.SimulationID),
	})
	sim := &Simulation{
		Config:           cfg,
		Registry:         registry,
		rng:              rand.New(rand.NewSource(int64(splitmix64Seed(cfg.SimulationID)))),
		EventsDispatched: registry.NewCounter("events_dispatched"),
		WorkerUp:         registry.NewGaugeVec("up", []string{"worker_id"}),
		TokensCheckedOut: registry.NewCounterVec("worker_tokens_checked_out", []string{"worker_id", "originating_queue"}),
		TokenDuration: registry.NewHistogramVec("worker_token_duration",
			[]string{"worker_id", "originating_queue"}, metrics.ExponentialBuckets(0.01, 2, 16)),
	}
	return sim
}

// ForkRNG derives a new, independent PRNG stream deterministically from the
// simulation's own RNG. Call this once at component construction time, never
// per-call, so that independent component histories do not interfere across
// seeds (spec §9).
func (sim *Simulation) ForkRNG() *rand.Rand {
	seed := sim.rng.Int63()
	return rand.New(rand.NewSource(seed))
}

func (sim *Simulation) IsTearingDown() bool {
	return sim.teardown
}

func (sim *Simulation) beginTeardown() {
	sim.teardown = true
}

// splitmix64Seed mixes a raw seed so that nearby simulation ids (e.g.
// 1, 2, 3, ...) do not produce correlated initial PRNG states.
func splitmix64Seed(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x = x ^ (x >> 31)
	return x
}
