package engine

import "testing"

// Scenario 1 (spec §8): an empty run terminates immediately with zero
// dispatched events.
func TestScenarioEmptyRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SimulationID = 1
	sim := NewSimulation(cfg)
	sched := NewScheduler(sim)

	sched.Run(sim, nil)

	if got := sim.EventsDispatched.Value(); got != 0 {
		t.Fatalf("events_dispatched = %d, want 0", got)
	}
	if sched.Len() != 0 {
		t.Fatalf("scheduler heap not empty after empty run")
	}
}

// Scenario 2 (spec §8): a single self-scheduling handler with mean delay 1
// tick, CV 0, returning itself 5 times before stopping. Expect exactly 6
// invocations at strictly increasing timestamps, each 1 tick apart.
func TestScenarioSelfScheduling(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SimulationID = 2
	sim := NewSimulation(cfg)
	sched := NewScheduler(sim)

	var timestamps []Tick
	count := 0
	var handler Handler
	handler = func(sim *Simulation, now Tick) []ProposedEvent {
		timestamps = append(timestamps, now)
		count++
		if count >= 6 {
			return nil
		}
		return []ProposedEvent{{Delay: Deterministic(1), Handler: handler}}
	}

	sched.Run(sim, []ProposedEvent{{Delay: Deterministic(1), Handler: handler}})

	if count != 6 {
		t.Fatalf("handler invocations = %d, want 6", count)
	}
	for i := 1; i < len(timestamps); i++ {
		if timestamps[i] != timestamps[i-1]+1 {
			t.Fatalf("timestamps not 1 tick apart: %v", timestamps)
		}
	}
	if got := sim.EventsDispatched.Value(); got != 6 {
		t.Fatalf("events_dispatched = %d, want 6", got)
	}
}

// Invariant 1 (spec §8): handler timestamps observed by the scheduler are
// non-decreasing, even with many simultaneous and interleaved events.
func TestInvariantTimestampsNonDecreasing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SimulationID = 42
	sim := NewSimulation(cfg)
	sched := NewScheduler(sim)

	var last Tick
	seen := 0
	var handler Handler
	handler = func(sim *Simulation, now Tick) []ProposedEvent {
		if now < last {
			t.Fatalf("timestamp went backwards: %d after %d", now, last)
		}
		last = now
		seen++
		if seen > 200 {
			return nil
		}
		return []ProposedEvent{
			{Delay: LogNormalSpec{Mean: 3, CV: 0.5}, Handler: handler},
			{Delay: LogNormalSpec{Mean: 3, CV: 0.5}, Handler: handler},
		}
	}

	sched.Run(sim, []ProposedEvent{{Delay: Deterministic(1), Handler: handler}})

	if seen < 200 {
		t.Fatalf("handler ran only %d times", seen)
	}
}

// Determinism: reseeding and replaying with the same id produces an
// identical sequence of (batch_time, invocation-count) pairs.
func TestDeterminismReplay(t *testing.T) {
	run := func() []Tick {
		cfg := DefaultConfig()
		cfg.SimulationID = 0xdeadbeef
		sim := NewSimulation(cfg)
		sched := NewScheduler(sim)

		var timestamps []Tick
		count := 0
		var handler Handler
		handler = func(sim *Simulation, now Tick) []ProposedEvent {
			timestamps = append(timestamps, now)
			count++
			if count >= 50 {
				return nil
			}
			return []ProposedEvent{
				{Delay: LogNormalSpec{Mean: 5, CV: 1.2}, Handler: handler},
			}
		}
		sched.Run(sim, []ProposedEvent{{Delay: Deterministic(1), Handler: handler}})
		return timestamps
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("replay length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("replay diverged at index %d: %d vs %d", i, a[i], b[i])
		}
	}
}
