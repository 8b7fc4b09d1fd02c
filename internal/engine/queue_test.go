package engine

import "testing"

// Scenario 3 (spec §8): a queue with no pool. Two handlers enqueued at
// ticks 1 and 2 never find a listening worker, so both sit in the deque
// forever; the scheduler drains with zero checkouts.
func TestScenarioQueueNoWorkers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SimulationID = 3
	sim := NewSimulation(cfg)
	sched := NewScheduler(sim)

	q := NewQueue(sim, "Q")
	inner := func(sim *Simulation, now Tick, token *WorkerToken) []ProposedEvent {
		t.Fatalf("inner handler should never dispatch: no worker ever listens")
		return nil
	}

	initial := []ProposedEvent{
		{Delay: Deterministic(1), Handler: q.MakeEnqueueHandler(inner)},
		{Delay: Deterministic(2), Handler: q.MakeEnqueueHandler(inner)},
	}
	sched.Run(sim, initial)

	if got := q.DequeLen(); got != 2 {
		t.Fatalf("queue deque length = %d, want 2", got)
	}
	if got := sim.TokensCheckedOut.ValueFor("irrelevant", "Q"); got != 0 {
		t.Fatalf("unexpected checkout recorded: %d", got)
	}
}

// Scenario 4 (spec §8): one worker listening on Q. Three handlers enqueued
// at ticks 10, 20, 30, each holding the worker for 4 simulated seconds
// before restoring it. Expect checkouts at ticks 10, 4010, 8010.
func TestScenarioQueueOneWorker(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SimulationID = 4
	sim := NewSimulation(cfg)
	sched := NewScheduler(sim)

	q := NewQueue(sim, "Q")
	w := NewWorker(sim, 1, []*Queue{q}, nil)
	w.Listen(sim, 0)

	var checkoutTicks []Tick
	makeInner := func() EnqueuedHandler {
		return func(sim *Simulation, now Tick, token *WorkerToken) []ProposedEvent {
			checkoutTicks = append(checkoutTicks, now)
			holdTicks := float64(4 * sim.Config.TicksPerSecond)
			return []ProposedEvent{{
				Delay: Deterministic(holdTicks),
				Handler: MakeTokenRestoringHandler(func(sim *Simulation, now Tick) ([]ProposedEvent, []*WorkerToken) {
					return nil, []*WorkerToken{token}
				}),
			}}
		}
	}

	initial := []ProposedEvent{
		{Delay: Deterministic(10), Handler: q.MakeEnqueueHandler(makeInner())},
		{Delay: Deterministic(20), Handler: q.MakeEnqueueHandler(makeInner())},
		{Delay: Deterministic(30), Handler: q.MakeEnqueueHandler(makeInner())},
	}
	sched.Run(sim, initial)

	want := []Tick{10, 4010, 8010}
	if len(checkoutTicks) != len(want) {
		t.Fatalf("checkout count = %d, want %d (%v)", len(checkoutTicks), len(want), checkoutTicks)
	}
	for i, tick := range want {
		if diff := int64(checkoutTicks[i]) - int64(tick); diff < -1 || diff > 1 {
			t.Fatalf("checkout[%d] = %d, want %d (+/- 1 tick clamp)", i, checkoutTicks[i], tick)
		}
	}

	if got := sim.TokenDuration.CountFor("1", "Q"); got != 3 {
		t.Fatalf("worker_token_duration sample count = %d, want 3", got)
	}
	if got := q.DequeLen(); got != 0 {
		t.Fatalf("queue deque should be drained, got length %d", got)
	}
	if got := q.ListeningCount(); got != 1 {
		t.Fatalf("worker should have rejoined listening set, got %d listeners", got)
	}
}

// Scenario 6 (spec §8): a worker's status is set to ShuttingDown before its
// queue's pending handler is dispatched. pick_worker must skip it, invoke
// its shutdown, and leave the handler in the deque.
func TestScenarioShutdownDuringPendingWork(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SimulationID = 6
	sim := NewSimulation(cfg)
	sched := NewScheduler(sim)

	q := NewQueue(sim, "Q")
	w := NewWorker(sim, 1, []*Queue{q}, nil)
	w.Listen(sim, 0)

	if got := sim.WorkerUp.ValueFor("1"); got != 1 {
		t.Fatalf("up gauge after Listen = %v, want 1", got)
	}

	inner := func(sim *Simulation, now Tick, token *WorkerToken) []ProposedEvent {
		t.Fatalf("worker is shutting down; this handler must not be dispatched")
		return nil
	}

	setShuttingDown := func(sim *Simulation, now Tick) []ProposedEvent {
		w.Status.Set(ShuttingDown)
		return nil
	}

	initial := []ProposedEvent{
		{Delay: Deterministic(5), Handler: setShuttingDown},
		{Delay: Deterministic(10), Handler: q.MakeEnqueueHandler(inner)},
	}
	sched.Run(sim, initial)

	if got := q.DequeLen(); got != 1 {
		t.Fatalf("pending handler should remain in deque, got length %d", got)
	}
	if got := q.ListeningCount(); got != 0 {
		t.Fatalf("worker should no longer be listening, got %d listeners", got)
	}
	if !w.shutdownCalled {
		t.Fatalf("worker shutdown was not invoked")
	}
	if got := sim.WorkerUp.ValueFor("1"); got != 0 {
		t.Fatalf("up gauge after shutdown = %v, want 0", got)
	}
}
