// WorkerToken: proof that a worker has been checked out of circulation to
// service one piece of work. Translated from the original Rust source's
// WorkerToken and its restoring-handler decorator (queue.rs); the
// compile-time "must restore or panic" discipline that Rust's Drop impl
// enforces is carried here by Worker's finalizer (worker.go) plus the
// explicit timestamp assertion below.

package engine

import "fmt"

// WorkerToken represents a worker checked out of its queues' listening sets.
// The holder must eventually pass it to Worker.Listen (directly, or via
// MakeTokenRestoringHandler) to return the worker to circulation.
type WorkerToken struct {
	Worker            *Worker
	CheckoutTimestamp Tick
	OriginatingQueue  string
}

func newWorkerToken(sim *Simulation, w *Worker, now Tick, originatingQueue string) *WorkerToken {
	sim.TokensCheckedOut.Inc(w.idString(), originatingQueue)
	return &WorkerToken{
		Worker:            w,
		CheckoutTimestamp: now,
		OriginatingQueue:  originatingQueue,
	}
}

// TokenRestoringInner is the shape of a handler that does its own work and
// then returns the tokens it is done with, alongside any events it proposes.
type TokenRestoringInner func(sim *Simulation, now Tick) ([]ProposedEvent, []*WorkerToken)

// MakeTokenRestoringHandler wraps inner into a Handler implementing spec
// §4.2.5: after inner runs, every token it returns is restored by observing
// its checkout duration and re-invoking Worker.Listen. A token presented at
// the same tick it was checked out is a structural bug (zero-duration
// checkouts cannot happen under normal dispatch) and is fatal.
func MakeTokenRestoringHandler(inner TokenRestoringInner) Handler {
	return func(sim *Simulation, now Tick) []ProposedEvent {
		events, tokens := inner(sim, now)
		for _, tok := range tokens {
			if !(tok.CheckoutTimestamp < now) {
				panic(fmt.Sprintf("worker token restored at tick %d, not after its checkout tick %d", now, tok.CheckoutTimestamp))
			}
			durationSeconds := float64(now-tok.CheckoutTimestamp) / float64(sim.Config.TicksPerSecond)
			sim.TokenDuration.Observe(durationSeconds, tok.Worker.idString(), tok.OriginatingQueue)
			events = append(events, tok.Worker.Listen(sim, now)...)
		}
		return events
	}
}
