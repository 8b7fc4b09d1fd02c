// Worker: a consumer that alternates between listening on its subscribed
// queues and holding a checked-out WorkerToken. Translated from the original
// Rust source's Worker / Drop discipline (queue.rs); Rust's compiler-enforced
// "a WorkerToken must not be dropped without being restored" becomes a
// runtime.SetFinalizer check, the idiomatic Go substitute for Drop-based
// panic-unless-unwinding (the same pattern *os.File uses to catch an unclosed
// file at GC time).

package engine

import (
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"strconv"
)

// Worker is a named consumer subscribed to one or more queues.
type Worker struct {
	ID     uint64
	Queues []*Queue
	Status *StatusCell
	Ext    any

	rng            *rand.Rand
	sim            *Simulation
	shutdownCalled bool
}

// NewWorker constructs a worker subscribed to queues, deduplicated in
// construction order. Spec §9 recommends resolving a worker's self-reference
// to the same queue via dedup at construction rather than a runtime
// double-borrow guard; this is that recommendation.
func NewWorker(sim *Simulation, id uint64, queues []*Queue, ext any) *Worker {
	seen := make(map[*Queue]bool, len(queues))
	deduped := make([]*Queue, 0, len(queues))
	for _, q := range queues {
		if seen[q] {
			continue
		}
		seen[q] = true
		deduped = append(deduped, q)
	}

	w := &Worker{
		ID:     id,
		Queues: deduped,
		Status: NewStatusCell(),
		Ext:    ext,
		rng:    sim.ForkRNG(),
		sim:    sim,
	}
	sim.WorkerUp.Set(0, w.idString())
	registerWorkerFinalizer(w)
	return w
}

func (w *Worker) idString() string {
	return strconv.FormatUint(w.ID, 10)
}

func registerWorkerFinalizer(w *Worker) {
	runtime.SetFinalizer(w, func(w *Worker) {
		if w.shutdownCalled {
			return
		}
		msg := fmt.Sprintf("worker %d garbage-collected while listening or checked out, without shutdown", w.ID)
		if w.sim != nil && w.sim.IsTearingDown() {
			fmt.Fprintln(os.Stderr, "warning:", msg)
			return
		}
		panic(msg)
	})
}

// Listen implements spec §4.2.3: if the worker has been shut down, finalize
// the shutdown instead. Otherwise, if every subscribed queue is empty, join
// each queue's listening set and return. Otherwise pick one non-empty queue
// uniformly at random, pop its oldest pending handler, check out a token for
// it, and dispatch.
func (w *Worker) Listen(sim *Simulation, now Tick) []ProposedEvent {
	sim.WorkerUp.Set(1, w.idString())

	if w.Status.Get() != Running {
		w.shutdown(sim)
		return nil
	}

	var nonEmpty []*Queue
	for _, q := range w.Queues {
		if q.DequeLen() > 0 {
			nonEmpty = append(nonEmpty, q)
		}
	}

	if len(nonEmpty) == 0 {
		for _, q := range w.Queues {
			q.addListening(w)
		}
		return nil
	}

	q := nonEmpty[w.rng.Intn(len(nonEmpty))]
	inner := q.popFront()
	token := newWorkerToken(sim, w, now, q.Name())
	return inner(sim, now, token)
}

// Shutdown retires the worker immediately: exported for callers outside
// the package (a pool manager shrinking its instance count) that need to
// tear a worker down without waiting for it to next call Listen.
func (w *Worker) Shutdown(sim *Simulation) {
	w.shutdown(sim)
}

// shutdown implements spec §4.2.4: mark Status ShuttingDown, remove the
// worker from every subscribed queue's listening set, zero its up gauge, and
// disarm the drop-without-shutdown finalizer.
func (w *Worker) shutdown(sim *Simulation) {
	if w.shutdownCalled {
		return
	}
	w.Status.Set(ShuttingDown)
	for _, q := range w.Queues {
		q.removeListening(w)
	}
	sim.WorkerUp.Set(0, w.idString())
	w.shutdownCalled = true
	runtime.SetFinalizer(w, nil)
}
