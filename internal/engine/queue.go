// Queue: a FIFO of pending work coupled with the set of workers currently
// listening on it. Translated from the original Rust source's Queue/
// pick_worker (queue.rs); the Rc<RefCell<...>> shared-ownership scheme
// becomes plain *Worker pointers, legal because execution is single-threaded
// (spec §5).

package engine

import "math/rand"

// Queue holds pending handlers and the workers available to service them.
//
// Invariant (spec §3): a queue's deque is empty whenever it has any
// listening workers; these two states are mutually exclusive except
// transiently during dispatch.
type Queue struct {
	name      string
	listening []*Worker
	deque     []EnqueuedHandler
	rng       *rand.Rand
}

func NewQueue(sim *Simulation, name string) *Queue {
	return &Queue{
		name: name,
		rng:  sim.ForkRNG(),
	}
}

func (q *Queue) Name() string {
	return q.name
}

func (q *Queue) DequeLen() int {
	return len(q.deque)
}

func (q *Queue) ListeningCount() int {
	return len(q.listening)
}

func (q *Queue) popFront() EnqueuedHandler {
	h := q.deque[0]
	q.deque = q.deque[1:]
	return h
}

func (q *Queue) addListening(w *Worker) {
	q.listening = append(q.listening, w)
}

// removeListening removes w from this queue's listening set; a no-op if w is
// not present. Because Worker subscription lists are deduplicated at
// construction (spec §9's recommended variant), a single worker's checkout
// removes it from each subscribed queue exactly once.
func (q *Queue) removeListening(w *Worker) {
	for i, candidate := range q.listening {
		if candidate == w {
			last := len(q.listening) - 1
			q.listening[i] = q.listening[last]
			q.listening = q.listening[:last]
			return
		}
	}
}

// pickWorker implements spec §4.2.2: choose a listening worker uniformly at
// random, remove it from every subscribed queue's listening set, and retry
// if its status is no longer Running.
func (q *Queue) pickWorker(sim *Simulation) *Worker {
	for {
		if len(q.listening) == 0 {
			return nil
		}
		idx := q.rng.Intn(len(q.listening))
		w := q.listening[idx]
		for _, subq := range w.Queues {
			subq.removeListening(w)
		}
		if w.Status.Get() != Running {
			w.shutdown(sim)
			continue
		}
		return w
	}
}

// MakeEnqueueHandler wraps inner into a Handler implementing spec §4.2.1:
// enqueue-or-dispatch. If the deque is non-empty, inner waits behind it
// (FIFO fairness); otherwise a listening worker is picked and checked out
// immediately, if one is available.
func (q *Queue) MakeEnqueueHandler(inner EnqueuedHandler) Handler {
	return func(sim *Simulation, now Tick) []ProposedEvent {
		if len(q.deque) > 0 {
			q.deque = append(q.deque, inner)
			return nil
		}
		w := q.pickWorker(sim)
		if w == nil {
			q.deque = append(q.deque, inner)
			return nil
		}
		token := newWorkerToken(sim, w, now, q.name)
		return inner(sim, now, token)
	}
}
