// The event scheduler: a single-threaded, cooperative virtual-time priority
// loop. The min-heap mechanics (Push/Pop/Less/Swap satisfying
// container/heap.Interface) are the same idiom used by the teacher
// repository's own task scheduler; the surrounding goroutine/channel
// dispatcher-and-worker-pool machinery has no place here, because spec §5
// mandates single-threaded cooperative execution with no OS concurrency.

package engine

import (
	"container/heap"
	"math/rand"
)

// eventHeap is a min-heap of *ScheduledEvent ordered by DueTime.
type eventHeap []*ScheduledEvent

func (h eventHeap) Len() int            { return len(h) }
func (h eventHeap) Less(i, j int) bool  { return h[i].DueTime < h[j].DueTime }
func (h eventHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any)         { *h = append(*h, x.(*ScheduledEvent)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Scheduler drives the virtual-time loop described in spec §4.1.
type Scheduler struct {
	heap eventHeap

	// simEventRng breaks ties within a batch of simultaneous events;
	// scheduleRng samples proposed events' delays. Both are forked from the
	// simulation's PRNG once, at construction, per spec §9.
	simEventRng *rand.Rand
	scheduleRng *rand.Rand
}

func NewScheduler(sim *Simulation) *Scheduler {
	return &Scheduler{
		simEventRng: sim.ForkRNG(),
		scheduleRng: sim.ForkRNG(),
	}
}

// schedule samples pe.Delay via the schedule RNG, clamps it to at least 1
// tick, and pushes the resulting ScheduledEvent due at batchTime + delay.
func (s *Scheduler) schedule(batchTime Tick, pe ProposedEvent) {
	delay := pe.Delay.Sample(s.scheduleRng)
	heap.Push(&s.heap, &ScheduledEvent{
		DueTime: batchTime + Tick(delay),
		Handler: pe.Handler,
	})
}

// Run seeds the heap with the initial proposed events (sampled as though
// produced by a batch at tick 0, matching the treatment of any other
// proposed event) and then runs the loop to completion.
func (s *Scheduler) Run(sim *Simulation, initial []ProposedEvent) {
	for _, pe := range initial {
		s.schedule(0, pe)
	}
	s.RunToCompletion(sim)
}

// RunToCompletion drains the heap: while non-empty, pop every event sharing
// the minimum due time, shuffle them if there is more than one, invoke each
// in order, and reschedule every proposed event each returns. A panic raised
// by a handler marks the simulation as tearing down before it propagates.
func (s *Scheduler) RunToCompletion(sim *Simulation) {
	defer func() {
		if r := recover(); r != nil {
			sim.beginTeardown()
			panic(r)
		}
	}()
	for s.heap.Len() > 0 {
		batchTime := s.heap[0].DueTime

		var batch []*ScheduledEvent
		for s.heap.Len() > 0 && s.heap[0].DueTime == batchTime {
			batch = append(batch, heap.Pop(&s.heap).(*ScheduledEvent))
		}

		if len(batch) > 1 {
			s.simEventRng.Shuffle(len(batch), func(i, j int) {
				batch[i], batch[j] = batch[j], batch[i]
			})
		}

		for _, ev := range batch {
			sim.EventsDispatched.Inc()
			proposed := ev.Handler(sim, batchTime)
			for _, pe := range proposed {
				s.schedule(batchTime, pe)
			}
		}
	}
}

// Len reports the number of scheduled, not-yet-dispatched events. Exposed
// for tests asserting on residual queue/heap state (e.g. spec §8 scenario 1).
func (s *Scheduler) Len() int {
	return s.heap.Len()
}
