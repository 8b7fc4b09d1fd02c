// SharedRateResource models N partitions shared among K tenants, each
// earning virtual time at rate min(1, N/K). Translated from the original
// Rust source's resource.rs (update_resource_timer / get_next_wakeup_time /
// add_tenancy / maybe_generate_wakeup_event).

package engine

import (
	"container/heap"
	"math"
	"math/rand"

	"github.com/omegagov/queueing-party/internal/metrics"
)

// tenancy is one occupant of a SharedRateResource, due to fire once the
// resource timer reaches DueTimerTime.
type tenancy struct {
	dueTimerTime uint64
	handler      Handler
}

type tenancyHeap []*tenancy

func (h tenancyHeap) Len() int           { return len(h) }
func (h tenancyHeap) Less(i, j int) bool { return h[i].dueTimerTime < h[j].dueTimerTime }
func (h tenancyHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *tenancyHeap) Push(x any)        { *h = append(*h, x.(*tenancy)) }
func (h *tenancyHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// SharedRateResource implements spec §4.3.
type SharedRateResource struct {
	Partitions uint8

	resourceTimer       uint64
	lastUpdatedRealTime Tick
	utilizationCounter  float64
	loadCounter         float64

	heap tenancyHeap
	memo []Tick

	minResetTicks uint64
	maxMemoLen    int
	rng           *rand.Rand

	utilizationGauge *metrics.Gauge
	loadGauge        *metrics.Gauge
	resourceTimerG   *metrics.Gauge
}

func NewSharedRateResource(sim *Simulation, name string, partitions uint8) *SharedRateResource {
	return &SharedRateResource{
		Partitions:       partitions,
		minResetTicks:    sim.Config.MinResourceTimerResetTicks,
		maxMemoLen:       sim.Config.MaxWakeupEventMemoLen,
		rng:              sim.ForkRNG(),
		utilizationGauge: sim.Registry.NewGauge(name + "_shared_rate_utilization_total"),
		loadGauge:        sim.Registry.NewGauge(name + "_shared_rate_load_total"),
		resourceTimerG:   sim.Registry.NewGauge(name + "_shared_rate_resource_timer"),
	}
}

func (r *SharedRateResource) ResourceTimer() uint64      { return r.resourceTimer }
func (r *SharedRateResource) UtilizationCounter() float64 { return r.utilizationCounter }
func (r *SharedRateResource) LoadCounter() float64        { return r.loadCounter }
func (r *SharedRateResource) TenancyCount() int            { return r.heap.Len() }

func (r *SharedRateResource) rate(k uint64) float64 {
	if k == 0 {
		return 1
	}
	n := float64(r.Partitions)
	rate := n / float64(k)
	if rate > 1 {
		rate = 1
	}
	return rate
}

// updateResourceTimer implements spec §4.3.1. Precondition: now >=
// lastUpdatedRealTime.
func (r *SharedRateResource) updateResourceTimer(now Tick) {
	if r.heap.Len() == 0 {
		if r.resourceTimer >= r.minResetTicks {
			r.resourceTimer = 0
			r.utilizationCounter = 0
			r.loadCounter = 0
		}
	} else if now != r.lastUpdatedRealTime {
		deltaReal := uint64(now - r.lastUpdatedRealTime)
		k := uint64(r.heap.Len())
		rate := r.rate(k)
		advance := math.Floor(float64(deltaReal) * rate)
		r.resourceTimer += uint64(advance)

		minNK := float64(r.Partitions)
		if k < uint64(r.Partitions) {
			minNK = float64(k)
		}
		r.utilizationCounter += minNK * float64(deltaReal)
		r.loadCounter += float64(k) * float64(deltaReal)
	}
	r.lastUpdatedRealTime = now

	r.utilizationGauge.Set(r.utilizationCounter)
	r.loadGauge.Set(r.loadCounter)
	r.resourceTimerG.Set(float64(r.resourceTimer))
}

// projectResourceTimer returns what resourceTimer would become if updated to
// now, without mutating state. Used to decide whether a wakeup fires for
// real or is a stale false wakeup.
func (r *SharedRateResource) projectResourceTimer(now Tick) uint64 {
	if r.heap.Len() == 0 || now == r.lastUpdatedRealTime {
		return r.resourceTimer
	}
	deltaReal := uint64(now - r.lastUpdatedRealTime)
	rate := r.rate(uint64(r.heap.Len()))
	advance := math.Floor(float64(deltaReal) * rate)
	return r.resourceTimer + uint64(advance)
}

// getNextWakeupTime implements spec §4.3.2.
func (r *SharedRateResource) getNextWakeupTime() (Tick, bool) {
	if r.heap.Len() == 0 {
		return 0, false
	}
	k := uint64(r.heap.Len())
	rate := r.rate(k)
	top := r.heap[0].dueTimerTime
	diff := float64(top) - float64(r.resourceTimer)
	wakeupDelta := math.Ceil(diff / rate)
	if wakeupDelta < 0 {
		wakeupDelta = 0
	}
	return r.lastUpdatedRealTime + Tick(wakeupDelta), true
}

func (r *SharedRateResource) memoContains(t Tick) bool {
	for _, m := range r.memo {
		if m == t {
			return true
		}
	}
	return false
}

func (r *SharedRateResource) memoPrepend(t Tick) {
	r.memo = append([]Tick{t}, r.memo...)
	if len(r.memo) > r.maxMemoLen {
		r.memo = r.memo[:r.maxMemoLen]
	}
}

// AddTenancy implements spec §4.3.3: update the resource timer, sample a
// delay from delayDist using the resource's own RNG, and push the resulting
// due tenancy onto the heap. Returns any wakeup event this mutation implies.
func (r *SharedRateResource) AddTenancy(sim *Simulation, now Tick, delayDist LogNormalSpec, handler Handler) []ProposedEvent {
	r.updateResourceTimer(now)
	delay := delayDist.Sample(r.rng)
	heap.Push(&r.heap, &tenancy{dueTimerTime: r.resourceTimer + delay, handler: handler})
	return r.maybeGenerateWakeupEvent(now)
}

// maybeGenerateWakeupEvent implements spec §4.3.4.
func (r *SharedRateResource) maybeGenerateWakeupEvent(now Tick) []ProposedEvent {
	if r.heap.Len() == 0 {
		return nil
	}
	t, ok := r.getNextWakeupTime()
	if !ok {
		return nil
	}
	if r.memoContains(t) {
		return nil
	}
	r.memoPrepend(t)

	delay := Deterministic(float64(t - now))
	return []ProposedEvent{{
		Delay:   delay,
		Handler: r.makeWakeupHandler(),
	}}
}

func (r *SharedRateResource) makeWakeupHandler() Handler {
	return func(sim *Simulation, timestamp Tick) []ProposedEvent {
		projected := r.projectResourceTimer(timestamp)

		var handlers []Handler
		for r.heap.Len() > 0 && r.heap[0].dueTimerTime == projected {
			tn := heap.Pop(&r.heap).(*tenancy)
			handlers = append(handlers, tn.handler)
		}

		if len(handlers) > 0 {
			// Only advance the real timer once we know this wakeup wasn't
			// false: an advance on every wakeup would floor-round away
			// precision a later real wakeup needs to see tenancies due at
			// the same integer timestamp.
			r.updateResourceTimer(timestamp)
		}

		if len(handlers) > 1 {
			r.rng.Shuffle(len(handlers), func(i, j int) {
				handlers[i], handlers[j] = handlers[j], handlers[i]
			})
		}

		var events []ProposedEvent
		for _, h := range handlers {
			events = append(events, h(sim, timestamp)...)
		}
		events = append(events, r.maybeGenerateWakeupEvent(timestamp)...)
		return events
	}
}
