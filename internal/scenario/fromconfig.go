// fromconfig is the general declarative builder: unlike the six canned
// scenarios alongside it (one fixed topology each, grounded directly on
// spec §8's seeded scenarios), this one assembles an arbitrary topology of
// queues, worker pools and shared-rate resources from the "scenario.params"
// section of a configuration file, for operators who don't want to write a
// Go scenario builder for every topology they need to try.

package scenario

import (
	"fmt"

	"github.com/omegagov/queueing-party/internal/engine"
)

func init() {
	RegisterScenarioBuilder("from_config", buildFromConfig)
}

type resourceSpec struct {
	Name       string `yaml:"name"`
	Partitions uint8  `yaml:"partitions"`
}

type poolSpec struct {
	Name          string    `yaml:"name"`
	Queues        []string  `yaml:"queues"`
	InitialCount  int       `yaml:"initial_count"`
	Resource      string    `yaml:"resource"`
	ProcessingTime delaySpec `yaml:"processing_time"`
}

type enqueueSpec struct {
	Queue string `yaml:"queue"`
	Tick  int    `yaml:"tick"`
}

type fromConfigParams struct {
	Queues    []string       `yaml:"queues"`
	Resources []resourceSpec `yaml:"resources"`
	Pools     []poolSpec     `yaml:"pools"`
	Enqueues  []enqueueSpec  `yaml:"enqueues"`
}

func buildFromConfig(sim *engine.Simulation, params map[string]any) ([]engine.ProposedEvent, error) {
	var p fromConfigParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	queues := make(map[string]*engine.Queue, len(p.Queues))
	for _, name := range p.Queues {
		queues[name] = engine.NewQueue(sim, name)
	}

	resources := make(map[string]*engine.SharedRateResource, len(p.Resources))
	for _, rs := range p.Resources {
		resources[rs.Name] = engine.NewSharedRateResource(sim, rs.Name, rs.Partitions)
	}

	var events []engine.ProposedEvent
	nextWorkerID := uint64(1)
	enqueueHandlers := make(map[string]engine.Handler, len(queues))

	for _, pool := range p.Pools {
		poolQueues := make([]*engine.Queue, 0, len(pool.Queues))
		for _, qn := range pool.Queues {
			q, ok := queues[qn]
			if !ok {
				return nil, fmt.Errorf("scenario: from_config: pool %q references unknown queue %q", pool.Name, qn)
			}
			poolQueues = append(poolQueues, q)
		}

		var resource *engine.SharedRateResource
		if pool.Resource != "" {
			var ok bool
			resource, ok = resources[pool.Resource]
			if !ok {
				return nil, fmt.Errorf("scenario: from_config: pool %q references unknown resource %q", pool.Name, pool.Resource)
			}
		}

		processingTime := pool.ProcessingTime.toLogNormal()
		pm := engine.NewPoolManager(func() func() {
			id := nextWorkerID
			nextWorkerID++
			w := engine.NewWorker(sim, id, poolQueues, nil)
			w.Listen(sim, 0)
			return func() { w.Shutdown(sim) }
		})
		pm.SetDesiredInstancesAbsolute(pool.InitialCount)

		for _, q := range poolQueues {
			handler := workHandler(processingTime)
			if resource != nil {
				handler = throughResource(resource, processingTime)
			}
			enqueueHandlers[q.Name()] = q.MakeEnqueueHandler(handler)
		}
	}

	// Queues with no pool still need an enqueue handler of their own, for
	// producers that deliberately target a queue nothing consumes (spec §8
	// scenario 3's starvation case, generalized).
	for name, q := range queues {
		if _, ok := enqueueHandlers[name]; !ok {
			enqueueHandlers[name] = q.MakeEnqueueHandler(workHandler(engine.Deterministic(1)))
		}
	}

	for _, eq := range p.Enqueues {
		enqueue, ok := enqueueHandlers[eq.Queue]
		if !ok {
			return nil, fmt.Errorf("scenario: from_config: enqueue references unknown queue %q", eq.Queue)
		}
		events = append(events, engine.ProposedEvent{
			Delay:   engine.Deterministic(float64(eq.Tick)),
			Handler: enqueue,
		})
	}

	return events, nil
}

// throughResource is the resource-backed counterpart of workHandler: the
// processing time is spent as a tenancy on the shared resource rather than
// as scheduler ticks directly, and the
// worker is released back to its queue only once the resource's own timer
// says the tenancy's due time has been reached.
func throughResource(resource *engine.SharedRateResource, processingTime engine.LogNormalSpec) engine.EnqueuedHandler {
	return func(sim *engine.Simulation, now engine.Tick, token *engine.WorkerToken) []engine.ProposedEvent {
		return resource.AddTenancy(sim, now, processingTime, func(sim *engine.Simulation, now engine.Tick) []engine.ProposedEvent {
			return engine.MakeTokenRestoringHandler(func(sim *engine.Simulation, now engine.Tick) ([]engine.ProposedEvent, []*engine.WorkerToken) {
				return nil, []*engine.WorkerToken{token}
			})(sim, now)
		})
	}
}
