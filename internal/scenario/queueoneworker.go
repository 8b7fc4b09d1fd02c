package scenario

import "github.com/omegagov/queueing-party/internal/engine"

func init() {
	RegisterScenarioBuilder("queue_workers", buildQueueWorkers)
}

type queueWorkersParams struct {
	QueueName    string    `yaml:"queue_name"`
	WorkerCount  int       `yaml:"worker_count"`
	EnqueueTicks []int     `yaml:"enqueue_ticks"`
	Processing   delaySpec `yaml:"processing_time"`
}

// buildQueueWorkers wires one queue and a pool of workers all listening on
// it from tick 0: spec §8 scenario 4 generalized from one worker to a
// configurable pool. Workers join the queue's listening set as ordinary Go
// setup code (tick 0 is not reachable through the scheduler's clamped
// minimum delay), mirroring how a pool manager's initial instances are
// brought up before the scheduler starts running.
func buildQueueWorkers(sim *engine.Simulation, params map[string]any) ([]engine.ProposedEvent, error) {
	p := queueWorkersParams{
		QueueName:    "Q",
		WorkerCount:  1,
		EnqueueTicks: []int{10, 20, 30},
		Processing:   delaySpec{Mean: 4000},
	}
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	q := engine.NewQueue(sim, p.QueueName)
	enqueue := q.MakeEnqueueHandler(workHandler(p.Processing.toLogNormal()))

	for i := 0; i < p.WorkerCount; i++ {
		w := engine.NewWorker(sim, uint64(i+1), []*engine.Queue{q}, nil)
		w.Listen(sim, 0)
	}

	var events []engine.ProposedEvent
	for _, tick := range p.EnqueueTicks {
		events = append(events, engine.ProposedEvent{
			Delay:   engine.Deterministic(float64(tick)),
			Handler: enqueue,
		})
	}
	return events, nil
}
