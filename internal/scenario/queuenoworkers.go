package scenario

import "github.com/omegagov/queueing-party/internal/engine"

func init() {
	RegisterScenarioBuilder("queue_no_workers", buildQueueNoWorkers)
}

type queueNoWorkersParams struct {
	QueueName    string    `yaml:"queue_name"`
	EnqueueTicks []int     `yaml:"enqueue_ticks"`
	Processing   delaySpec `yaml:"processing_time"`
}

// buildQueueNoWorkers wires one queue with nothing ever listening on it:
// spec §8 scenario 3, demonstrating unbounded deque growth under permanent
// starvation. The enqueued handlers are never invoked; they only matter
// inasmuch as the queue's deque length reflects them.
func buildQueueNoWorkers(sim *engine.Simulation, params map[string]any) ([]engine.ProposedEvent, error) {
	p := queueNoWorkersParams{
		QueueName:    "Q",
		EnqueueTicks: []int{1, 2},
		Processing:   delaySpec{Mean: 100},
	}
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	q := engine.NewQueue(sim, p.QueueName)
	enqueue := q.MakeEnqueueHandler(workHandler(p.Processing.toLogNormal()))

	var events []engine.ProposedEvent
	for _, tick := range p.EnqueueTicks {
		events = append(events, engine.ProposedEvent{
			Delay:   engine.Deterministic(float64(tick)),
			Handler: enqueue,
		})
	}
	return events, nil
}
