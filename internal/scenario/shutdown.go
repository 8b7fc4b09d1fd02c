package scenario

import "github.com/omegagov/queueing-party/internal/engine"

func init() {
	RegisterScenarioBuilder("shutdown_during_pending_work", buildShutdown)
}

type shutdownParams struct {
	QueueName    string    `yaml:"queue_name"`
	ShutdownTick int       `yaml:"shutdown_tick"`
	EnqueueTicks []int     `yaml:"enqueue_ticks"`
	Processing   delaySpec `yaml:"processing_time"`
}

// buildShutdown has a worker marked ShuttingDown before an enqueue attempt
// ever reaches it: spec §8 scenario 6, exercising pickWorker's retry past a
// no-longer-running worker and the resulting permanent deque growth.
func buildShutdown(sim *engine.Simulation, params map[string]any) ([]engine.ProposedEvent, error) {
	p := shutdownParams{
		QueueName:    "Q",
		ShutdownTick: 5,
		EnqueueTicks: []int{10},
		Processing:   delaySpec{Mean: 100},
	}
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	q := engine.NewQueue(sim, p.QueueName)
	w := engine.NewWorker(sim, 1, []*engine.Queue{q}, nil)
	w.Listen(sim, 0)

	enqueue := q.MakeEnqueueHandler(workHandler(p.Processing.toLogNormal()))
	events := []engine.ProposedEvent{{
		Delay: engine.Deterministic(float64(p.ShutdownTick)),
		Handler: func(sim *engine.Simulation, now engine.Tick) []engine.ProposedEvent {
			w.Status.Set(engine.ShuttingDown)
			return nil
		},
	}}
	for _, tick := range p.EnqueueTicks {
		events = append(events, engine.ProposedEvent{
			Delay:   engine.Deterministic(float64(tick)),
			Handler: enqueue,
		})
	}
	return events, nil
}
