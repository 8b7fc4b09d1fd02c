package scenario

import "github.com/omegagov/queueing-party/internal/engine"

func init() {
	RegisterScenarioBuilder("self_scheduling", buildSelfScheduling)
}

type selfSchedulingParams struct {
	Count    int       `yaml:"count"`
	Interval delaySpec `yaml:"interval"`
}

// buildSelfScheduling seeds a single handler that runs Count times in all,
// rescheduling itself Count-1 times at Interval apart: spec §8 scenario 2,
// a minimal exercise of the
// scheduler with no queues, workers or resources involved.
func buildSelfScheduling(sim *engine.Simulation, params map[string]any) ([]engine.ProposedEvent, error) {
	p := selfSchedulingParams{Count: 6, Interval: delaySpec{Mean: 1}}
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	interval := p.Interval.toLogNormal()
	remaining := p.Count

	var handler engine.Handler
	handler = func(sim *engine.Simulation, now engine.Tick) []engine.ProposedEvent {
		remaining--
		if remaining <= 0 {
			return nil
		}
		return []engine.ProposedEvent{{Delay: interval, Handler: handler}}
	}

	return []engine.ProposedEvent{{Delay: interval, Handler: handler}}, nil
}
