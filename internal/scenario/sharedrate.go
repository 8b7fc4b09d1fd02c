package scenario

import "github.com/omegagov/queueing-party/internal/engine"

func init() {
	RegisterScenarioBuilder("shared_rate", buildSharedRate)
}

type sharedRateParams struct {
	ResourceName string      `yaml:"resource_name"`
	Partitions   uint8       `yaml:"partitions"`
	Tenancies    []delaySpec `yaml:"tenancies"`
}

// buildSharedRate wires a single shared-rate resource with a fixed set of
// tenants present from tick 0: spec §8 scenario 5, exercising the N/K rate
// clamp and the false-wakeup recomputation path.
func buildSharedRate(sim *engine.Simulation, params map[string]any) ([]engine.ProposedEvent, error) {
	p := sharedRateParams{
		ResourceName: "shared",
		Partitions:   2,
		Tenancies: []delaySpec{
			{Mean: 1000}, {Mean: 1000}, {Mean: 1000},
		},
	}
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	r := engine.NewSharedRateResource(sim, p.ResourceName, p.Partitions)

	var events []engine.ProposedEvent
	for _, t := range p.Tenancies {
		events = append(events, r.AddTenancy(sim, 0, t.toLogNormal(), func(sim *engine.Simulation, now engine.Tick) []engine.ProposedEvent {
			return nil
		})...)
	}
	return events, nil
}
