package scenario

import "github.com/omegagov/queueing-party/internal/engine"

func init() {
	RegisterScenarioBuilder("empty", buildEmpty)
}

// buildEmpty wires nothing and seeds no events: spec §8 scenario 1, the
// baseline a more elaborate scenario's diff is measured against.
func buildEmpty(sim *engine.Simulation, params map[string]any) ([]engine.ProposedEvent, error) {
	return nil, nil
}
