// Scenario builders construct the initial wired graph of queues, workers,
// pool managers and shared-rate resources for a simulation run, and return
// the bootstrap proposed events that seed it. Registration mirrors the
// teacher's RegisterTaskBuilder/init() pattern (runner.go), generalized
// from "one task builder per metrics generator" to "one scenario builder
// per named scenario".

package scenario

import (
	"fmt"
	"sync"

	"github.com/omegagov/queueing-party/internal/engine"
)

// Builder constructs a scenario's component graph against sim and returns
// the events that seed it. params is the scenario-specific configuration
// decoded from the "scenario.params" section of the configuration file.
type Builder func(sim *engine.Simulation, params map[string]any) ([]engine.ProposedEvent, error)

var registry = struct {
	builders map[string]Builder
	mu       sync.Mutex
}{builders: make(map[string]Builder)}

func RegisterScenarioBuilder(name string, b Builder) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, exists := registry.builders[name]; exists {
		panic(fmt.Sprintf("scenario: duplicate builder registration for %q", name))
	}
	registry.builders[name] = b
}

func Build(name string, sim *engine.Simulation, params map[string]any) ([]engine.ProposedEvent, error) {
	registry.mu.Lock()
	b, ok := registry.builders[name]
	registry.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("scenario: no builder registered for %q", name)
	}
	return b(sim, params)
}

func Names() []string {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	names := make([]string, 0, len(registry.builders))
	for name := range registry.builders {
		names = append(names, name)
	}
	return names
}
