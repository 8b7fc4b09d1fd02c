// Scenario parameter decoding: params arrives as the generic
// map[string]any produced by yaml.v3's decode into `any`. Round-tripping
// it back through yaml.Marshal/Unmarshal into a concrete struct is the
// simplest way to reuse the yaml package's own type coercion rather than
// hand-rolling a map-to-struct walk.

package scenario

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/omegagov/queueing-party/internal/engine"
)

func decodeParams(params map[string]any, out any) error {
	buf, err := yaml.Marshal(params)
	if err != nil {
		return fmt.Errorf("scenario: re-marshal params: %v", err)
	}
	if err := yaml.Unmarshal(buf, out); err != nil {
		return fmt.Errorf("scenario: decode params: %v", err)
	}
	return nil
}

// delaySpec is the YAML shape of a LogNormalSpec: {mean, cv}. cv defaults
// to 0, i.e. deterministic.
type delaySpec struct {
	Mean float64 `yaml:"mean"`
	CV   float64 `yaml:"cv"`
}

func (d delaySpec) toLogNormal() engine.LogNormalSpec {
	return engine.LogNormalSpec{Mean: d.Mean, CV: d.CV}
}

// workHandler returns the EnqueuedHandler checked-out workers run: hold the
// worker for processingTime, then restore the token. This is the shape
// every scenario below uses for "a worker does some work" (grounded on the
// hold-for-N-ticks pattern exercised by the queue/token scenarios in
// internal/engine's own tests).
func workHandler(processingTime engine.LogNormalSpec) engine.EnqueuedHandler {
	return func(sim *engine.Simulation, now engine.Tick, token *engine.WorkerToken) []engine.ProposedEvent {
		return []engine.ProposedEvent{{
			Delay: processingTime,
			Handler: engine.MakeTokenRestoringHandler(func(sim *engine.Simulation, now engine.Tick) ([]engine.ProposedEvent, []*engine.WorkerToken) {
				return nil, []*engine.WorkerToken{token}
			}),
		}}
	}
}
