// Configuration loading.
//
// The configuration is loaded from a YAML file, with the following
// structure:
//
//	engine:
//	  ticks_per_second: 1000
//	  metrics_sampling_period_seconds: 15
//	  max_wakeup_event_memo_len: 8
//	  min_resource_timer_reset_ticks: 120000
//	  simulation_id: 0x1234567890abcdef
//	  log_config:
//	    ...
//	  metrics:
//	    ...
//	scenario:
//	  ...
//
// The "engine" section maps to the EngineConfig structure defined here. The
// "scenario" section is scenario-specific and is not defined by this
// package; it is decoded into whatever structure the caller's chosen
// scenario builder expects.

package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/omegagov/queueing-party/internal/logging"
	"github.com/omegagov/queueing-party/internal/metrics"
)

const (
	EngineSectionName   = "engine"
	ScenarioSectionName = "scenario"

	DefaultTicksPerSecond               = 1000
	DefaultMetricsSamplingPeriodSeconds = 15
	DefaultMaxWakeupEventMemoLen        = 8
	DefaultMinResourceTimerResetTicks   = 120 * DefaultTicksPerSecond
)

// EngineConfig is the "engine:" section of the configuration file.
type EngineConfig struct {
	TicksPerSecond               uint64 `yaml:"ticks_per_second"`
	MetricsSamplingPeriodSeconds float64 `yaml:"metrics_sampling_period_seconds"`
	MaxWakeupEventMemoLen        int    `yaml:"max_wakeup_event_memo_len"`
	MinResourceTimerResetTicks   uint64 `yaml:"min_resource_timer_reset_ticks"`
	SimulationID                 uint64 `yaml:"simulation_id"`

	LoggerConfig *logging.LoggerConfig `yaml:"log_config"`
	SinkConfig   *metrics.SinkConfig   `yaml:"metrics"`
}

func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		TicksPerSecond:               DefaultTicksPerSecond,
		MetricsSamplingPeriodSeconds: DefaultMetricsSamplingPeriodSeconds,
		MaxWakeupEventMemoLen:        DefaultMaxWakeupEventMemoLen,
		MinResourceTimerResetTicks:   DefaultMinResourceTimerResetTicks,
		LoggerConfig:                 logging.DefaultLoggerConfig(),
		SinkConfig:                   metrics.DefaultSinkConfig(),
	}
}

// LoadConfig loads the configuration from cfgFile (or buf directly, for
// testing):
//   - the "engine" section is returned as an *EngineConfig
//   - the "scenario" section is decoded into scenarioConfig, which the
//     caller is expected to have primed with scenario-specific defaults.
func LoadConfig(cfgFile string, scenarioConfig any, buf []byte) (*EngineConfig, error) {
	if buf == nil {
		f, err := os.Open(cfgFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		buf, err = io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("file: %q: %v", cfgFile, err)
		}
	}

	docNode := yaml.Node{}
	if err := yaml.Unmarshal(buf, &docNode); err != nil {
		return nil, fmt.Errorf("file: %q: %v", cfgFile, err)
	}

	engineConfig := DefaultEngineConfig()
	if docNode.Kind == yaml.DocumentNode && len(docNode.Content) > 0 {
		rootNode := docNode.Content[0]
		if rootNode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("file: %q: invalid YAML root node %q", cfgFile, rootNode.Tag)
		}
		var toCfg any
		for _, n := range rootNode.Content {
			if n.Kind == yaml.ScalarNode {
				switch n.Value {
				case EngineSectionName:
					toCfg = engineConfig
				case ScenarioSectionName:
					toCfg = scenarioConfig
				default:
					toCfg = nil
				}
				continue
			}
			if n.Kind == yaml.MappingNode && toCfg != nil {
				if err := n.Decode(toCfg); err != nil {
					return nil, fmt.Errorf("file: %q: %v", cfgFile, err)
				}
			}
			toCfg = nil
		}
	}

	return engineConfig, nil
}
