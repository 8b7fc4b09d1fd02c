package config

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/huandu/go-clone"
)

type scenarioConfigTest struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:"params"`
}

func defaultScenarioConfigTest() *scenarioConfigTest {
	return &scenarioConfigTest{Name: "empty"}
}

type loadConfigTestCase struct {
	name           string
	scenarioConfig any
	data           string
	wantEngine     *EngineConfig
	wantScenario   any
	wantErr        bool
}

func testLoadConfig(t *testing.T, tc *loadConfigTestCase) {
	scenarioConfig := clone.Clone(tc.scenarioConfig)
	gotEngine, err := LoadConfig("", scenarioConfig, []byte(strings.ReplaceAll(tc.data, "\t", "  ")))
	if tc.wantErr {
		if err == nil {
			t.Fatalf("expected an error, got none")
		}
		return
	}
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(tc.wantEngine, gotEngine); diff != "" {
		t.Fatalf("EngineConfig mismatch (-want +got):\n%s", diff)
	}
	if tc.wantScenario != nil {
		if diff := cmp.Diff(tc.wantScenario, scenarioConfig); diff != "" {
			t.Fatalf("scenario config mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	engineOverride := DefaultEngineConfig()
	engineOverride.TicksPerSecond = 500
	engineOverride.SimulationID = 42

	scenarioOverride := defaultScenarioConfigTest()
	scenarioOverride.Name = "queue_workers"
	scenarioOverride.Params = map[string]any{"worker_count": 3}

	for _, tc := range []*loadConfigTestCase{
		{
			name:           "empty_file",
			scenarioConfig: defaultScenarioConfigTest(),
			wantEngine:     DefaultEngineConfig(),
			wantScenario:   defaultScenarioConfigTest(),
		},
		{
			name:           "engine_section_only",
			scenarioConfig: defaultScenarioConfigTest(),
			data: `
				engine:
					ticks_per_second: 500
					simulation_id: 42
			`,
			wantEngine:   engineOverride,
			wantScenario: defaultScenarioConfigTest(),
		},
		{
			name:           "scenario_section_only",
			scenarioConfig: defaultScenarioConfigTest(),
			data: `
				scenario:
					name: queue_workers
					params:
						worker_count: 3
			`,
			wantEngine:   DefaultEngineConfig(),
			wantScenario: scenarioOverride,
		},
		{
			name:           "unrecognized_top_level_section_is_ignored",
			scenarioConfig: defaultScenarioConfigTest(),
			data: `
				unrelated:
					foo: bar
				engine:
					ticks_per_second: 500
					simulation_id: 42
			`,
			wantEngine:   engineOverride,
			wantScenario: defaultScenarioConfigTest(),
		},
	} {
		t.Run(tc.name, func(t *testing.T) { testLoadConfig(t, tc) })
	}
}

func TestLoadConfigBadFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/path/config.yaml", defaultScenarioConfigTest(), nil); err == nil {
		t.Fatal("expected an error opening a nonexistent config file")
	}
}
