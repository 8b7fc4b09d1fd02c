// Process bootstrap: command line parsing, configuration loading, logger
// setup, simulation construction and the scheduler run-to-completion loop.
// Adapted from the teacher's runner.go: the flag-parsing, config-loading,
// logger-setup and signal-handling skeleton survive close to
// verbatim in spirit; the goroutine-based always-on Scheduler plus
// HTTP-endpoint-pool/compressor-pool pipeline the teacher builds around
// them do not apply to a single-threaded, run-to-completion simulator and
// are replaced by building a *engine.Simulation, invoking a registered
// scenario builder for the initial events, and draining the scheduler.

package bootstrap

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/omegagov/queueing-party/internal/cliutil"
	"github.com/omegagov/queueing-party/internal/config"
	"github.com/omegagov/queueing-party/internal/engine"
	"github.com/omegagov/queueing-party/internal/logging"
	"github.com/omegagov/queueing-party/internal/metrics"
	"github.com/omegagov/queueing-party/internal/scenario"
)

const (
	ConfigFlagName   = "config"
	ScenarioFlagName = "scenario"
)

var (
	configFileArg = flag.String(
		ConfigFlagName, "config.yaml",
		cliutil.FormatFlagUsage("path to the YAML configuration file"),
	)
	scenarioNameArg = flag.String(
		ScenarioFlagName, "",
		cliutil.FormatFlagUsage("scenario builder to run; overrides the config file's scenario.name"),
	)
	versionArg = flag.Bool(
		"version", false,
		cliutil.FormatFlagUsage("print the version and exit"),
	)
)

var (
	Version = "(development)"
	GitInfo = ""
)

// scenarioEnvelope is the shape of the "scenario:" section common to every
// scenario: which builder to invoke, plus its builder-specific params.
type scenarioEnvelope struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:"params"`
}

// Run is the process entry point. It returns the process exit code rather
// than calling os.Exit itself, so that callers (tests, alternate mains) can
// observe it.
func Run() int {
	flag.Parse()

	if *versionArg {
		fmt.Printf("%s (%s)\n", Version, GitInfo)
		return 0
	}

	scenarioCfg := &scenarioEnvelope{}
	engineCfg, err := config.LoadConfig(*configFileArg, scenarioCfg, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	if err := logging.SetLogger(engineCfg.LoggerConfig); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return 1
	}
	log := logging.NewCompLogger("bootstrap")

	scenarioName := scenarioCfg.Name
	if *scenarioNameArg != "" {
		scenarioName = *scenarioNameArg
	}
	if scenarioName == "" {
		log.Error("no scenario selected (scenario.name in config, or -scenario on the command line)")
		return 1
	}

	sim := engine.NewSimulation(&engine.Config{
		TicksPerSecond:               engineCfg.TicksPerSecond,
		MetricsSamplingPeriodSeconds: engineCfg.MetricsSamplingPeriodSeconds,
		MaxWakeupEventMemoLen:        engineCfg.MaxWakeupEventMemoLen,
		MinResourceTimerResetTicks:   engineCfg.MinResourceTimerResetTicks,
		SimulationID:                 engineCfg.SimulationID,
	})

	sink, err := metrics.NewStdoutSink(sim.Registry, engineCfg.SinkConfig)
	if err != nil {
		log.Errorf("metrics sink: %v", err)
		return 1
	}

	initial, err := scenario.Build(scenarioName, sim, scenarioCfg.Params)
	if err != nil {
		log.Errorf("scenario %q: %v", scenarioName, err)
		return 1
	}

	collector := engine.NewMetricsCollector(sim, sink)
	initial = append(initial, engine.ProposedEvent{
		Delay:   engine.Deterministic(1),
		Handler: collector.Handler(),
	})

	log.Infof("simulation %016x starting scenario %q", engineCfg.SimulationID, scenarioName)

	// The engine loop is synchronous and drives virtual time, not
	// wall-clock time. It runs on its own goroutine while this one waits for
	// either the loop to return or SIGINT/SIGTERM: when the loop returns, a
	// final metrics scrape is written and Run returns 0; on a signal, Run
	// returns 130 at once, without a final scrape. There is no shutdown
	// timeout.
	done := make(chan struct{})
	go func() {
		defer close(done)
		engine.NewScheduler(sim).Run(sim, initial)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-done:
		sink.Scrape(time.Now())
		log.Infof("simulation %016x completed: %d events dispatched", engineCfg.SimulationID, sim.EventsDispatched.Value())
		return 0
	case sig := <-sigChan:
		log.Warnf("received %v, terminating before the simulation reached quiescence", sig)
		return 130
	}
}
