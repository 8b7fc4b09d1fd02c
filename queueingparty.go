// The public face of the simulator for embedders that want to drive a run
// from their own main() instead of cmd/queueing-party.

package queueingparty

import (
	"github.com/sirupsen/logrus"

	"github.com/omegagov/queueing-party/internal/bootstrap"
	"github.com/omegagov/queueing-party/internal/logging"
	"github.com/omegagov/queueing-party/internal/scenario"
)

// SetBuildInfo records the version and git info reported by -version.
// Call before Run, typically from an init().
func SetBuildInfo(version, gitInfo string) {
	bootstrap.Version = version
	bootstrap.GitInfo = gitInfo
}

// RegisterScenarioBuilder registers a scenario builder under name, for
// embedders defining their own topologies beyond the ones this module
// ships in internal/scenario.
func RegisterScenarioBuilder(name string, b scenario.Builder) {
	scenario.RegisterScenarioBuilder(name, b)
}

// GetRootLogger exposes the root logger for tests that capture its output
// (see testutils.NewTestLogCollect). Its concrete type is deliberately
// obscured here.
func GetRootLogger() any { return logging.GetRootLogger() }

// NewCompLogger creates a component sub-logger with comp=compName.
func NewCompLogger(comp string) *logrus.Entry {
	return logging.NewCompLogger(comp)
}

// AddCallerSrcPathPrefixToLogger adds the directory upNDirs levels above the
// caller's own source file to the prefixes the logger strips from logged
// file names. Typically called from main.init() with upNDirs 0.
func AddCallerSrcPathPrefixToLogger(upNDirs int) {
	logging.AddCallerSrcPathPrefixToLogger(upNDirs, 1)
}

// Run parses flags, loads configuration, builds the simulation from the
// selected scenario and runs it to completion (or until interrupted). Its
// return value is meant to be used as the process exit status.
func Run() int { return bootstrap.Run() }
