// Periodic open-metrics text emission to stdout.
//
// The teacher's stdout sink hands buffers to a background goroutine over a
// channel, because its generators run on a real-time, multi-worker
// scheduler. This simulator's engine is single-threaded and cooperative
// (nothing ever runs concurrently with the scrape that fills the buffer), so
// the sink here writes synchronously instead: there is no second thread to
// hand a buffer to.

package metrics

import (
	"fmt"
	"os"
	"time"

	units "github.com/docker/go-units"
)

const DefaultBatchTargetSize = "64k"

type SinkConfig struct {
	BatchTargetSize  string `yaml:"batch_target_size"`
	BufferPoolMaxSize int   `yaml:"buffer_pool_max_size"`
}

func DefaultSinkConfig() *SinkConfig {
	return &SinkConfig{
		BatchTargetSize:   DefaultBatchTargetSize,
		BufferPoolMaxSize: 8,
	}
}

// StdoutSink scrapes a Registry and writes the resulting text to stdout.
type StdoutSink struct {
	registry        *Registry
	bufPool         *BufPool
	batchTargetSize int
	firstUse        bool
}

func NewStdoutSink(registry *Registry, cfg *SinkConfig) (*StdoutSink, error) {
	if cfg == nil {
		cfg = DefaultSinkConfig()
	}
	targetSize, err := units.RAMInBytes(cfg.BatchTargetSize)
	if err != nil {
		return nil, fmt.Errorf("invalid batch_target_size %q: %v", cfg.BatchTargetSize, err)
	}
	return &StdoutSink{
		registry:        registry,
		bufPool:         NewBufPool(cfg.BufferPoolMaxSize),
		batchTargetSize: int(targetSize),
		firstUse:        true,
	}, nil
}

// Scrape writes the registry's current state to stdout, tagged with now.
func (s *StdoutSink) Scrape(now time.Time) {
	buf := s.bufPool.GetBuf()
	s.registry.WriteTo(buf, now)
	if s.firstUse {
		os.Stdout.WriteString("\n# Simulation metrics will be displayed to stdout\n\n")
		s.firstUse = false
	}
	if buf.Len() > 0 {
		os.Stdout.Write(buf.Bytes())
	}
	s.bufPool.ReturnBuf(buf)
}
