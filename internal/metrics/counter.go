package metrics

import (
	"bytes"
	"strconv"
)

// Counter is an unlabeled monotonic counter, e.g. events_dispatched.
type Counter struct {
	name   string
	prefix []byte
	value  uint64
}

func (r *Registry) NewCounter(name string) *Counter {
	c := &Counter{name: name}
	r.register(name, c)
	c.prefix = r.buildPrefix(name, nil, nil)
	return c
}

func (c *Counter) Inc() {
	c.value++
}

func (c *Counter) Add(delta uint64) {
	c.value += delta
}

func (c *Counter) Value() uint64 {
	return c.value
}

func (c *Counter) writeType(buf *bytes.Buffer) {
	buf.WriteString("# TYPE ")
	buf.WriteString(c.name)
	buf.WriteString(" counter\n")
}

func (c *Counter) writeSamples(buf *bytes.Buffer, tsSuffix []byte) {
	buf.Write(c.prefix)
	buf.WriteString(strconv.FormatUint(c.value, 10))
	buf.Write(tsSuffix)
}

// counterSeries is one label-value combination of a CounterVec.
type counterSeries struct {
	prefix []byte
	value  uint64
}

// CounterVec is a label-family counter, e.g. worker_tokens_checked_out
// labeled by worker_id and originating_queue. Label combinations are
// observed dynamically (workers and queues are created at runtime), so each
// series' prefix is cached the first time that combination is seen, rather
// than the teacher's fixed instance/hostname pair computed once at startup.
type CounterVec struct {
	name       string
	labelNames []string
	series     map[string]*counterSeries
	order      []string
	registry   *Registry
}

func (r *Registry) NewCounterVec(name string, labelNames []string) *CounterVec {
	cv := &CounterVec{
		name:       name,
		labelNames: labelNames,
		series:     make(map[string]*counterSeries),
		registry:   r,
	}
	r.register(name, cv)
	return cv
}

func (cv *CounterVec) seriesFor(labelValues []string) *counterSeries {
	key := seriesKey(labelValues)
	s := cv.series[key]
	if s == nil {
		s = &counterSeries{prefix: cv.registry.buildPrefix(cv.name, cv.labelNames, labelValues)}
		cv.series[key] = s
		cv.order = append(cv.order, key)
	}
	return s
}

func (cv *CounterVec) Inc(labelValues ...string) {
	cv.seriesFor(labelValues).value++
}

func (cv *CounterVec) ValueFor(labelValues ...string) uint64 {
	return cv.seriesFor(labelValues).value
}

func (cv *CounterVec) writeType(buf *bytes.Buffer) {
	buf.WriteString("# TYPE ")
	buf.WriteString(cv.name)
	buf.WriteString(" counter\n")
}

func (cv *CounterVec) writeSamples(buf *bytes.Buffer, tsSuffix []byte) {
	for _, key := range cv.order {
		s := cv.series[key]
		buf.Write(s.prefix)
		buf.WriteString(strconv.FormatUint(s.value, 10))
		buf.Write(tsSuffix)
	}
}
