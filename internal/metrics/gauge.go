package metrics

import (
	"bytes"
	"strconv"
)

// Gauge is an unlabeled, arbitrarily-settable value.
type Gauge struct {
	name   string
	prefix []byte
	value  float64
}

func (r *Registry) NewGauge(name string) *Gauge {
	g := &Gauge{name: name}
	r.register(name, g)
	g.prefix = r.buildPrefix(name, nil, nil)
	return g
}

func (g *Gauge) Set(v float64) {
	g.value = v
}

func (g *Gauge) Value() float64 {
	return g.value
}

func (g *Gauge) writeType(buf *bytes.Buffer) {
	buf.WriteString("# TYPE ")
	buf.WriteString(g.name)
	buf.WriteString(" gauge\n")
}

func (g *Gauge) writeSamples(buf *bytes.Buffer, tsSuffix []byte) {
	buf.Write(g.prefix)
	buf.WriteString(strconv.FormatFloat(g.value, 'f', -1, 64))
	buf.Write(tsSuffix)
}

type gaugeSeries struct {
	prefix []byte
	value  float64
}

// GaugeVec is a label-family gauge, e.g. up labeled by worker_id.
type GaugeVec struct {
	name       string
	labelNames []string
	series     map[string]*gaugeSeries
	order      []string
	registry   *Registry
}

func (r *Registry) NewGaugeVec(name string, labelNames []string) *GaugeVec {
	gv := &GaugeVec{
		name:       name,
		labelNames: labelNames,
		series:     make(map[string]*gaugeSeries),
		registry:   r,
	}
	r.register(name, gv)
	return gv
}

func (gv *GaugeVec) seriesFor(labelValues []string) *gaugeSeries {
	key := seriesKey(labelValues)
	s := gv.series[key]
	if s == nil {
		s = &gaugeSeries{prefix: gv.registry.buildPrefix(gv.name, gv.labelNames, labelValues)}
		gv.series[key] = s
		gv.order = append(gv.order, key)
	}
	return s
}

func (gv *GaugeVec) Set(v float64, labelValues ...string) {
	gv.seriesFor(labelValues).value = v
}

func (gv *GaugeVec) ValueFor(labelValues ...string) float64 {
	return gv.seriesFor(labelValues).value
}

func (gv *GaugeVec) writeType(buf *bytes.Buffer) {
	buf.WriteString("# TYPE ")
	buf.WriteString(gv.name)
	buf.WriteString(" gauge\n")
}

func (gv *GaugeVec) writeSamples(buf *bytes.Buffer, tsSuffix []byte) {
	for _, key := range gv.order {
		s := gv.series[key]
		buf.Write(s.prefix)
		buf.WriteString(strconv.FormatFloat(s.value, 'f', -1, 64))
		buf.Write(tsSuffix)
	}
}
