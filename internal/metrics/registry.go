// Hand-rolled open-metrics text exposition, the same style as a VictoriaMetrics
// importer's internal metrics: cache the "name{labels} " byte prefix for each
// distinct time series once, then append only the value and timestamp suffix
// on every scrape.

package metrics

import (
	"bytes"
	"strconv"
	"strings"
	"time"
)

// collector is implemented by every metric kind registered with a Registry.
type collector interface {
	// writeType emits the "# TYPE name <kind>" header line, once.
	writeType(buf *bytes.Buffer)
	// writeSamples appends one line per time series currently known to the
	// collector, using tsSuffix as the cached " <unix_ms>\n" tail.
	writeSamples(buf *bytes.Buffer, tsSuffix []byte)
}

// Registry owns a fixed set of common labels (e.g. simulation_id) applied to
// every series, and the ordered list of registered collectors.
type Registry struct {
	commonLabels []string // pre-rendered as `,key="val"` pairs, sorted by key
	collectors   []collector
	names        map[string]bool
	tsSuffix     bytes.Buffer
}

// NewRegistry creates a registry with a fixed set of common labels attached
// to every sample, e.g. NewRegistry(map[string]string{"simulation_id": id}).
func NewRegistry(common map[string]string) *Registry {
	r := &Registry{names: make(map[string]bool)}
	// Deterministic order regardless of map iteration:
	keys := make([]string, 0, len(common))
	for k := range common {
		keys = append(keys, k)
	}
	sortStrings(keys)
	for _, k := range keys {
		r.commonLabels = append(r.commonLabels, labelPair(k, common[k]))
	}
	return r
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func (r *Registry) register(name string, c collector) {
	if r.names[name] {
		panic("metrics: duplicate series name " + name)
	}
	r.names[name] = true
	r.collectors = append(r.collectors, c)
}

func labelPair(key, value string) string {
	return `,` + key + `="` + value + `"`
}

// buildPrefix renders "name{common,label=val,...} " (trailing space, no
// value yet) for a series identified by labelNames/labelValues, which may be
// empty for an unlabeled metric.
func (r *Registry) buildPrefix(name string, labelNames, labelValues []string) []byte {
	var b strings.Builder
	b.WriteString(name)
	hasLabels := len(r.commonLabels) > 0 || len(labelNames) > 0
	if hasLabels {
		b.WriteByte('{')
		first := true
		for _, cl := range r.commonLabels {
			if first {
				b.WriteString(cl[1:]) // drop leading comma
				first = false
			} else {
				b.WriteString(cl)
			}
		}
		for i, ln := range labelNames {
			pair := labelPair(ln, labelValues[i])
			if first {
				b.WriteString(pair[1:])
				first = false
			} else {
				b.WriteString(pair)
			}
		}
		b.WriteByte('}')
	}
	b.WriteByte(' ')
	return []byte(b.String())
}

func seriesKey(labelValues []string) string {
	return strings.Join(labelValues, "\x00")
}

// WriteTo scrapes every registered collector into buf, using now as the
// sample timestamp for the whole scrape (all series in one scrape share a
// timestamp, as in the teacher's per-cycle TsSuffixBuf).
func (r *Registry) WriteTo(buf *bytes.Buffer, now time.Time) {
	r.tsSuffix.Reset()
	r.tsSuffix.WriteByte(' ')
	r.tsSuffix.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	r.tsSuffix.WriteByte('\n')
	tsSuffix := r.tsSuffix.Bytes()

	for _, c := range r.collectors {
		c.writeType(buf)
		c.writeSamples(buf, tsSuffix)
	}
}
