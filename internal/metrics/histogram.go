package metrics

import (
	"bytes"
	"strconv"
)

// ExponentialBuckets returns count upper bounds start*factor^0 .. start*factor^(count-1),
// e.g. ExponentialBuckets(0.01, 2, 16) for worker_token_duration.
func ExponentialBuckets(start, factor float64, count int) []float64 {
	buckets := make([]float64, count)
	v := start
	for i := 0; i < count; i++ {
		buckets[i] = v
		v *= factor
	}
	return buckets
}

type histogramSeries struct {
	bucketPrefixes [][]byte // "name_bucket{...,le=\"X\"} "
	sumPrefix      []byte
	countPrefix    []byte
	bucketCounts   []uint64
	sum            float64
	count          uint64
}

// HistogramVec is a label-family histogram with fixed, shared bucket
// boundaries, e.g. worker_token_duration labeled by worker_id and
// originating_queue with exponential buckets 0.01*2^k, k=0..15.
type HistogramVec struct {
	name       string
	labelNames []string
	buckets    []float64
	series     map[string]*histogramSeries
	order      []string
	registry   *Registry
}

func (r *Registry) NewHistogramVec(name string, labelNames []string, buckets []float64) *HistogramVec {
	hv := &HistogramVec{
		name:       name,
		labelNames: labelNames,
		buckets:    buckets,
		series:     make(map[string]*histogramSeries),
		registry:   r,
	}
	r.register(name, hv)
	return hv
}

func (hv *HistogramVec) seriesFor(labelValues []string) *histogramSeries {
	key := seriesKey(labelValues)
	s := hv.series[key]
	if s == nil {
		s = &histogramSeries{
			bucketCounts: make([]uint64, len(hv.buckets)),
		}
		labelNames := append(append([]string{}, hv.labelNames...), "le")
		for _, le := range hv.buckets {
			labelValuesWithLe := append(append([]string{}, labelValues...), formatLe(le))
			s.bucketPrefixes = append(s.bucketPrefixes, hv.registry.buildPrefix(hv.name+"_bucket", labelNames, labelValuesWithLe))
		}
		s.sumPrefix = hv.registry.buildPrefix(hv.name+"_sum", hv.labelNames, labelValues)
		s.countPrefix = hv.registry.buildPrefix(hv.name+"_count", hv.labelNames, labelValues)
		hv.series[key] = s
		hv.order = append(hv.order, key)
	}
	return s
}

func formatLe(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Observe records v (e.g. a worker-token-checkout duration in seconds)
// against the series identified by labelValues.
func (hv *HistogramVec) Observe(v float64, labelValues ...string) {
	s := hv.seriesFor(labelValues)
	s.sum += v
	s.count++
	for i, le := range hv.buckets {
		if v <= le {
			s.bucketCounts[i]++
		}
	}
}

func (hv *HistogramVec) CountFor(labelValues ...string) uint64 {
	return hv.seriesFor(labelValues).count
}

func (hv *HistogramVec) SumFor(labelValues ...string) float64 {
	return hv.seriesFor(labelValues).sum
}

func (hv *HistogramVec) writeType(buf *bytes.Buffer) {
	buf.WriteString("# TYPE ")
	buf.WriteString(hv.name)
	buf.WriteString(" histogram\n")
}

func (hv *HistogramVec) writeSamples(buf *bytes.Buffer, tsSuffix []byte) {
	for _, key := range hv.order {
		s := hv.series[key]
		for i, prefix := range s.bucketPrefixes {
			buf.Write(prefix)
			buf.WriteString(strconv.FormatUint(s.bucketCounts[i], 10))
			buf.Write(tsSuffix)
		}
		buf.Write(s.sumPrefix)
		buf.WriteString(strconv.FormatFloat(s.sum, 'f', 6, 64))
		buf.Write(tsSuffix)
		buf.Write(s.countPrefix)
		buf.WriteString(strconv.FormatUint(s.count, 10))
		buf.Write(tsSuffix)
	}
}
