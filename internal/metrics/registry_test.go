package metrics

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestCounterExposition(t *testing.T) {
	r := NewRegistry(map[string]string{"simulation_id": "deadbeef"})
	c := r.NewCounter("widgets_total")
	c.Inc()
	c.Add(4)

	if got := c.Value(); got != 5 {
		t.Fatalf("Value: want 5, got %d", got)
	}

	buf := &bytes.Buffer{}
	r.WriteTo(buf, time.UnixMilli(1000))
	out := buf.String()

	if !strings.Contains(out, "# TYPE widgets_total counter\n") {
		t.Fatalf("missing TYPE line:\n%s", out)
	}
	if !strings.Contains(out, `widgets_total{simulation_id="deadbeef"} 5 1000`) {
		t.Fatalf("missing sample line:\n%s", out)
	}
}

func TestCounterVecExposition(t *testing.T) {
	r := NewRegistry(nil)
	cv := r.NewCounterVec("events_total", []string{"kind"})
	cv.Inc("a")
	cv.Inc("a")
	cv.Inc("b")

	if got := cv.ValueFor("a"); got != 2 {
		t.Fatalf("ValueFor(a): want 2, got %d", got)
	}
	if got := cv.ValueFor("b"); got != 1 {
		t.Fatalf("ValueFor(b): want 1, got %d", got)
	}

	buf := &bytes.Buffer{}
	r.WriteTo(buf, time.UnixMilli(2000))
	out := buf.String()

	for _, want := range []string{
		`events_total{kind="a"} 2 2000`,
		`events_total{kind="b"} 1 2000`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestGaugeSetOverwrites(t *testing.T) {
	r := NewRegistry(nil)
	g := r.NewGauge("temperature")
	g.Set(10)
	g.Set(20)
	if got := g.Value(); got != 20 {
		t.Fatalf("Value: want 20, got %v", got)
	}
}

func TestGaugeVecSetOverwrites(t *testing.T) {
	r := NewRegistry(nil)
	gv := r.NewGaugeVec("worker_up", []string{"worker_id"})
	gv.Set(1, "7")
	gv.Set(0, "7") // overwrite, not accumulate

	if got := gv.ValueFor("7"); got != 0 {
		t.Fatalf("ValueFor(7): want 0, got %v", got)
	}
}

func TestHistogramVecBucketsAndCount(t *testing.T) {
	r := NewRegistry(nil)
	buckets := ExponentialBuckets(0.01, 2, 16)
	if len(buckets) != 16 {
		t.Fatalf("ExponentialBuckets: want 16 buckets, got %d", len(buckets))
	}
	if buckets[0] != 0.01 {
		t.Fatalf("bucket[0]: want 0.01, got %v", buckets[0])
	}

	hv := r.NewHistogramVec("token_duration_seconds", []string{"worker_id"}, buckets)
	hv.Observe(0.005, "1")
	hv.Observe(0.02, "1")
	hv.Observe(100, "1") // beyond the last finite bucket

	if got := hv.CountFor("1"); got != 3 {
		t.Fatalf("CountFor: want 3, got %d", got)
	}
	if got := hv.SumFor("1"); got != 0.005+0.02+100 {
		t.Fatalf("SumFor: want %v, got %v", 0.005+0.02+100, got)
	}

	buf := &bytes.Buffer{}
	r.WriteTo(buf, time.UnixMilli(3000))
	out := buf.String()

	// No +Inf bucket: the last finite bucket boundary must be the highest
	// le= line emitted, and the observation of 100 still counts toward the
	// _count/_sum lines even though it falls past every bucket boundary.
	if strings.Contains(out, `le="+Inf"`) {
		t.Fatalf("unexpected +Inf bucket in:\n%s", out)
	}
	if !strings.Contains(out, `token_duration_seconds_count{worker_id="1"} 3 3000`) {
		t.Fatalf("missing _count line:\n%s", out)
	}
}

func TestDuplicateSeriesNamePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic on duplicate series name")
		}
	}()
	r := NewRegistry(nil)
	r.NewCounter("dup")
	r.NewGauge("dup")
}

func TestCommonLabelsAppearOnEverySeries(t *testing.T) {
	r := NewRegistry(map[string]string{"simulation_id": "cafe", "run": "1"})
	r.NewCounter("a").Inc()
	r.NewGaugeVec("b", []string{"x"}).Set(1, "y")

	buf := &bytes.Buffer{}
	r.WriteTo(buf, time.UnixMilli(1))
	out := buf.String()

	for _, want := range []string{`simulation_id="cafe"`, `run="1"`} {
		if strings.Count(out, want) != 2 {
			t.Fatalf("expected %q on both series exactly once each, got:\n%s", want, out)
		}
	}
}
