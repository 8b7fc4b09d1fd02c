package engine

import "testing"

func newTestPoolManager(constructed, shutdown *int) *PoolManager {
	return NewPoolManager(func() func() {
		*constructed++
		return func() { *shutdown++ }
	})
}

func TestPoolManagerAbsolute(t *testing.T) {
	var constructed, shutdown int
	pm := newTestPoolManager(&constructed, &shutdown)

	pm.SetDesiredInstancesAbsolute(3)
	if pm.Len() != 3 || constructed != 3 || shutdown != 0 {
		t.Fatalf("after growing to 3: len=%d constructed=%d shutdown=%d", pm.Len(), constructed, shutdown)
	}

	pm.SetDesiredInstancesAbsolute(1)
	if pm.Len() != 1 || shutdown != 2 {
		t.Fatalf("after shrinking to 1: len=%d shutdown=%d", pm.Len(), shutdown)
	}
}

// Round-trip / idempotence (spec §8): setting desired instances to n and
// then to n again is a no-op.
func TestPoolManagerSetSameCountIsNoop(t *testing.T) {
	var constructed, shutdown int
	pm := newTestPoolManager(&constructed, &shutdown)

	pm.SetDesiredInstancesAbsolute(4)
	c1, s1 := constructed, shutdown

	pm.SetDesiredInstancesAbsolute(4)
	if constructed != c1 || shutdown != s1 {
		t.Fatalf("repeating the same desired count was not a no-op: constructed %d->%d, shutdown %d->%d", c1, constructed, s1, shutdown)
	}
}

func TestPoolManagerRelativeAndDelta(t *testing.T) {
	var constructed, shutdown int
	pm := newTestPoolManager(&constructed, &shutdown)

	pm.SetDesiredInstancesAbsolute(10)
	pm.SetDesiredInstancesRelative(0.5)
	if pm.Len() != 5 {
		t.Fatalf("relative(0.5) of 10 = %d, want 5", pm.Len())
	}

	pm.SetDesiredInstancesDelta(2)
	if pm.Len() != 7 {
		t.Fatalf("delta(+2) of 5 = %d, want 7", pm.Len())
	}

	pm.SetDesiredInstancesDelta(-7)
	if pm.Len() != 0 {
		t.Fatalf("delta(-7) of 7 = %d, want 0", pm.Len())
	}
}

func TestPoolManagerDeltaUnderflowPanics(t *testing.T) {
	var constructed, shutdown int
	pm := newTestPoolManager(&constructed, &shutdown)
	pm.SetDesiredInstancesAbsolute(2)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on delta driving count below zero")
		}
	}()
	pm.SetDesiredInstancesDelta(-5)
}
