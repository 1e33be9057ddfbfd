package spectrum

import "testing"

func newTestPool(bins int) *Pool {
	return NewPool(NewArena(), bins)
}

func TestPoolAcquireReleaseRecycles(t *testing.T) {
	p := newTestPool(4)

	l := p.Acquire(1)
	if l.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", l.Len())
	}
	l.Release()

	if got := p.FreeListSize(); got != 1 {
		t.Fatalf("FreeListSize() after one release = %d, want 1", got)
	}

	// Acquiring again must reuse the freed slice rather than grow the
	// arena: the free list should drain back to zero.
	l2 := p.Acquire(0)
	if got := p.FreeListSize(); got != 0 {
		t.Fatalf("FreeListSize() after reacquire = %d, want 0", got)
	}
	l2.Release()
}

func TestPoolBatchRoundTripLeavesNoLeak(t *testing.T) {
	p := newTestPool(4)

	var lights []*Light
	for i := 0; i < 50; i++ {
		lights = append(lights, p.Acquire(float32(i)))
	}
	for _, l := range lights {
		l.Release()
	}

	if got := p.FreeListSize(); got != 50 {
		t.Fatalf("FreeListSize() after releasing every acquired Light = %d, want 50", got)
	}
}

func TestLightAcquireFillsEveryBin(t *testing.T) {
	p := newTestPool(4)
	l := p.Acquire(2.5)
	defer l.Release()

	for i := 0; i < l.Len(); i++ {
		if l.At(i) != 2.5 {
			t.Fatalf("At(%d) = %v, want 2.5", i, l.At(i))
		}
	}
}

func TestLightSingleWavelengthCollapsesLen(t *testing.T) {
	p := newTestPool(4)
	l := p.Acquire(1)
	defer l.Release()

	l.SetAt(1, 9)
	l.SingleWavelength = true

	if got := l.Len(); got != 1 {
		t.Fatalf("Len() after collapse = %d, want 1", got)
	}
	// At/SetAt must silently fold onto bin 0 once collapsed, regardless
	// of what index is asked for.
	l.SetAt(3, 7)
	if got := l.At(0); got != 7 {
		t.Fatalf("At(0) after SetAt(3, 7) on collapsed Light = %v, want 7", got)
	}
	if got := l.At(2); got != 7 {
		t.Fatalf("At(2) on collapsed Light = %v, want 7 (should alias bin 0)", got)
	}
}

func TestLightAddScaledPropagatesCollapse(t *testing.T) {
	p := newTestPool(4)
	a := p.Acquire(1)
	defer a.Release()
	b := p.Acquire(2)
	defer b.Release()
	b.SingleWavelength = true

	a.AddScaled(b, 3)

	if !a.SingleWavelength {
		t.Fatal("AddScaled must propagate SingleWavelength from rhs")
	}
	if got := a.At(0); got != 7 {
		t.Fatalf("At(0) = %v, want 1 + 2*3 = 7", got)
	}
}

func TestLightMaxAndIsBlack(t *testing.T) {
	p := newTestPool(3)
	l := p.Acquire(0)
	defer l.Release()

	if !l.IsBlack() {
		t.Fatal("freshly zeroed Light should be IsBlack")
	}
	l.SetAt(1, 4)
	if l.IsBlack() {
		t.Fatal("Light with a positive bin should not be IsBlack")
	}
	if got := l.Max(); got != 4 {
		t.Fatalf("Max() = %v, want 4", got)
	}
}

func TestLightDivScalar(t *testing.T) {
	p := newTestPool(2)
	l := p.Acquire(10)
	defer l.Release()

	l.DivScalar(4)
	if got := l.At(0); got != 2.5 {
		t.Fatalf("At(0) after DivScalar(4) = %v, want 2.5", got)
	}
}

func TestReleaseIsIdempotentNoPanic(t *testing.T) {
	p := newTestPool(2)
	l := p.Acquire(1)
	l.Release()
	l.Release() // must not double-recycle a nil backing slice
	if got := p.FreeListSize(); got != 1 {
		t.Fatalf("FreeListSize() after double Release = %d, want 1", got)
	}
}
