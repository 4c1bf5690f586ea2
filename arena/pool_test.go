package arena

import "testing"

func TestPoolAllocateBasic(t *testing.T) {
	p := NewPool(make([]byte, 256))
	a := p.Allocate(10)
	if a == nil {
		t.Fatal("expected allocation to succeed")
	}
	if len(a) != 10 {
		t.Fatalf("got len %d, want 10", len(a))
	}
	if p.Live() != 1 {
		t.Fatalf("got live %d, want 1", p.Live())
	}
}

func TestPoolFreeRewindsLast(t *testing.T) {
	p := NewPool(make([]byte, 256))
	a := p.Allocate(16)
	b := p.Allocate(16)
	if a == nil || b == nil {
		t.Fatal("allocations should succeed")
	}
	p.Free(b)
	if p.Live() != 1 {
		t.Fatalf("got live %d, want 1 after freeing tail block", p.Live())
	}
	// Freeing the tail block should let a same-size allocation reuse the
	// space immediately (rewind-last-on-tail-dealloc).
	c := p.Allocate(16)
	if c == nil {
		t.Fatal("expected reuse of freed tail block")
	}
}

func TestPoolExhaustion(t *testing.T) {
	p := NewPool(make([]byte, 32))
	a := p.Allocate(32)
	if a == nil {
		t.Fatal("expected full-capacity allocation to succeed")
	}
	if b := p.Allocate(1); b != nil {
		t.Fatal("expected exhausted pool to return nil")
	}
}

func TestPoolBestFitAfterCursorSearch(t *testing.T) {
	p := NewPool(make([]byte, 128))
	a := p.Allocate(16)
	b := p.Allocate(16)
	c := p.Allocate(16)
	if a == nil || b == nil || c == nil {
		t.Fatal("allocations should succeed")
	}
	p.Free(b) // frees a middle gap, not the tail
	if p.Live() != 2 {
		t.Fatalf("got live %d, want 2", p.Live())
	}
	// last is still c; the search starts at the gap after c, which is
	// large enough, so d is placed past c and b's gap stays free.
	d := p.Allocate(16)
	if d == nil {
		t.Fatal("expected allocation to succeed after freeing a middle gap")
	}
	if p.Live() != 3 {
		t.Fatalf("got live %d, want 3", p.Live())
	}
}

func TestPoolInvariantLiveNeverExceedsCapacity(t *testing.T) {
	const capacity = 200
	p := NewPool(make([]byte, capacity))
	allocated := 0
	for {
		b := p.Allocate(8)
		if b == nil {
			break
		}
		allocated += alignUp(8)
		if allocated > capacity {
			t.Fatalf("allocated %d bytes exceeds capacity %d", allocated, capacity)
		}
	}
}

func TestPoolZeroSizeAllocationReturnsNil(t *testing.T) {
	p := NewPool(make([]byte, 64))
	if b := p.Allocate(0); b != nil {
		t.Fatal("expected zero-size allocation to return nil")
	}
}

func TestLockedPoolSerializes(t *testing.T) {
	lp := NewLockedPool(NewPool(make([]byte, 64)))
	a := lp.Allocate(8)
	if a == nil {
		t.Fatal("expected allocation to succeed")
	}
	lp.Free(a)
	if lp.Live() != 0 {
		t.Fatalf("got live %d, want 0", lp.Live())
	}
}
