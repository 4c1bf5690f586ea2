package arena

import (
	"unsafe"
)

// maxAlign mirrors alignof(json::Value) from the source allocator: every
// allocation is rounded up to this boundary so a Value (or any payload a
// jsonvalue container stores) can always be placed at the returned address.
const maxAlign = unsafe.Alignof(struct {
	a int64
	b float64
	c unsafe.Pointer
}{})

func alignUp(n int) int {
	a := int(maxAlign)
	return (n + a - 1) &^ (a - 1)
}

// header tracks one occupied block. Unlike the source pool, which stores
// these structs in-band at the front of the payload (raw pointer
// arithmetic over the caller's memory), this port keeps headers as
// ordinary Go values linked by pointer and records the payload as a
// [start, end) byte range into Pool.region. This sidesteps unsafe
// placement-new entirely while preserving the exact invariants the spec
// asks for: prev.next == self, next.prev == self (when they exist), and
// end > self in address/offset order.
type header struct {
	prev, next *header
	start, end int
}

// Pool is a free-list allocator over a single caller-owned byte region,
// implementing the allocation policy described in spec section 4.1:
// search backwards from the last-allocated block for the first gap that
// fits, and on deallocation of the tail block, rewind the cursor to its
// predecessor. There is no coalescing of adjacent free gaps.
type Pool struct {
	region []byte
	begin  *header // sentinel occupying offset 0 with zero payload size
	end    *header // sentinel marking the end of the region; never allocated into
	last   *header
	live   int
}

// NewPool creates a pool over region. The pool does not take ownership in
// the C++ sense — region must outlive every slice handed out by Allocate.
func NewPool(region []byte) *Pool {
	p := &Pool{region: region}
	if len(region) == 0 {
		return p
	}
	p.begin = &header{start: 0, end: 0}
	p.end = &header{start: len(region), end: len(region)}
	p.begin.next = p.end
	p.last = p.begin
	return p
}

// Allocate returns size bytes of zeroed memory from the pool, or nil if no
// gap is large enough. Size 0 always returns nil, matching the source
// allocator's "empty allocation request" short-circuit.
func (p *Pool) Allocate(size int) []byte {
	return p.allocateLocked(size)
}

func (p *Pool) allocateLocked(size int) []byte {
	if size <= 0 || p.begin == nil {
		return nil
	}
	need := alignUp(size)

	for pos := p.last; pos != nil; pos = pos.prev {
		gap := pos.next.start - pos.end
		if gap >= need {
			blk := &header{
				prev:  pos,
				next:  pos.next,
				start: pos.end,
				end:   pos.end + need,
			}
			if blk.next != p.end {
				blk.next.prev = blk
			}
			pos.next = blk
			if blockAfter(blk, p.last) {
				p.last = blk
			}
			p.live++
			b := p.region[blk.start : blk.start+size : blk.end]
			clear(b)
			return b
		}
	}
	return nil
}

func blockAfter(a, b *header) bool {
	return a.end > b.end
}

// Free releases a slice previously returned by Allocate. Freeing anything
// else, or freeing the same slice twice, corrupts the pool's bookkeeping —
// exactly as unchecked as the source pool's deallocate().
func (p *Pool) Free(b []byte) {
	p.freeLocked(b)
}

func (p *Pool) freeLocked(b []byte) {
	if p.begin == nil || len(b) == 0 {
		return
	}
	start := int(uintptr(unsafe.Pointer(&b[0])) - uintptr(unsafe.Pointer(&p.region[0])))
	blk := p.findBlock(start)
	if blk == nil || blk == p.begin {
		return
	}
	blk.prev.next = blk.next
	if blk.next != p.end {
		blk.next.prev = blk.prev
	}
	if blk == p.last {
		p.last = blk.prev
	}
	p.live--
}

func (p *Pool) findBlock(start int) *header {
	for pos := p.begin.next; pos != p.end; pos = pos.next {
		if pos.start == start {
			return pos
		}
	}
	return nil
}

// Lock and Unlock are no-ops by default; contention discipline is the
// caller's unless a LockedPool wraps this one.
func (p *Pool) Lock()   {}
func (p *Pool) Unlock() {}

// Live reports the number of currently allocated blocks, for tests and
// for callers that want to assert an arena has been fully drained.
func (p *Pool) Live() int { return p.live }

// Cap reports the capacity of the underlying region in bytes.
func (p *Pool) Cap() int { return len(p.region) }
