package jsonvalue

import "github.com/dmagro/jrpcgo/arena"

// arrayElemCost is a nominal per-slot byte charge debited against an
// array's allocator when it grows. It does not need to match
// unsafe.Sizeof(Value) exactly — its only job is to make the arena's
// exhaustion bookkeeping (spec section 4.1's capacity invariant) visible
// at the container level even though the actual Value slice lives on
// Go's own garbage-collected heap (see DESIGN.md for why: Value contains
// pointers and an allocator interface, which is unsafe to host inside a
// manually managed byte region under Go's precise GC).
const arrayElemCost = 48

// array is the backing store for a KindArray Value. Growth doubles
// capacity like a normal Go slice; each growth step additionally charges
// the allocator for the new capacity so that a finite arena still bounds
// how large a document's arrays can grow.
type array struct {
	alloc  arena.Allocator
	items  []Value
	marker []byte
	cap0   int
}

func newArray(alloc arena.Allocator) *array {
	return &array{alloc: alloc}
}

func (a *array) len() int { return len(a.items) }

func (a *array) at(i int) (Value, bool) {
	if i < 0 || i >= len(a.items) {
		return Value{}, false
	}
	return a.items[i], true
}

func (a *array) set(i int, v Value) bool {
	if i < 0 || i >= len(a.items) {
		return false
	}
	a.items[i] = v
	return true
}

func (a *array) append(elt Value) error {
	if len(a.items) == cap(a.items) {
		if err := a.reserve(growCap(cap(a.items))); err != nil {
			return err
		}
	}
	a.items = append(a.items, elt)
	return nil
}

func growCap(c int) int {
	if c == 0 {
		return 4
	}
	return c * 2
}

// reserve grows the array's accounted capacity to at least newCap,
// charging the allocator for the difference. A nil allocator skips
// accounting entirely (the array can grow unbounded, matching Values
// built without an arena).
func (a *array) reserve(newCap int) error {
	if newCap <= a.cap0 {
		return nil
	}
	if a.alloc != nil {
		marker := a.alloc.Allocate(newCap * arrayElemCost)
		if marker == nil {
			return ErrExhausted
		}
		if a.marker != nil {
			a.alloc.Free(a.marker)
		}
		a.marker = marker
	}
	items := make([]Value, len(a.items), newCap)
	copy(items, a.items)
	a.items = items
	a.cap0 = newCap
	return nil
}

// release returns every child's arena storage and this array's own
// accounting block, then empties the array.
func (a *array) release() {
	for i := range a.items {
		a.items[i].SetNull()
	}
	if a.alloc != nil && a.marker != nil {
		a.alloc.Free(a.marker)
	}
	a.items = nil
	a.marker = nil
	a.cap0 = 0
}
