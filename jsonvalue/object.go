package jsonvalue

import "github.com/dmagro/jrpcgo/arena"

// objectElemCost is the per-member nominal byte charge, the object
// counterpart of arrayElemCost.
const objectElemCost = 64

// pair is one object member. Keys are plain Go strings (immutable,
// GC-safe); only string *Values* need the zero-copy arena-backed byte
// treatment Value.Bytes exposes.
type pair struct {
	key   string
	value Value
}

// object is the backing store for a KindObject Value. Lookup is a linear
// scan **from the tail**, matching the source library's Object::at():
// the backing array may hold more than one Pair for the same key (a
// document parsed with a duplicate key produces one Pair per occurrence,
// appended in order, never deduplicated at parse time — see appendRaw),
// and the tail-scan is what makes the last-written Pair win on lookup.
// Objects in this library are expected to hold a handful of members, not
// thousands, so an O(n) scan over a contiguous slice outperforms a hash
// map in practice and keeps the "one allocation per container" property.
type object struct {
	alloc  arena.Allocator
	pairs  []pair
	marker []byte
	cap0   int
}

func newObject(alloc arena.Allocator) *object {
	return &object{alloc: alloc}
}

func (o *object) len() int { return len(o.pairs) }

// indexOf scans from the tail so that, for a key written more than once,
// the most recently appended Pair is found first — last-write-wins per
// spec section 3's Object invariant.
func (o *object) indexOf(key string) int {
	for i := len(o.pairs) - 1; i >= 0; i-- {
		if o.pairs[i].key == key {
			return i
		}
	}
	return -1
}

// field returns a mutable pointer to key's Value, appending a fresh null
// member if key is absent. This is the auto-vivifying half of the
// asymmetry the source Object::at() exhibits between its const and
// non-const overloads. Field never introduces a duplicate-keyed Pair
// itself — it mutates the last-written occurrence of key in place — so
// callers that want the source's raw "one Pair per occurrence, no
// dedup" append behavior (the parser, reading a document that may
// legally repeat a key) must use appendRaw instead.
func (o *object) field(key string) *Value {
	if i := o.indexOf(key); i >= 0 {
		return &o.pairs[i].value
	}
	return o.appendRaw(key, Value{})
}

// appendRaw always grows the backing array by one Pair, never checking
// for or collapsing an existing occurrence of key. This is the parser's
// write path (ported from the source parser's read_object_member,
// which appends a raw Pair per member via memcpy with no dedup), so that
// a document with a repeated key, e.g. {"a":1,"a":2}, produces an object
// of length 2 — both Pairs survive, and indexOf's tail-scan is what
// later makes the second one win on lookup, exactly as the source's
// Object::at() behaves over such a list.
func (o *object) appendRaw(key string, val Value) *Value {
	if len(o.pairs) == cap(o.pairs) {
		// Growth failure degrades to an unaccounted append rather than a
		// panic: this API has no error return (mirroring the source's
		// non-const at(), which never reports allocation failure to its
		// caller either). Callers that need to observe exhaustion should
		// use AppendField.
		_ = o.reserve(growCap(cap(o.pairs)))
	}
	o.pairs = append(o.pairs, pair{key: key, value: val})
	return &o.pairs[len(o.pairs)-1].value
}

// lookup returns key's Value without creating it when absent — the
// const half of the Object::at() asymmetry.
func (o *object) lookup(key string) (Value, bool) {
	if i := o.indexOf(key); i >= 0 {
		return o.pairs[i].value, true
	}
	return Value{}, false
}

func (o *object) delete(key string) bool {
	i := o.indexOf(key)
	if i < 0 {
		return false
	}
	o.pairs[i].value.SetNull()
	o.pairs = append(o.pairs[:i], o.pairs[i+1:]...)
	return true
}

func (o *object) keys() []string {
	keys := make([]string, len(o.pairs))
	for i := range o.pairs {
		keys[i] = o.pairs[i].key
	}
	return keys
}

func (o *object) reserve(newCap int) error {
	if newCap <= o.cap0 {
		return nil
	}
	if o.alloc != nil {
		marker := o.alloc.Allocate(newCap * objectElemCost)
		if marker == nil {
			return ErrExhausted
		}
		if o.marker != nil {
			o.alloc.Free(o.marker)
		}
		o.marker = marker
	}
	pairs := make([]pair, len(o.pairs), newCap)
	copy(pairs, o.pairs)
	o.pairs = pairs
	o.cap0 = newCap
	return nil
}

func (o *object) release() {
	for i := range o.pairs {
		o.pairs[i].value.SetNull()
	}
	if o.alloc != nil && o.marker != nil {
		o.alloc.Free(o.marker)
	}
	o.pairs = nil
	o.marker = nil
	o.cap0 = 0
}
