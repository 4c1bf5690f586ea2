// Package jsonvalue implements the arena-backed JSON value tree: a single
// Value type that can hold null, bool, Number, string, array or object,
// built through a pluggable arena.Allocator so that parsing a document
// costs one backing allocation instead of one per node.
package jsonvalue

import (
	"errors"

	"github.com/dmagro/jrpcgo/arena"
)

// Kind tags which alternative a Value currently holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String renders the Kind name, primarily for error messages and tests.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// ErrExhausted is returned whenever a container operation needs to grow
// and the backing arena.Allocator has no room left. It mirrors the
// source library's "allocator returns null, caller propagates" contract.
var ErrExhausted = errors.New("jsonvalue: arena exhausted")

// ErrWrongKind is returned by container operations invoked on a Value of
// the wrong Kind (e.g. Append on a non-array).
var ErrWrongKind = errors.New("jsonvalue: wrong kind")

// Value is a single node in a JSON document tree. The zero Value is a
// valid null. Values are not safe for concurrent mutation from multiple
// goroutines; the arena.Allocator backing a tree may itself need external
// locking if the tree is shared (see arena.LockedPool).
type Value struct {
	kind  Kind
	b     bool
	num   Number
	str   []byte
	arr   *array
	obj   *object
	alloc arena.Allocator
}

// Null returns a null Value. Equivalent to the zero Value.
func Null() Value { return Value{} }

// NewBool returns a Value holding b.
func NewBool(b bool) Value { return Value{kind: KindBool, b: b} }

// NewNumber returns a Value holding n.
func NewNumber(n Number) Value { return Value{kind: KindNumber, num: n} }

// NewStringBytes copies b into a fresh allocation from alloc and returns a
// string Value backed by that copy. A nil alloc falls back to a plain Go
// copy (no arena accounting), which is fine for Values built outside a
// parser's arena.
func NewStringBytes(alloc arena.Allocator, b []byte) Value {
	if len(b) == 0 {
		return Value{kind: KindString, alloc: alloc}
	}
	var dst []byte
	if alloc != nil {
		dst = alloc.Allocate(len(b))
	}
	if dst == nil {
		dst = make([]byte, len(b))
	}
	copy(dst, b)
	return Value{kind: KindString, str: dst[:len(b)], alloc: alloc}
}

// NewString is a convenience wrapper around NewStringBytes for Go strings.
func NewString(alloc arena.Allocator, s string) Value {
	return NewStringBytes(alloc, []byte(s))
}

// NewStringOwned wraps buf as a string Value without copying it. buf
// must already be either freshly allocated from alloc (the parser's
// usage) or otherwise exclusively owned by the caller — it becomes part
// of the Value's arena-affine storage and may be handed back to alloc
// by a later SetNull.
func NewStringOwned(alloc arena.Allocator, buf []byte) Value {
	return Value{kind: KindString, str: buf, alloc: alloc}
}

// NewArray returns an empty array Value whose elements will be allocated
// (for accounting purposes, see array.go) through alloc.
func NewArray(alloc arena.Allocator) Value {
	return Value{kind: KindArray, arr: newArray(alloc), alloc: alloc}
}

// NewObject returns an empty object Value whose members will be
// allocated (for accounting purposes, see object.go) through alloc.
func NewObject(alloc arena.Allocator) Value {
	return Value{kind: KindObject, obj: newObject(alloc), alloc: alloc}
}

// Kind reports the Value's current alternative.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsString() bool { return v.kind == KindString }
func (v Value) IsArray() bool  { return v.kind == KindArray }
func (v Value) IsObject() bool { return v.kind == KindObject }

// Bool returns the boolean payload and whether the Value was a bool.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Num returns the Number payload and whether the Value was a number.
func (v Value) Num() (Number, bool) {
	return v.num, v.kind == KindNumber
}

// Bytes returns the raw (arena-backed, zero-copy) string payload and
// whether the Value was a string.
func (v Value) Bytes() ([]byte, bool) {
	return v.str, v.kind == KindString
}

// Str returns the string payload as a freshly copied Go string, and
// whether the Value was a string.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return string(v.str), true
}

// Allocator returns the arena.Allocator this Value (and any children it
// builds) allocates through. May be nil for Values constructed without
// one (bool/number/null literals, or strings built with a nil alloc).
func (v Value) Allocator() arena.Allocator { return v.alloc }

// Len reports the number of elements/members for array and object
// Values, and 0 for anything else.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return v.arr.len()
	case KindObject:
		return v.obj.len()
	default:
		return 0
	}
}

// At returns the i'th array element. ok is false if the Value is not an
// array or the index is out of range.
func (v Value) At(i int) (Value, bool) {
	if v.kind != KindArray {
		return Value{}, false
	}
	return v.arr.at(i)
}

// Append adds elt to an array Value, growing its backing storage through
// the Value's allocator if needed. Returns ErrWrongKind if v is not an
// array, or ErrExhausted if growth was required and the allocator
// couldn't supply it.
func (v *Value) Append(elt Value) error {
	if v.kind != KindArray {
		return ErrWrongKind
	}
	return v.arr.append(elt)
}

// Elements returns the array's elements as a slice. The slice aliases the
// array's internal storage and must not be retained across further
// mutation of v.
func (v Value) Elements() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.arr.items
}

// Field returns a mutable pointer to the named member, auto-vivifying it
// as null if absent — the same asymmetry as the source library's
// non-const Object::operator[]/at(). Calling Field on a non-object Value
// returns nil.
func (v *Value) Field(key string) *Value {
	if v.kind != KindObject {
		return nil
	}
	return v.obj.field(key)
}

// AppendField appends a new member unconditionally, even if key is
// already present — unlike Field, it never collapses onto an existing
// occurrence. This is the parser's write path: a JSON document may
// legally repeat an object key, and per the tail-scan lookup semantics
// object.indexOf implements, the array must keep every occurrence so the
// last one written is the one later reads resolve to. Calling
// AppendField on a non-object Value is a no-op.
func (v *Value) AppendField(key string, val Value) {
	if v.kind != KindObject {
		return
	}
	v.obj.appendRaw(key, val)
}

// Lookup returns the named member without creating it when absent. ok is
// false if v is not an object or the key is missing; the returned Value
// is never mutated into v.
func (v Value) Lookup(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	return v.obj.lookup(key)
}

// Delete removes the named member, reporting whether it was present.
func (v *Value) Delete(key string) bool {
	if v.kind != KindObject {
		return false
	}
	return v.obj.delete(key)
}

// Keys returns the object's member names in insertion order (matching
// the tail-scan-last-write-wins semantics of Field/Lookup: a key
// assigned twice keeps its original position but its latest value).
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	return v.obj.keys()
}

// SetNull releases any arena-owned storage this Value holds (recursively
// for array/object children) and resets it to null. Go's garbage
// collector reclaims the Go-level structures regardless; SetNull exists
// to return bytes to a finite arena.Pool deterministically, the closest
// analogue to the source library's Value destructor.
func (v *Value) SetNull() {
	switch v.kind {
	case KindString:
		if v.alloc != nil && len(v.str) != 0 {
			v.alloc.Free(v.str)
		}
	case KindArray:
		v.arr.release()
	case KindObject:
		v.obj.release()
	}
	*v = Value{}
}

// Reset is an alias for SetNull kept for readers coming from the source
// library's Value::clear().
func (v *Value) Reset() { v.SetNull() }
