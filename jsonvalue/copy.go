package jsonvalue

import "github.com/dmagro/jrpcgo/arena"

// Clone deep-copies v into fresh storage backed by alloc, so the result
// is wholly independent of v's own arena. This is the Go stand-in for
// the source library's copy-assignment operator, which always copies
// through the destination's allocator rather than sharing the source's.
func Clone(alloc arena.Allocator, v Value) Value {
	switch v.kind {
	case KindNull:
		return Value{}
	case KindBool:
		return NewBool(v.b)
	case KindNumber:
		return NewNumber(v.num)
	case KindString:
		return NewStringBytes(alloc, v.str)
	case KindArray:
		out := NewArray(alloc)
		for i := 0; i < v.arr.len(); i++ {
			elt, _ := v.arr.at(i)
			// Append failure here means the destination arena is
			// smaller than the source required; the partially built
			// clone is returned as-is, matching the "propagate
			// exhaustion, leave what was built" contract elsewhere in
			// this package.
			if out.Append(Clone(alloc, elt)) != nil {
				return out
			}
		}
		return out
	case KindObject:
		out := NewObject(alloc)
		for _, k := range v.obj.keys() {
			mv, _ := v.obj.lookup(k)
			*out.Field(k) = Clone(alloc, mv)
		}
		return out
	default:
		return Value{}
	}
}
