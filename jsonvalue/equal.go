package jsonvalue

import "bytes"

// Equal reports whether a and b represent the same JSON value. Object
// member order does not affect equality (objects are unordered per
// spec), array element order does.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.num.Equal(b.num)
	case KindString:
		return bytes.Equal(a.str, b.str)
	case KindArray:
		if a.arr.len() != b.arr.len() {
			return false
		}
		for i := 0; i < a.arr.len(); i++ {
			av, _ := a.arr.at(i)
			bv, _ := b.arr.at(i)
			if !Equal(av, bv) {
				return false
			}
		}
		return true
	case KindObject:
		if a.obj.len() != b.obj.len() {
			return false
		}
		for _, k := range a.obj.keys() {
			av, _ := a.obj.lookup(k)
			bv, ok := b.obj.lookup(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
