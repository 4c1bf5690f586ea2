// Package serializer renders jsonvalue.Value trees back to JSON text, in
// both a compact (no extraneous whitespace) and a pretty-printed (fixed
// indent step) form. Both share one recursive writer; pretty mode only
// adds indentation and newlines around container members.
package serializer

import (
	"strconv"

	"github.com/dmagro/jrpcgo/jsonvalue"
)

// Compact renders v with no whitespace between tokens.
func Compact(v jsonvalue.Value) []byte {
	return AppendCompact(nil, v)
}

// AppendCompact appends v's compact rendering to dst and returns the
// extended slice, the same growth-friendly convention strconv.Append*
// uses.
func AppendCompact(dst []byte, v jsonvalue.Value) []byte {
	w := &writer{buf: dst}
	w.value(v, 0)
	return w.buf
}

// Pretty renders v with indentStep spaces per nesting level and a
// newline after every container separator. indentStep <= 0 defaults to
// 4, matching the source serializer's default.
func Pretty(v jsonvalue.Value, indentStep int) []byte {
	return AppendPretty(nil, v, indentStep)
}

// AppendPretty is the pretty-printing counterpart of AppendCompact.
func AppendPretty(dst []byte, v jsonvalue.Value, indentStep int) []byte {
	if indentStep <= 0 {
		indentStep = 4
	}
	w := &writer{buf: dst, pretty: true, indentStep: indentStep}
	w.value(v, 0)
	return w.buf
}

type writer struct {
	buf        []byte
	pretty     bool
	indentStep int
}

func (w *writer) newline(depth int) {
	if !w.pretty {
		return
	}
	w.buf = append(w.buf, '\n')
	for i := 0; i < depth*w.indentStep; i++ {
		w.buf = append(w.buf, ' ')
	}
}

func (w *writer) value(v jsonvalue.Value, depth int) {
	switch v.Kind() {
	case jsonvalue.KindNull:
		w.buf = append(w.buf, "null"...)
	case jsonvalue.KindBool:
		b, _ := v.Bool()
		if b {
			w.buf = append(w.buf, "true"...)
		} else {
			w.buf = append(w.buf, "false"...)
		}
	case jsonvalue.KindNumber:
		n, _ := v.Num()
		w.number(n)
	case jsonvalue.KindString:
		b, _ := v.Bytes()
		w.quoted(b)
	case jsonvalue.KindArray:
		w.array(v, depth)
	case jsonvalue.KindObject:
		w.object(v, depth)
	}
}

func (w *writer) number(n jsonvalue.Number) {
	switch n.Kind() {
	case jsonvalue.KindI64:
		w.buf = strconv.AppendInt(w.buf, n.AsInt64(), 10)
	case jsonvalue.KindU64:
		w.buf = strconv.AppendUint(w.buf, n.AsUint64(), 10)
	default:
		f := n.AsFloat64()
		// 'g' with 16 significant digits, matching the source
		// formatter's std::setprecision(16) exactly, rather than the
		// shortest round-trippable form encoding/json favors.
		w.buf = strconv.AppendFloat(w.buf, f, 'g', 16, 64)
	}
}

const hexDigits = "0123456789abcdef"

func (w *writer) quoted(b []byte) {
	w.buf = append(w.buf, '"')
	for _, c := range b {
		switch {
		case c == '"':
			w.buf = append(w.buf, '\\', '"')
		case c == '\\':
			w.buf = append(w.buf, '\\', '\\')
		case c == '\n':
			w.buf = append(w.buf, '\\', 'n')
		case c == '\r':
			w.buf = append(w.buf, '\\', 'r')
		case c == '\t':
			w.buf = append(w.buf, '\\', 't')
		case c == '\b':
			w.buf = append(w.buf, '\\', 'b')
		case c == '\f':
			w.buf = append(w.buf, '\\', 'f')
		case c < 0x20:
			w.buf = append(w.buf, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
		default:
			w.buf = append(w.buf, c)
		}
	}
	w.buf = append(w.buf, '"')
}

func (w *writer) array(v jsonvalue.Value, depth int) {
	w.buf = append(w.buf, '[')
	n := v.Len()
	for i := 0; i < n; i++ {
		if i > 0 {
			w.buf = append(w.buf, ',')
		}
		w.newline(depth + 1)
		elt, _ := v.At(i)
		w.value(elt, depth+1)
	}
	if n > 0 {
		w.newline(depth)
	}
	w.buf = append(w.buf, ']')
}

func (w *writer) object(v jsonvalue.Value, depth int) {
	w.buf = append(w.buf, '{')
	keys := v.Keys()
	for i, k := range keys {
		if i > 0 {
			w.buf = append(w.buf, ',')
		}
		w.newline(depth + 1)
		w.quoted([]byte(k))
		w.buf = append(w.buf, ':')
		if w.pretty {
			w.buf = append(w.buf, ' ')
		}
		mv, _ := v.Lookup(k)
		w.value(mv, depth+1)
	}
	if len(keys) > 0 {
		w.newline(depth)
	}
	w.buf = append(w.buf, '}')
}
