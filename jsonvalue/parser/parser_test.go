package parser

import (
	"testing"

	"github.com/dmagro/jrpcgo/arena"
	"github.com/dmagro/jrpcgo/jsonvalue"
)

func parseString(t *testing.T, src string) jsonvalue.Value {
	t.Helper()
	p := arena.NewPool(make([]byte, 8192))
	v, err := Parse(p, []byte(src))
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}
	return v
}

func TestParseLiterals(t *testing.T) {
	if !parseString(t, "null").IsNull() {
		t.Error("null should parse to a null Value")
	}
	b, ok := parseString(t, "true").Bool()
	if !ok || !b {
		t.Error("true should parse to bool(true)")
	}
	b, ok = parseString(t, "false").Bool()
	if !ok || b {
		t.Error("false should parse to bool(false)")
	}
}

func TestParseIntegers(t *testing.T) {
	cases := map[string]int64{
		"0":      0,
		"-0":     0,
		"42":     42,
		"-42":    -42,
		"120":    120,
		"100000": 100000,
	}
	for src, want := range cases {
		n, ok := parseString(t, src).Num()
		if !ok {
			t.Fatalf("%q did not parse to a number", src)
		}
		if n.Kind() == jsonvalue.KindF64 {
			t.Fatalf("%q parsed as float, want integer", src)
		}
		if n.AsInt64() != want {
			t.Errorf("%q = %d, want %d", src, n.AsInt64(), want)
		}
	}
}

func TestParseFloats(t *testing.T) {
	cases := map[string]float64{
		"3.14":   3.14,
		"-2.5":   -2.5,
		"1e3":    1000,
		"1.5e2":  150,
		"1e-2":   0.01,
		"0.001":  0.001,
	}
	for src, want := range cases {
		n, ok := parseString(t, src).Num()
		if !ok {
			t.Fatalf("%q did not parse to a number", src)
		}
		got := n.AsFloat64()
		diff := got - want
		if diff < 0 {
			diff = -diff
		}
		if diff > 1e-9 {
			t.Errorf("%q = %v, want %v", src, got, want)
		}
	}
}

func TestParseOverflowFallsBackToFloat(t *testing.T) {
	n, ok := parseString(t, "99999999999999999999999").Num()
	if !ok {
		t.Fatal("overflowing literal should still parse as a number")
	}
	if n.Kind() != jsonvalue.KindF64 {
		t.Errorf("overflowing integer literal should fall back to float, got %v", n.Kind())
	}
}

func TestParseString(t *testing.T) {
	v := parseString(t, `"hello world"`)
	s, ok := v.Str()
	if !ok || s != "hello world" {
		t.Fatalf("got %q, %v, want %q, true", s, ok, "hello world")
	}
}

func TestParseStringEscapes(t *testing.T) {
	v := parseString(t, `"line1\nline2\ttab\"quote"`)
	s, _ := v.Str()
	want := "line1\nline2\ttab\"quote"
	if s != want {
		t.Fatalf("got %q, want %q", s, want)
	}
}

func TestParseStringUnicodeBMP(t *testing.T) {
	v := parseString(t, "\"\\u00e9\"") // é
	s, _ := v.Str()
	if s != "é" {
		t.Fatalf("got %q, want %q", s, "é")
	}
}

func TestParseStringSurrogatePair(t *testing.T) {
	// U+1F600 GRINNING FACE, encoded as a UTF-16 surrogate pair.
	v := parseString(t, "\"\\ud83d\\ude00\"")
	s, _ := v.Str()
	if s != "\U0001F600" {
		t.Fatalf("got %q, want grinning face emoji", s)
	}
}

func TestParseUnpairedHighSurrogateFallsBackToStandalone(t *testing.T) {
	v := parseString(t, `"\ud800x"`)
	s, ok := v.Str()
	if !ok {
		t.Fatal("unpaired surrogate should still decode, not error")
	}
	if len(s) == 0 || rune(s[len(s)-1]) != 'x' {
		t.Fatalf("trailing literal character lost: got %q", s)
	}
}

func TestParseStringSurrogatePairAtHighOffsetBoundary(t *testing.T) {
	// U+20000 (CJK Extension B's first codepoint) sits exactly at the
	// hi-offset==64 boundary: hi-0xD800 == 0x40, which only fits in the
	// surrogate formula's 10-bit range, not a 6-bit mask. A pair whose
	// offset stays below 64 (like the grinning-face emoji case above)
	// can't tell a masked decode from a correct one.
	v := parseString(t, "\"\\ud840\\udc00\"")
	s, ok := v.Str()
	if !ok {
		t.Fatal("surrogate pair should decode")
	}
	if s != "\U00020000" {
		t.Fatalf("got %q (% x), want U+20000", s, []byte(s))
	}
}

func TestParseArray(t *testing.T) {
	v := parseString(t, `[1, 2, 3]`)
	if v.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", v.Len())
	}
	for i := 0; i < 3; i++ {
		elt, _ := v.At(i)
		n, _ := elt.Num()
		if n.AsInt64() != int64(i+1) {
			t.Errorf("At(%d) = %d, want %d", i, n.AsInt64(), i+1)
		}
	}
}

func TestParseEmptyArrayAndObject(t *testing.T) {
	if parseString(t, "[]").Len() != 0 {
		t.Error("[] should parse to an empty array")
	}
	if parseString(t, "{}").Len() != 0 {
		t.Error("{} should parse to an empty object")
	}
}

func TestParseObject(t *testing.T) {
	v := parseString(t, `{"name": "ada", "age": 36, "tags": ["x", "y"]}`)
	name, ok := v.Lookup("name")
	if !ok {
		t.Fatal("missing name field")
	}
	s, _ := name.Str()
	if s != "ada" {
		t.Errorf("name = %q, want ada", s)
	}
	tags, ok := v.Lookup("tags")
	if !ok || tags.Len() != 2 {
		t.Fatalf("tags = %+v, want len 2", tags)
	}
}

func TestParseObjectDuplicateKeysAreBothKeptLastWriteWins(t *testing.T) {
	v := parseString(t, `{"a":1,"a":2}`)
	if v.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (both occurrences kept, not deduplicated)", v.Len())
	}
	got, ok := v.Lookup("a")
	if !ok {
		t.Fatal("missing a field")
	}
	n, _ := got.Num()
	if n.AsInt64() != 2 {
		t.Fatalf("Lookup(a) = %d, want 2 (last write wins via tail-scan)", n.AsInt64())
	}
}

func TestParseNestedDepthGuard(t *testing.T) {
	deep := ""
	for i := 0; i < 1000; i++ {
		deep += "["
	}
	for i := 0; i < 1000; i++ {
		deep += "]"
	}
	p := arena.NewPool(make([]byte, 1<<20))
	_, err := Parse(p, []byte(deep), WithMaxDepth(10))
	if err == nil {
		t.Fatal("expected a stack-limit error for excessively deep nesting")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Code != ErrStackLimitReached {
		t.Fatalf("got %v, want ErrStackLimitReached", err)
	}
}

func TestParseTrailingGarbageErrors(t *testing.T) {
	p := arena.NewPool(make([]byte, 64))
	_, err := Parse(p, []byte("123 456"))
	if err == nil {
		t.Fatal("expected ErrExtraCharacter")
	}
}

func TestParseStreamModeToleratesTrailingData(t *testing.T) {
	p := arena.NewPool(make([]byte, 64))
	parser := New(p, []byte("123 456"), WithStreamMode(true))
	v, err := parser.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, _ := v.Num()
	if n.AsInt64() != 123 {
		t.Fatalf("got %d, want 123", n.AsInt64())
	}
	rest := parser.Remaining()
	if string(rest) != "456" {
		t.Fatalf("Remaining() = %q, want %q", rest, "456")
	}
}

func TestParseEmptyDocumentErrors(t *testing.T) {
	p := arena.NewPool(make([]byte, 16))
	if _, err := Parse(p, []byte("")); err == nil {
		t.Fatal("expected an error for an empty document")
	}
	if _, err := Parse(p, []byte("   ")); err == nil {
		t.Fatal("expected an error for a whitespace-only document")
	}
}

func TestParseMissingCommaOrCloseErrors(t *testing.T) {
	p := arena.NewPool(make([]byte, 64))
	if _, err := Parse(p, []byte("[1 2]")); err == nil {
		t.Fatal("expected ErrMissSquareClose")
	}
	if _, err := Parse(p, []byte(`{"a" 1}`)); err == nil {
		t.Fatal("expected ErrMissColon")
	}
}
