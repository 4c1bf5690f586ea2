package serializer

import (
	"testing"

	"github.com/dmagro/jrpcgo/arena"
	"github.com/dmagro/jrpcgo/jsonvalue"
	"github.com/dmagro/jrpcgo/jsonvalue/parser"
)

func TestCompactScalars(t *testing.T) {
	cases := []struct {
		v    jsonvalue.Value
		want string
	}{
		{jsonvalue.Null(), "null"},
		{jsonvalue.NewBool(true), "true"},
		{jsonvalue.NewBool(false), "false"},
		{jsonvalue.NewNumber(jsonvalue.Int64(-42)), "-42"},
		{jsonvalue.NewNumber(jsonvalue.Uint64(42)), "42"},
	}
	for _, c := range cases {
		if got := string(Compact(c.v)); got != c.want {
			t.Errorf("Compact() = %q, want %q", got, c.want)
		}
	}
}

func TestCompactString(t *testing.T) {
	v := jsonvalue.NewString(nil, "line1\nquote\"tab\tend")
	got := string(Compact(v))
	want := `"line1\nquote\"tab\tend"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCompactArrayAndObject(t *testing.T) {
	p := arena.NewPool(make([]byte, 4096))
	arr := jsonvalue.NewArray(p)
	_ = arr.Append(jsonvalue.NewNumber(jsonvalue.Int64(1)))
	_ = arr.Append(jsonvalue.NewNumber(jsonvalue.Int64(2)))
	if got := string(Compact(arr)); got != "[1,2]" {
		t.Errorf("array got %q, want [1,2]", got)
	}

	obj := jsonvalue.NewObject(p)
	*obj.Field("a") = jsonvalue.NewNumber(jsonvalue.Int64(1))
	if got := string(Compact(obj)); got != `{"a":1}` {
		t.Errorf("object got %q, want {\"a\":1}", got)
	}
}

func TestPrettyIndents(t *testing.T) {
	p := arena.NewPool(make([]byte, 4096))
	obj := jsonvalue.NewObject(p)
	*obj.Field("a") = jsonvalue.NewNumber(jsonvalue.Int64(1))
	got := string(Pretty(obj, 2))
	want := "{\n  \"a\": 1\n}"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCompactFloatUsesSixteenSignificantDigits(t *testing.T) {
	// 0.1+0.2 lands on 0.30000000000000004 in float64; the shortest
	// round-trippable form (strconv.AppendFloat with -1 precision) would
	// render that extra trailing 4, but 16 significant digits rounds it
	// away, matching the source formatter's fixed setprecision(16).
	v := jsonvalue.NewNumber(jsonvalue.Float64(0.1 + 0.2))
	got := string(Compact(v))
	want := "0.3"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRoundTripThroughParser(t *testing.T) {
	src := `{"name":"ada","scores":[1,2,3],"active":true,"note":null,"pi":3.5}`
	p := arena.NewPool(make([]byte, 8192))
	v, err := parser.Parse(p, []byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	out := Compact(v)

	p2 := arena.NewPool(make([]byte, 8192))
	v2, err := parser.Parse(p2, out)
	if err != nil {
		t.Fatalf("re-Parse of serialized output failed: %v", err)
	}
	if !jsonvalue.Equal(v, v2) {
		t.Fatalf("round trip mismatch: %s vs %s", src, out)
	}
}
