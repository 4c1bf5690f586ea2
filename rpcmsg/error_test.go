package rpcmsg

import (
	"testing"

	"github.com/dmagro/jrpcgo/arena"
)

func TestDefaultMessages(t *testing.T) {
	cases := map[Code]string{
		ParseError:     "Parse error",
		InvalidRequest: "Invalid Request",
		MethodNotFound: "Method not found",
		InvalidParams:  "Invalid params",
		InternalError:  "Internal error",
	}
	for code, want := range cases {
		if got := NewError(code).Message; got != want {
			t.Errorf("NewError(%d).Message = %q, want %q", code, got, want)
		}
	}
}

func TestIsServerError(t *testing.T) {
	if !IsServerError(-32050) {
		t.Error("-32050 should be a server error")
	}
	if IsServerError(InvalidParams) {
		t.Error("InvalidParams is a predefined code, not a server error")
	}
	if IsServerError(-31999) {
		t.Error("-31999 is outside the reserved server-error range")
	}
}

func TestErrorImplementsErrorInterface(t *testing.T) {
	var err error = NewErrorf(InternalError, "boom %d", 7)
	if err.Error() == "" {
		t.Fatal("expected a non-empty error string")
	}
}

func TestErrorValueOmitsAbsentData(t *testing.T) {
	p := arena.NewPool(make([]byte, 256))
	e := NewError(MethodNotFound)
	v := e.Value(p)
	if _, ok := v.Lookup("data"); ok {
		t.Error("data member should be absent when Data was never set")
	}
	code, _ := v.Lookup("code")
	n, _ := code.Num()
	if n.AsInt64() != int64(MethodNotFound) {
		t.Errorf("code = %d, want %d", n.AsInt64(), MethodNotFound)
	}
}
