// Package rpcmsg implements the JSON-RPC 2.0 envelope and error
// taxonomy on top of jsonvalue.Value — requests and responses are built
// and parsed through this module's own parser/serializer rather than
// encoding/json, the same way the rest of this library dogfoods its own
// JSON stack end to end.
package rpcmsg

import (
	"fmt"

	"github.com/dmagro/jrpcgo/arena"
	"github.com/dmagro/jrpcgo/jsonvalue"
)

// Code is a JSON-RPC 2.0 error code. The reserved ranges are spelled out
// in spec section 4.6: the five predefined codes below, plus
// implementation-defined server errors in [-32099, -32000].
type Code int

const (
	ParseError     Code = -32700
	InvalidRequest Code = -32600
	MethodNotFound Code = -32601
	InvalidParams  Code = -32602
	InternalError  Code = -32603
)

// IsServerError reports whether code falls in the reserved
// implementation-defined server-error range.
func IsServerError(code Code) bool {
	return code >= -32099 && code <= -32000
}

// TransportTimeout is the code a client completes a call with when its
// HTTP round trip times out, the source proactor's "OperationTimedOut"
// transport failure mapped onto the server-reserved range rather than
// InternalError (reserved for lifecycle failures: context teardown, TTL
// expiry).
const TransportTimeout Code = -32000

// defaultMessage mirrors the source library's Error(Code) constructor,
// which maps each predefined code to a fixed human-readable message.
func defaultMessage(code Code) string {
	switch code {
	case ParseError:
		return "Parse error"
	case InvalidRequest:
		return "Invalid Request"
	case MethodNotFound:
		return "Method not found"
	case InvalidParams:
		return "Invalid params"
	case InternalError:
		return "Internal error"
	default:
		if IsServerError(code) {
			return "Server error"
		}
		return "Unknown error"
	}
}

// Error is a JSON-RPC error object. It implements the standard error
// interface so it composes with errors.As/errors.Is alongside plain
// wrapped errors elsewhere in this module.
type Error struct {
	Code    Code
	Message string
	Data    jsonvalue.Value
}

// NewError builds an Error with the predefined default message for code.
func NewError(code Code) *Error {
	return &Error{Code: code, Message: defaultMessage(code)}
}

// NewErrorf builds an Error with a custom message.
func NewErrorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// Value renders the error as a jsonvalue object: {"code":.., "message":..
// [, "data":..]}.
func (e *Error) Value(alloc arena.Allocator) jsonvalue.Value {
	obj := jsonvalue.NewObject(alloc)
	*obj.Field("code") = jsonvalue.NewNumber(jsonvalue.Int64(int64(e.Code)))
	*obj.Field("message") = jsonvalue.NewString(alloc, e.Message)
	if !e.Data.IsNull() {
		*obj.Field("data") = e.Data
	}
	return obj
}
