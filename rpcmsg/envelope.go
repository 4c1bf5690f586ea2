package rpcmsg

import (
	"github.com/dmagro/jrpcgo/arena"
	"github.com/dmagro/jrpcgo/jsonvalue"
	"github.com/dmagro/jrpcgo/jsonvalue/parser"
	"github.com/dmagro/jrpcgo/jsonvalue/serializer"
)

const protocolVersion = "2.0"

// Request is a parsed and validated JSON-RPC 2.0 request. HasID
// distinguishes an ordinary call (HasID true) from a notification (HasID
// false, ID left null) — the distinction the server uses to decide
// whether a response is owed at all.
type Request struct {
	Method string
	Params jsonvalue.Value
	ID     jsonvalue.Value
	HasID  bool
}

// Response is a JSON-RPC 2.0 response: exactly one of Result or Err is
// set, mirroring the spec's "result XOR error" member rule.
type Response struct {
	Result jsonvalue.Value
	Err    *Error
	ID     jsonvalue.Value
	HasID  bool
}

// ParseRequest parses and validates a single request object from raw
// wire bytes, using this module's own parser rather than encoding/json.
// A parse failure yields a ParseError; a structurally invalid but
// well-formed document yields InvalidRequest, matching valid_request()'s
// split between "isn't JSON at all" and "is JSON but not a request" in
// the source server.
func ParseRequest(alloc arena.Allocator, data []byte) (Request, *Error) {
	v, err := parser.Parse(alloc, data)
	if err != nil {
		return Request{}, NewErrorf(ParseError, "%v", err)
	}
	return fromValue(v)
}

// ValidateRequest checks an already-parsed generic Value against the
// JSON-RPC 2.0 request shape: ported from the source server's
// valid_request(), which requires jsonrpc=="2.0", a string method, params
// absent or an array/object, id absent/null/string/number, and no
// members beyond those four.
func ValidateRequest(v jsonvalue.Value) *Error {
	_, err := fromValue(v)
	return err
}

func fromValue(v jsonvalue.Value) (Request, *Error) {
	if !v.IsObject() {
		return Request{}, NewError(InvalidRequest)
	}

	allowed := map[string]bool{"jsonrpc": true, "method": true, "params": true, "id": true}
	for _, k := range v.Keys() {
		if !allowed[k] {
			return Request{}, NewErrorf(InvalidRequest, "unexpected member %q", k)
		}
	}

	ver, ok := v.Lookup("jsonrpc")
	if !ok {
		return Request{}, NewErrorf(InvalidRequest, "missing jsonrpc member")
	}
	if s, isStr := ver.Str(); !isStr || s != protocolVersion {
		return Request{}, NewErrorf(InvalidRequest, "jsonrpc must be %q", protocolVersion)
	}

	methodV, ok := v.Lookup("method")
	if !ok {
		return Request{}, NewErrorf(InvalidRequest, "missing method member")
	}
	method, isStr := methodV.Str()
	if !isStr || method == "" {
		return Request{}, NewErrorf(InvalidRequest, "method must be a non-empty string")
	}

	req := Request{Method: method}

	if params, ok := v.Lookup("params"); ok {
		if !params.IsArray() && !params.IsObject() {
			return Request{}, NewErrorf(InvalidRequest, "params must be an array or object")
		}
		req.Params = params
	}

	if id, ok := v.Lookup("id"); ok {
		if !id.IsNull() && !id.IsString() && !id.IsNumber() {
			return Request{}, NewErrorf(InvalidRequest, "id must be a string, number or null")
		}
		req.ID = id
		req.HasID = true
	}

	return req, nil
}

// BuildErrorResponse builds the {"jsonrpc":"2.0","error":{...},"id":...}
// envelope for a failed call, grounded on the source server's
// create_error. A request that failed before an id could be determined
// (e.g. ParseError, malformed InvalidRequest) gets a null id per spec.
func BuildErrorResponse(alloc arena.Allocator, id jsonvalue.Value, rpcErr *Error) jsonvalue.Value {
	obj := jsonvalue.NewObject(alloc)
	*obj.Field("jsonrpc") = jsonvalue.NewString(alloc, protocolVersion)
	*obj.Field("error") = rpcErr.Value(alloc)
	if id.IsNull() {
		*obj.Field("id") = jsonvalue.Null()
	} else {
		*obj.Field("id") = id
	}
	return obj
}

// BuildResultResponse builds the {"jsonrpc":"2.0","result":...,"id":...}
// envelope for a successful call, grounded on the source server's
// create_response.
func BuildResultResponse(alloc arena.Allocator, id jsonvalue.Value, result jsonvalue.Value) jsonvalue.Value {
	obj := jsonvalue.NewObject(alloc)
	*obj.Field("jsonrpc") = jsonvalue.NewString(alloc, protocolVersion)
	*obj.Field("result") = result
	*obj.Field("id") = id
	return obj
}

// BuildRequest renders a Request to its wire envelope:
// {"jsonrpc":"2.0","method":...,"params":...,"id":...}. params and id
// are omitted when left null, matching a call with no params and a
// notification's absent id respectively.
func BuildRequest(alloc arena.Allocator, method string, params jsonvalue.Value, id jsonvalue.Value, hasID bool) jsonvalue.Value {
	obj := jsonvalue.NewObject(alloc)
	*obj.Field("jsonrpc") = jsonvalue.NewString(alloc, protocolVersion)
	*obj.Field("method") = jsonvalue.NewString(alloc, method)
	if !params.IsNull() {
		*obj.Field("params") = params
	}
	if hasID {
		*obj.Field("id") = id
	}
	return obj
}

// SerializeRequest renders a request envelope to compact JSON bytes.
func SerializeRequest(alloc arena.Allocator, method string, params jsonvalue.Value, id jsonvalue.Value, hasID bool) []byte {
	return serializer.Compact(BuildRequest(alloc, method, params, id, hasID))
}

// ParseResponse parses and minimally validates a response envelope: an
// object carrying "jsonrpc":"2.0" and exactly one of "result"/"error".
func ParseResponse(alloc arena.Allocator, data []byte) (Response, *Error) {
	v, perr := parser.Parse(alloc, data)
	if perr != nil {
		return Response{}, NewErrorf(ParseError, "%v", perr)
	}
	if !v.IsObject() {
		return Response{}, NewError(InvalidRequest)
	}
	if ver, ok := v.Lookup("jsonrpc"); !ok {
		return Response{}, NewErrorf(InvalidRequest, "missing jsonrpc member")
	} else if s, isStr := ver.Str(); !isStr || s != protocolVersion {
		return Response{}, NewErrorf(InvalidRequest, "jsonrpc must be %q", protocolVersion)
	}
	resultV, hasResult := v.Lookup("result")
	errV, hasError := v.Lookup("error")
	if hasResult == hasError {
		return Response{}, NewErrorf(InvalidRequest, "response must carry exactly one of result/error")
	}
	resp := Response{}
	if id, ok := v.Lookup("id"); ok {
		resp.ID = id
		resp.HasID = true
	}
	if hasResult {
		resp.Result = resultV
		return resp, nil
	}
	if !errV.IsObject() {
		return Response{}, NewErrorf(InvalidRequest, "error member must be an object")
	}
	codeV, _ := errV.Lookup("code")
	msgV, _ := errV.Lookup("message")
	n, _ := codeV.Num()
	msg, _ := msgV.Str()
	rpcErr := &Error{Code: Code(n.AsInt64()), Message: msg}
	if data, ok := errV.Lookup("data"); ok {
		rpcErr.Data = data
	}
	resp.Err = rpcErr
	return resp, nil
}

// Envelope renders r as its {"jsonrpc",...} wire object: an error
// response when Err is set, otherwise a result response carrying Result
// (null if Result was never set).
func (r Response) Envelope(alloc arena.Allocator) jsonvalue.Value {
	switch {
	case r.Err != nil:
		return BuildErrorResponse(alloc, r.ID, r.Err)
	default:
		return BuildResultResponse(alloc, r.ID, r.Result)
	}
}

// Serialize renders the response to compact JSON bytes in one step.
func (r Response) Serialize(alloc arena.Allocator) []byte {
	return serializer.Compact(r.Envelope(alloc))
}
