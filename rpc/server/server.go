// Package rpcserver implements the JSON-RPC 2.0 server dispatch
// routine: a process-local method registry and the parse/validate/
// route/respond pipeline that turns one request body into one response
// body. The HTTP facade around it (listening, header parsing, POST body
// accumulation) is deliberately thin glue, kept in http.go, matching the
// spec's treatment of the HTTP server as an external collaborator whose
// interface — not implementation — this package depends on.
package rpcserver

import (
	"github.com/dmagro/jrpcgo/arena"
	"github.com/dmagro/jrpcgo/jsonvalue"
	"github.com/dmagro/jrpcgo/rpcmsg"
)

// Handler processes one call's params and returns either a result Value
// or an Error, mirroring the source's Method/MethodId signature
// (params in, result out, by way of a returned Error instead of a thrown
// one — Go has no exceptions for this package to catch).
type Handler func(alloc arena.Allocator, params jsonvalue.Value) (jsonvalue.Value, *rpcmsg.Error)

// MethodHandler is the uniform per-call wrapper hook installed with
// SetMethodHandler, ported from the source's m_method_handler: when set,
// every registered Handler is invoked through it instead of directly,
// letting callers add logging, auth, or metrics around every command in
// one place.
type MethodHandler func(name string, next Handler, alloc arena.Allocator, params jsonvalue.Value) (jsonvalue.Value, *rpcmsg.Error)

// Server is a process-local JSON-RPC 2.0 command registry and dispatch
// routine. The zero Server is ready to use once commands are added.
type Server struct {
	commands      map[string]Handler
	methodHandler MethodHandler
}

// New returns an empty Server.
func New() *Server {
	return &Server{commands: make(map[string]Handler)}
}

// AddCommand registers handler under name, overwriting any previous
// registration for the same name — the source's m_commands[name] =
// method_id assignment, which has the same overwrite behavior.
func (s *Server) AddCommand(name string, handler Handler) {
	if handler == nil {
		return
	}
	if s.commands == nil {
		s.commands = make(map[string]Handler)
	}
	s.commands[name] = handler
}

// SetMethodHandler installs hook as the uniform per-call wrapper. Pass
// nil to remove it and go back to calling registered Handlers directly.
func (s *Server) SetMethodHandler(hook MethodHandler) {
	s.methodHandler = hook
}

// Execute parses, validates and routes a single request body, returning
// the serialized response body. A notification (a request with no "id"
// member) returns a nil, zero-length response, matching the source's
// "response.clear()" for !id_present. alloc backs every jsonvalue.Value
// this call builds or parses; a fresh arena per request is the simplest
// correct choice for a concurrent server (see http.go).
func (s *Server) Execute(alloc arena.Allocator, requestBody []byte) []byte {
	req, parseErr := rpcmsg.ParseRequest(alloc, requestBody)
	if parseErr != nil {
		return rpcmsg.Response{Err: parseErr, ID: jsonvalue.Null()}.Serialize(alloc)
	}

	handler, ok := s.commands[req.Method]
	if !ok {
		err := rpcmsg.NewErrorf(rpcmsg.MethodNotFound, "method %q not found", req.Method)
		if !req.HasID {
			return nil
		}
		return rpcmsg.Response{Err: err, ID: req.ID, HasID: true}.Serialize(alloc)
	}

	result, callErr := s.invoke(req.Method, handler, alloc, req.Params)
	if !req.HasID {
		return nil
	}
	if callErr != nil {
		return rpcmsg.Response{Err: callErr, ID: req.ID, HasID: true}.Serialize(alloc)
	}
	return rpcmsg.Response{Result: result, ID: req.ID, HasID: true}.Serialize(alloc)
}

// invoke runs handler (through the method handler hook, if one is
// installed), recovering a panicking Handler into an InternalError the
// same way the source catches std::exception/... around it->second(...)
// so one misbehaving command can't take the whole dispatch loop down.
func (s *Server) invoke(name string, handler Handler, alloc arena.Allocator, params jsonvalue.Value) (result jsonvalue.Value, callErr *rpcmsg.Error) {
	defer func() {
		if r := recover(); r != nil {
			result = jsonvalue.Value{}
			callErr = rpcmsg.NewErrorf(rpcmsg.InternalError, "panic in method %q: %v", name, r)
		}
	}()
	if s.methodHandler != nil {
		return s.methodHandler(name, handler, alloc, params)
	}
	return handler(alloc, params)
}
