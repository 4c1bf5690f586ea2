package rpcclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmagro/jrpcgo/arena"
	"github.com/dmagro/jrpcgo/jsonvalue"
	rpcserver "github.com/dmagro/jrpcgo/rpc/server"
	"github.com/dmagro/jrpcgo/rpcmsg"
)

// newEchoServer starts an httptest server fronting an rpcserver.Server with
// a "sum" method (for result-path assertions) and a "boom" method (for
// error-path assertions), so these tests exercise the real dispatch path
// end to end rather than a bespoke test double.
func newEchoServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := rpcserver.New()
	s.AddCommand("sum", func(alloc arena.Allocator, params jsonvalue.Value) (jsonvalue.Value, *rpcmsg.Error) {
		var total int64
		for _, el := range params.Elements() {
			n, _ := el.Num()
			total += n.AsInt64()
		}
		return jsonvalue.NewNumber(jsonvalue.Int64(total)), nil
	})
	s.AddCommand("boom", func(alloc arena.Allocator, params jsonvalue.Value) (jsonvalue.Value, *rpcmsg.Error) {
		return jsonvalue.Value{}, rpcmsg.NewErrorf(rpcmsg.InvalidParams, "always fails")
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		pool := arena.NewPool(make([]byte, 8192))
		resp := s.Execute(pool, body)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, url string, settings HTTPSettings) *Client {
	t.Helper()
	settings.URL = url
	c := NewClient(settings, arena.NewPool(make([]byte, 64*1024)))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCallReturnsResult(t *testing.T) {
	srv := newEchoServer(t)
	c := newTestClient(t, srv.URL, HTTPSettings{})

	params := jsonvalue.NewArray(c.alloc)
	_ = params.Append(jsonvalue.NewNumber(jsonvalue.Int64(1)))
	_ = params.Append(jsonvalue.NewNumber(jsonvalue.Int64(2)))
	_ = params.Append(jsonvalue.NewNumber(jsonvalue.Int64(3)))

	result, err := c.Call(context.Background(), "sum", params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, ok := result.Num()
	if !ok || n.AsInt64() != 6 {
		t.Errorf("result = %+v, want 6", result)
	}
}

func TestCallSurfacesServerError(t *testing.T) {
	srv := newEchoServer(t)
	c := newTestClient(t, srv.URL, HTTPSettings{})

	_, err := c.Call(context.Background(), "boom", jsonvalue.Value{})
	if err == nil {
		t.Fatal("expected an error")
	}
	rpcErr, ok := err.(*rpcmsg.Error)
	if !ok || rpcErr.Code != rpcmsg.InvalidParams {
		t.Errorf("got %v, want an InvalidParams *rpcmsg.Error", err)
	}
}

func TestCallMethodNotFound(t *testing.T) {
	srv := newEchoServer(t)
	c := newTestClient(t, srv.URL, HTTPSettings{})

	_, err := c.Call(context.Background(), "missing", jsonvalue.Value{})
	rpcErr, ok := err.(*rpcmsg.Error)
	if !ok || rpcErr.Code != rpcmsg.MethodNotFound {
		t.Errorf("got %v, want MethodNotFound", err)
	}
}

func TestCallAsyncInvokesCallbackOffReactor(t *testing.T) {
	srv := newEchoServer(t)
	c := newTestClient(t, srv.URL, HTTPSettings{})

	done := make(chan Result, 1)
	params := jsonvalue.NewArray(c.alloc)
	_ = params.Append(jsonvalue.NewNumber(jsonvalue.Int64(41)))
	_ = params.Append(jsonvalue.NewNumber(jsonvalue.Int64(1)))

	if err := c.CallAsync("sum", params, func(r Result) { done <- r }); err != nil {
		t.Fatalf("CallAsync: %v", err)
	}

	select {
	case res := <-done:
		if res.Err != nil {
			t.Fatalf("unexpected error: %v", res.Err)
		}
		n, _ := res.Value.Num()
		if n.AsInt64() != 42 {
			t.Errorf("result = %d, want 42", n.AsInt64())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("callback never fired")
	}
}

func TestNotifyDoesNotWaitForAResponse(t *testing.T) {
	srv := newEchoServer(t)
	c := newTestClient(t, srv.URL, HTTPSettings{})

	if err := c.Notify("sum", jsonvalue.Value{}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	// Nothing to observe beyond "it didn't block or error" — a
	// notification has no response to correlate by design.
}

func TestPipeliningHandlesMoreCallsThanSlots(t *testing.T) {
	srv := newEchoServer(t)
	c := newTestClient(t, srv.URL, HTTPSettings{PipelineLength: 2})

	const n = 10
	var wg sync.WaitGroup
	var failures int32
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			params := jsonvalue.NewArray(c.alloc)
			_ = params.Append(jsonvalue.NewNumber(jsonvalue.Int64(int64(i))))
			result, err := c.Call(context.Background(), "sum", params)
			if err != nil {
				atomic.AddInt32(&failures, 1)
				return
			}
			got, _ := result.Num()
			if got.AsInt64() != int64(i) {
				atomic.AddInt32(&failures, 1)
			}
		}(i)
	}
	wg.Wait()
	if failures != 0 {
		t.Errorf("%d/%d calls failed or returned wrong results", failures, n)
	}
}

func TestMonotonicIDsPerContext(t *testing.T) {
	var mu sync.Mutex
	var seenIDs []int64
	capture := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		pool := arena.NewPool(make([]byte, 4096))
		req, perr := rpcmsg.ParseRequest(pool, body)
		if perr == nil {
			n, _ := req.ID.Num()
			mu.Lock()
			seenIDs = append(seenIDs, n.AsInt64())
			mu.Unlock()
		}
		s := rpcserver.New()
		s.AddCommand(req.Method, func(alloc arena.Allocator, params jsonvalue.Value) (jsonvalue.Value, *rpcmsg.Error) {
			return jsonvalue.NewBool(true), nil
		})
		w.Write(s.Execute(pool, body))
	}))
	defer capture.Close()

	c := newTestClient(t, capture.URL, HTTPSettings{PipelineLength: 1})
	for i := 0; i < 5; i++ {
		if _, err := c.Call(context.Background(), "ping", jsonvalue.Value{}); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seenIDs) != 5 {
		t.Fatalf("got %d ids, want 5", len(seenIDs))
	}
	for i := 1; i < len(seenIDs); i++ {
		if seenIDs[i] <= seenIDs[i-1] {
			t.Errorf("ids not monotonic: %v", seenIDs)
		}
	}
}

func TestWithIDBuilderOverridesIDRendering(t *testing.T) {
	var gotID jsonvalue.Value
	capture := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		pool := arena.NewPool(make([]byte, 4096))
		req, _ := rpcmsg.ParseRequest(pool, body)
		gotID = req.ID
		s := rpcserver.New()
		s.AddCommand("ping", func(alloc arena.Allocator, params jsonvalue.Value) (jsonvalue.Value, *rpcmsg.Error) {
			return jsonvalue.NewBool(true), nil
		})
		w.Write(s.Execute(pool, body))
	}))
	defer capture.Close()

	settings := HTTPSettings{URL: capture.URL}
	c := NewClient(settings, arena.NewPool(make([]byte, 4096)), WithIDBuilder(func(counter uint64) jsonvalue.Value {
		return jsonvalue.NewString(nil, "req-custom")
	}))
	t.Cleanup(func() { _ = c.Close() })

	if _, err := c.Call(context.Background(), "ping", jsonvalue.Value{}); err != nil {
		t.Fatalf("Call: %v", err)
	}
	s, ok := gotID.Str()
	if !ok || s != "req-custom" {
		t.Errorf("id = %+v, want string req-custom", gotID)
	}
}

func TestTimeToLiveExpiresSlowCalls(t *testing.T) {
	blockCh := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blockCh
		w.Write([]byte(`{"jsonrpc":"2.0","result":true,"id":1}`))
	}))
	defer slow.Close()
	defer close(blockCh)

	c := newTestClient(t, slow.URL, HTTPSettings{TimeToLiveMS: 50})

	_, err := c.Call(context.Background(), "slow", jsonvalue.Value{})
	rpcErr, ok := err.(*rpcmsg.Error)
	if !ok || rpcErr.Code != rpcmsg.InternalError {
		t.Errorf("got %v, want InternalError from TTL expiry", err)
	}
}

func TestCloseAbortsPendingAndInFlightCalls(t *testing.T) {
	blockCh := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blockCh
		w.Write([]byte(`{"jsonrpc":"2.0","result":true,"id":1}`))
	}))
	defer slow.Close()

	c := NewClient(HTTPSettings{URL: slow.URL, PipelineLength: 1}, arena.NewPool(make([]byte, 4096)))

	resultCh := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := c.Call(context.Background(), "slow", jsonvalue.Value{})
			resultCh <- err
		}()
	}
	// Give the reactor a moment to dispatch the first call and queue the
	// second behind it (pipeline length 1).
	time.Sleep(50 * time.Millisecond)

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	close(blockCh)

	for i := 0; i < 2; i++ {
		err := <-resultCh
		rpcErr, ok := err.(*rpcmsg.Error)
		if !ok || rpcErr.Code != rpcmsg.InternalError {
			t.Errorf("call %d: got %v, want InternalError from context destruction", i, err)
		}
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	srv := newEchoServer(t)
	c := NewClient(HTTPSettings{URL: srv.URL}, arena.NewPool(make([]byte, 4096)))
	if err := c.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got: %v", err)
	}
}

func TestCallAfterCloseFails(t *testing.T) {
	srv := newEchoServer(t)
	c := NewClient(HTTPSettings{URL: srv.URL}, arena.NewPool(make([]byte, 4096)))
	_ = c.Close()

	_, err := c.Call(context.Background(), "sum", jsonvalue.Value{})
	if err == nil {
		t.Fatal("expected an error calling a closed client")
	}
}
