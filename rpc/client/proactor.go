package rpcclient

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dmagro/jrpcgo/arena"
	"github.com/dmagro/jrpcgo/rpcmsg"
)

// responseArenaSize bounds the scratch pool each transport goroutine
// parses its HTTP response body into. Parsing never shares this pool
// with the client's own allocator, keeping every parse single-threaded
// without requiring callers to take the arena's lock hook on the hot
// path — the pool-per-parse discipline the arena package's own
// documentation recommends for concurrent use.
const responseArenaSize = 64 * 1024

// run is the single reactor goroutine: it owns the one clientContext for
// this Client and is the only goroutine that ever touches it, mirroring
// the source proactor's "contexts owned by the reactor thread" rule.
func (c *Client) run() {
	defer c.wg.Done()

	ctx := newClientContext(c.settings.pipelineLength(), c.idFn)
	ticker := time.NewTicker(reactorTick)
	defer ticker.Stop()

	for {
		select {
		case ev := <-c.events:
			switch ev.kind {
			case eventSubmit:
				ctx.enqueue(ev.msg)
			case eventTransportDone:
				c.completeSlot(ctx, ev)
			case eventShutdown:
				c.abortAll(ctx)
				return
			}
		case now := <-ticker.C:
			c.sweepDeadlines(ctx, now)
		}
		c.fillSlots(ctx)
	}
}

// fillSlots turns queued pending messages into HTTP requests until every
// pipeline slot is busy, step (2) of the source reactor's per-iteration
// work list.
func (c *Client) fillSlots(ctx *clientContext) {
	for {
		idx := ctx.freeSlot()
		if idx < 0 {
			return
		}
		msg := ctx.assignNext(idx, c.settings.timeToLive())
		if msg == nil {
			return
		}
		c.dispatch(ctx, idx, msg)
	}
}

// dispatch serializes msg's request on the reactor goroutine (the
// arena.Allocator is not assumed thread-safe, so every write through it
// happens here) and hands the blocking HTTP round trip to its own
// goroutine, which reports completion back onto c.events — this
// Client's substitute for polling a non-blocking transport handle.
func (c *Client) dispatch(ctx *clientContext, idx int, msg *message) {
	body := rpcmsg.SerializeRequest(c.alloc, msg.method, msg.params, msg.id, !msg.notify)
	ctx.slots[idx].bytesSent = len(body)
	gen := ctx.slots[idx].gen

	go func() {
		result, err := c.roundTrip(body)
		c.events <- event{kind: eventTransportDone, slot: idx, gen: gen, result: result, err: err}
	}()
}

func (c *Client) roundTrip(body []byte) (Result, error) {
	req, err := http.NewRequest(http.MethodPost, c.settings.URL, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	for k, v := range c.settings.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, err
	}

	pool := arena.NewPool(make([]byte, responseArenaSize))
	parsed, rpcErr := rpcmsg.ParseResponse(pool, respBody)
	if rpcErr != nil {
		return Result{Err: rpcErr}, nil
	}
	if parsed.Err != nil {
		return Result{Err: parsed.Err}, nil
	}
	return Result{Value: parsed.Result}, nil
}

// completeSlot handles a transport-complete event: on a transport-level
// failure it applies the source's failure-classification rule (timeout
// completes with ServerError, anything else requeues at the context
// tail) before freeing the slot; on success it frees the slot and hands
// delivery to the executor.
func (c *Client) completeSlot(ctx *clientContext, ev event) {
	s := &ctx.slots[ev.slot]
	if !s.busy || s.gen != ev.gen {
		return
	}
	msg := s.msg

	if ev.err != nil {
		ctx.freeSlotAt(ev.slot)
		if isTimeout(ev.err) {
			c.exec.submit(func() { msg.complete(Result{Err: rpcmsg.NewErrorf(rpcmsg.TransportTimeout, "transport timed out")}) })
			return
		}
		ctx.enqueue(msg)
		return
	}

	s.bytesRead = 1
	ctx.freeSlotAt(ev.slot)
	c.exec.submit(func() { msg.complete(ev.result) })
}

func isTimeout(err error) bool {
	type timeouter interface{ Timeout() bool }
	if t, ok := err.(timeouter); ok {
		return t.Timeout()
	}
	if ue, ok := err.(*url.Error); ok {
		return ue.Timeout()
	}
	return false
}

// sweepDeadlines is step (b) of the timeout model: walk in-flight slots
// each reactor tick and fail any whose time-to-live deadline has passed
// with InternalError, per spec. The underlying HTTP round trip is left
// to finish and its result discarded when it eventually reports back
// (the slot has already been freed by then and assigned elsewhere, so
// the stale completion is ignored by completeSlot's busy check via a
// fresh slot generation — see the gen field of slot in context.go).
func (c *Client) sweepDeadlines(ctx *clientContext, now time.Time) {
	for _, idx := range ctx.expired(now) {
		msg := ctx.slots[idx].msg
		ctx.freeSlotAt(idx)
		c.exec.submit(func() { msg.complete(Result{Err: errDeadlineExceeded}) })
	}
}

// abortAll fails every in-flight and pending message with InternalError,
// the source's "destroying a context aborts all in-flight slots and
// fails all pending messages" contract.
func (c *Client) abortAll(ctx *clientContext) {
	for i := range ctx.slots {
		if ctx.slots[i].busy {
			msg := ctx.slots[i].msg
			ctx.freeSlotAt(i)
			c.exec.submit(func() { msg.complete(Result{Err: errContextDestroyed}) })
		}
	}
	for _, msg := range ctx.drainPending() {
		c.exec.submit(func() { msg.complete(Result{Err: errContextDestroyed}) })
	}
}
