package rpcclient

import (
	"time"

	"github.com/dmagro/jrpcgo/rpc/internal/dlist"
)

// slot is one pipeline position: at most one in-flight message at a
// time. bytesSent and bytesRead are bookkeeping only: Go's net/http
// hides the socket-level write/read cursor the source's curl_context
// tracks per slot. bytesSent holds the request body size; bytesRead is
// set to 1 when a response arrives and does not hold the response size.
// Both are reset when the slot is freed, and nothing else reads them.
type slot struct {
	msg       *message
	busy      bool
	bytesSent int
	bytesRead int
	// gen distinguishes a slot's successive occupants: a transport
	// goroutine dispatched against generation g that reports back after
	// the slot has already been freed and reassigned (e.g. its deadline
	// fired first) is recognized as stale and ignored rather than
	// mis-attributed to whatever message now occupies the slot.
	gen int
}

// clientContext is the reactor-goroutine-owned state for one Client:
// pipeline slots, the pending FIFO messages wait in until a slot frees,
// and the monotonic id counter. Every field here is touched only from
// the reactor goroutine — callers never reach in directly, matching the
// source's "contexts list owned by the reactor thread" invariant.
type clientContext struct {
	slots   []slot
	pending dlist.List[*message]
	nextID  uint64
	idFn    IDBuilder
}

func newClientContext(pipelineLength int, idFn IDBuilder) *clientContext {
	return &clientContext{slots: make([]slot, pipelineLength), idFn: idFn}
}

func (cc *clientContext) enqueue(msg *message) {
	cc.pending.Push(&dlist.Node[*message]{Value: msg})
}

// freeSlot returns the index of a free slot, or -1 if every slot is busy.
func (cc *clientContext) freeSlot() int {
	for i := range cc.slots {
		if !cc.slots[i].busy {
			return i
		}
	}
	return -1
}

// assignNext pops the head of the pending FIFO into idx, assigning it a
// fresh monotonic id (notifications get no id). Returns nil if pending
// is empty.
func (cc *clientContext) assignNext(idx int, ttl time.Duration) *message {
	node := cc.pending.Pop()
	if node == nil {
		return nil
	}
	msg := node.Value
	if !msg.notify {
		cc.nextID++
		msg.id = cc.idFn(cc.nextID)
	}
	if ttl > 0 {
		msg.deadline = time.Now().Add(ttl)
		msg.hasDeadline = true
	}
	gen := cc.slots[idx].gen + 1
	cc.slots[idx] = slot{msg: msg, busy: true, gen: gen}
	return msg
}

func (cc *clientContext) freeSlotAt(idx int) {
	gen := cc.slots[idx].gen
	cc.slots[idx] = slot{gen: gen}
}

// expired collects slots whose message deadline has passed, per the
// reactor's per-tick deadline sweep, leaving the slot itself untouched —
// the caller frees each returned slot. The in-flight transport call is
// not aborted; its late completion is discarded by the slot generation
// check.
func (cc *clientContext) expired(now time.Time) []int {
	var idxs []int
	for i := range cc.slots {
		s := &cc.slots[i]
		if s.busy && s.msg.hasDeadline && !now.Before(s.msg.deadline) {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// drainPending empties the pending FIFO, returning every message it held
// so the caller can fail them — used on shutdown/context destruction.
func (cc *clientContext) drainPending() []*message {
	var out []*message
	for n := cc.pending.Pop(); n != nil; n = cc.pending.Pop() {
		out = append(out, n.Value)
	}
	return out
}
