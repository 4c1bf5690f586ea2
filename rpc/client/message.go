package rpcclient

import (
	"time"

	"github.com/dmagro/jrpcgo/jsonvalue"
)

// message is one caller-submitted call or notification, tracked from
// submission through pipeline assignment to completion.
type message struct {
	method   string
	params   jsonvalue.Value
	notify   bool
	ttl      time.Duration
	resultCh chan Result    // set for synchronous Call
	callback func(Result)   // set for CallAsync
	id       jsonvalue.Value // assigned when the message is given a slot
	deadline time.Time
	hasDeadline bool
}

func (m *message) complete(res Result) {
	if m.notify {
		return
	}
	if m.resultCh != nil {
		m.resultCh <- res
	}
	if m.callback != nil {
		m.callback(res)
	}
}
