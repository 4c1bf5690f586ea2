package rtime

import (
	"testing"
	"time"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

func TestUnboundedDeadlineNeverExpires(t *testing.T) {
	c := &fakeClock{now: time.Unix(1000, 0)}
	d := NewDeadline(c, 0)
	if d.Bounded() {
		t.Fatal("zero ttl should produce an unbounded deadline")
	}
	c.now = c.now.Add(24 * time.Hour)
	if d.Expired(c) {
		t.Fatal("unbounded deadline should never expire")
	}
}

func TestBoundedDeadlineExpires(t *testing.T) {
	c := &fakeClock{now: time.Unix(1000, 0)}
	d := NewDeadline(c, 5*time.Second)
	if d.Expired(c) {
		t.Fatal("deadline should not be expired immediately")
	}
	c.now = c.now.Add(4 * time.Second)
	if d.Expired(c) {
		t.Fatal("deadline should not be expired before ttl elapses")
	}
	c.now = c.now.Add(2 * time.Second)
	if !d.Expired(c) {
		t.Fatal("deadline should be expired once ttl has elapsed")
	}
}

func TestRemainingCountsDown(t *testing.T) {
	c := &fakeClock{now: time.Unix(1000, 0)}
	d := NewDeadline(c, 10*time.Second)
	c.now = c.now.Add(3 * time.Second)
	rem := d.Remaining(c)
	if rem != 7*time.Second {
		t.Fatalf("Remaining() = %v, want 7s", rem)
	}
}
