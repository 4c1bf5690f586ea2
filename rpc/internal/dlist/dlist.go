// Package dlist implements the generic intrusive doubly linked list the
// RPC client uses as its per-context FIFO of calls waiting for a
// pipeline slot: O(1) push/pop/remove without a backing slice, so
// removing an entry from the middle of a list never touches any other
// entry.
package dlist

// Node is one list entry, embedding the payload directly rather than
// boxing it, the same trade the source library makes by having callers'
// own types embed ListItem.
type Node[T any] struct {
	prev, next *Node[T]
	Value      T
}

// Next returns the following node, or nil at the tail.
func (n *Node[T]) Next() *Node[T] { return n.next }

// Prev returns the preceding node, or nil at the head.
func (n *Node[T]) Prev() *Node[T] { return n.prev }

// List is an unsynchronized doubly linked list of *Node[T]. Callers that
// share a List across goroutines guard it with their own mutex, the same
// division of responsibility the source's List/ListItem split leaves to
// its callers; the client's per-context pending list needs none, since
// only the reactor goroutine touches it.
type List[T any] struct {
	first, last *Node[T]
}

// Empty reports whether the list has no entries.
func (l *List[T]) Empty() bool { return l.first == nil }

// Front returns the first node, or nil if the list is empty.
func (l *List[T]) Front() *Node[T] { return l.first }

// Back returns the last node, or nil if the list is empty.
func (l *List[T]) Back() *Node[T] { return l.last }

// Push appends n at the tail. n must not already belong to a list.
func (l *List[T]) Push(n *Node[T]) {
	if n == nil {
		return
	}
	if l.first == nil {
		n.prev, n.next = nil, nil
		l.first, l.last = n, n
		return
	}
	l.last.next = n
	n.prev = l.last
	n.next = nil
	l.last = n
}

// Pop removes and returns the first node, or nil if the list is empty.
func (l *List[T]) Pop() *Node[T] { return l.Remove(l.first) }

// Remove unlinks n from the list and returns it. Removing a node that
// does not belong to l is a caller bug; Remove does not detect it.
func (l *List[T]) Remove(n *Node[T]) *Node[T] {
	if n == nil {
		return nil
	}
	switch {
	case n == l.first && n == l.last:
		l.first, l.last = nil, nil
	case n == l.first:
		l.first = n.next
		l.first.prev = nil
	case n == l.last:
		l.last = n.prev
		l.last.next = nil
	default:
		before, after := n.prev, n.next
		if before != nil {
			before.next = after
		}
		if after != nil {
			after.prev = before
		}
	}
	n.prev, n.next = nil, nil
	return n
}

// Clear empties the list without touching any node's links — callers
// that still hold node pointers must not reuse them in this list.
func (l *List[T]) Clear() { l.first, l.last = nil, nil }

// Splice moves all of other's entries onto the tail of l, leaving other
// empty.
func (l *List[T]) Splice(other *List[T]) {
	if other.first == nil {
		return
	}
	if l.first == nil {
		l.first, l.last = other.first, other.last
	} else {
		l.last.next = other.first
		other.first.prev = l.last
		l.last = other.last
	}
	other.Clear()
}
