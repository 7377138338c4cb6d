// Package mailbox coalesces run requests from the watcher, the scheduler
// and signals into a single pending slot.
package mailbox

import "sync"

// Mailbox is a single-slot buffer where the latest request always wins.
// It is not a queue: Put overwrites whatever is waiting.
type Mailbox[T any] struct {
	mu        sync.Mutex
	cond      *sync.Cond
	req       *T
	closed    bool
	coalesced int
}

func New[T any]() *Mailbox[T] {
	m := &Mailbox[T]{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Put stores r, replacing any pending request. It never blocks and is a
// no-op after Close.
func (m *Mailbox[T]) Put(r T) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	if m.req != nil {
		m.coalesced++
	}
	m.req = &r
	m.mu.Unlock()
	m.cond.Signal()
}

// Take blocks until a request is available or the mailbox is closed.
// ok is false only once the mailbox is closed and empty.
func (m *Mailbox[T]) Take() (r T, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for m.req == nil && !m.closed {
		m.cond.Wait()
	}
	if m.req == nil {
		return r, false
	}
	r = *m.req
	m.req = nil
	return r, true
}

// TryTake never blocks.
func (m *Mailbox[T]) TryTake() (r T, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.req == nil {
		return r, false
	}
	r = *m.req
	m.req = nil
	return r, true
}

func (m *Mailbox[T]) HasPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.req != nil
}

// Coalesced counts requests that were overwritten before being taken.
func (m *Mailbox[T]) Coalesced() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.coalesced
}

// Close wakes every Take. A pending request can still be taken.
func (m *Mailbox[T]) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.cond.Broadcast()
}
