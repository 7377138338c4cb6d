package batch

import "sync/atomic"

// Aggregator holds the run totals. totalNew only counts succeeded items.
type Aggregator struct {
	totalNew  atomic.Uint64
	succeeded atomic.Uint64
	failed    atomic.Uint64
}

// Reset zeroes the run counters. Call once per run, before any job is submitted.
func (a *Aggregator) Reset() {
	a.totalNew.Store(0)
	a.succeeded.Store(0)
	a.failed.Store(0)
}

func (a *Aggregator) AddSucceeded(size uint64) {
	a.totalNew.Add(size)
	a.succeeded.Add(1)
}

func (a *Aggregator) AddFailed() {
	a.failed.Add(1)
}

// Forget removes a finished item's contribution after it is deselected.
func (a *Aggregator) Forget(it *Item) {
	switch it.Outcome() {
	case Succeeded:
		a.totalNew.Add(^(it.SizeNew() - 1))
		a.succeeded.Add(^uint64(0))
	case Failed:
		a.failed.Add(^uint64(0))
	}
}

func (a *Aggregator) TotalNew() uint64  { return a.totalNew.Load() }
func (a *Aggregator) Succeeded() uint64 { return a.succeeded.Load() }
func (a *Aggregator) Failed() uint64    { return a.failed.Load() }
