// Package worker runs transform jobs on a fixed set of goroutines.
//
// Jobs go through a single FIFO queue. Shutdown appends one terminate
// message per worker behind every job already accepted, so all queued work
// finishes before any worker exits. Submitted jobs cannot be cancelled, and
// a job that never returns blocks Shutdown.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/raoulx24/imgshrink/internal/logging"
)

var ErrPoolClosed = errors.New("worker pool is shut down")

// Handler executes one job.
type Handler interface {
	Handle(ctx context.Context, job Job) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, job Job) error

func (f HandlerFunc) Handle(ctx context.Context, job Job) error { return f(ctx, job) }

// Pool is a fixed-size worker pool.
type Pool struct {
	handler Handler
	log     logging.Logger
	q       *queue
	wg      sync.WaitGroup
	size    int

	mu     sync.Mutex
	closed bool
}

// NewPool starts size workers. It panics if size is not positive.
func NewPool(size int, handler Handler, log logging.Logger) *Pool {
	if size <= 0 {
		panic(fmt.Sprintf("worker: pool size must be positive, got %d", size))
	}
	if log == nil {
		log = logging.Discard
	}

	p := &Pool{
		handler: handler,
		log:     log,
		q:       newQueue(),
		size:    size,
	}

	p.wg.Add(size)
	for id := 0; id < size; id++ {
		go p.loop(id)
	}
	log.Debug("worker pool started with %d workers", size)
	return p
}

// Execute queues job for any free worker and returns immediately.
func (p *Pool) Execute(job Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPoolClosed
	}
	p.q.push(message{job: job})
	return nil
}

// Shutdown lets every accepted job finish, then stops the workers.
// It is safe to call more than once.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.wg.Wait()
		return
	}
	p.closed = true
	for i := 0; i < p.size; i++ {
		p.q.push(message{terminate: true})
	}
	p.mu.Unlock()

	p.wg.Wait()
	p.log.Debug("worker pool stopped")
}

func (p *Pool) NumWorkers() int { return p.size }

// Pending is the number of queued messages not yet picked up.
func (p *Pool) Pending() int { return p.q.len() }

func (p *Pool) loop(id int) {
	defer p.wg.Done()
	for {
		m := p.q.pop()
		if m.terminate {
			return
		}
		p.run(id, m.job)
	}
}

// run executes one job. A panic is logged and the worker carries on.
func (p *Pool) run(id int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("worker %d: job %s panicked: %v\n%s", id, job.InputPath, r, debug.Stack())
		}
	}()

	if err := p.handler.Handle(context.Background(), job); err != nil {
		p.log.Error("worker %d: %s: %v", id, job.InputPath, err)
	}
}
