package worker

import "sync"

// message is either a job or a request for the receiving worker to exit.
type message struct {
	job       Job
	terminate bool
}

// queue is an unbounded FIFO shared by all workers. pop hands each message
// to exactly one caller.
type queue struct {
	mu    sync.Mutex
	cond  *sync.Cond
	items []message
}

func newQueue() *queue {
	q := &queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push never blocks.
func (q *queue) push(m message) {
	q.mu.Lock()
	q.items = append(q.items, m)
	q.mu.Unlock()
	q.cond.Signal()
}

// pop blocks until a message is available.
func (q *queue) pop() message {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 {
		q.cond.Wait()
	}

	m := q.items[0]
	q.items[0] = message{}
	q.items = q.items[1:]
	return m
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
