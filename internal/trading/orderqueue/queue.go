// Package orderqueue buffers order requests between strategy threads and the
// manager's processing pass.
package orderqueue

import (
	"errors"
	"sync"

	"github.com/darknessitachi/kunzite-sub000/internal/trading/model"
)

var ErrClosed = errors.New("orderqueue: queue closed")

// Queue is a concurrent FIFO of pending order requests. Producers enqueue
// from any goroutine; the manager drains the whole backlog in one swap.
type Queue struct {
	mu      sync.Mutex
	pending []*model.OrderRequest
	closed  bool
}

func New() *Queue {
	return &Queue{}
}

// Enqueue appends a request to the backlog.
func (q *Queue) Enqueue(req *model.OrderRequest) error {
	if req == nil {
		return errors.New("orderqueue: nil request")
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.pending = append(q.pending, req)
	return nil
}

// Drain removes and returns the entire backlog in arrival order. It returns
// nil when nothing is pending.
func (q *Queue) Drain() []*model.OrderRequest {
	q.mu.Lock()
	defer q.mu.Unlock()
	pending := q.pending
	q.pending = nil
	return pending
}

// Len reports the number of requests waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Close rejects further enqueues. Drain still returns what was accepted.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
}
