// Package worker provides a keyed worker pool. Every item with the same key
// runs on the same goroutine in submission order, so work for one game is
// serialised while different games proceed in parallel.
package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrPoolClosed is returned when work is submitted to a closed or stopped pool.
var ErrPoolClosed = errors.New("worker pool closed")

// WorkItem is a unit of work routed by Key.
type WorkItem struct {
	Key int64
	Run func()

	// Drop, if set, is called instead of Run when the pool was stopped
	// before the item reached a worker.
	Drop func()
}

// Pool manages one goroutine and one queue per worker.
type Pool struct {
	numWorkers int
	bufferSize int
	queues     []chan WorkItem
	wg         sync.WaitGroup
	stopFlag   int32 // Atomic flag for early termination

	mu     sync.RWMutex // guards closed against concurrent sends
	closed bool
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n >= 1 {
			p.numWorkers = n
		}
	}
}

// WithBufferSize sets each worker's queue size.
func WithBufferSize(size int) PoolOption {
	return func(p *Pool) {
		if size >= 0 {
			p.bufferSize = size
		}
	}
}

// NewPool creates a pool with the given worker count and per-worker buffer.
func NewPool(numWorkers, bufferSize int) *Pool {
	return NewPoolWithOptions(WithWorkers(numWorkers), WithBufferSize(bufferSize))
}

// NewPoolWithOptions creates a pool using functional options.
// Default: 1 worker, buffer size of 10.
func NewPoolWithOptions(opts ...PoolOption) *Pool {
	p := &Pool{
		numWorkers: 1,
		bufferSize: 10,
	}
	for _, opt := range opts {
		opt(p)
	}
	// Create queues after options are applied
	p.queues = make([]chan WorkItem, p.numWorkers)
	for i := range p.queues {
		p.queues[i] = make(chan WorkItem, p.bufferSize)
	}
	return p
}

// Start starts the worker goroutines.
func (p *Pool) Start() {
	for _, q := range p.queues {
		p.wg.Add(1)
		go p.worker(q)
	}
}

// worker runs items from its queue until the queue is closed.
func (p *Pool) worker(queue <-chan WorkItem) {
	defer p.wg.Done()

	for item := range queue {
		if p.IsStopped() {
			if item.Drop != nil {
				item.Drop()
			}
			continue // Drain queue without running
		}
		item.Run()
	}
}

// queueFor maps a key onto a worker index.
func (p *Pool) queueFor(key int64) chan WorkItem {
	idx := key % int64(p.numWorkers)
	if idx < 0 {
		idx += int64(p.numWorkers)
	}
	return p.queues[idx]
}

// Submit queues item on the worker owning its key. It blocks while that
// worker's queue is full, until ctx is done.
func (p *Pool) Submit(ctx context.Context, item WorkItem) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed || p.IsStopped() {
		return ErrPoolClosed
	}
	select {
	case p.queueFor(item.Key) <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn on the worker owning key and waits for its result. If ctx ends
// after fn was queued, Do returns ctx.Err() but fn still runs in order.
func (p *Pool) Do(ctx context.Context, key int64, fn func() error) error {
	done := make(chan error, 1)
	item := WorkItem{
		Key:  key,
		Run:  func() { done <- fn() },
		Drop: func() { done <- ErrPoolClosed },
	}
	if err := p.Submit(ctx, item); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop signals workers to stop running new items.
// Queued items are drained through their Drop hook.
func (p *Pool) Stop() {
	atomic.StoreInt32(&p.stopFlag, 1)
}

// IsStopped returns true if the pool has been stopped.
func (p *Pool) IsStopped() bool {
	return atomic.LoadInt32(&p.stopFlag) != 0
}

// Close stops accepting work, lets queued items finish and waits for all
// workers. It is safe to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	for _, q := range p.queues {
		close(q)
	}
	p.mu.Unlock()
	p.wg.Wait()
}
