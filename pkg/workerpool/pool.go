// Package workerpool bounds outbound fan-out. One pool is created at startup
// and shared by every aggregation call, so upstream concurrency stays capped
// no matter how many requests are in flight.
package workerpool

import (
	"sync"

	"github.com/gammazero/workerpool"
)

// Pool wraps a fixed-size gammazero pool.
type Pool struct {
	wp *workerpool.WorkerPool
}

// New creates a pool with the given worker count (minimum 1).
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{wp: workerpool.New(size)}
}

// Submit enqueues a task for execution.
func (p *Pool) Submit(task func()) { p.wp.Submit(task) }

// StopWait drains queued tasks and stops the workers.
func (p *Pool) StopWait() { p.wp.StopWait() }

// Size returns the worker count.
func (p *Pool) Size() int { return p.wp.Size() }

// Group runs a batch of tasks on the shared pool and waits for all of them.
// Each caller gets its own WaitGroup; the pool itself is never torn down
// between batches.
type Group struct {
	pool *Pool
	wg   sync.WaitGroup
}

// NewGroup starts a batch bound to the pool.
func (p *Pool) NewGroup() *Group { return &Group{pool: p} }

// Go schedules one task in the batch.
func (g *Group) Go(task func()) {
	g.wg.Add(1)
	g.pool.Submit(func() {
		defer g.wg.Done()
		task()
	})
}

// Wait blocks until every task scheduled via Go has finished.
func (g *Group) Wait() { g.wg.Wait() }
