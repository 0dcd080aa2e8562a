// Package parallel runs independent frame renders on a fixed set of goroutines.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool spreads index ranges over long-lived worker goroutines.
//
// ForEach splits [0, n) into one contiguous span per worker. A worker that
// exhausts its own span claims remaining indices from the other spans, so
// frames with uneven blur cost still keep every worker busy.
//
// WorkerPool is safe for concurrent use, but fn must not call ForEach on the
// same pool.
type WorkerPool struct {
	workers int
	inbox   []chan *batch

	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// span is a half-open index range claimed one index at a time.
type span struct {
	next atomic.Int64
	end  int64
}

func (s *span) claim() (int, bool) {
	i := s.next.Add(1) - 1
	if i >= s.end {
		return 0, false
	}
	return int(i), true
}

// batch is one ForEach call.
type batch struct {
	fn    func(i int)
	spans []span
	wg    sync.WaitGroup
}

func newBatch(n, parts int, fn func(i int)) *batch {
	b := &batch{fn: fn, spans: make([]span, parts)}
	per, extra := n/parts, n%parts
	start := 0
	for k := range b.spans {
		size := per
		if k < extra {
			size++
		}
		b.spans[k].next.Store(int64(start))
		b.spans[k].end = int64(start + size)
		start += size
	}
	b.wg.Add(parts)
	return b
}

// run drains span own first and then steals from the others.
func (b *batch) run(own int) {
	defer b.wg.Done()
	for k := range b.spans {
		s := &b.spans[(own+k)%len(b.spans)]
		for i, ok := s.claim(); ok; i, ok = s.claim() {
			b.fn(i)
		}
	}
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &WorkerPool{
		workers: workers,
		inbox:   make([]chan *batch, workers),
		done:    make(chan struct{}),
	}
	for i := range p.inbox {
		p.inbox[i] = make(chan *batch)
	}

	p.running.Store(true)
	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case b := <-p.inbox[id]:
			b.run(id)
		}
	}
}

// ForEach calls fn(i) for every i in [0, n) and waits for all calls.
// Calls run concurrently; fn must only touch state owned by index i.
// On a closed pool the calls run on the caller's goroutine.
func (p *WorkerPool) ForEach(n int, fn func(i int)) {
	if n <= 0 {
		return
	}

	parts := min(p.workers, n)
	b := newBatch(n, parts, fn)

	if !p.running.Load() {
		for k := range parts {
			b.run(k)
		}
		return
	}

	for k := range parts {
		select {
		case p.inbox[k] <- b:
		case <-p.done:
			b.run(k)
		}
	}
	b.wg.Wait()
}

// Close stops the workers. It waits for batches already handed to a worker
// and is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool has not been closed.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
