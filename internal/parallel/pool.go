// Package parallel runs pixel work on a pool of goroutines.
package parallel

import (
	"image"
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a fixed set of goroutines with one queue each. A worker
// whose queue is empty takes work from the other queues.
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan func(), max(workers*4, 8))
	}
	p.running.Store(true)
	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

var (
	defaultOnce sync.Once
	defaultPool *WorkerPool
)

// Default returns the process-wide pool, started on first use with
// GOMAXPROCS workers. It is never closed.
func Default() *WorkerPool {
	defaultOnce.Do(func() { defaultPool = NewWorkerPool(0) })
	return defaultPool
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]
	for {
		select {
		case fn := <-own:
			fn()
			continue
		case <-p.done:
			drain(own)
			return
		default:
		}
		if fn := p.steal(id); fn != nil {
			fn()
			continue
		}
		select {
		case fn := <-own:
			fn()
		case <-p.done:
			drain(own)
			return
		}
	}
}

func drain(q chan func()) {
	for {
		select {
		case fn := <-q:
			fn()
		default:
			return
		}
	}
}

func (p *WorkerPool) steal(id int) func() {
	for i := range p.queues {
		if i == id {
			continue
		}
		select {
		case fn := <-p.queues[i]:
			return fn
		default:
		}
	}
	return nil
}

// ExecuteAll runs every item and waits for all of them. Items are spread
// round-robin over the workers. After Close the items run on the calling
// goroutine.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}
	if !p.running.Load() {
		for _, fn := range work {
			fn()
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(work))
	for i, fn := range work {
		item := func() {
			defer wg.Done()
			fn()
		}
		select {
		case p.queues[i%p.workers] <- item:
		case <-p.done:
			item()
		}
	}
	wg.Wait()
}

// Close stops the workers after the queued work has run. Close is safe to
// call more than once.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers.
func (p *WorkerPool) Workers() int { return p.workers }

// IsRunning reports whether the pool accepts work.
func (p *WorkerPool) IsRunning() bool { return p.running.Load() }

// Bands splits r into horizontal bands of at least minRows rows, at most
// one per worker, and calls fn for each band concurrently. Small
// rectangles run as a single band on the calling goroutine.
func (p *WorkerPool) Bands(r image.Rectangle, minRows int, fn func(band image.Rectangle)) {
	if r.Empty() {
		return
	}
	n := min(p.workers, r.Dy()/max(minRows, 1))
	if n <= 1 {
		fn(r)
		return
	}
	work := make([]func(), n)
	for i := range work {
		band := r
		band.Min.Y = r.Min.Y + r.Dy()*i/n
		band.Max.Y = r.Min.Y + r.Dy()*(i+1)/n
		work[i] = func() { fn(band) }
	}
	p.ExecuteAll(work)
}
