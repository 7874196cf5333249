package worker

import (
	"context"
	"sync"
	"time"
)

// Task is a unit of work. Index identifies the task in the Result so callers
// can restore submission order.
type Task struct {
	Index int
	Run   func(ctx context.Context) error
}

type Result struct {
	Index int
	Err   error
}

type Pool struct {
	workers int
	tasks   chan Task
	wg      sync.WaitGroup
	mu      sync.RWMutex
	rate    <-chan time.Time
	ticker  *time.Ticker
}

func NewPool(workers, buffer int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Pool{
		workers: workers,
		tasks:   make(chan Task, buffer),
	}
}

// SetRateLimit caps task starts at rps per second across all workers.
// Zero or negative removes the limit.
func (p *Pool) SetRateLimit(rps int) {
	if p == nil {
		return
	}
	p.stopTicker()
	if rps <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	interval := time.Second / time.Duration(rps)
	if interval <= 0 {
		interval = time.Nanosecond
	}
	p.ticker = time.NewTicker(interval)
	p.rate = p.ticker.C
}

// Submit blocks while the task buffer is full. It must not be called after
// Close.
func (p *Pool) Submit(t Task) {
	if p == nil || t.Run == nil {
		return
	}
	p.tasks <- t
}

// Close stops accepting tasks. Buffered tasks still run.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	close(p.tasks)
}

func (p *Pool) stopTicker() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.rate = nil
	}
}

// Run starts the workers. The returned channel is closed once the task
// channel is drained after Close, or ctx is done.
func (p *Pool) Run(ctx context.Context) <-chan Result {
	if p == nil {
		out := make(chan Result)
		close(out)
		return out
	}
	out := make(chan Result, p.workers)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					p.mu.RLock()
					rate := p.rate
					p.mu.RUnlock()
					if rate != nil {
						select {
						case <-ctx.Done():
							return
						case <-rate:
						}
					}
					err := t.Run(ctx)
					select {
					case <-ctx.Done():
						return
					case out <- Result{Index: t.Index, Err: err}:
					}
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		p.stopTicker()
		close(out)
	}()

	return out
}

// Do runs tasks on a fresh pool and returns one error per task, in input
// order. Tasks that never ran because ctx ended report ctx.Err().
func Do(ctx context.Context, workers, rps int, tasks []Task) []error {
	errs := make([]error, len(tasks))
	p := NewPool(workers, len(tasks))
	p.SetRateLimit(rps)
	results := p.Run(ctx)
	for i, t := range tasks {
		t.Index = i
		p.Submit(t)
	}
	p.Close()

	done := make([]bool, len(tasks))
	for r := range results {
		errs[r.Index] = r.Err
		done[r.Index] = true
	}
	for i := range done {
		if !done[i] {
			errs[i] = ctx.Err()
		}
	}
	return errs
}
