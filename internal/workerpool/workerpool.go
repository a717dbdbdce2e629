// Package workerpool runs a fixed number of workers pulling from a shared
// task queue under one tomb.Tomb. Originally shaped to fan inbound TCP
// connections out to a fixed worker count; cmd/vantage reuses it to run
// several independent backtest sessions concurrently -- one task per
// instrument/parameter combination -- rather than to fan out connection
// handling.
package workerpool

import (
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const defaultTaskChanSize = 100

// Func is one unit of work a pool worker executes. Returning an error
// kills the owning tomb.
type Func = func(t *tomb.Tomb, task any) error

// Pool is a fixed-size pool of workers draining a shared task channel.
type Pool struct {
	n     int
	tasks chan any
	work  Func
}

// New constructs a Pool of size workers. Call Submit to enqueue tasks and
// Run to start processing under t.
func New(size int) Pool {
	return Pool{
		tasks: make(chan any, defaultTaskChanSize),
		n:     size,
	}
}

// Submit enqueues a task for some worker to pick up. Blocks if the
// internal queue is full.
func (p *Pool) Submit(task any) {
	p.tasks <- task
}

// Close signals that no further tasks will be submitted, letting idle
// workers exit once the queue drains.
func (p *Pool) Close() {
	close(p.tasks)
}

// Run starts size workers under t, each executing work against tasks
// pulled off the shared queue until t dies or the queue is closed and
// drained.
func (p *Pool) Run(t *tomb.Tomb, work Func) {
	p.work = work
	log.Info().Int("workers", p.n).Msg("workerpool: starting workers")
	for i := 0; i < p.n; i++ {
		t.Go(func() error {
			return p.worker(t)
		})
	}
}

func (p *Pool) worker(t *tomb.Tomb) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case task, ok := <-p.tasks:
			if !ok {
				return nil
			}
			if err := p.work(t, task); err != nil {
				log.Error().Err(err).Msg("workerpool: worker exiting on error")
				return err
			}
		}
	}
}
