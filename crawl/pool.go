package crawl

import (
	"context"
	"errors"
	"sync"

	"github.com/fwojciec/harvest"
)

// DefaultWorkers is the number of download workers started by a Pool.
const DefaultWorkers = 8

// Executor runs a FetchAction to completion.
type Executor interface {
	Execute(ctx context.Context, action harvest.FetchAction) (harvest.FetchResult, error)
}

var _ Executor = (*Retrier)(nil)

// Pool is a fixed set of long-lived workers that drain a Queue, executing a
// file download for every URL they take.
type Pool struct {
	Queue      *Queue
	Executor   Executor
	Downloader *Downloader
	Workers    int
	Observer   harvest.Observer

	wg      sync.WaitGroup
	stop    func() bool
	retract sync.Once

	mu  sync.Mutex
	err error
}

// Start launches the workers. Canceling ctx aborts the queue.
func (p *Pool) Start(ctx context.Context) {
	n := p.Workers
	if n <= 0 {
		n = DefaultWorkers
	}
	p.stop = context.AfterFunc(ctx, p.Queue.Abort)

	for range n {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.work(ctx)
		}()
	}
}

// Drain closes the queue, waits for the workers to empty it and exit, and
// returns the first fatal error a worker hit.
func (p *Pool) Drain() error {
	p.Queue.Close()
	return p.Wait()
}

// Abort discards pending downloads and waits for in-flight ones to finish.
func (p *Pool) Abort() error {
	p.Queue.Abort()
	return p.Wait()
}

// Wait blocks until every worker has exited. Downloads an abort discarded
// are retracted from the tally.
func (p *Pool) Wait() error {
	p.wg.Wait()
	if p.stop != nil {
		p.stop()
	}
	p.retract.Do(func() {
		p.Downloader.Discard(p.Queue.Dropped())
	})
	return p.Err()
}

// Err returns the first fatal error hit by a worker.
func (p *Pool) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Pool) work(ctx context.Context) {
	for {
		url, ok := p.Queue.Pop()
		if !ok {
			return
		}
		if p.Observer != nil {
			p.Observer.QueueDepth(p.Queue.Len())
		}

		_, err := p.Executor.Execute(ctx, p.Downloader.Action(url))
		if err != nil {
			p.Downloader.Discard(1)
			if !errors.Is(err, context.Canceled) {
				p.fail(err)
			}
			p.Queue.Abort()
			return
		}
		if p.Queue.Aborted() {
			return
		}
	}
}

func (p *Pool) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err == nil {
		p.err = err
	}
}
