// Package parallel runs independent solve tasks on a bounded set of goroutines.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// ErrPoolShutdown is returned when submitting to a pool that has been shut down.
var ErrPoolShutdown = errors.New("worker pool has been shutdown")

// WorkerPool executes submitted tasks on at most maxWorkers goroutines. Submit blocks
// while the queue is full.
type WorkerPool struct {
	maxWorkers int
	taskChan   chan func()
	workerWg   sync.WaitGroup
	mu         sync.RWMutex
	closed     bool
	once       sync.Once
}

// NewWorkerPool starts maxWorkers workers, defaulting to the number of CPUs.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	pool := &WorkerPool{
		maxWorkers: maxWorkers,
		taskChan:   make(chan func(), maxWorkers*2), // Buffered channel for backpressure
	}
	for range maxWorkers {
		pool.workerWg.Add(1)
		go pool.worker()
	}
	return pool
}

func (wp *WorkerPool) Size() int {
	return wp.maxWorkers
}

func (wp *WorkerPool) worker() {
	defer wp.workerWg.Done()
	for task := range wp.taskChan {
		task()
	}
}

// Submit queues task, or fails when ctx is done or the pool is shut down.
func (wp *WorkerPool) Submit(ctx context.Context, task func()) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return ErrPoolShutdown
	}
	select {
	case wp.taskChan <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting tasks and waits for queued and running ones to finish.
func (wp *WorkerPool) Shutdown() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskChan)
		wp.mu.Unlock()
		wp.workerWg.Wait()
	})
}
