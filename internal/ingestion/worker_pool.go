package ingestion

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Task is one unit of sync work.
type Task func(ctx context.Context) error

// WorkerPool runs sync tasks concurrently. Task errors are logged and
// swallowed: one failed media item must not stop the rest of a sync pass.
type WorkerPool struct {
	workerCount int
	taskQueue   chan Task
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	closed      bool
	closeMux    sync.Mutex
}

// NewWorkerPool creates a pool with the given number of workers.
func NewWorkerPool(ctx context.Context, workerCount int) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	return &WorkerPool{
		workerCount: workerCount,
		taskQueue:   make(chan Task, workerCount*2),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
	log.Debug().Int("workers", wp.workerCount).Msg("worker pool started")
}

// Submit queues a task. Tasks submitted after shutdown are dropped.
func (wp *WorkerPool) Submit(task Task) {
	select {
	case wp.taskQueue <- task:
	case <-wp.ctx.Done():
		log.Warn().Msg("worker pool shutting down, task rejected")
	}
}

// Wait closes the queue and blocks until all queued tasks finish.
func (wp *WorkerPool) Wait() {
	wp.closeMux.Lock()
	if !wp.closed {
		close(wp.taskQueue)
		wp.closed = true
	}
	wp.closeMux.Unlock()

	wp.wg.Wait()
}

// Shutdown cancels in-flight tasks and waits for the workers to exit.
func (wp *WorkerPool) Shutdown() {
	wp.cancel()
	wp.Wait()
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case task, ok := <-wp.taskQueue:
			if !ok {
				return
			}
			if err := task(wp.ctx); err != nil {
				log.Warn().Err(err).Int("worker", id).Msg("sync task failed")
			}
		case <-wp.ctx.Done():
			return
		}
	}
}
