package reminder

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Task is a unit of work run by the pool.
type Task func(ctx context.Context) error

// WorkerPool runs submitted tasks on a fixed number of goroutines.
type WorkerPool struct {
	workerCount int
	taskQueue   chan Task
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	closed      bool
	closeMux    sync.Mutex
	logger      *zap.Logger
}

func NewWorkerPool(workerCount int, logger *zap.Logger) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		workerCount: workerCount,
		taskQueue:   make(chan Task, workerCount*2),
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
}

func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
	wp.logger.Info("reminder workers started", zap.Int("workers", wp.workerCount))
}

// Submit queues a task. It returns false once the pool is shutting down.
func (wp *WorkerPool) Submit(task Task) bool {
	wp.closeMux.Lock()
	closed := wp.closed
	wp.closeMux.Unlock()
	if closed {
		return false
	}

	select {
	case wp.taskQueue <- task:
		return true
	case <-wp.ctx.Done():
		wp.logger.Debug("pool is shutting down, task rejected")
		return false
	}
}

// Wait closes the queue and blocks until queued tasks are done.
func (wp *WorkerPool) Wait() {
	wp.closeMux.Lock()
	if !wp.closed {
		close(wp.taskQueue)
		wp.closed = true
	}
	wp.closeMux.Unlock()

	wp.wg.Wait()
}

// Shutdown cancels running tasks and waits for the workers to exit.
func (wp *WorkerPool) Shutdown() {
	wp.logger.Info("reminder workers shutting down")
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
				wp.logger.Warn("task failed", zap.Int("worker", id), zap.Error(err))
			}
		case <-wp.ctx.Done():
			return
		}
	}
}
