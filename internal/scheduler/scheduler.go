// Package scheduler runs a fixed-size worker pool draining a bounded
// task queue, dispatching each task ID to a Runner. Unlike a
// database-backed job queue, the scheduler never rescans for pending
// work: a task only ever enters the queue once, via Submit.
package scheduler

import (
	"context"
	"sync"

	"storysynth/internal/apierr"
	"storysynth/pkg/logger"
)

// Runner executes one task end to end. Implemented by the pipeline.
type Runner interface {
	Run(ctx context.Context, taskID string) error
}

// Scheduler owns a fixed pool of workers draining a bounded channel.
type Scheduler struct {
	queue   chan string
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	runner  Runner
	workers int

	runningMu sync.RWMutex
	running   map[string]context.CancelFunc
}

// New builds a Scheduler with workers fixed-size goroutines draining a
// channel of capacity queueSize.
func New(workers, queueSize int, runner Runner) *Scheduler {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		queue:   make(chan string, queueSize),
		ctx:     ctx,
		cancel:  cancel,
		runner:  runner,
		workers: workers,
		running: make(map[string]context.CancelFunc),
	}
}

// Start launches the fixed worker pool.
func (s *Scheduler) Start() {
	logger.Info("Starting scheduler", "workers", s.workers, "queue_capacity", cap(s.queue))
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

// Stop cancels every in-flight task and waits for all workers to exit.
// It does not close the queue: a concurrent Submit racing with Stop
// must never send on a closed channel, so worker exit is driven purely
// by ctx cancellation.
func (s *Scheduler) Stop() {
	logger.Info("Stopping scheduler")
	s.cancel()
	s.wg.Wait()
	logger.Info("Scheduler stopped")
}

// Submit enqueues taskID for processing, returning apierr.QueueFull if
// the bounded queue has no room and apierr.Internal if the scheduler is
// shutting down. The ctx.Done() case is checked first so a Stop racing
// with Submit is reported as shutting-down rather than queued work that
// will never be picked up.
func (s *Scheduler) Submit(taskID string) error {
	select {
	case <-s.ctx.Done():
		return apierr.New(apierr.Internal, "scheduler is shutting down")
	default:
	}

	select {
	case s.queue <- taskID:
		return nil
	case <-s.ctx.Done():
		return apierr.New(apierr.Internal, "scheduler is shutting down")
	default:
		return apierr.New(apierr.QueueFull, "task queue is full, try again later")
	}
}

// IsRunning reports whether taskID is currently being processed by a
// worker.
func (s *Scheduler) IsRunning(taskID string) bool {
	s.runningMu.RLock()
	defer s.runningMu.RUnlock()
	_, ok := s.running[taskID]
	return ok
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()
	logger.Info("Scheduler worker started", "worker_id", id)

	for {
		select {
		case taskID, ok := <-s.queue:
			if !ok {
				logger.Info("Scheduler worker stopped", "worker_id", id)
				return
			}
			s.process(id, taskID)
		case <-s.ctx.Done():
			logger.Info("Scheduler worker stopped", "worker_id", id)
			return
		}
	}
}

func (s *Scheduler) process(workerID int, taskID string) {
	logger.WorkerOperation(workerID, taskID, "start")

	taskCtx, taskCancel := context.WithCancel(s.ctx)
	defer taskCancel()

	s.runningMu.Lock()
	s.running[taskID] = taskCancel
	s.runningMu.Unlock()
	defer func() {
		s.runningMu.Lock()
		delete(s.running, taskID)
		s.runningMu.Unlock()
	}()

	if err := s.runner.Run(taskCtx, taskID); err != nil {
		logger.WorkerOperation(workerID, taskID, "failed", "error", err.Error())
		return
	}
	logger.WorkerOperation(workerID, taskID, "completed")
}
