package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler re-runs both harvesters on a fixed interval in serve mode.
// Tasks execute on a single worker, one at a time: the pacing contract is
// per external API, and sequential execution keeps it trivially true.
type Scheduler struct {
	newTasks func() []TaskInterface
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	queue    chan TaskInterface
}

// NewScheduler builds a scheduler. newTasks is called each tick to build
// fresh task instances (tasks are single-run and keep their own summary).
func NewScheduler(interval time.Duration, newTasks func() []TaskInterface) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		newTasks: newTasks,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		queue:    make(chan TaskInterface, 16),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.worker()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueAll()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueAll()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.queue)
}

func (s *Scheduler) enqueueAll() {
	for _, task := range s.newTasks() {
		select {
		case s.queue <- task:
		case <-s.ctx.Done():
			return
		default:
			slog.Warn("Task queue full, dropping run", "type", string(task.GetType()))
		}
	}
}

func (s *Scheduler) worker() {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.queue:
			if !ok {
				return
			}
			s.execute(task)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) execute(task TaskInterface) {
	taskCtx, cancel := context.WithTimeout(s.ctx, 15*time.Minute)
	defer cancel()

	if err := task.Execute(taskCtx); err != nil {
		// Scheduled runs never abort the process; the next tick retries.
		slog.Error("Scheduled task failed", "type", string(task.GetType()),
			"id", task.GetID(), "error", err)
	}
}
