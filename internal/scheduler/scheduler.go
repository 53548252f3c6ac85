package scheduler

import (
	"errors"
	"sync"
	"time"

	"github.com/tliron/commonlog"
)

var ErrStopped = errors.New("scheduler: stopped")

type Task struct {
	Name    string
	Execute func() error
}

// Scheduler runs tasks one at a time on a single worker. Periodic tasks
// are dropped for a tick when the queue is full.
type Scheduler struct {
	mu        sync.Mutex
	taskQueue chan Task
	stopChan  chan struct{}
	stopped   bool
	wg        sync.WaitGroup
	workerWg  sync.WaitGroup
	log       commonlog.Logger
}

// New creates a Scheduler with the specified queue size.
func New(queueSize int) *Scheduler {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Scheduler{
		taskQueue: make(chan Task, queueSize),
		stopChan:  make(chan struct{}),
		log:       commonlog.GetLogger("docnav.scheduler"),
	}
}

// Run starts the worker loop.
func (s *Scheduler) Run() {
	s.workerWg.Add(1)
	go func() {
		defer s.workerWg.Done()
		for {
			select {
			case task := <-s.taskQueue:
				s.execute(task)
			case <-s.stopChan:
				for {
					select {
					case task := <-s.taskQueue:
						s.execute(task)
					default:
						return
					}
				}
			}
		}
	}()
}

func (s *Scheduler) execute(task Task) {
	defer s.wg.Done()
	s.log.Debugf("executing %s", task.Name)
	if err := task.Execute(); err != nil {
		s.log.Warningf("task %s failed: %v", task.Name, err)
	}
}

// Every enqueues task each interval until Stop.
func (s *Scheduler) Every(interval time.Duration, task Task) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if !s.offer(task) {
					s.log.Debugf("skipped scheduling %s", task.Name)
				}
			case <-s.stopChan:
				return
			}
		}
	}()
}

func (s *Scheduler) offer(task Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.wg.Add(1)
	select {
	case s.taskQueue <- task:
		return true
	default:
		s.wg.Done()
		return false
	}
}

// Submit enqueues task, blocking while the queue is full.
func (s *Scheduler) Submit(task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrStopped
	}
	s.wg.Add(1)
	s.taskQueue <- task
	return nil
}

// Stop runs the tasks already queued, then stops the worker. It is safe
// to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.stopChan)
	s.mu.Unlock()

	s.workerWg.Wait()
	s.wg.Wait()
}
