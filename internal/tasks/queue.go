// Package tasks runs fire-and-forget work (emails, visit inserts) off the
// request path on a fixed pool of workers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/diagnosis/syllatech-api/pkg/logger"
)

var (
	ErrQueueFull   = errors.New("task queue full")
	ErrQueueClosed = errors.New("task queue closed")
)

type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Func is the unit of work. The context is detached from the request that
// enqueued it and carries the task ID for logging.
type Func func(ctx context.Context) error

type task struct {
	id   string
	name string
	fn   Func
}

// Stats is a snapshot of queue counters.
type Stats struct {
	Pending   int64 `json:"pending"`
	Running   int64 `json:"running"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
	Workers   int   `json:"workers"`
	Capacity  int   `json:"capacity"`
}

type Queue struct {
	ch      chan task
	workers int
	timeout time.Duration

	mu     sync.RWMutex
	closed bool

	pending   atomic.Int64
	running   atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64

	group *errgroup.Group
	done  chan struct{}
}

type Options struct {
	Workers int
	Size    int
	// TaskTimeout bounds a single task; zero means one minute.
	TaskTimeout time.Duration
}

// New starts the workers immediately.
func New(opts Options) *Queue {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Size <= 0 {
		opts.Size = 64
	}
	if opts.TaskTimeout <= 0 {
		opts.TaskTimeout = time.Minute
	}

	q := &Queue{
		ch:      make(chan task, opts.Size),
		workers: opts.Workers,
		timeout: opts.TaskTimeout,
		group:   new(errgroup.Group),
		done:    make(chan struct{}),
	}
	for i := 0; i < opts.Workers; i++ {
		q.group.Go(func() error {
			for t := range q.ch {
				q.run(t)
			}
			return nil
		})
	}
	go func() {
		_ = q.group.Wait()
		close(q.done)
	}()
	return q
}

// Enqueue schedules fn and returns its ID without blocking.
func (q *Queue) Enqueue(name string, fn Func) (string, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return "", ErrQueueClosed
	}

	t := task{id: uuid.NewString(), name: name, fn: fn}
	q.pending.Add(1)
	select {
	case q.ch <- t:
		logger.Debug("task queued", "task_id", t.id, "task", name)
		return t.id, nil
	default:
		q.pending.Add(-1)
		return "", ErrQueueFull
	}
}

func (q *Queue) run(t task) {
	q.pending.Add(-1)
	q.running.Add(1)
	defer q.running.Add(-1)

	ctx := context.WithValue(context.Background(), logger.TaskIDKey, t.id)
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	start := time.Now()
	err := safeCall(ctx, t.fn)
	if err != nil {
		q.failed.Add(1)
		logger.ErrorContext(ctx, "task failed", "task", t.name, "state", StateFailed,
			"duration", time.Since(start), "error", err)
		return
	}
	q.succeeded.Add(1)
	logger.DebugContext(ctx, "task finished", "task", t.name, "state", StateSucceeded,
		"duration", time.Since(start))
}

func safeCall(ctx context.Context, fn Func) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}

func (q *Queue) Stats() Stats {
	return Stats{
		Pending:   q.pending.Load(),
		Running:   q.running.Load(),
		Succeeded: q.succeeded.Load(),
		Failed:    q.failed.Load(),
		Workers:   q.workers,
		Capacity:  cap(q.ch),
	}
}

// Shutdown stops intake and waits for queued tasks to drain. Tasks still
// queued when ctx expires are abandoned.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		logger.Warn("task queue shutdown timed out", "pending", q.pending.Load(), "running", q.running.Load())
		return ctx.Err()
	}
}

// Every enqueues fn as name right away and then once per interval until ctx
// is done. A tick that finds the queue full is skipped.
func (q *Queue) Every(ctx context.Context, name string, interval time.Duration, fn Func) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			if _, err := q.Enqueue(name, fn); err != nil {
				if errors.Is(err, ErrQueueClosed) {
					return
				}
				logger.Warn("periodic task skipped", "task", name, "error", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Pool groups queues that are reported and shut down together.
type Pool []*Queue

func (p Pool) Stats() Stats {
	var s Stats
	for _, q := range p {
		qs := q.Stats()
		s.Pending += qs.Pending
		s.Running += qs.Running
		s.Succeeded += qs.Succeeded
		s.Failed += qs.Failed
		s.Workers += qs.Workers
		s.Capacity += qs.Capacity
	}
	return s
}

// Shutdown drains every queue concurrently.
func (p Pool) Shutdown(ctx context.Context) error {
	var g errgroup.Group
	for _, q := range p {
		q := q
		g.Go(func() error { return q.Shutdown(ctx) })
	}
	return g.Wait()
}
