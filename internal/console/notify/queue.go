// Copyright 2025 Argus Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package notify

import (
	"context"
	"sync"
	"time"

	"github.com/argus-sec/argus/internal/console/core"
	"github.com/argus-sec/argus/pkg/id"
	"github.com/argus-sec/argus/pkg/log"
	"github.com/argus-sec/argus/pkg/metrics"
	"github.com/argus-sec/argus/pkg/retry"
	"github.com/argus-sec/argus/pkg/safe"
)

// QueueConfig holds the fixed queue settings, injected at construction.
type QueueConfig struct {
	TickInterval time.Duration
	RetryDelay   time.Duration
	MaxRetries   int
}

// SetDefaults fills zero values with the standard settings: one-second
// ticks, thirty-second retry delay and three retries.
func (c QueueConfig) SetDefaults() QueueConfig {
	if c.TickInterval <= 0 {
		c.TickInterval = time.Second
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 30 * time.Second
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	return c
}

// DeadLetterFunc is invoked when a task is dropped after exhausting its
// retry budget.
type DeadLetterFunc func(task EmailTask, err error)

// Enqueuer is the producer-side view of the queue, consumed by the
// provisioning orchestrator.
type Enqueuer interface {
	Enqueue(opts EmailOptions) (string, error)
}

// EmailQueue is a durable, retrying, at-least-once email delivery queue.
// A background loop claims ready tasks each tick and dispatches them
// concurrently; delivery failures are rescheduled with a backoff delay
// until the retry budget is spent, then dead-lettered.
type EmailQueue struct {
	cfg        QueueConfig
	store      TaskStore
	mailer     Mailer
	backoff    retry.Backoff
	qm         *metrics.QueueMetrics
	deadLetter DeadLetterFunc

	mu         sync.Mutex
	running    bool
	stopCh     chan struct{}
	loopWG     sync.WaitGroup
	dispatchWG sync.WaitGroup
}

var _ Enqueuer = (*EmailQueue)(nil)

// QueueOption configures optional queue collaborators.
type QueueOption func(*EmailQueue)

// WithBackoff replaces the fixed retry-delay strategy.
func WithBackoff(b retry.Backoff) QueueOption {
	return func(q *EmailQueue) {
		if b != nil {
			q.backoff = b
		}
	}
}

// WithMetrics attaches prometheus queue metrics.
func WithMetrics(m *metrics.QueueMetrics) QueueOption {
	return func(q *EmailQueue) { q.qm = m }
}

// WithDeadLetter attaches a dead-letter callback invoked after the
// dead-letter log entry.
func WithDeadLetter(fn DeadLetterFunc) QueueOption {
	return func(q *EmailQueue) { q.deadLetter = fn }
}

// NewEmailQueue creates a stopped queue over the given store and mailer.
func NewEmailQueue(cfg QueueConfig, store TaskStore, mailer Mailer, opts ...QueueOption) *EmailQueue {
	cfg = cfg.SetDefaults()
	q := &EmailQueue{
		cfg:     cfg,
		store:   store,
		mailer:  mailer,
		backoff: retry.Fixed(cfg.RetryDelay),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue stores a new pending task and returns its id. It never blocks on
// delivery and is safe for concurrent use.
func (q *EmailQueue) Enqueue(opts EmailOptions) (string, error) {
	task := &EmailTask{
		ID:        id.ULID(),
		Options:   opts,
		Status:    TaskStatusPending,
		CreatedAt: time.Now(),
	}
	if err := q.store.Put(task); err != nil {
		return "", &core.DependencyError{Op: "notify.Enqueue", Err: err}
	}
	if q.qm != nil {
		q.qm.Enqueued.Inc()
		q.qm.Depth.Set(float64(q.store.Len()))
	}
	log.Debugw("email task enqueued", "taskId", task.ID, "to", opts.To, "template", opts.Template)
	return task.ID, nil
}

// Start launches the background processing loop. Calling Start on a
// running queue is a no-op.
func (q *EmailQueue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return
	}
	q.running = true
	q.stopCh = make(chan struct{})
	stop := q.stopCh
	q.loopWG.Add(1)
	safe.Go(func() {
		defer q.loopWG.Done()
		q.loop(stop)
	})
	log.Infow("notification queue started", "tickInterval", q.cfg.TickInterval, "maxRetries", q.cfg.MaxRetries)
}

// Stop halts the loop and waits for in-flight deliveries to finish.
// Calling Stop on a stopped queue is a no-op.
func (q *EmailQueue) Stop() {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}
	q.running = false
	close(q.stopCh)
	q.mu.Unlock()

	q.loopWG.Wait()
	q.dispatchWG.Wait()
	log.Info("notification queue stopped")
}

// Len returns the number of tasks currently held by the queue.
func (q *EmailQueue) Len() int {
	return q.store.Len()
}

// Stats returns the task counts per status.
func (q *EmailQueue) Stats() map[TaskStatus]int {
	stats := make(map[TaskStatus]int, 3)
	for _, task := range q.store.List() {
		stats[task.Status]++
	}
	return stats
}

func (q *EmailQueue) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(q.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			q.tick(time.Now())
		}
	}
}

// tick claims every ready task and dispatches each on its own goroutine.
// Claim is the pending-to-processing CAS, so a slow tick overlapping the
// next one can never double-dispatch a task.
func (q *EmailQueue) tick(now time.Time) {
	for _, task := range q.store.List() {
		if !task.Ready(now) {
			continue
		}
		if !q.store.Claim(task.ID, now) {
			continue
		}
		taskID := task.ID
		q.dispatchWG.Add(1)
		safe.Go(func() {
			defer q.dispatchWG.Done()
			q.deliver(taskID)
		})
	}
}

func (q *EmailQueue) deliver(taskID string) {
	task, ok := q.store.Get(taskID)
	if !ok {
		return
	}

	err := q.mailer.Send(context.Background(), task.Options)
	if err == nil {
		q.store.Remove(taskID)
		if q.qm != nil {
			q.qm.Delivered.Inc()
			q.qm.Depth.Set(float64(q.store.Len()))
		}
		log.Debugw("email delivered", "taskId", taskID, "to", task.Options.To)
		return
	}

	if task.Retries < q.cfg.MaxRetries {
		delay := q.backoff.Next(task.Retries)
		q.store.Update(taskID, func(t *EmailTask) {
			t.Retries++
			t.Status = TaskStatusPending
			t.NextRetryAt = time.Now().Add(delay)
		})
		if q.qm != nil {
			q.qm.Retried.Inc()
		}
		log.Warnw("email delivery failed, rescheduled",
			"taskId", taskID,
			"to", task.Options.To,
			"retries", task.Retries+1,
			"retryIn", delay,
			"error", err,
		)
		return
	}

	// Retry budget spent: dead-letter and drop.
	q.store.Update(taskID, func(t *EmailTask) {
		t.Status = TaskStatusFailed
	})
	log.Errorw("email task dead-lettered",
		"taskId", taskID,
		"to", task.Options.To,
		"subject", task.Options.Subject,
		"template", task.Options.Template,
		"retries", task.Retries,
		"error", err,
	)
	if q.deadLetter != nil {
		failed := *task
		failed.Status = TaskStatusFailed
		q.deadLetter(failed, err)
	}
	q.store.Remove(taskID)
	if q.qm != nil {
		q.qm.DeadLettered.Inc()
		q.qm.Depth.Set(float64(q.store.Len()))
	}
}
