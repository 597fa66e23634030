package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMailer records every send attempt and fails the first failFirst
// attempts per recipient.
type fakeMailer struct {
	mu        sync.Mutex
	failFirst map[string]int
	calls     map[string][]time.Time
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{
		failFirst: make(map[string]int),
		calls:     make(map[string][]time.Time),
	}
}

func (m *fakeMailer) Send(_ context.Context, opts EmailOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[opts.To] = append(m.calls[opts.To], time.Now())
	if m.failFirst[opts.To] > 0 {
		m.failFirst[opts.To]--
		return errors.New("smtp unavailable")
	}
	return nil
}

func (m *fakeMailer) sendCount(to string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls[to])
}

func (m *fakeMailer) sendTimes(to string) []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Time, len(m.calls[to]))
	copy(out, m.calls[to])
	return out
}

func newTestQueue(mailer Mailer, opts ...QueueOption) *EmailQueue {
	cfg := QueueConfig{
		TickInterval: 2 * time.Millisecond,
		RetryDelay:   20 * time.Millisecond,
		MaxRetries:   3,
	}
	return NewEmailQueue(cfg, NewMemoryTaskStore(), mailer, opts...)
}

func TestEnqueueAssignsUniqueIDs(t *testing.T) {
	q := newTestQueue(newFakeMailer())
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		tid, err := q.Enqueue(EmailOptions{To: "a@b", Template: TemplateVerifyEmail})
		require.NoError(t, err)
		if _, dup := seen[tid]; dup {
			t.Fatalf("duplicate task id %s", tid)
		}
		seen[tid] = struct{}{}
	}
	assert.Equal(t, 50, q.Len())
}

func TestQueueDrainsOnSuccess(t *testing.T) {
	mailer := newFakeMailer()
	q := newTestQueue(mailer)

	const n = 10
	for i := 0; i < n; i++ {
		_, err := q.Enqueue(EmailOptions{
			To:       fmt.Sprintf("user%d@example.com", i),
			Template: TemplateVerifyEmail,
		})
		require.NoError(t, err)
	}

	q.Start()
	defer q.Stop()

	require.Eventually(t, func() bool { return q.Len() == 0 },
		time.Second, time.Millisecond, "queue should drain to empty")

	for i := 0; i < n; i++ {
		to := fmt.Sprintf("user%d@example.com", i)
		assert.Equal(t, 1, mailer.sendCount(to), "each task delivered exactly once")
	}
}

func TestQueueRetriesThenSucceeds(t *testing.T) {
	mailer := newFakeMailer()
	mailer.failFirst["flaky@example.com"] = 2
	q := newTestQueue(mailer)

	_, err := q.Enqueue(EmailOptions{To: "flaky@example.com", Template: TemplateVerifyEmail})
	require.NoError(t, err)

	q.Start()
	defer q.Stop()

	require.Eventually(t, func() bool { return q.Len() == 0 },
		time.Second, time.Millisecond)
	assert.Equal(t, 3, mailer.sendCount("flaky@example.com"), "two failures plus one success")

	// the configured delay must be observed between attempts
	times := mailer.sendTimes("flaky@example.com")
	for i := 1; i < len(times); i++ {
		gap := times[i].Sub(times[i-1])
		assert.GreaterOrEqual(t, gap, 20*time.Millisecond,
			"attempt %d came %v after the previous failure", i+1, gap)
	}
}

func TestQueueDeadLettersAfterMaxRetries(t *testing.T) {
	mailer := newFakeMailer()
	mailer.failFirst["doomed@example.com"] = 100
	q := newTestQueue(mailer)

	var (
		dlMu   sync.Mutex
		dlTask *EmailTask
		dlErr  error
	)
	WithDeadLetter(func(task EmailTask, err error) {
		dlMu.Lock()
		defer dlMu.Unlock()
		dlTask = &task
		dlErr = err
	})(q)

	_, err := q.Enqueue(EmailOptions{To: "doomed@example.com", Subject: "x", Template: TemplateVerifyEmail})
	require.NoError(t, err)

	q.Start()
	defer q.Stop()

	require.Eventually(t, func() bool { return q.Len() == 0 },
		2*time.Second, time.Millisecond, "dead-lettered task must be removed")

	// initial attempt plus maxRetries rescheduled attempts
	assert.Equal(t, 4, mailer.sendCount("doomed@example.com"))

	dlMu.Lock()
	defer dlMu.Unlock()
	require.NotNil(t, dlTask, "dead-letter hook must fire")
	assert.Equal(t, TaskStatusFailed, dlTask.Status)
	assert.Equal(t, 3, dlTask.Retries)
	assert.Error(t, dlErr)

	// and it is never delivered again
	prev := mailer.sendCount("doomed@example.com")
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, prev, mailer.sendCount("doomed@example.com"))
}

func TestQueueMixedOutcomesSameTick(t *testing.T) {
	mailer := newFakeMailer()
	mailer.failFirst["a@example.com"] = 2
	q := newTestQueue(mailer)

	// both enqueued before the loop starts, so they share the first tick
	_, err := q.Enqueue(EmailOptions{To: "a@example.com", Template: TemplateVerifyEmail})
	require.NoError(t, err)
	_, err = q.Enqueue(EmailOptions{To: "b@example.com", Template: TemplateVerifyEmail})
	require.NoError(t, err)

	q.Start()
	defer q.Stop()

	require.Eventually(t, func() bool { return q.Len() == 0 },
		time.Second, time.Millisecond)

	assert.Equal(t, 3, mailer.sendCount("a@example.com"))
	assert.Equal(t, 1, mailer.sendCount("b@example.com"))

	times := mailer.sendTimes("a@example.com")
	for i := 1; i < len(times); i++ {
		assert.GreaterOrEqual(t, times[i].Sub(times[i-1]), 20*time.Millisecond)
	}
}

func TestStartStopIdempotent(t *testing.T) {
	q := newTestQueue(newFakeMailer())

	q.Stop() // stopping a stopped queue is a no-op
	q.Start()
	q.Start() // starting a running queue is a no-op
	q.Stop()
	q.Stop()

	// queue still restartable afterwards
	mailer := newFakeMailer()
	q = newTestQueue(mailer)
	q.Start()
	q.Stop()
	q.Start()
	_, err := q.Enqueue(EmailOptions{To: "c@example.com", Template: TemplateVerifyEmail})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return q.Len() == 0 },
		time.Second, time.Millisecond)
	q.Stop()
}

func TestEnqueueConcurrent(t *testing.T) {
	q := newTestQueue(newFakeMailer())
	const goroutines, perG = 8, 25

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				_, err := q.Enqueue(EmailOptions{
					To:       fmt.Sprintf("u%d-%d@example.com", g, i),
					Template: TemplateVerifyEmail,
				})
				assert.NoError(t, err)
			}
		}(g)
	}
	wg.Wait()
	assert.Equal(t, goroutines*perG, q.Len(), "no task lost or duplicated under concurrent enqueue")
}

func TestStats(t *testing.T) {
	q := newTestQueue(newFakeMailer())
	_, err := q.Enqueue(EmailOptions{To: "a@example.com", Template: TemplateVerifyEmail})
	require.NoError(t, err)
	_, err = q.Enqueue(EmailOptions{To: "b@example.com", Template: TemplateVerifyEmail})
	require.NoError(t, err)

	stats := q.Stats()
	assert.Equal(t, 2, stats[TaskStatusPending])
	assert.Equal(t, 0, stats[TaskStatusProcessing])
}
