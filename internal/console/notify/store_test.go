package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorePutRejectsDuplicateID(t *testing.T) {
	store := NewMemoryTaskStore()
	task := &EmailTask{ID: "t-1", Status: TaskStatusPending}
	require.NoError(t, store.Put(task))
	assert.ErrorIs(t, store.Put(&EmailTask{ID: "t-1"}), ErrDuplicateTask)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryTaskStore()
	require.NoError(t, store.Put(&EmailTask{ID: "t-1", Status: TaskStatusPending}))

	got, ok := store.Get("t-1")
	require.True(t, ok)
	got.Status = TaskStatusFailed

	again, _ := store.Get("t-1")
	assert.Equal(t, TaskStatusPending, again.Status, "mutating a returned task must not affect the store")
}

func TestMemoryStoreClaim(t *testing.T) {
	now := time.Now()
	store := NewMemoryTaskStore()
	require.NoError(t, store.Put(&EmailTask{ID: "t-1", Status: TaskStatusPending}))

	assert.True(t, store.Claim("t-1", now))
	assert.False(t, store.Claim("t-1", now), "claimed task must not be claimable again")
	assert.False(t, store.Claim("missing", now))

	got, _ := store.Get("t-1")
	assert.Equal(t, TaskStatusProcessing, got.Status)
}

func TestMemoryStoreClaimRespectsRetryDeadline(t *testing.T) {
	now := time.Now()
	store := NewMemoryTaskStore()
	require.NoError(t, store.Put(&EmailTask{
		ID:          "t-1",
		Status:      TaskStatusPending,
		NextRetryAt: now.Add(time.Minute),
	}))

	assert.False(t, store.Claim("t-1", now), "not yet due")
	assert.True(t, store.Claim("t-1", now.Add(2*time.Minute)))
}

func TestMemoryStoreClaimIsExclusive(t *testing.T) {
	store := NewMemoryTaskStore()
	require.NoError(t, store.Put(&EmailTask{ID: "t-1", Status: TaskStatusPending}))

	const racers = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.Claim("t-1", time.Now()) {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	assert.Equal(t, 1, count, "exactly one concurrent claim must win")
}

func TestMemoryStoreListOrderAndRemove(t *testing.T) {
	store := NewMemoryTaskStore()
	for _, tid := range []string{"a", "b", "c"} {
		require.NoError(t, store.Put(&EmailTask{ID: tid, Status: TaskStatusPending}))
	}

	list := store.List()
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "c", list[2].ID)

	assert.True(t, store.Remove("b"))
	assert.False(t, store.Remove("b"))

	list = store.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "c", list[1].ID)
}

func TestMemoryStoreUpdate(t *testing.T) {
	store := NewMemoryTaskStore()
	require.NoError(t, store.Put(&EmailTask{ID: "t-1", Status: TaskStatusProcessing}))

	ok := store.Update("t-1", func(task *EmailTask) {
		task.Retries++
		task.Status = TaskStatusPending
	})
	require.True(t, ok)

	got, _ := store.Get("t-1")
	assert.Equal(t, 1, got.Retries)
	assert.Equal(t, TaskStatusPending, got.Status)

	assert.False(t, store.Update("missing", func(*EmailTask) {}))
}

func TestTaskReady(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name string
		task EmailTask
		want bool
	}{
		{"pending without deadline", EmailTask{Status: TaskStatusPending}, true},
		{"pending past deadline", EmailTask{Status: TaskStatusPending, NextRetryAt: now.Add(-time.Second)}, true},
		{"pending before deadline", EmailTask{Status: TaskStatusPending, NextRetryAt: now.Add(time.Hour)}, false},
		{"processing", EmailTask{Status: TaskStatusProcessing}, false},
		{"failed", EmailTask{Status: TaskStatusFailed}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.task.Ready(now))
		})
	}
}
