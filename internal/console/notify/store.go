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
	"errors"
	"sync"
	"time"
)

// ErrDuplicateTask is returned when a task id is already present in the
// store. Ids are never reused.
var ErrDuplicateTask = errors.New("task id already exists")

// TaskStore holds email tasks for the queue. Implementations must be safe
// for concurrent use from the enqueue path, the scan loop and the
// delivery-completion callbacks. The in-memory implementation below is the
// default; a durable store can replace it without touching the loop.
type TaskStore interface {
	// Put stores a new task. Fails with ErrDuplicateTask on id collision.
	Put(task *EmailTask) error

	// Get returns a copy of the task with the given id.
	Get(id string) (*EmailTask, bool)

	// Claim atomically transitions a task from pending to processing when
	// the task is ready at the given time. Returns false when the task is
	// absent, not pending, or not yet due. This is the exclusivity guard:
	// only one scan can win a given task.
	Claim(id string, now time.Time) bool

	// Update applies fn to the stored task under the store lock.
	// Returns false when the task is absent.
	Update(id string, fn func(*EmailTask)) bool

	// Remove deletes a task. Returns false when the task is absent.
	Remove(id string) bool

	// List returns copies of all tasks in insertion order.
	List() []*EmailTask

	// Len returns the number of stored tasks.
	Len() int
}

// MemoryTaskStore is a mutex-guarded in-memory TaskStore. Tasks queued at
// the time of a process crash are lost; that limitation is accepted.
type MemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*EmailTask
	order []string
}

var _ TaskStore = (*MemoryTaskStore)(nil)

// NewMemoryTaskStore creates an empty in-memory task store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		tasks: make(map[string]*EmailTask),
	}
}

func (s *MemoryTaskStore) Put(task *EmailTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[task.ID]; exists {
		return ErrDuplicateTask
	}
	clone := *task
	s.tasks[task.ID] = &clone
	s.order = append(s.order, task.ID)
	return nil
}

func (s *MemoryTaskStore) Get(id string) (*EmailTask, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, false
	}
	clone := *task
	return &clone, true
}

func (s *MemoryTaskStore) Claim(id string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok || !task.Ready(now) {
		return false
	}
	task.Status = TaskStatusProcessing
	return true
}

func (s *MemoryTaskStore) Update(id string, fn func(*EmailTask)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return false
	}
	fn(task)
	return true
}

func (s *MemoryTaskStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *MemoryTaskStore) List() []*EmailTask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*EmailTask, 0, len(s.order))
	for _, tid := range s.order {
		if task, ok := s.tasks[tid]; ok {
			clone := *task
			out = append(out, &clone)
		}
	}
	return out
}

func (s *MemoryTaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}
