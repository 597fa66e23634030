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

package shutdown

import (
	"sync/atomic"
)

// Manager manages graceful shutdown state for the process.
type Manager struct {
	shuttingDown atomic.Bool
	shutdownChan chan struct{}
}

// NewManager creates a new shutdown manager.
func NewManager() *Manager {
	return &Manager{
		shutdownChan: make(chan struct{}),
	}
}

// Shutdown triggers graceful shutdown. Returns true if this call triggered
// it, false if shutdown was already in progress.
func (m *Manager) Shutdown() bool {
	if !m.shuttingDown.CompareAndSwap(false, true) {
		return false
	}
	close(m.shutdownChan)
	return true
}

// Wait returns a channel closed once shutdown is triggered.
func (m *Manager) Wait() <-chan struct{} {
	return m.shutdownChan
}
