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

// Package notify implements the asynchronous email notification queue: a
// task store scanned by a tick loop that dispatches ready tasks
// concurrently, retries failures with a configurable delay and dead-letters
// tasks once the retry budget is exhausted.
package notify

import "time"

// TaskStatus is the lifecycle state of an email task. Delivered tasks are
// removed outright; there is no terminal "sent" record.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusFailed     TaskStatus = "failed"
)

// Template identifiers understood by the mailer.
const (
	TemplateAdminSignupNotice = "signup-admin-notice"
	TemplateVerifyEmail       = "signup-verify-email"
	TemplateStatusUpdate      = "user-status-update"
)

// EmailOptions is the payload of one email-send task.
type EmailOptions struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data,omitempty"`
}

// EmailTask is one queued email. NextRetryAt stays zero until the first
// delivery failure.
type EmailTask struct {
	ID          string       `json:"id"`
	Options     EmailOptions `json:"options"`
	Retries     int          `json:"retries"`
	Status      TaskStatus   `json:"status"`
	NextRetryAt time.Time    `json:"nextRetryAt,omitzero"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Ready reports whether the task is eligible for dispatch at the given
// time: pending, and either never failed or past its retry deadline.
func (t *EmailTask) Ready(now time.Time) bool {
	if t.Status != TaskStatusPending {
		return false
	}
	return t.NextRetryAt.IsZero() || !t.NextRetryAt.After(now)
}
