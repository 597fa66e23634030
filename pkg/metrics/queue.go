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

// Package metrics exposes prometheus instrumentation for the notification
// queue.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// QueueMetrics holds the notification queue counters and gauges.
type QueueMetrics struct {
	Enqueued     prometheus.Counter
	Delivered    prometheus.Counter
	Retried      prometheus.Counter
	DeadLettered prometheus.Counter
	Depth        prometheus.Gauge
}

// NewQueueMetrics creates queue metrics and registers them on reg.
// A nil registerer leaves the collectors unregistered, which is convenient
// in tests.
func NewQueueMetrics(reg prometheus.Registerer) *QueueMetrics {
	m := &QueueMetrics{
		Enqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "argus",
			Subsystem: "notify",
			Name:      "tasks_enqueued_total",
			Help:      "Total number of email tasks enqueued.",
		}),
		Delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "argus",
			Subsystem: "notify",
			Name:      "tasks_delivered_total",
			Help:      "Total number of email tasks delivered successfully.",
		}),
		Retried: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "argus",
			Subsystem: "notify",
			Name:      "tasks_retried_total",
			Help:      "Total number of email delivery retries scheduled.",
		}),
		DeadLettered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "argus",
			Subsystem: "notify",
			Name:      "tasks_dead_lettered_total",
			Help:      "Total number of email tasks dropped after exhausting retries.",
		}),
		Depth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "argus",
			Subsystem: "notify",
			Name:      "queue_depth",
			Help:      "Current number of tasks held by the queue.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Enqueued, m.Delivered, m.Retried, m.DeadLettered, m.Depth)
	}
	return m
}
