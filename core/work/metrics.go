// Copyright 2025 lion-agi, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package work

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	inProgressGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lionagi",
			Subsystem: "work",
			Name:      "in_progress",
			Help:      "The number of work items currently running.",
		})
	completedWorkCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lionagi",
			Subsystem: "work",
			Name:      "completed_total",
			Help:      "The total number of work items that completed.",
		})
	failedWorkCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lionagi",
			Subsystem: "work",
			Name:      "failed_total",
			Help:      "The total number of work items that failed.",
		})
	batchSizeHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "lionagi",
			Subsystem: "work",
			Name:      "batch_size",
			Help:      "The number of work items picked into one batch.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		})
)

// InitMetrics registers all metrics in this file
func InitMetrics(registry *prometheus.Registry) {
	registry.MustRegister(inProgressGauge)
	registry.MustRegister(completedWorkCounter)
	registry.MustRegister(failedWorkCounter)
	registry.MustRegister(batchSizeHistogram)
}
