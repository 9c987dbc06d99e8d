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

package executor

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	handledMailCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lionagi",
			Subsystem: "executor",
			Name:      "handled_mail_total",
			Help:      "The total number of traversal mails interpreted by graph executors.",
		}, []string{"category"})
	activeBranchesGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lionagi",
			Subsystem: "executor",
			Name:      "active_branches",
			Help:      "The number of branches currently traversing a graph.",
		})
	fanOutCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lionagi",
			Subsystem: "executor",
			Name:      "fanout_branches_total",
			Help:      "The total number of branches cloned by node list fan-out.",
		})
)

// InitMetrics registers all metrics in this file
func InitMetrics(registry *prometheus.Registry) {
	registry.MustRegister(handledMailCounter)
	registry.MustRegister(activeBranchesGauge)
	registry.MustRegister(fanOutCounter)
}
