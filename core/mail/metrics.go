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

package mail

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	reasonUnregistered = "unregistered_recipient"
	reasonClosed       = "closed_mailbox"
)

var (
	collectedMailCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lionagi",
			Subsystem: "mail",
			Name:      "collected_total",
			Help:      "The total number of mails collected from outboxes.",
		}, []string{"category"})
	deliveredMailCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lionagi",
			Subsystem: "mail",
			Name:      "delivered_total",
			Help:      "The total number of mails delivered to inboxes.",
		}, []string{"category"})
	droppedMailCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lionagi",
			Subsystem: "mail",
			Name:      "dropped_total",
			Help:      "The total number of undeliverable mails dropped.",
		}, []string{"reason"})
	pendingEnvelopesGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lionagi",
			Subsystem: "mail",
			Name:      "pending_envelopes",
			Help:      "The number of envelopes buffered in the manager.",
		})
)

// InitMetrics registers all metrics in this file
func InitMetrics(registry *prometheus.Registry) {
	registry.MustRegister(collectedMailCounter)
	registry.MustRegister(deliveredMailCounter)
	registry.MustRegister(droppedMailCounter)
	registry.MustRegister(pendingEnvelopesGauge)
}
