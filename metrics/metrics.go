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

// Package metrics wires the prometheus registrations of every
// instrumented package into one registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/lion-agi/lionagi-sub006/core/executor"
	"github.com/lion-agi/lionagi-sub006/core/mail"
	"github.com/lion-agi/lionagi-sub006/core/work"
)

var registry = prometheus.NewRegistry()

func init() {
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewGoCollector())

	InitMetrics(registry)
}

// InitMetrics registers the metrics of every instrumented package into
// the given registry.
func InitMetrics(registry *prometheus.Registry) {
	mail.InitMetrics(registry)
	executor.InitMetrics(registry)
	work.InitMetrics(registry)
}

// Registry returns the registry carrying every runtime metric, for
// callers exposing a scrape endpoint.
func Registry() *prometheus.Registry {
	return registry
}
