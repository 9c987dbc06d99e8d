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
	"github.com/lion-agi/lionagi-sub006/pkg/clock"
)

type options struct {
	clk   clock.Clock
	scope map[string]any
}

func newOptions(opts ...Option) *options {
	o := &options{
		clk: clock.New(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option configures an executor actor on construction.
type Option func(*options)

// WithClock replaces the wall clock, used by tests to drive run loops
// deterministically.
func WithClock(clk clock.Clock) Option {
	return func(o *options) {
		o.clk = clk
	}
}

// WithScope sets the variable scope branches hand to executable edge
// conditions. The scope is shared by reference with the seed branch and
// copied shallowly into clones.
func WithScope(scope map[string]any) Option {
	return func(o *options) {
		o.scope = scope
	}
}
