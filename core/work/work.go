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

// Package work schedules one-shot work items in capacity-bounded
// batches: a Work wraps a function with a monotonic status lifecycle, a
// Queue admits and runs batches, and a Log keeps the ledger of
// everything submitted.
package work

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/lion-agi/lionagi-sub006/core/element"
	"github.com/lion-agi/lionagi-sub006/pkg/clock"
	"github.com/lion-agi/lionagi-sub006/pkg/errors"
)

// Status is the lifecycle state of a Work. Transitions are monotonic:
// Pending to InProgress to exactly one of Completed or Failed.
type Status int32

// statuses of Work
const (
	// StatusPending is the state before the first Perform call.
	StatusPending Status = iota
	// StatusInProgress is the state while the work function runs.
	StatusInProgress
	// StatusCompleted is the terminal state of a successful run.
	StatusCompleted
	// StatusFailed is the terminal state of a failed run.
	StatusFailed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInProgress:
		return "in-progress"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is a final state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// WorkFunc is the unit a Work runs once.
type WorkFunc func(ctx context.Context) (any, error)

// Work is one schedulable unit. Its status advances through compare and
// swap only, so a Work can be performed exactly once; the terminal
// outcome fields are immutable after Perform returns.
type Work struct {
	element.Element

	fn  WorkFunc
	clk clock.Clock

	status atomic.Int32

	mu          sync.RWMutex
	result      any
	err         error
	duration    time.Duration
	completedAt time.Time
}

// New wraps fn into a pending Work.
func New(fn WorkFunc, opts ...Option) *Work {
	o := newOptions(opts...)
	return &Work{
		Element: element.New(),
		fn:      fn,
		clk:     o.clk,
	}
}

// Status returns the current lifecycle state.
func (w *Work) Status() Status {
	return Status(w.status.Load())
}

// Result returns the value the work function produced. It is only set
// once Status reports StatusCompleted.
func (w *Work) Result() any {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.result
}

// Err returns the error the work function produced. It is only set once
// Status reports StatusFailed.
func (w *Work) Err() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.err
}

// Duration returns how long the work function ran, measured on the
// monotonic clock.
func (w *Work) Duration() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.duration
}

// CompletedAt returns the wall clock time the work reached its terminal
// state.
func (w *Work) CompletedAt() time.Time {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.completedAt
}

func (w *Work) transition(from, to Status) error {
	if !w.status.CompareAndSwap(int32(from), int32(to)) {
		return errors.ErrWorkStatusTransition.GenWithStackByArgs(w.Status(), to)
	}
	return nil
}

// Perform runs the work function once. A failure of the function is
// recorded on the item, not returned; Perform itself fails only when
// the work is not in StatusPending. The ctx is handed through to the
// function, a canceled ctx surfaces as a recorded failure.
func (w *Work) Perform(ctx context.Context) error {
	if err := w.transition(StatusPending, StatusInProgress); err != nil {
		return errors.Trace(err)
	}
	start := w.clk.Mono()
	result, err := w.fn(ctx)

	w.mu.Lock()
	w.duration = w.clk.Mono().Sub(start)
	w.completedAt = w.clk.Now()
	if err != nil {
		w.err = err
	} else {
		w.result = result
	}
	w.mu.Unlock()

	to := StatusCompleted
	if err != nil {
		to = StatusFailed
	}
	// only Perform moves a work out of StatusInProgress and the entry
	// CAS admits a single Perform, this transition cannot fail
	w.status.Store(int32(to))
	return nil
}
