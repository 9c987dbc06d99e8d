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
	"context"
	"sync"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/lion-agi/lionagi-sub006/core/element"
	"github.com/lion-agi/lionagi-sub006/core/pile"
	"github.com/lion-agi/lionagi-sub006/core/progression"
	"github.com/lion-agi/lionagi-sub006/pkg/clock"
	"github.com/lion-agi/lionagi-sub006/pkg/config"
	"github.com/lion-agi/lionagi-sub006/pkg/errors"
)

// Log is the work ledger: every appended item stays in the ledger for
// its whole lifecycle while a pending progression tracks what has not
// been admitted to the queue yet. Admission keeps submission order.
type Log struct {
	cfg *config.WorkConfig
	clk clock.Clock

	queue *Queue
	items *pile.Pile[*Work]

	mu      sync.Mutex
	pending *progression.Progression

	stopped atomic.Bool
}

// NewLog builds an empty ledger owning its queue. A nil cfg falls back
// to the work section of the default config.
func NewLog(cfg *config.WorkConfig, opts ...Option) *Log {
	if cfg == nil {
		cfg = config.GetDefaultConfig().Work
	}
	o := newOptions(opts...)
	return &Log{
		cfg:     cfg,
		clk:     o.clk,
		queue:   NewQueue(cfg, WithClock(o.clk)),
		items:   pile.New[*Work](),
		pending: progression.New("pending"),
	}
}

// Queue returns the admission queue the ledger forwards into.
func (l *Log) Queue() *Queue {
	return l.queue
}

// Len returns the number of items ever appended and not yet removed.
func (l *Log) Len() int {
	return l.items.Len()
}

// Get returns the appended item with the given id.
func (l *Log) Get(id element.ID) (*Work, error) {
	w, err := l.items.Get(id)
	return w, errors.Trace(err)
}

// Append files w into the ledger and marks it pending.
func (l *Log) Append(w *Work) error {
	if l.stopped.Load() {
		return errors.ErrWorkQueueStopped.GenWithStackByArgs()
	}
	if err := l.items.Put(w); err != nil {
		return errors.Trace(err)
	}
	l.mu.Lock()
	l.pending.Append(w.ID())
	l.mu.Unlock()
	return nil
}

// Forward admits pending items into the queue in submission order. A
// full queue stops the pass early without error; the remaining items
// stay pending for the next pass.
func (l *Log) Forward(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for !l.pending.IsEmpty() {
		id, err := l.pending.At(0)
		if err != nil {
			return errors.Trace(err)
		}
		w, err := l.items.Get(id)
		if err != nil {
			return errors.Trace(err)
		}
		if err := l.queue.Enqueue(w); err != nil {
			if errors.ErrWorkQueueFull.Equal(err) {
				return nil
			}
			return errors.Trace(err)
		}
		if _, err := l.pending.PopLeft(); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

// Execute runs the admission loop and the queue's batch loop until the
// context is canceled or the ledger is stopped.
func (l *Log) Execute(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return l.queue.Execute(ctx)
	})
	eg.Go(func() error {
		ticker := l.clk.Ticker(l.cfg.RefreshInterval.Duration())
		defer ticker.Stop()
		for {
			if l.stopped.Load() {
				return nil
			}
			if err := l.Forward(ctx); err != nil {
				return errors.Trace(err)
			}
			select {
			case <-ctx.Done():
				return errors.Trace(ctx.Err())
			case <-ticker.C:
			}
		}
	})
	return errors.Trace(eg.Wait())
}

// Stop makes Execute return and rejects further Append calls.
func (l *Log) Stop() {
	l.stopped.Store(true)
	l.queue.Stop()
}

// Pending returns the items not yet admitted to the queue, in
// submission order.
func (l *Log) Pending() []*Work {
	l.mu.Lock()
	ids := l.pending.Values()
	l.mu.Unlock()
	items := make([]*Work, 0, len(ids))
	for _, id := range ids {
		if w, err := l.items.Get(id); err == nil {
			items = append(items, w)
		}
	}
	return items
}

// Completed returns the items that reached StatusCompleted, in
// submission order.
func (l *Log) Completed() []*Work {
	return l.filter(StatusCompleted)
}

// Failed returns the items that reached StatusFailed, in submission
// order.
func (l *Log) Failed() []*Work {
	return l.filter(StatusFailed)
}

func (l *Log) filter(status Status) []*Work {
	var items []*Work
	for _, w := range l.items.Values() {
		if w.Status() == status {
			items = append(items, w)
		}
	}
	return items
}
