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
	"time"

	"github.com/pingcap/failpoint"
	"github.com/pingcap/log"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lion-agi/lionagi-sub006/pkg/clock"
	"github.com/lion-agi/lionagi-sub006/pkg/config"
	"github.com/lion-agi/lionagi-sub006/pkg/errors"
)

// Queue admits work through a bounded channel and runs it in batches of
// at most Capacity items. A batch is joined as a whole: freed capacity
// is re-admitted only at the batch boundary, never while a batch is in
// flight, so a long item holds back the whole next batch.
type Queue struct {
	cfg *config.WorkConfig
	clk clock.Clock

	in chan *Work

	stopped atomic.Bool
}

// NewQueue builds an empty queue. A nil cfg falls back to the work
// section of the default config.
func NewQueue(cfg *config.WorkConfig, opts ...Option) *Queue {
	if cfg == nil {
		cfg = config.GetDefaultConfig().Work
	}
	o := newOptions(opts...)
	return &Queue{
		cfg: cfg,
		clk: o.clk,
		in:  make(chan *Work, cfg.QueueSize),
	}
}

// Len returns the number of admitted items not yet picked into a batch.
func (q *Queue) Len() int {
	return len(q.in)
}

// Stop makes Execute return after the batch in flight, if any, and
// rejects further Enqueue calls.
func (q *Queue) Stop() {
	q.stopped.Store(true)
}

// Enqueue admits w without blocking.
func (q *Queue) Enqueue(w *Work) error {
	if q.stopped.Load() {
		return errors.ErrWorkQueueStopped.GenWithStackByArgs()
	}
	select {
	case q.in <- w:
		return nil
	default:
		return errors.ErrWorkQueueFull.GenWithStackByArgs()
	}
}

// ProcessBatch picks up to Capacity admitted items and runs them
// concurrently, waiting for the whole batch. A failing item is recorded
// on the item and never fails the batch; the returned error reports
// scheduling problems only.
func (q *Queue) ProcessBatch(ctx context.Context) error {
	batch := q.dequeueBatch()
	if len(batch) == 0 {
		return nil
	}
	failpoint.Inject("workBatchDelay", func(val failpoint.Value) {
		if ms, ok := val.(int); ok {
			time.Sleep(time.Duration(ms) * time.Millisecond)
		}
	})
	batchSizeHistogram.Observe(float64(len(batch)))

	eg, ctx := errgroup.WithContext(ctx)
	for _, w := range batch {
		w := w
		inProgressGauge.Inc()
		eg.Go(func() error {
			defer inProgressGauge.Dec()
			if err := w.Perform(ctx); err != nil {
				return errors.Trace(err)
			}
			if w.Status() == StatusFailed {
				failedWorkCounter.Inc()
				log.Warn("work failed",
					zap.String("work", w.ID().String()),
					zap.Error(w.Err()))
			} else {
				completedWorkCounter.Inc()
			}
			return nil
		})
	}
	return errors.Trace(eg.Wait())
}

// Execute runs batches on the refresh tick until the context is
// canceled or the queue is stopped.
func (q *Queue) Execute(ctx context.Context) error {
	ticker := q.clk.Ticker(q.cfg.RefreshInterval.Duration())
	defer ticker.Stop()

	log.Info("work queue starts",
		zap.Int("capacity", q.cfg.Capacity),
		zap.Int("queueSize", q.cfg.QueueSize))
	for {
		if q.stopped.Load() {
			log.Info("work queue is stopped")
			return nil
		}
		if err := q.ProcessBatch(ctx); err != nil {
			return errors.Trace(err)
		}
		select {
		case <-ctx.Done():
			return errors.Trace(ctx.Err())
		case <-ticker.C:
		}
	}
}

func (q *Queue) dequeueBatch() []*Work {
	batch := make([]*Work, 0, q.cfg.Capacity)
	for len(batch) < q.cfg.Capacity {
		select {
		case w := <-q.in:
			batch = append(batch, w)
		default:
			return batch
		}
	}
	return batch
}
