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
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lion-agi/lionagi-sub006/pkg/clock"
	"github.com/lion-agi/lionagi-sub006/pkg/config"
	"github.com/lion-agi/lionagi-sub006/pkg/errors"
)

func workConfig(capacity, queueSize int) *config.WorkConfig {
	cfg := config.GetDefaultConfig().Work
	cfg.Capacity = capacity
	cfg.QueueSize = queueSize
	return cfg
}

func noopWork() *Work {
	return New(func(_ context.Context) (any, error) {
		return nil, nil
	})
}

func countTerminal(works []*Work) int {
	var n int
	for _, w := range works {
		if w.Status().Terminal() {
			n++
		}
	}
	return n
}

func TestQueueBatchRespectsCapacity(t *testing.T) {
	t.Parallel()

	q := NewQueue(workConfig(2, 8))
	works := make([]*Work, 0, 5)
	for i := 0; i < 5; i++ {
		w := noopWork()
		works = append(works, w)
		require.NoError(t, q.Enqueue(w))
	}

	require.NoError(t, q.ProcessBatch(context.Background()))
	require.Equal(t, 2, countTerminal(works))
	require.Equal(t, 3, q.Len())

	require.NoError(t, q.ProcessBatch(context.Background()))
	require.Equal(t, 4, countTerminal(works))

	require.NoError(t, q.ProcessBatch(context.Background()))
	require.Equal(t, 5, countTerminal(works))
	require.Equal(t, 0, q.Len())
}

func TestQueueFullRejected(t *testing.T) {
	t.Parallel()

	q := NewQueue(workConfig(2, 2))
	require.NoError(t, q.Enqueue(noopWork()))
	require.NoError(t, q.Enqueue(noopWork()))

	err := q.Enqueue(noopWork())
	require.Error(t, err)
	require.True(t, errors.ErrWorkQueueFull.Equal(err))
}

func TestQueueStoppedRejected(t *testing.T) {
	t.Parallel()

	q := NewQueue(workConfig(2, 2))
	q.Stop()

	err := q.Enqueue(noopWork())
	require.Error(t, err)
	require.True(t, errors.ErrWorkQueueStopped.Equal(err))
}

func TestQueueFailingItemDoesNotDisturbBatch(t *testing.T) {
	t.Parallel()

	q := NewQueue(workConfig(2, 2))
	bad := New(func(_ context.Context) (any, error) {
		return nil, errors.New("item boom")
	})
	good := New(func(_ context.Context) (any, error) {
		return "fine", nil
	})
	require.NoError(t, q.Enqueue(bad))
	require.NoError(t, q.Enqueue(good))

	require.NoError(t, q.ProcessBatch(context.Background()))
	require.Equal(t, StatusFailed, bad.Status())
	require.ErrorContains(t, bad.Err(), "item boom")
	require.Equal(t, StatusCompleted, good.Status())
	require.Equal(t, "fine", good.Result())
}

func TestQueueBatchSurfacesSchedulingErrors(t *testing.T) {
	t.Parallel()

	q := NewQueue(workConfig(2, 2))
	spent := noopWork()
	require.NoError(t, spent.Perform(context.Background()))
	require.NoError(t, q.Enqueue(spent))

	err := q.ProcessBatch(context.Background())
	require.Error(t, err)
	require.True(t, errors.ErrWorkStatusTransition.Equal(err))
}

func TestQueueExecuteLoop(t *testing.T) {
	t.Parallel()

	mock := clock.NewMock()
	q := NewQueue(workConfig(4, 8), WithClock(mock))

	first := noopWork()
	second := noopWork()
	require.NoError(t, q.Enqueue(first))
	require.NoError(t, q.Enqueue(second))

	errCh := make(chan error, 1)
	go func() {
		errCh <- q.Execute(context.Background())
	}()

	// the first batch runs before the loop first parks on the ticker
	require.Eventually(t, func() bool {
		return first.Status().Terminal() && second.Status().Terminal()
	}, 5*time.Second, 10*time.Millisecond)

	third := noopWork()
	require.NoError(t, q.Enqueue(third))
	require.Eventually(t, func() bool {
		mock.Add(100 * time.Millisecond)
		return third.Status().Terminal()
	}, 5*time.Second, 10*time.Millisecond)

	q.Stop()
	require.Eventually(t, func() bool {
		mock.Add(100 * time.Millisecond)
		select {
		case err := <-errCh:
			require.NoError(t, err)
			return true
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}
