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
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lion-agi/lionagi-sub006/pkg/clock"
	"github.com/lion-agi/lionagi-sub006/pkg/errors"
)

func TestWorkLifecycle(t *testing.T) {
	t.Parallel()

	w := New(func(_ context.Context) (any, error) {
		return 42, nil
	})
	require.Equal(t, StatusPending, w.Status())
	require.False(t, w.Status().Terminal())

	require.NoError(t, w.Perform(context.Background()))
	require.Equal(t, StatusCompleted, w.Status())
	require.True(t, w.Status().Terminal())
	require.Equal(t, 42, w.Result())
	require.NoError(t, w.Err())
}

func TestWorkFailure(t *testing.T) {
	t.Parallel()

	w := New(func(_ context.Context) (any, error) {
		return nil, errors.New("work boom")
	})
	require.NoError(t, w.Perform(context.Background()))
	require.Equal(t, StatusFailed, w.Status())
	require.ErrorContains(t, w.Err(), "work boom")
	require.Nil(t, w.Result())
}

func TestWorkPerformTwiceRejected(t *testing.T) {
	t.Parallel()

	w := New(func(_ context.Context) (any, error) {
		return "first", nil
	})
	require.NoError(t, w.Perform(context.Background()))

	err := w.Perform(context.Background())
	require.Error(t, err)
	require.True(t, errors.ErrWorkStatusTransition.Equal(err))
	// the terminal outcome stays untouched
	require.Equal(t, StatusCompleted, w.Status())
	require.Equal(t, "first", w.Result())
}

func TestWorkDuration(t *testing.T) {
	t.Parallel()

	mock := clock.NewMock()
	w := New(func(_ context.Context) (any, error) {
		mock.Add(250 * time.Millisecond)
		return nil, nil
	}, WithClock(mock))

	require.NoError(t, w.Perform(context.Background()))
	require.Equal(t, 250*time.Millisecond, w.Duration())
	require.Equal(t, mock.Now(), w.CompletedAt())
}

func TestWorkConcurrentPerformSingleWinner(t *testing.T) {
	t.Parallel()

	w := New(func(_ context.Context) (any, error) {
		return "won", nil
	})

	const racers = 8
	errs := make([]error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = w.Perform(context.Background())
		}()
	}
	wg.Wait()

	var winners int
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		require.True(t, errors.ErrWorkStatusTransition.Equal(err))
	}
	require.Equal(t, 1, winners)
	require.Equal(t, StatusCompleted, w.Status())
	require.Equal(t, "won", w.Result())
}
