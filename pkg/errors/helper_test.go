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

package errors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapError(t *testing.T) {
	t.Parallel()

	require.Nil(t, WrapError(ErrItemNotFound, nil))

	inner := New("boom")
	err := WrapError(ErrItemNotFound, inner, "deadbeef")
	require.Error(t, err)
	require.Contains(t, err.Error(), "ErrItemNotFound")
	require.Contains(t, err.Error(), "deadbeef")
	require.Contains(t, err.Error(), "boom")
}

func TestIsContextCanceledError(t *testing.T) {
	t.Parallel()

	require.True(t, IsContextCanceledError(context.Canceled))
	require.True(t, IsContextCanceledError(Trace(context.Canceled)))
	require.False(t, IsContextCanceledError(context.DeadlineExceeded))
	require.False(t, IsContextCanceledError(New("other")))

	require.True(t, IsContextDeadlineExceededError(Trace(context.DeadlineExceeded)))
	require.False(t, IsContextDeadlineExceededError(context.Canceled))
}
