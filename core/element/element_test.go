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

package element

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lion-agi/lionagi-sub006/pkg/clock"
	"github.com/lion-agi/lionagi-sub006/pkg/uuid"
)

func TestNewMintsUniqueIDs(t *testing.T) {
	a := New()
	b := New()
	require.NotEqual(t, Zero, a.ID())
	require.NotEqual(t, a.ID(), b.ID())
}

func TestDeterministicIDsWithMockGenerator(t *testing.T) {
	old := SetIDGenerator(uuid.NewSequenceGenerator("elem"))
	defer SetIDGenerator(old)

	require.Equal(t, ID("elem-1"), New().ID())
	require.Equal(t, ID("elem-2"), New().ID())
}

func TestCreatedAtUsesClock(t *testing.T) {
	mock := clock.NewMock()
	mock.Add(42 * time.Minute)
	old := SetClock(mock)
	defer SetClock(old)

	e := New()
	require.Equal(t, mock.Now(), e.CreatedAt())
}

func TestNewWithID(t *testing.T) {
	e := NewWithID(ID("fixed"))
	require.Equal(t, ID("fixed"), e.ID())
	require.Equal(t, "fixed", e.ID().String())
}
