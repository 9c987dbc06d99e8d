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

package progression

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lion-agi/lionagi-sub006/core/element"
	"github.com/lion-agi/lionagi-sub006/pkg/errors"
)

func ids(ss ...string) []element.ID {
	out := make([]element.ID, 0, len(ss))
	for _, s := range ss {
		out = append(out, element.ID(s))
	}
	return out
}

func TestAppendKeepsDuplicates(t *testing.T) {
	t.Parallel()

	p := New("trace")
	p.Append("a", "b", "a")
	require.Equal(t, 3, p.Len())
	require.Equal(t, ids("a", "b", "a"), p.Values())
	require.Equal(t, "trace", p.Name())
}

func TestIncludeAppendsOnlyAbsent(t *testing.T) {
	t.Parallel()

	p := NewFrom("", "a")
	require.True(t, p.Include("a", "b"))
	require.Equal(t, ids("a", "b"), p.Values())
	require.False(t, p.Include("a", "b"))
	require.False(t, p.Include())
	require.Equal(t, 2, p.Len())
}

func TestExcludeRemovesAllOccurrences(t *testing.T) {
	t.Parallel()

	p := NewFrom("", "a", "b", "a", "c")
	require.True(t, p.Exclude("a"))
	require.Equal(t, ids("b", "c"), p.Values())

	// "a" is gone now, so excluding it again reports false
	require.False(t, p.Exclude("a", "b"))
	require.Equal(t, ids("c"), p.Values())
}

func TestRemoveIsAtomic(t *testing.T) {
	t.Parallel()

	p := NewFrom("", "a", "b", "a")
	err := p.Remove("a", "missing")
	require.Error(t, err)
	require.True(t, errors.ErrItemNotFound.Equal(err))
	require.Equal(t, ids("a", "b", "a"), p.Values())

	require.NoError(t, p.Remove("a"))
	require.Equal(t, ids("b"), p.Values())
}

func TestPopAndPopLeft(t *testing.T) {
	t.Parallel()

	p := NewFrom("", "a", "b", "c")

	last, err := p.Pop()
	require.NoError(t, err)
	require.Equal(t, element.ID("c"), last)

	first, err := p.PopLeft()
	require.NoError(t, err)
	require.Equal(t, element.ID("a"), first)
	require.Equal(t, ids("b"), p.Values())

	_, err = p.Pop()
	require.NoError(t, err)
	_, err = p.Pop()
	require.Error(t, err)
	require.True(t, errors.ErrProgressionEmpty.Equal(err))
	_, err = p.PopLeft()
	require.True(t, errors.ErrProgressionEmpty.Equal(err))
}

func TestIndexAccess(t *testing.T) {
	t.Parallel()

	p := NewFrom("", "a", "b", "c")

	got, err := p.At(1)
	require.NoError(t, err)
	require.Equal(t, element.ID("b"), got)

	_, err = p.At(3)
	require.True(t, errors.ErrIndexOutOfRange.Equal(err))
	_, err = p.At(-1)
	require.True(t, errors.ErrIndexOutOfRange.Equal(err))

	require.NoError(t, p.SetAt(1, "x"))
	require.Equal(t, ids("a", "x", "c"), p.Values())
	require.Error(t, p.SetAt(5, "y"))

	require.NoError(t, p.RemoveAt(0))
	require.Equal(t, ids("x", "c"), p.Values())
	require.Error(t, p.RemoveAt(2))
}

func TestInsert(t *testing.T) {
	t.Parallel()

	p := NewFrom("", "a", "d")
	require.NoError(t, p.Insert(1, "b", "c"))
	require.Equal(t, ids("a", "b", "c", "d"), p.Values())

	// inserting at Len appends
	require.NoError(t, p.Insert(p.Len(), "e"))
	require.Equal(t, ids("a", "b", "c", "d", "e"), p.Values())

	require.Error(t, p.Insert(99, "z"))
	require.NoError(t, p.Insert(0))
}

func TestSlice(t *testing.T) {
	t.Parallel()

	p := NewFrom("", "a", "b", "c", "d")

	part, err := p.Slice(1, 3)
	require.NoError(t, err)
	require.Equal(t, ids("b", "c"), part)

	// the slice is a copy
	part[0] = "zz"
	require.Equal(t, ids("a", "b", "c", "d"), p.Values())

	_, err = p.Slice(3, 1)
	require.True(t, errors.ErrIndexOutOfRange.Equal(err))
	_, err = p.Slice(0, 5)
	require.True(t, errors.ErrIndexOutOfRange.Equal(err))
}

func TestExtendAndContains(t *testing.T) {
	t.Parallel()

	p := NewFrom("", "a")
	p.Extend(NewFrom("", "b", "c"))
	p.Extend(nil)
	require.Equal(t, ids("a", "b", "c"), p.Values())

	require.True(t, p.Contains("a", "c"))
	require.False(t, p.Contains("a", "zz"))
	require.True(t, p.Contains())
}

func TestCopyIsIndependent(t *testing.T) {
	t.Parallel()

	p := NewFrom("orig", "a", "b")
	q := p.Copy()
	q.Append("c")
	require.Equal(t, 2, p.Len())
	require.Equal(t, 3, q.Len())
	require.Equal(t, "orig", q.Name())

	p.Clear()
	require.True(t, p.IsEmpty())
	require.False(t, q.IsEmpty())
}
