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

package mail

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lion-agi/lionagi-sub006/core/element"
	"github.com/lion-agi/lionagi-sub006/pkg/clock"
	"github.com/lion-agi/lionagi-sub006/pkg/errors"
)

type testSource struct {
	element.Element
	box *Mailbox
}

func newTestSource(id string) *testSource {
	eid := element.ID(id)
	return &testSource{
		Element: element.NewWithID(eid),
		box:     NewMailbox(eid),
	}
}

func (s *testSource) Mailbox() *Mailbox {
	return s.box
}

func TestManagerRegistration(t *testing.T) {
	t.Parallel()

	mgr := NewManager(nil)
	a := newTestSource("a")
	require.NoError(t, mgr.AddSources(a))
	require.True(t, mgr.HasSource("a"))

	err := mgr.AddSources(newTestSource("a"))
	require.Error(t, err)
	require.True(t, errors.ErrItemAlreadyExists.Equal(err))

	require.NoError(t, mgr.RemoveSource("a"))
	require.False(t, mgr.HasSource("a"))
	err = mgr.RemoveSource("a")
	require.True(t, errors.ErrSourceNotFound.Equal(err))

	mgr.Stop()
	err = mgr.AddSources(newTestSource("b"))
	require.Error(t, err)
	require.True(t, errors.ErrManagerStopped.Equal(err))
}

func TestManagerRoutesMail(t *testing.T) {
	t.Parallel()

	mgr := NewManager(nil)
	a := newTestSource("a")
	b := newTestSource("b")
	require.NoError(t, mgr.AddSources(a, b))

	m1 := NodeIDMail("a", "b", "n1")
	m2 := NodeIDMail("a", "b", "n2")
	a.box.Append(m1)
	a.box.Append(m2)

	require.NoError(t, mgr.Collect("a"))
	require.Equal(t, 0, a.box.OutCount())
	require.Equal(t, 0, b.box.InCount())

	require.NoError(t, mgr.Send("b"))
	require.Equal(t, 2, b.box.InCount())

	got, ok := b.box.NextIn()
	require.True(t, ok)
	require.Same(t, m1, got)
	got, ok = b.box.NextIn()
	require.True(t, ok)
	require.Same(t, m2, got)
}

func TestManagerCollectUnknownSender(t *testing.T) {
	t.Parallel()

	mgr := NewManager(nil)
	err := mgr.Collect("ghost")
	require.Error(t, err)
	require.True(t, errors.ErrSourceNotFound.Equal(err))

	err = mgr.Send("ghost")
	require.True(t, errors.ErrSourceNotFound.Equal(err))
}

func TestManagerCollectUnregisteredRecipient(t *testing.T) {
	t.Parallel()

	mgr := NewManager(nil)
	a := newTestSource("a")
	require.NoError(t, mgr.AddSources(a))

	a.box.Append(StartMail("a", "ghost"))
	err := mgr.Collect("a")
	require.Error(t, err)
	require.True(t, errors.ErrSourceNotFound.Equal(err))
	// the offending envelope was consumed
	require.Equal(t, 0, a.box.OutCount())
}

func TestManagerSendToClosedMailboxDrops(t *testing.T) {
	t.Parallel()

	mgr := NewManager(nil)
	a := newTestSource("a")
	b := newTestSource("b")
	require.NoError(t, mgr.AddSources(a, b))

	a.box.Append(EndMail("a", "b"))
	require.NoError(t, mgr.Collect("a"))

	b.box.Close()
	require.NoError(t, mgr.Send("b"))
	require.Equal(t, 0, b.box.InCount())
	require.Equal(t, 0, mgr.envelopes.Len())
}

func TestManagerRemoveSourceDropsQueuedMail(t *testing.T) {
	t.Parallel()

	mgr := NewManager(nil)
	a := newTestSource("a")
	b := newTestSource("b")
	require.NoError(t, mgr.AddSources(a, b))

	a.box.Append(StartMail("a", "b"))
	require.NoError(t, mgr.Collect("a"))
	require.Equal(t, 1, mgr.envelopes.Len())

	require.NoError(t, mgr.RemoveSource("b"))
	require.Equal(t, 0, mgr.envelopes.Len())
	require.True(t, errors.ErrSourceNotFound.Equal(mgr.Send("b")))
}

func TestManagerCollectAllSendAll(t *testing.T) {
	t.Parallel()

	mgr := NewManager(nil)
	a := newTestSource("a")
	b := newTestSource("b")
	require.NoError(t, mgr.AddSources(a, b))

	a.box.Append(NodeIDMail("a", "b", "n1"))
	b.box.Append(NodeIDMail("b", "a", "n2"))

	require.NoError(t, mgr.CollectAll())
	require.NoError(t, mgr.SendAll())

	got, ok := b.box.NextIn()
	require.True(t, ok)
	require.Equal(t, element.ID("n1"), got.NodeID)
	got, ok = a.box.NextIn()
	require.True(t, ok)
	require.Equal(t, element.ID("n2"), got.NodeID)
}

func TestManagerExecute(t *testing.T) {
	t.Parallel()

	mock := clock.NewMock()
	mgr := NewManager(nil, WithClock(mock))
	a := newTestSource("a")
	b := newTestSource("b")
	require.NoError(t, mgr.AddSources(a, b))

	// queued before the loop starts, the first cycle picks it up
	a.box.Append(NodeIDMail("a", "b", "n1"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- mgr.Execute(context.Background())
	}()

	require.Eventually(t, func() bool {
		return b.box.InCount() == 1
	}, 5*time.Second, 10*time.Millisecond)

	// queued mid-loop, needs a tick
	a.box.Append(NodeIDMail("a", "b", "n2"))
	require.Eventually(t, func() bool {
		mock.Add(100 * time.Millisecond)
		return b.box.InCount() == 2
	}, 5*time.Second, 10*time.Millisecond)

	mgr.Stop()
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

func TestManagerExecuteCanceled(t *testing.T) {
	t.Parallel()

	mgr := NewManager(nil, WithClock(clock.NewMock()))
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- mgr.Execute(ctx)
	}()

	cancel()
	select {
	case err := <-errCh:
		require.Error(t, err)
		require.True(t, errors.IsContextCanceledError(err))
	case <-time.After(5 * time.Second):
		t.Fatal("execute did not exit on cancel")
	}
}
