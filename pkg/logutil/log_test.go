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

package logutil

import (
	"context"
	"testing"

	"github.com/pingcap/log"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/lion-agi/lionagi-sub006/pkg/errors"
)

func TestConfigAdjust(t *testing.T) {
	cfg := &Config{}
	cfg.Adjust()
	require.Equal(t, "info", cfg.Level)

	cfg = &Config{Level: "warn"}
	cfg.Adjust()
	require.Equal(t, "warn", cfg.Level)
}

func TestInitLoggerWithWriteSyncer(t *testing.T) {
	var buffer zaptest.Buffer
	err := InitLogger(&Config{Level: "info"}, WithOutputWriteSyncer(&buffer))
	require.NoError(t, err)

	log.Info("mail delivered", zap.String("recipient", "branch-1"))
	require.Contains(t, buffer.String(), "mail delivered")
	require.Contains(t, buffer.String(), "branch-1")
	buffer.Reset()

	// entries below the configured level are dropped
	log.Debug("noisy detail")
	require.Empty(t, buffer.String())
}

func TestWithComponent(t *testing.T) {
	var buffer zaptest.Buffer
	err := InitLogger(&Config{Level: "info"}, WithOutputWriteSyncer(&buffer))
	require.NoError(t, err)

	WithComponent("mail-manager").Info("cycle finished")
	require.Contains(t, buffer.String(), "mail-manager")
	require.Contains(t, buffer.String(), "cycle finished")
}

func TestShortError(t *testing.T) {
	var buffer zaptest.Buffer
	err := InitLogger(&Config{Level: "info"}, WithOutputWriteSyncer(&buffer))
	require.NoError(t, err)

	log.Warn("forward failed", ShortError(errors.New("queue full")))
	require.Contains(t, buffer.String(), "queue full")
	buffer.Reset()

	// a nil error must not add a field
	log.Warn("forward failed", ShortError(nil))
	require.NotContains(t, buffer.String(), "error")
}

func TestErrorFilterContextCanceled(t *testing.T) {
	var buffer zaptest.Buffer
	err := InitLogger(&Config{Level: "info"}, WithOutputWriteSyncer(&buffer))
	require.NoError(t, err)

	ErrorFilterContextCanceled(log.L(), "loop exited", zap.Error(context.Canceled))
	ErrorFilterContextCanceled(log.L(), "loop exited", zap.Error(errors.Trace(context.Canceled)))
	require.Empty(t, buffer.String())

	ErrorFilterContextCanceled(log.L(), "loop exited", zap.Error(errors.New("broken")))
	require.Contains(t, buffer.String(), "loop exited")
	require.Contains(t, buffer.String(), "broken")
}
