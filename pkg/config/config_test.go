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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lion-agi/lionagi-sub006/pkg/errors"
)

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	cfg := GetDefaultConfig()
	require.NoError(t, cfg.ValidateAndAdjust())
	require.Equal(t, 10, cfg.Work.Capacity)
	require.Equal(t, 100*time.Millisecond, cfg.Mail.RefreshInterval.Duration())
	require.Equal(t, 10*time.Second, cfg.Executor.ConditionTimeout.Duration())
}

func TestGetDefaultConfigReturnsCopies(t *testing.T) {
	t.Parallel()

	a := GetDefaultConfig()
	b := GetDefaultConfig()
	a.Work.Capacity = 99
	require.Equal(t, 10, b.Work.Capacity)
}

func TestFromTOML(t *testing.T) {
	t.Parallel()

	cfg, err := FromTOML(`
[log]
level = "warn"

[mail]
refresh-interval = "20ms"

[executor]
refresh-interval = "30ms"
condition-timeout = "2s"
max-branches = 8

[work]
capacity = 4
refresh-interval = "40ms"
queue-size = 64
`)
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.LogConf.Level)
	require.Equal(t, 20*time.Millisecond, cfg.Mail.RefreshInterval.Duration())
	require.Equal(t, 30*time.Millisecond, cfg.Executor.RefreshInterval.Duration())
	require.Equal(t, 2*time.Second, cfg.Executor.ConditionTimeout.Duration())
	require.Equal(t, int64(8), cfg.Executor.MaxBranches)
	require.Equal(t, 4, cfg.Work.Capacity)
	require.Equal(t, 64, cfg.Work.QueueSize)
}

func TestFromTOMLMergesOverDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := FromTOML(`
[work]
capacity = 2
`)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.Work.Capacity)
	// untouched sections keep their defaults
	require.Equal(t, 100*time.Millisecond, cfg.Mail.RefreshInterval.Duration())
	require.Equal(t, 256, cfg.Work.QueueSize)
}

func TestFromTOMLUnknownItem(t *testing.T) {
	t.Parallel()

	_, err := FromTOML(`
[mail]
refres-interval = "20ms"
`)
	require.Error(t, err)
	require.True(t, errors.ErrConfigUnknownItem.Equal(err))
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	cfg := GetDefaultConfig()
	cfg.Work.Capacity = 0
	err := cfg.ValidateAndAdjust()
	require.Error(t, err)
	require.True(t, errors.ErrInvalidConfig.Equal(err))

	cfg = GetDefaultConfig()
	cfg.Work.QueueSize = cfg.Work.Capacity - 1
	require.Error(t, cfg.ValidateAndAdjust())

	cfg = GetDefaultConfig()
	cfg.Executor.ConditionTimeout = 0
	require.Error(t, cfg.ValidateAndAdjust())

	cfg = GetDefaultConfig()
	cfg.Mail.RefreshInterval = TomlDuration(-time.Second)
	require.Error(t, cfg.ValidateAndAdjust())
}

func TestTomlRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := GetDefaultConfig()
	cfg.Executor.MaxBranches = 5
	doc, err := cfg.Toml()
	require.NoError(t, err)

	parsed, err := FromTOML(doc)
	require.NoError(t, err)
	require.Equal(t, cfg.Executor.MaxBranches, parsed.Executor.MaxBranches)
	require.Equal(t, cfg.Work, parsed.Work)
	require.Equal(t, cfg.Mail, parsed.Mail)
}

func TestFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "runtime.toml")
	err := os.WriteFile(path, []byte("[executor]\nmax-branches = 3\n"), 0o600)
	require.NoError(t, err)

	cfg, err := FromFile(path)
	require.NoError(t, err)
	require.Equal(t, int64(3), cfg.Executor.MaxBranches)

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "ErrDecodeConfigFile")
}
