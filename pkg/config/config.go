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

// Package config defines the runtime configuration and its defaults.
package config

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pingcap/log"

	"github.com/lion-agi/lionagi-sub006/pkg/errors"
	"github.com/lion-agi/lionagi-sub006/pkg/logutil"
)

const (
	defaultMailRefreshInterval     = TomlDuration(100 * time.Millisecond)
	defaultExecutorRefreshInterval = TomlDuration(100 * time.Millisecond)
	defaultConditionTimeout        = TomlDuration(10 * time.Second)
	defaultMaxBranches             = 32
	defaultWorkCapacity            = 10
	defaultWorkRefreshInterval     = TomlDuration(100 * time.Millisecond)
	defaultWorkQueueSize           = 256
)

// MailConfig configs the mail manager.
type MailConfig struct {
	// RefreshInterval is the pause between two collect/send cycles.
	RefreshInterval TomlDuration `toml:"refresh-interval" json:"refresh-interval"`
}

// ValidateAndAdjust verifies that each parameter is valid.
func (c *MailConfig) ValidateAndAdjust() error {
	if c.RefreshInterval <= 0 {
		return errors.ErrInvalidConfig.GenWithStackByArgs("mail refresh-interval must be larger than 0")
	}
	return nil
}

// ExecutorConfig configs the graph traversal executors.
type ExecutorConfig struct {
	// RefreshInterval is the pause between two forward steps.
	RefreshInterval TomlDuration `toml:"refresh-interval" json:"refresh-interval"`
	// ConditionTimeout bounds how long a traversal waits for the answer
	// to an edge condition ask.
	ConditionTimeout TomlDuration `toml:"condition-timeout" json:"condition-timeout"`
	// MaxBranches bounds how many branch actors a fan-out may create.
	MaxBranches int64 `toml:"max-branches" json:"max-branches"`
}

// ValidateAndAdjust verifies that each parameter is valid.
func (c *ExecutorConfig) ValidateAndAdjust() error {
	if c.RefreshInterval <= 0 {
		return errors.ErrInvalidConfig.GenWithStackByArgs("executor refresh-interval must be larger than 0")
	}
	if c.ConditionTimeout <= 0 {
		return errors.ErrInvalidConfig.GenWithStackByArgs("executor condition-timeout must be larger than 0")
	}
	if c.MaxBranches <= 0 {
		return errors.ErrInvalidConfig.GenWithStackByArgs("executor max-branches must be larger than 0")
	}
	return nil
}

// WorkConfig configs the work queue.
type WorkConfig struct {
	// Capacity is the max number of work items running in one batch.
	Capacity int `toml:"capacity" json:"capacity"`
	// RefreshInterval is the pause between two batches.
	RefreshInterval TomlDuration `toml:"refresh-interval" json:"refresh-interval"`
	// QueueSize is the length of the admission queue.
	QueueSize int `toml:"queue-size" json:"queue-size"`
}

// ValidateAndAdjust verifies that each parameter is valid.
func (c *WorkConfig) ValidateAndAdjust() error {
	if c.Capacity <= 0 {
		return errors.ErrInvalidConfig.GenWithStackByArgs("work capacity must be larger than 0")
	}
	if c.RefreshInterval <= 0 {
		return errors.ErrInvalidConfig.GenWithStackByArgs("work refresh-interval must be larger than 0")
	}
	if c.QueueSize < c.Capacity {
		return errors.ErrInvalidConfig.GenWithStackByArgs("work queue-size must not be smaller than capacity")
	}
	return nil
}

// Config is the configuration for the whole runtime.
type Config struct {
	LogConf logutil.Config `toml:"log" json:"log"`

	Mail     *MailConfig     `toml:"mail" json:"mail"`
	Executor *ExecutorConfig `toml:"executor" json:"executor"`
	Work     *WorkConfig     `toml:"work" json:"work"`
}

func (c *Config) String() string {
	cfg, err := json.Marshal(c)
	if err != nil {
		log.L().Error("marshal config to json", logutil.ShortError(err))
	}
	return string(cfg)
}

// Toml returns TOML format representation of the config.
func (c *Config) Toml() (string, error) {
	var b bytes.Buffer

	err := toml.NewEncoder(&b).Encode(c)
	if err != nil {
		log.L().Error("marshal config to toml", logutil.ShortError(err))
		return "", errors.Trace(err)
	}

	return b.String(), nil
}

// ValidateAndAdjust fills in unspecified fields and verifies the result
// is a runnable configuration.
func (c *Config) ValidateAndAdjust() error {
	c.LogConf.Adjust()
	if c.Mail == nil {
		c.Mail = defaultConfig.Mail
	}
	if c.Executor == nil {
		c.Executor = defaultConfig.Executor
	}
	if c.Work == nil {
		c.Work = defaultConfig.Work
	}
	if err := c.Mail.ValidateAndAdjust(); err != nil {
		return errors.Trace(err)
	}
	if err := c.Executor.ValidateAndAdjust(); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(c.Work.ValidateAndAdjust())
}

var defaultConfig = Config{
	LogConf: logutil.Config{Level: "info"},
	Mail: &MailConfig{
		RefreshInterval: defaultMailRefreshInterval,
	},
	Executor: &ExecutorConfig{
		RefreshInterval:  defaultExecutorRefreshInterval,
		ConditionTimeout: defaultConditionTimeout,
		MaxBranches:      defaultMaxBranches,
	},
	Work: &WorkConfig{
		Capacity:        defaultWorkCapacity,
		RefreshInterval: defaultWorkRefreshInterval,
		QueueSize:       defaultWorkQueueSize,
	},
}

// GetDefaultConfig returns a copy of the default config.
func GetDefaultConfig() *Config {
	cfg := defaultConfig
	mail := *defaultConfig.Mail
	executor := *defaultConfig.Executor
	work := *defaultConfig.Work
	cfg.Mail = &mail
	cfg.Executor = &executor
	cfg.Work = &work
	return &cfg
}

// FromFile loads the config from a toml file and merges it over the
// defaults.
func FromFile(path string) (*Config, error) {
	cfg := GetDefaultConfig()
	metaData, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.WrapError(errors.ErrDecodeConfigFile, err, path)
	}
	if err := checkUndecodedItems(metaData); err != nil {
		return nil, err
	}
	if err := cfg.ValidateAndAdjust(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromTOML loads the config from a toml document and merges it over the
// defaults.
func FromTOML(data string) (*Config, error) {
	cfg := GetDefaultConfig()
	metaData, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, errors.WrapError(errors.ErrDecodeConfigFile, err, "<inline>")
	}
	if err := checkUndecodedItems(metaData); err != nil {
		return nil, err
	}
	if err := cfg.ValidateAndAdjust(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func checkUndecodedItems(metaData toml.MetaData) error {
	undecoded := metaData.Undecoded()
	if len(undecoded) > 0 {
		var undecodedItems []string
		for _, item := range undecoded {
			undecodedItems = append(undecodedItems, item.String())
		}
		return errors.ErrConfigUnknownItem.GenWithStackByArgs(strings.Join(undecodedItems, ","))
	}
	return nil
}
