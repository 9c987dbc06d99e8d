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

// Package logutil configures the global zap logger and provides a few
// shared logging helpers.
package logutil

import (
	"context"

	pclog "github.com/pingcap/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lion-agi/lionagi-sub006/pkg/errors"
)

// Config serializes log related config in toml/json.
type Config struct {
	// Level is the minimum enabled logging level.
	Level string `toml:"level" json:"level"`
	// File is the log file path, leave empty to log to stderr.
	File string `toml:"file" json:"file"`
	// FileMaxSize is the max size of a single log file, in MB.
	FileMaxSize int `toml:"max-size" json:"max-size"`
	// FileMaxDays is the max days a log file is retained.
	FileMaxDays int `toml:"max-days" json:"max-days"`
	// FileMaxBackups is the max number of rotated log files to retain.
	FileMaxBackups int `toml:"max-backups" json:"max-backups"`
}

// Adjust fills in unspecified fields with default values.
func (cfg *Config) Adjust() {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
}

type loggerOp struct {
	output zapcore.WriteSyncer
}

func (op *loggerOp) applyOpts(opts []LoggerOpt) {
	for _, opt := range opts {
		opt(op)
	}
}

// LoggerOpt is the type for optional settings of InitLogger.
type LoggerOpt func(*loggerOp)

// WithOutputWriteSyncer redirects log output to the given WriteSyncer,
// mostly used by tests to capture log entries.
func WithOutputWriteSyncer(output zapcore.WriteSyncer) LoggerOpt {
	return func(op *loggerOp) {
		op.output = output
	}
}

// InitLogger initializes the global logger according to cfg and replaces
// the globals in pingcap/log.
func InitLogger(cfg *Config, opts ...LoggerOpt) error {
	var op loggerOp
	op.applyOpts(opts)

	pclogConfig := &pclog.Config{
		Level:  cfg.Level,
		Format: "text",
		File: pclog.FileLogConfig{
			Filename:   cfg.File,
			MaxSize:    cfg.FileMaxSize,
			MaxDays:    cfg.FileMaxDays,
			MaxBackups: cfg.FileMaxBackups,
		},
		DisableErrorVerbose: true,
	}

	var (
		lg   *zap.Logger
		prop *pclog.ZapProperties
		err  error
	)
	if op.output == nil {
		lg, prop, err = pclog.InitLogger(pclogConfig)
	} else {
		lg, prop, err = pclog.InitLoggerWithWriteSyncer(pclogConfig, op.output, nil)
	}
	if err != nil {
		return errors.Trace(err)
	}
	pclog.ReplaceGlobals(lg, prop)
	return nil
}

const constFieldComponentKey = "component"

// WithComponent returns a logger that tags every entry with the runtime
// component name, e.g. "mail-manager" or "graph-executor".
func WithComponent(name string) *zap.Logger {
	return pclog.L().With(zap.String(constFieldComponentKey, name))
}

// ShortError constructs a field that carries only the error message,
// without the verbose stack trace.
func ShortError(err error) zap.Field {
	if err == nil {
		return zap.Skip()
	}
	return zap.String("error", err.Error())
}

// ErrorFilterContextCanceled wraps Logger.Error() and drops the log entry
// when the error is context.Canceled, which is routine during shutdown.
func ErrorFilterContextCanceled(logger *zap.Logger, msg string, fields ...zap.Field) {
	for _, field := range fields {
		switch field.Type {
		case zapcore.ErrorType:
			err, ok := field.Interface.(error)
			if ok && errors.Cause(err) == context.Canceled {
				return
			}
		}
	}
	logger.WithOptions(zap.AddCallerSkip(1)).Error(msg, fields...)
}
