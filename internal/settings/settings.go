// Copyright 2026 CloudZero, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package settings holds tuning knobs shared by every command. They are read
// from the environment so that scheduled runs can adjust them without
// changing the command line.
package settings

import (
	"log/slog"

	"github.com/caarlos0/env/v9"
	"github.com/gravitational/trace"

	"github.com/Cloudzero/aws-tools/internal/logging"
)

// Settings are the environment driven options.
type Settings struct {
	// MaxAttempts is the maximum number of attempts the SDK retryer makes per API call.
	MaxAttempts int `env:"AWSTOOLS_MAX_ATTEMPTS" envDefault:"10"`
	// DeleteRate is the number of Glacier archive deletions issued per second.
	DeleteRate float64 `env:"AWSTOOLS_DELETE_RATE" envDefault:"10"`
	// DeleteBurst is the number of archive deletions that may be issued back to back.
	DeleteBurst int `env:"AWSTOOLS_DELETE_BURST" envDefault:"10"`
	// LogLevel is the default log level, overridden by --log-level.
	LogLevel string `env:"AWSTOOLS_LOG_LEVEL" envDefault:"info"`
}

// FromEnv reads and validates the settings from the process environment.
func FromEnv() (*Settings, error) {
	return parse(env.Options{})
}

func parse(opts env.Options) (*Settings, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, opts); err != nil {
		return nil, trace.Wrap(err, "could not read settings from env")
	}

	if err := s.Check(); err != nil {
		return nil, trace.Wrap(err)
	}
	return &s, nil
}

// Check validates the settings.
func (s *Settings) Check() error {
	if s.MaxAttempts < 1 {
		return trace.BadParameter("AWSTOOLS_MAX_ATTEMPTS must be at least 1, got %d", s.MaxAttempts)
	}
	// Written negated so NaN is rejected too
	if !(s.DeleteRate > 0) {
		return trace.BadParameter("AWSTOOLS_DELETE_RATE must be positive, got %v", s.DeleteRate)
	}
	if s.DeleteBurst < 1 {
		return trace.BadParameter("AWSTOOLS_DELETE_BURST must be at least 1, got %d", s.DeleteBurst)
	}
	return nil
}

// Level returns the configured log level. A non-empty override, usually the
// --log-level flag, takes precedence over AWSTOOLS_LOG_LEVEL.
func (s *Settings) Level(override string) (slog.Level, error) {
	name := s.LogLevel
	if override != "" {
		name = override
	}
	level, err := logging.ParseLevel(name)
	return level, trace.Wrap(err)
}
