// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package run

import (
	"errors"
	"log/slog"

	"fillmore-labs.com/rxguard/internal/config"
)

// Options represent the configuration of a pipeline run.
type Options struct {
	// Config is the effective configuration, built up by the options applied.
	Config *config.Config

	// Logger receives progress and fault messages; nil discards them.
	Logger *slog.Logger

	// err collects errors of options that could not be applied.
	err error
}

// DefaultOptions initializes and returns a new Options instance with default values.
func DefaultOptions() *Options {
	return &Options{Config: config.Default()}
}

// Fail records an error applying an option. It is reported before any analysis.
func (r *Options) Fail(err error) {
	r.err = errors.Join(r.err, err)
}

// Validate returns the errors of applied options and of the resulting configuration.
func (r *Options) Validate() error {
	return errors.Join(r.err, r.Config.Validate())
}

func (r *Options) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return r.Logger
}
