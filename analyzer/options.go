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

package analyzer

import (
	"log/slog"
	"maps"
	"slices"
	"strings"

	"fillmore-labs.com/rxguard/analyzer/level"
	"fillmore-labs.com/rxguard/internal/config"
	"fillmore-labs.com/rxguard/internal/run"
)

// Option configures specific behavior of a [New] rxguard analyzer.
type Option interface {
	apply(r *run.Options)
	LogAttr() slog.Attr
}

// Options is a list of [Option] values that itself satisfies the [Option] interface.
type Options []Option

// LogValue implements [slog.LogValuer].
func (o Options) LogValue() slog.Value {
	as := make([]slog.Attr, 0, len(o))
	as = appendOptions(as, o)

	return slog.GroupValue(as...)
}

func appendOptions(as []slog.Attr, o Options) []slog.Attr {
	for _, opt := range o {
		switch opt := opt.(type) {
		case nil:
			as = append(as, slog.String("nil", "<nil>"))

		case Options:
			as = appendOptions(as, opt)

		default:
			as = append(as, opt.LogAttr())
		}
	}

	return as
}

func (o Options) apply(r *run.Options) {
	for _, opt := range o {
		if opt == nil {
			continue
		}

		opt.apply(r)
	}
}

// LogAttr is for logging with [slog.Logger.LogAttrs].
func (o Options) LogAttr() slog.Attr {
	return slog.Any("options", o)
}

// WithDetector is an [Option] to enable or disable a single detector.
func WithDetector(name string, enabled bool) Option {
	return detectorOption{name: name, enabled: enabled}
}

type detectorOption struct {
	name    string
	enabled bool
}

func (o detectorOption) apply(r *run.Options) {
	if err := r.Config.Enable(o.name, o.enabled); err != nil {
		r.Fail(err)
	}
}

func (o detectorOption) LogAttr() slog.Attr {
	return slog.Bool(o.name, o.enabled)
}

// WithDetectors is an [Option] to run exactly the named detectors.
func WithDetectors(names ...string) Option {
	return detectorsOption{names: names}
}

type detectorsOption struct{ names []string }

func (o detectorsOption) apply(r *run.Options) {
	if err := r.Config.EnableOnly(o.names); err != nil {
		r.Fail(err)
	}
}

func (o detectorsOption) LogAttr() slog.Attr {
	return slog.String("detectors", strings.Join(o.names, ","))
}

// WithSeverity is an [Option] to override the severity of a detector.
func WithSeverity(name string, severity level.Severity) Option {
	return severityOption{name: name, severity: severity}
}

type severityOption struct {
	name     string
	severity level.Severity
}

func (o severityOption) apply(r *run.Options) {
	r.Config.Severity[o.name] = o.severity
}

func (o severityOption) LogAttr() slog.Attr {
	return slog.String("severity."+o.name, o.severity.String())
}

// WithThreshold is an [Option] to override the threshold of a detector.
func WithThreshold(name string, threshold float64) Option {
	return thresholdOption{name: name, threshold: threshold}
}

type thresholdOption struct {
	name      string
	threshold float64
}

func (o thresholdOption) apply(r *run.Options) {
	r.Config.Thresholds[o.name] = o.threshold
}

func (o thresholdOption) LogAttr() slog.Attr {
	return slog.Float64("threshold."+o.name, o.threshold)
}

// WithWorkers is an [Option] to limit the number of components analyzed in parallel.
// Zero uses one worker per CPU.
func WithWorkers(workers int) Option { return workersOption{workers: workers} }

type workersOption struct{ workers int }

func (o workersOption) apply(r *run.Options) {
	r.Config.Workers = o.workers
}

func (o workersOption) LogAttr() slog.Attr {
	return slog.Int("workers", o.workers)
}

// WithVocabulary is an [Option] to add names to vocabulary categories,
// e.g. custom cancellation operators or DOM wrapper services.
func WithVocabulary(additions map[string][]string) Option {
	return vocabularyOption{additions: additions}
}

type vocabularyOption struct{ additions map[string][]string }

func (o vocabularyOption) apply(r *run.Options) {
	v, err := r.Config.Vocabulary.Extend(o.additions)
	if err != nil {
		r.Fail(&config.Error{Option: "vocabulary", Err: err})
		return
	}

	r.Config.Vocabulary = v
}

func (o vocabularyOption) LogAttr() slog.Attr {
	as := make([]slog.Attr, 0, len(o.additions))
	for _, category := range slices.Sorted(maps.Keys(o.additions)) {
		as = append(as, slog.String(category, strings.Join(o.additions[category], ",")))
	}

	return slog.Attr{Key: "vocabulary", Value: slog.GroupValue(as...)}
}

// WithConfigFile is an [Option] to apply a YAML configuration file.
func WithConfigFile(name string) Option { return configFileOption{name: name} }

type configFileOption struct{ name string }

func (o configFileOption) apply(r *run.Options) {
	f, err := config.Load(o.name)
	if err == nil {
		err = f.Apply(r.Config)
	}

	if err != nil {
		r.Fail(err)
	}
}

func (o configFileOption) LogAttr() slog.Attr {
	return slog.String("config", o.name)
}

// WithLogger is an [Option] to receive progress and fault messages.
func WithLogger(logger *slog.Logger) Option { return loggerOption{logger: logger} }

type loggerOption struct{ logger *slog.Logger }

func (o loggerOption) apply(r *run.Options) {
	r.Logger = o.logger
}

func (o loggerOption) LogAttr() slog.Attr {
	return slog.Bool("logger", o.logger != nil)
}
