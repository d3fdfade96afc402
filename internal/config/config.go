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

// Package config holds the effective rxguard configuration and its sources.
package config

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"fillmore-labs.com/rxguard/analyzer/level"
	"fillmore-labs.com/rxguard/internal/detect"
	"fillmore-labs.com/rxguard/internal/engine"
	"fillmore-labs.com/rxguard/internal/vocab"
)

// Detectors is the set of enabled detectors.
type Detectors = BitMask[detect.Flag]

// Config is the effective configuration of a run.
type Config struct {
	// Detectors are the enabled detectors, by registry flag.
	Detectors Detectors

	// Severity overrides the default severity of detectors, by detector ID.
	Severity map[string]level.Severity

	// Thresholds override the default thresholds of detectors, by detector ID.
	Thresholds map[string]float64

	// Workers limits parallel analysis; zero means one worker per CPU.
	Workers int

	// Vocabulary is the structural vocabulary detectors match against.
	Vocabulary *vocab.Vocabulary
}

// Default returns the configuration with all detectors enabled at their defaults.
func Default() *Config {
	return &Config{
		Detectors:  NewBitMask(detect.AllFlags()),
		Severity:   make(map[string]level.Severity),
		Thresholds: make(map[string]float64),
		Vocabulary: vocab.Default(),
	}
}

// Enable enables or disables the named detector.
func (c *Config) Enable(name string, enabled bool) error {
	d, ok := detect.Lookup(name)
	if !ok {
		return &Error{Detector: name, Err: ErrUnknownDetector}
	}

	c.Detectors.Set(d.Flag(), enabled)

	return nil
}

// EnableOnly enables exactly the named detectors.
func (c *Config) EnableOnly(names []string) error {
	var flags detect.Flag

	for _, name := range names {
		d, ok := detect.Lookup(name)
		if !ok {
			return &Error{Detector: name, Err: ErrUnknownDetector}
		}

		flags |= d.Flag()
	}

	c.Detectors.Only(flags)

	return nil
}

// Validate checks the overrides against the registry.
func (c *Config) Validate() error {
	var errs []error

	for _, name := range sortedKeys(c.Severity) {
		if _, ok := detect.Lookup(name); !ok {
			errs = append(errs, &Error{Option: "severityOverrides", Detector: name, Err: ErrUnknownDetector})
			continue
		}

		switch s := c.Severity[name]; s {
		case level.Info, level.Warning, level.Error:

		default:
			errs = append(errs, &Error{Option: "severityOverrides", Detector: name, Err: fmt.Errorf("%w %d", ErrInvalidSeverity, s)})
		}
	}

	for _, name := range sortedKeys(c.Thresholds) {
		d, ok := detect.Lookup(name)
		if !ok {
			errs = append(errs, &Error{Option: "thresholds", Detector: name, Err: ErrUnknownDetector})
			continue
		}

		if !d.HasThreshold {
			errs = append(errs, &Error{Option: "thresholds", Detector: name, Err: fmt.Errorf("%w: detector takes no threshold", ErrInvalidThreshold)})
			continue
		}

		if t := c.Thresholds[name]; math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
			errs = append(errs, &Error{Option: "thresholds", Detector: name, Err: fmt.Errorf("%w %g", ErrInvalidThreshold, t)})
		}
	}

	if c.Workers < 0 {
		errs = append(errs, &Error{Option: "workers", Err: fmt.Errorf("%w %d", ErrInvalidWorkers, c.Workers)})
	}

	return errors.Join(errs...)
}

// Engine validates the configuration and returns an engine running the enabled detectors.
func (c *Config) Engine() (*engine.Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var rules []engine.Rule

	for _, d := range detect.All() {
		if !c.Detectors.Enabled(d.Flag()) {
			continue
		}

		r := engine.Rule{Detector: d, Severity: d.Severity, Threshold: d.Threshold}

		if s, ok := c.Severity[d.Name]; ok {
			r.Severity = s
		}

		if t, ok := c.Thresholds[d.Name]; ok {
			r.Threshold = t
		}

		rules = append(rules, r)
	}

	v := c.Vocabulary
	if v == nil {
		v = vocab.Default()
	}

	return &engine.Engine{Rules: rules, Vocab: v, Workers: c.Workers}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
