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

package config_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"fillmore-labs.com/rxguard/analyzer/level"
	. "fillmore-labs.com/rxguard/internal/config"
	"fillmore-labs.com/rxguard/internal/detect"
	"fillmore-labs.com/rxguard/internal/vocab"
)

func TestBitMask(t *testing.T) {
	t.Parallel()

	const (
		a uint8 = 1 << iota
		b
		c
	)

	m := NewBitMask(a, c)
	if !m.Enabled(a) || m.Enabled(b) || !m.Enabled(c) {
		t.Fatalf("NewBitMask(a, c) = %+v", m)
	}

	m.Set(b, true)
	m.Set(a, false)

	if m.Enabled(a) || !m.Enabled(b) || m.Count() != 2 {
		t.Errorf("After Set: a=%v b=%v count=%d, want false true 2", m.Enabled(a), m.Enabled(b), m.Count())
	}

	m.Only(a)

	if m.Count() != 1 || !m.Enabled(a) {
		t.Errorf("After Only(a): count=%d, want 1", m.Count())
	}
}

func TestDefaultEngine(t *testing.T) {
	t.Parallel()

	e, err := Default().Engine()
	if err != nil {
		t.Fatalf("Engine() failed: %v", err)
	}

	if got, want := len(e.Rules), len(detect.All()); got != want {
		t.Errorf("Got %d rules, want %d", got, want)
	}

	r, ok := e.Rule("god-component")
	if !ok || r.Threshold != 5 || r.Severity != level.Warning {
		t.Errorf("god-component rule = %+v, %v", r, ok)
	}
}

func TestOverrides(t *testing.T) {
	t.Parallel()

	c := Default()
	c.Severity["multiple-subscriptions"] = level.Error
	c.Thresholds["logic-in-template"] = 1
	c.Workers = 2

	if err := c.Enable("duplicate-state", false); err != nil {
		t.Fatalf("Enable() failed: %v", err)
	}

	e, err := c.Engine()
	if err != nil {
		t.Fatalf("Engine() failed: %v", err)
	}

	if r, _ := e.Rule("multiple-subscriptions"); r.Severity != level.Error {
		t.Errorf("multiple-subscriptions severity = %v, want error", r.Severity)
	}

	if r, _ := e.Rule("logic-in-template"); r.Threshold != 1 {
		t.Errorf("logic-in-template threshold = %g, want 1", r.Threshold)
	}

	if _, ok := e.Rule("duplicate-state"); ok {
		t.Error("duplicate-state is enabled")
	}

	if e.Workers != 2 {
		t.Errorf("Workers = %d, want 2", e.Workers)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(c *Config)
		want   error
	}{
		{"unknown severity detector", func(c *Config) { c.Severity["no-such-detector"] = level.Info }, ErrUnknownDetector},
		{"invalid severity", func(c *Config) { c.Severity["god-component"] = level.Severity(7) }, ErrInvalidSeverity},
		{"unknown threshold detector", func(c *Config) { c.Thresholds["no-such-detector"] = 1 }, ErrUnknownDetector},
		{"negative threshold", func(c *Config) { c.Thresholds["god-component"] = -1 }, ErrInvalidThreshold},
		{"NaN threshold", func(c *Config) { c.Thresholds["god-component"] = math.NaN() }, ErrInvalidThreshold},
		{"threshold not applicable", func(c *Config) { c.Thresholds["not-unsubscribing"] = 1 }, ErrInvalidThreshold},
		{"negative workers", func(c *Config) { c.Workers = -1 }, ErrInvalidWorkers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := Default()
			tt.modify(c)

			err := c.Validate()
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}

			var cerr *Error
			if !errors.As(err, &cerr) {
				t.Errorf("Validate() = %T, want *config.Error", err)
			}

			if _, err := c.Engine(); err == nil {
				t.Error("Engine() succeeded on an invalid configuration")
			}
		})
	}
}

func TestEnableUnknown(t *testing.T) {
	t.Parallel()

	c := Default()

	if err := c.Enable("no-such-detector", true); !errors.Is(err, ErrUnknownDetector) {
		t.Errorf("Enable() = %v, want %v", err, ErrUnknownDetector)
	}

	if err := c.EnableOnly([]string{"god-component", "nope"}); !errors.Is(err, ErrUnknownDetector) {
		t.Errorf("EnableOnly() = %v, want %v", err, ErrUnknownDetector)
	}
}

const allOptions = `
enabledDetectors:
  - multiple-subscriptions
  - not-unsubscribing
  - god-component
disabledDetectors:
  - not-unsubscribing
severityOverrides:
  multiple-subscriptions: error
thresholds:
  god-component: 8
workers: 3
vocabulary:
  cancellation: [untilDestroyed]
`

func TestFile(t *testing.T) {
	t.Parallel()

	f, err := Parse(strings.NewReader(allOptions), "rxguard.yaml")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	c := Default()
	if err := f.Apply(c); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}

	if got := c.Detectors.Count(); got != 2 {
		t.Errorf("Got %d enabled detectors, want 2", got)
	}

	if !c.Detectors.Enabled(detect.GodComponent.Flag()) || c.Detectors.Enabled(detect.NotUnsubscribing.Flag()) {
		t.Error("Unexpected set of enabled detectors")
	}

	if c.Severity["multiple-subscriptions"] != level.Error {
		t.Errorf("Severity = %v, want error", c.Severity["multiple-subscriptions"])
	}

	if c.Thresholds["god-component"] != 8 || c.Workers != 3 {
		t.Errorf("Threshold = %g, workers = %d, want 8, 3", c.Thresholds["god-component"], c.Workers)
	}

	if !c.Vocabulary.Cancellation.Has("untilDestroyed") || !c.Vocabulary.Cancellation.Has("takeUntil") {
		t.Error("Vocabulary was not extended")
	}

	if vocab.Default().Cancellation.Has("untilDestroyed") {
		t.Error("Apply() modified the default vocabulary")
	}
}

func TestFileEmpty(t *testing.T) {
	t.Parallel()

	f, err := Parse(strings.NewReader(""), "empty.yaml")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	c := Default()
	if err := f.Apply(c); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}

	if got, want := c.Detectors.Count(), len(detect.All()); got != want {
		t.Errorf("Got %d enabled detectors, want %d", got, want)
	}
}

func TestFileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"unknown detector", "enabledDetectors: [nope]", ErrUnknownDetector},
		{"unknown disabled detector", "disabledDetectors: [nope]", ErrUnknownDetector},
		{"invalid severity", "severityOverrides: {god-component: fatal}", ErrInvalidSeverity},
		{"unknown category", "vocabulary: {nope: [x]}", vocab.ErrUnknownCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := Parse(strings.NewReader(tt.content), "bad.yaml")
			if err != nil {
				t.Fatalf("Parse() failed: %v", err)
			}

			err = f.Apply(Default())
			if !errors.Is(err, tt.want) {
				t.Fatalf("Apply() = %v, want %v", err, tt.want)
			}

			if !strings.Contains(err.Error(), "bad.yaml") {
				t.Errorf("Error %q does not name the file", err)
			}
		})
	}
}

func TestFileUnknownKey(t *testing.T) {
	t.Parallel()

	_, err := Parse(strings.NewReader("detectorz: []"), "bad.yaml")

	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Source != "bad.yaml" {
		t.Errorf("Parse() = %v, want *config.Error from bad.yaml", err)
	}
}
