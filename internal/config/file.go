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

package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"fillmore-labs.com/rxguard/analyzer/level"
	"fillmore-labs.com/rxguard/internal/vocab"
)

// File is the YAML configuration file. Only options present in the file
// override the configuration they are applied to.
type File struct {
	// EnabledDetectors restricts the run to the listed detectors.
	EnabledDetectors *[]string `yaml:"enabledDetectors"`
	// DisabledDetectors are turned off after EnabledDetectors is applied.
	DisabledDetectors []string `yaml:"disabledDetectors"`
	// SeverityOverrides maps detector IDs to severity names.
	SeverityOverrides map[string]string `yaml:"severityOverrides"`
	// Thresholds maps detector IDs to numeric thresholds.
	Thresholds map[string]float64 `yaml:"thresholds"`
	// Workers limits parallel analysis.
	Workers *int `yaml:"workers"`
	// Vocabulary adds names to vocabulary categories.
	Vocabulary map[string][]string `yaml:"vocabulary"`

	source string
}

// Load reads the configuration file at name.
func Load(name string) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("can't open configuration: %w", err)
	}
	defer f.Close()

	return Parse(f, name)
}

// Parse decodes a configuration file. Unknown keys are errors.
func Parse(r io.Reader, source string) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	file := &File{source: source}
	if err := dec.Decode(file); err != nil && !errors.Is(err, io.EOF) {
		return nil, &Error{Source: source, Err: err}
	}

	return file, nil
}

// Apply overrides c with the options present in the file.
func (f *File) Apply(c *Config) error {
	if err := f.apply(c); err != nil {
		var cerr *Error
		if errors.As(err, &cerr) && cerr.Source == "" {
			cerr.Source = f.source
		}

		return err
	}

	return nil
}

func (f *File) apply(c *Config) error {
	if f.EnabledDetectors != nil {
		if err := c.EnableOnly(*f.EnabledDetectors); err != nil {
			return err
		}
	}

	for _, name := range f.DisabledDetectors {
		if err := c.Enable(name, false); err != nil {
			return err
		}
	}

	if c.Severity == nil {
		c.Severity = make(map[string]level.Severity, len(f.SeverityOverrides))
	}

	for _, name := range sortedKeys(f.SeverityOverrides) {
		s, err := level.Parse(f.SeverityOverrides[name])
		if err != nil {
			return &Error{Option: "severityOverrides", Detector: name, Err: fmt.Errorf("%w: %w", ErrInvalidSeverity, err)}
		}

		c.Severity[name] = s
	}

	if c.Thresholds == nil {
		c.Thresholds = make(map[string]float64, len(f.Thresholds))
	}

	for name, t := range f.Thresholds {
		c.Thresholds[name] = t
	}

	if f.Workers != nil {
		c.Workers = *f.Workers
	}

	if len(f.Vocabulary) > 0 {
		base := c.Vocabulary
		if base == nil {
			base = vocab.Default()
		}

		v, err := base.Extend(f.Vocabulary)
		if err != nil {
			return &Error{Option: "vocabulary", Err: err}
		}

		c.Vocabulary = v
	}

	return nil
}
