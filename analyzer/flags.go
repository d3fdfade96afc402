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
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/spf13/pflag"

	"fillmore-labs.com/rxguard/analyzer/level"
	"fillmore-labs.com/rxguard/internal/config"
	"fillmore-labs.com/rxguard/internal/detect"
)

// Flags are rxguard settings given on the command line.
type Flags struct {
	fs         *pflag.FlagSet
	detectors  config.Detectors
	only       []string
	severity   map[string]string
	thresholds map[string]string
	workers    int
}

// RegisterFlags binds the rxguard settings to command line flags, one boolean
// flag per detector plus overrides.
// A nil flag set value defaults to the program's command line.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	if fs == nil {
		fs = pflag.CommandLine
	}

	f := &Flags{fs: fs, detectors: config.NewBitMask(detect.AllFlags())}

	for _, d := range detect.All() {
		flag := fs.VarPF(newDetectorValue(&f.detectors, d.Flag()), d.Name, "", d.Doc)
		flag.NoOptDefVal = "true"
	}

	fs.StringSliceVar(&f.only, "enable-only", nil, "run only the listed detectors")
	fs.StringToStringVar(&f.severity, "severity", nil, "override the severity of detectors, e.g. god-component=error")
	fs.StringToStringVar(&f.thresholds, "threshold", nil, "override the threshold of detectors, e.g. logic-in-template=4")
	fs.IntVar(&f.workers, "workers", 0, "number of components analyzed in parallel, 0 for one per CPU")

	return f
}

// Options converts the flags given on the command line into options.
// Flags left at their defaults produce no option, so they don't override
// earlier configuration.
func (f *Flags) Options() (Options, error) {
	var opts Options

	if f.fs.Changed("enable-only") {
		opts = append(opts, WithDetectors(f.only...))
	}

	for _, d := range detect.All() {
		if f.fs.Changed(d.Name) {
			opts = append(opts, WithDetector(d.Name, f.detectors.Enabled(d.Flag())))
		}
	}

	for _, name := range slices.Sorted(maps.Keys(f.severity)) {
		s, err := level.Parse(f.severity[name])
		if err != nil {
			return nil, &config.Error{Option: "--severity", Detector: name, Err: fmt.Errorf("%w: %w", config.ErrInvalidSeverity, err)}
		}

		opts = append(opts, WithSeverity(name, s))
	}

	for _, name := range slices.Sorted(maps.Keys(f.thresholds)) {
		t, err := strconv.ParseFloat(f.thresholds[name], 64)
		if err != nil {
			return nil, &config.Error{Option: "--threshold", Detector: name, Err: fmt.Errorf("%w: %w", config.ErrInvalidThreshold, err)}
		}

		opts = append(opts, WithThreshold(name, t))
	}

	if f.fs.Changed("workers") {
		opts = append(opts, WithWorkers(f.workers))
	}

	return opts, nil
}
