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

// Package detect defines the rxguard detectors and their registry.
//
// A detector is a pure function of one component and its graphs, or of the
// whole batch for cross-component rules. Detectors report through their pass
// and never keep state between invocations, so they may run in any order
// and in parallel.
package detect

import (
	"fmt"

	"fillmore-labs.com/rxguard/analyzer/level"
	"fillmore-labs.com/rxguard/internal/lifecycle"
	"fillmore-labs.com/rxguard/internal/model"
	"fillmore-labs.com/rxguard/internal/streams"
	"fillmore-labs.com/rxguard/internal/vocab"
)

// Detector is a named rule.
type Detector struct {
	// Name is the detector ID used in configuration, output, and nolint directives.
	Name string
	Doc  string
	// Severity is the default severity of findings.
	Severity level.Severity
	// Threshold is the default threshold, when HasThreshold is set.
	Threshold    float64
	HasThreshold bool

	// Run inspects one component. Exactly one of Run and RunBatch is set,
	// except for engine diagnostics, which have neither.
	Run func(*Pass) error
	// RunBatch inspects all components of a batch at once.
	RunBatch func(*BatchPass) error

	flag Flag
}

// Flag returns the configuration bit of the detector.
func (d *Detector) Flag() Flag { return d.flag }

// Engine reports whether the detector stands for an engine diagnostic rather than a rule.
func (d *Detector) Engine() bool { return d.Run == nil && d.RunBatch == nil }

func (d *Detector) String() string { return d.Name }

// Diagnostic is a finding. It is never mutated after creation.
type Diagnostic struct {
	Detector  string
	// Component is the batch-unique component ID, file#Name.
	Component string
	Severity  level.Severity
	Loc       model.Location
	Message   string
	Evidence  []model.Location
}

// Unit is a component together with its graphs.
type Unit struct {
	Component *model.Component
	Streams   *streams.Graph
	Lifecycle *lifecycle.Graph
}

// NewUnit builds the graphs of a component.
func NewUnit(c *model.Component, v *vocab.Vocabulary) *Unit {
	sg := streams.Build(c, v)

	return &Unit{Component: c, Streams: sg, Lifecycle: lifecycle.Build(c, sg, v)}
}

// Pass is the run of a detector on one component.
type Pass struct {
	*Unit
	Detector  *Detector
	Vocab     *vocab.Vocabulary
	Severity  level.Severity
	Threshold float64
	// Report receives the findings of the pass.
	Report func(Diagnostic)
}

// Reportf reports a finding at loc.
func (p *Pass) Reportf(loc model.Location, format string, args ...any) {
	p.ReportEvidence(loc, nil, format, args...)
}

// ReportEvidence reports a finding at loc with supporting locations.
func (p *Pass) ReportEvidence(loc model.Location, evidence []model.Location, format string, args ...any) {
	p.Report(Diagnostic{
		Detector:  p.Detector.Name,
		Component: p.Component.ID,
		Severity:  p.Severity,
		Loc:       loc,
		Message:   fmt.Sprintf(format, args...),
		Evidence:  evidence,
	})
}

// BatchPass is the run of a detector on all components of a batch.
type BatchPass struct {
	Units     []*Unit
	Batch     *model.Batch
	Detector  *Detector
	Vocab     *vocab.Vocabulary
	Severity  level.Severity
	Threshold float64
	// Report receives the findings of the pass.
	Report func(Diagnostic)
}

// Reportf reports a finding on component c at loc with supporting locations.
func (p *BatchPass) Reportf(c *model.Component, loc model.Location, evidence []model.Location, format string, args ...any) {
	p.Report(Diagnostic{
		Detector:  p.Detector.Name,
		Component: c.ID,
		Severity:  p.Severity,
		Loc:       loc,
		Message:   fmt.Sprintf(format, args...),
		Evidence:  evidence,
	})
}
