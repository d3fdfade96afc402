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

// Package report orders findings and writes them in the external formats.
package report

import (
	"cmp"
	"slices"

	"fillmore-labs.com/rxguard/analyzer/level"
	"fillmore-labs.com/rxguard/internal/detect"
	"fillmore-labs.com/rxguard/internal/model"
)

// Finding is the external record of a diagnostic.
type Finding struct {
	DetectorID string           `json:"detectorId"`
	Severity   level.Severity   `json:"severity"`
	Component  string           `json:"component"`
	File       string           `json:"file"`
	Line       int              `json:"line"`
	Column     int              `json:"column"`
	Message    string           `json:"message"`
	Evidence   []model.Location `json:"evidence"`
}

// Prepare removes duplicate findings and sorts the rest.
//
// Findings of the same detector at the same location are duplicates; the
// first one is kept. Detector faults are distinct per failing detector and
// component. The result is ordered by file, line, severity (most severe
// first), column, detector, component and message. diags is not modified.
func Prepare(diags []detect.Diagnostic) []detect.Diagnostic {
	type key struct {
		detector string
		loc      model.Location
		fault    string
	}

	seen := make(map[key]struct{}, len(diags))
	out := make([]detect.Diagnostic, 0, len(diags))

	for _, d := range diags {
		k := key{detector: d.Detector, loc: d.Loc}
		if d.Detector == detect.DetectorFault {
			k.fault = d.Message
		}

		if _, ok := seen[k]; ok {
			continue
		}

		seen[k] = struct{}{}
		out = append(out, d)
	}

	slices.SortStableFunc(out, compare)

	return out
}

func compare(a, b detect.Diagnostic) int {
	if c := cmp.Compare(a.Loc.File, b.Loc.File); c != 0 {
		return c
	}

	if c := cmp.Compare(a.Loc.Line, b.Loc.Line); c != 0 {
		return c
	}

	if c := cmp.Compare(b.Severity, a.Severity); c != 0 {
		return c
	}

	if c := cmp.Compare(a.Loc.Column, b.Loc.Column); c != 0 {
		return c
	}

	if c := cmp.Compare(a.Detector, b.Detector); c != 0 {
		return c
	}

	if c := cmp.Compare(a.Component, b.Component); c != 0 {
		return c
	}

	return cmp.Compare(a.Message, b.Message)
}

// Findings converts diagnostics into external records, keeping their order.
func Findings(diags []detect.Diagnostic) []Finding {
	out := make([]Finding, 0, len(diags))

	for _, d := range diags {
		evidence := d.Evidence
		if evidence == nil {
			evidence = []model.Location{}
		}

		out = append(out, Finding{
			DetectorID: d.Detector,
			Severity:   d.Severity,
			Component:  d.Component,
			File:       d.Loc.File,
			Line:       d.Loc.Line,
			Column:     d.Loc.Column,
			Message:    d.Message,
			Evidence:   evidence,
		})
	}

	return out
}

// Failed reports whether any finding is at or above error severity.
func Failed(diags []detect.Diagnostic) bool {
	return slices.ContainsFunc(diags, func(d detect.Diagnostic) bool { return d.Severity.AtLeast(level.Error) })
}
