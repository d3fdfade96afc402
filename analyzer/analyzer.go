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
	"context"
	"io"

	"fillmore-labs.com/rxguard/internal/detect"
	"fillmore-labs.com/rxguard/internal/report"
	"fillmore-labs.com/rxguard/internal/run"
	"fillmore-labs.com/rxguard/internal/source"
)

// Public API constants for the rxguard analyzer.
const (
	Name = "rxguard"
	Doc  = `rxguard detects reactive-programming and component-architecture anti-patterns`
	URL  = "https://pkg.go.dev/fillmore-labs.com/rxguard"
)

type (
	// Document is a batch of parsed components.
	Document = source.Document

	// Finding is a diagnostic reported by a detector or the engine.
	Finding = detect.Diagnostic

	// Detector is a registered rule.
	Detector = detect.Detector
)

// Analyzer runs the rxguard detectors over parsed component documents.
type Analyzer struct {
	r *run.Options
}

// New creates a new instance of the rxguard analyzer.
// It allows for programmatic configuration using [Option]; later options
// override earlier ones. Errors of options are reported by [Analyzer.Validate]
// and [Analyzer.Run].
func New(opts ...Option) *Analyzer {
	r := run.DefaultOptions()
	Options(opts).apply(r)

	return &Analyzer{r: r}
}

// Validate returns configuration errors, if any.
func (a *Analyzer) Validate() error {
	return a.r.Validate()
}

// Run analyzes a document and returns the deduplicated findings in report order.
//
// A configuration error is returned before any analysis. A cancelled context
// yields the findings computed so far together with the context error.
func (a *Analyzer) Run(ctx context.Context, doc *Document) ([]Finding, error) {
	return a.r.Run(ctx, doc)
}

// Decode reads a component document in its JSON wire format.
func Decode(r io.Reader) (*Document, error) {
	return source.Decode(r)
}

// ReadFiles reads and concatenates the component documents in the given files.
func ReadFiles(paths ...string) (*Document, error) {
	return source.ReadFiles(paths...)
}

// Detectors returns all registered detectors in registry order.
func Detectors() []*Detector {
	return detect.All()
}

// Failed reports whether any finding is at or above error severity.
func Failed(findings []Finding) bool {
	return report.Failed(findings)
}
