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

// Package run drives the rxguard pipeline from a parsed component document to
// ordered findings.
package run

import (
	"context"
	"log/slog"
	"runtime/trace"

	"fillmore-labs.com/rxguard/internal/adapt"
	"fillmore-labs.com/rxguard/internal/detect"
	"fillmore-labs.com/rxguard/internal/report"
	"fillmore-labs.com/rxguard/internal/source"
)

// Run executes the rxguard pipeline.
//
// Configuration errors are returned before any analysis. Otherwise the
// findings are deduplicated and sorted; a non-nil error then means the
// analysis was cancelled and the findings are partial.
func (r *Options) Run(ctx context.Context, doc *source.Document) ([]detect.Diagnostic, error) {
	ctx, task := trace.NewTask(ctx, "RxGuard")
	defer task.End()

	if err := r.err; err != nil {
		return nil, err
	}

	eng, err := r.Config.Engine()
	if err != nil {
		return nil, err
	}

	log := r.logger()
	eng.Logger = log

	log.LogAttrs(ctx, slog.LevelDebug, "Starting analysis",
		slog.Int("components", len(doc.Components)), slog.Int("rules", len(eng.Rules)))

	// Stage 1: project the parsed components onto the model
	batch, unsupported := adapt.New(eng.Vocab).Batch(ctx, doc)
	if unsupported != nil {
		log.LogAttrs(ctx, slog.LevelInfo, "Unsupported constructs degrade analysis",
			slog.Int("components", len(flatten(unsupported))))
	}

	// Stage 2: run the detectors on every component, then on the batch
	diags, err := eng.Run(ctx, batch)

	diags = append(diags, eng.Unsupported(unsupported)...)

	// Stage 3: deduplicate and order
	diags = report.Prepare(diags)

	log.LogAttrs(ctx, slog.LevelDebug, "Analysis finished", slog.Int("findings", len(diags)))

	return diags, err
}

func flatten(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}

	return []error{err}
}
