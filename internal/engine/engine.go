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

// Package engine runs the enabled detectors against every component of a batch.
//
// Components are analyzed in parallel, one task per component. Findings are
// collected per component and merged in batch order afterward, so the result
// does not depend on scheduling. A failing detector is reported as a
// detector-fault finding and never aborts the batch.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/trace"

	"golang.org/x/sync/errgroup"

	"fillmore-labs.com/rxguard/analyzer/level"
	"fillmore-labs.com/rxguard/internal/astutil"
	"fillmore-labs.com/rxguard/internal/detect"
	"fillmore-labs.com/rxguard/internal/model"
	"fillmore-labs.com/rxguard/internal/vocab"
)

// Rule is an enabled detector with its effective settings.
type Rule struct {
	Detector  *detect.Detector
	Severity  level.Severity
	Threshold float64
}

// Engine is the matching engine. It is safe for concurrent use once configured.
type Engine struct {
	// Rules are the enabled detectors, in registry order.
	Rules []Rule
	Vocab *vocab.Vocabulary
	// Workers limits the number of components analyzed at once; zero means GOMAXPROCS.
	Workers int
	Logger  *slog.Logger
}

// New returns an engine running all registered detectors with their defaults.
func New() *Engine {
	all := detect.All()
	rules := make([]Rule, 0, len(all))

	for _, d := range all {
		rules = append(rules, Rule{Detector: d, Severity: d.Severity, Threshold: d.Threshold})
	}

	return &Engine{Rules: rules, Vocab: vocab.Default()}
}

// Rule returns the enabled rule of the named detector.
func (e *Engine) Rule(name string) (Rule, bool) {
	for _, r := range e.Rules {
		if r.Detector.Name == name {
			return r, true
		}
	}

	return Rule{}, false
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return e.Logger
}

func (e *Engine) vocab() *vocab.Vocabulary {
	if e.Vocab == nil {
		return vocab.Default()
	}

	return e.Vocab
}

// Run analyzes a batch and returns the findings in batch order.
//
// Cancellation is checked between components. A cancelled run returns the
// findings of the components analyzed so far together with the context error.
func (e *Engine) Run(ctx context.Context, batch *model.Batch) ([]detect.Diagnostic, error) {
	ctx, task := trace.NewTask(ctx, "Engine")
	defer task.End()

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	n := len(batch.Components)
	units := make([]*detect.Unit, n)
	results := make([][]detect.Diagnostic, n)

	var g errgroup.Group
	g.SetLimit(workers)

	for i, c := range batch.Components {
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			units[i], results[i] = e.component(ctx, c)

			return nil
		})
	}

	_ = g.Wait()

	var out []detect.Diagnostic
	for _, r := range results {
		out = append(out, r...)
	}

	if err := ctx.Err(); err != nil {
		return out, fmt.Errorf("analysis cancelled: %w", err)
	}

	return append(out, e.batch(ctx, batch, units)...), nil
}

// component builds the graphs of one component and runs the per-component detectors.
func (e *Engine) component(ctx context.Context, c *model.Component) (*detect.Unit, []detect.Diagnostic) {
	defer trace.StartRegion(ctx, "Component").End()

	log := e.logger()
	log.LogAttrs(ctx, slog.LevelDebug, "Analyzing component", slog.String("component", c.ID))

	var diags []detect.Diagnostic

	report := func(d detect.Diagnostic) {
		if !suppressed(c, d) {
			diags = append(diags, d)
		}
	}

	var unit *detect.Unit

	if err := protect(func() error {
		unit = detect.NewUnit(c, e.vocab())
		return nil
	}); err != nil {
		e.fault(ctx, c, "", err, report)
		return nil, diags
	}

	for _, r := range e.Rules {
		if r.Detector.Run == nil {
			continue
		}

		pass := &detect.Pass{
			Unit:      unit,
			Detector:  r.Detector,
			Vocab:     e.vocab(),
			Severity:  r.Severity,
			Threshold: r.Threshold,
			Report:    report,
		}

		if err := protect(func() error { return r.Detector.Run(pass) }); err != nil {
			e.fault(ctx, c, r.Detector.Name, err, report)
		}
	}

	return unit, diags
}

// batch runs the cross-component detectors on all analyzed components.
func (e *Engine) batch(ctx context.Context, batch *model.Batch, units []*detect.Unit) []detect.Diagnostic {
	defer trace.StartRegion(ctx, "Batch").End()

	analyzed := make([]*detect.Unit, 0, len(units))
	for _, u := range units {
		if u != nil {
			analyzed = append(analyzed, u)
		}
	}

	var diags []detect.Diagnostic

	report := func(d detect.Diagnostic) {
		if c := owner(analyzed, d); c == nil || !suppressed(c, d) {
			diags = append(diags, d)
		}
	}

	for _, r := range e.Rules {
		if r.Detector.RunBatch == nil {
			continue
		}

		pass := &detect.BatchPass{
			Units:     analyzed,
			Batch:     batch,
			Detector:  r.Detector,
			Vocab:     e.vocab(),
			Severity:  r.Severity,
			Threshold: r.Threshold,
			Report:    report,
		}

		if err := protect(func() error { return r.Detector.RunBatch(pass) }); err != nil {
			e.logger().LogAttrs(ctx, slog.LevelWarn, "Batch detector failed",
				slog.String("detector", r.Detector.Name), slog.Any("error", err))

			if rule, ok := e.Rule(detect.DetectorFault); ok {
				diags = append(diags, detect.Diagnostic{
					Detector: detect.DetectorFault,
					Severity: rule.Severity,
					Message:  (&DetectorFault{Detector: r.Detector.Name, Err: err}).Error(),
				})
			}
		}
	}

	return diags
}

// owner returns the analyzed component a batch finding is reported on.
func owner(units []*detect.Unit, d detect.Diagnostic) *model.Component {
	for _, u := range units {
		if u.Component.ID == d.Component {
			return u.Component
		}
	}

	return nil
}

// fault reports a failed detector as an engine finding.
func (e *Engine) fault(ctx context.Context, c *model.Component, detector string, err error, report func(detect.Diagnostic)) {
	f := &DetectorFault{Detector: detector, Component: c.ID, Err: err}

	e.logger().LogAttrs(ctx, slog.LevelWarn, "Detector failed",
		slog.String("detector", detector), slog.String("component", c.ID), slog.Any("error", err))

	rule, ok := e.Rule(detect.DetectorFault)
	if !ok {
		return
	}

	report(detect.Diagnostic{
		Detector:  detect.DetectorFault,
		Component: c.ID,
		Severity:  rule.Severity,
		Loc:       c.Loc,
		Message:   f.Error(),
	})
}

// suppressed reports whether a nolint directive on the class or on the member
// containing the finding silences it. Detector faults are never suppressed.
func suppressed(c *model.Component, d detect.Diagnostic) bool {
	if d.Detector == detect.DetectorFault {
		return false
	}

	if astutil.Suppresses(c.NoLint, d.Detector) {
		return true
	}

	if m := c.MemberAt(d.Loc); m != nil {
		return astutil.Suppresses(m.NoLint, d.Detector)
	}

	return false
}
