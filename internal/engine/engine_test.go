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


package engine_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"fillmore-labs.com/rxguard/analyzer/level"
	"fillmore-labs.com/rxguard/internal/adapt"
	"fillmore-labs.com/rxguard/internal/detect"
	. "fillmore-labs.com/rxguard/internal/engine"
	"fillmore-labs.com/rxguard/internal/model"
	"fillmore-labs.com/rxguard/internal/report"
	"fillmore-labs.com/rxguard/internal/testsource"
)

const journey = `-- journey/journey.component.ts --
@Component({ selector: 'app-journey', templateUrl: './journey.component.html', changeDetection: ChangeDetectionStrategy.OnPush })
export class JourneyComponent {
  journey$ = this.api.journey().pipe(map(j => j.value));
  constructor(private api: JourneyApi) {}
  ngOnInit() {
    this.journey$.subscribe(j => console.log(j));
  }
}
-- journey/journey.component.html --
<h1>{{ (journey$ | async)?.title }}</h1>
<p>{{ (journey$ | async)?.summary }}</p>
-- feed/feed.component.ts --
@Component({ selector: 'app-feed', template: '', changeDetection: ChangeDetectionStrategy.OnPush })
export class FeedComponent {
  constructor(private feed: FeedService) {}
  //nolint:not-unsubscribing
  ngOnInit() {
    this.feed.items$.subscribe(x => console.log(x));
  }
  refresh() {
    this.feed.items$.subscribe(x => console.log(x));
  }
}
-- clock/clock.component.ts --
//nolint:rxguard
@Component({ selector: 'app-clock', template: '' })
export class ClockComponent {
  constructor(private feed: FeedService) {
    this.feed.items$.subscribe(x => console.log(x));
  }
}
`

func summary(diags []detect.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Detector+" "+d.Component)
	}

	return out
}

func TestRun(t *testing.T) {
	t.Parallel()

	batch := testsource.Batch(t, testsource.Archive(journey))

	diags, err := New().Run(t.Context(), batch)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []string{
		"multiple-subscriptions journey/journey.component.ts#JourneyComponent",
		"not-unsubscribing journey/journey.component.ts#JourneyComponent",
		"not-unsubscribing feed/feed.component.ts#FeedComponent",
	}

	if diff := cmp.Diff(want, summary(diags)); diff != "" {
		t.Errorf("Run() mismatch (-want +got):\n%s", diff)
	}

	for _, d := range diags {
		if d.Detector == "multiple-subscriptions" && len(d.Evidence) != 3 {
			t.Errorf("Expected evidence for all 3 sites, got %d", len(d.Evidence))
		}

		if d.Detector == "not-unsubscribing" && d.Severity != level.Error {
			t.Errorf("Expected severity %v, got %v", level.Error, d.Severity)
		}
	}
}

func TestDeterministic(t *testing.T) {
	t.Parallel()

	batch := testsource.Batch(t, testsource.Archive(journey))

	serial := New()
	serial.Workers = 1

	first, err := serial.Run(t.Context(), batch)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	parallel := New()
	parallel.Workers = 8

	for range 3 {
		again, err := parallel.Run(t.Context(), batch)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if diff := cmp.Diff(first, again); diff != "" {
			t.Errorf("Run() not deterministic (-serial +parallel):\n%s", diff)
		}
	}
}

func TestRuleSettings(t *testing.T) {
	t.Parallel()

	batch := testsource.Batch(t, testsource.Archive(journey))

	e := New()
	e.Rules = []Rule{{Detector: detect.MultipleSubscriptions, Severity: level.Error}}

	diags, err := e.Run(t.Context(), batch)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if diff := cmp.Diff([]string{"multiple-subscriptions journey/journey.component.ts#JourneyComponent"}, summary(diags)); diff != "" {
		t.Errorf("Run() mismatch (-want +got):\n%s", diff)
	}

	if diags[0].Severity != level.Error {
		t.Errorf("Expected overridden severity %v, got %v", level.Error, diags[0].Severity)
	}

	if _, ok := e.Rule("not-unsubscribing"); ok {
		t.Error("Expected disabled rule to be absent")
	}
}

func TestFault(t *testing.T) {
	t.Parallel()

	batch := testsource.Batch(t, testsource.Archive(journey))

	tests := []struct {
		name string
		det  *detect.Detector
		want string
	}{
		{
			name: "panic",
			det:  &detect.Detector{Name: "boom", Run: func(*detect.Pass) error { panic("boom") }},
			want: "detector boom failed on journey/journey.component.ts#JourneyComponent: panic: boom",
		},
		{
			name: "error",
			det:  &detect.Detector{Name: "broken", Run: func(*detect.Pass) error { return errors.New("broken") }},
			want: "detector broken failed on journey/journey.component.ts#JourneyComponent: broken",
		},
		{
			name: "batch panic",
			det:  &detect.Detector{Name: "boom", RunBatch: func(*detect.BatchPass) error { panic("boom") }},
			want: "detector boom failed: panic: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := New()
			e.Rules = []Rule{
				{Detector: tt.det, Severity: level.Error},
				{Detector: detect.MultipleSubscriptions, Severity: level.Warning},
				{Detector: detect.DetectorFaultDetector, Severity: level.Warning},
			}

			diags, err := e.Run(t.Context(), batch)
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			var faults, others int

			for _, d := range diags {
				switch d.Detector {
				case detect.DetectorFault:
					faults++

					if faults == 1 && d.Message != tt.want {
						t.Errorf("Expected message %q, got %q", tt.want, d.Message)
					}

				case detect.MultipleSubscriptions.Name:
					others++
				}
			}

			if faults == 0 {
				t.Error("Expected a detector-fault finding")
			}

			if others != 1 {
				t.Errorf("Expected other detectors to be unaffected, got %d findings", others)
			}
		})
	}
}

func TestFaultsKept(t *testing.T) {
	t.Parallel()

	batch := testsource.Batch(t, testsource.Archive(journey))

	panics := func(name string) *detect.Detector {
		return &detect.Detector{Name: name, Run: func(*detect.Pass) error { panic(name) }}
	}

	batchPanics := func(name string) *detect.Detector {
		return &detect.Detector{Name: name, RunBatch: func(*detect.BatchPass) error { panic(name) }}
	}

	e := New()
	e.Rules = []Rule{
		{Detector: panics("boom1")},
		{Detector: panics("boom2")},
		{Detector: batchPanics("bb1")},
		{Detector: batchPanics("bb2")},
		{Detector: detect.DetectorFaultDetector, Severity: level.Warning},
	}

	diags, err := e.Run(t.Context(), batch)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var got []string
	for _, d := range report.Prepare(diags) {
		got = append(got, d.Message)
	}

	slices.Sort(got)

	want := []string{
		"detector bb1 failed: panic: bb1",
		"detector bb2 failed: panic: bb2",
		"detector boom1 failed on clock/clock.component.ts#ClockComponent: panic: boom1",
		"detector boom1 failed on feed/feed.component.ts#FeedComponent: panic: boom1",
		"detector boom1 failed on journey/journey.component.ts#JourneyComponent: panic: boom1",
		"detector boom2 failed on clock/clock.component.ts#ClockComponent: panic: boom2",
		"detector boom2 failed on feed/feed.component.ts#FeedComponent: panic: boom2",
		"detector boom2 failed on journey/journey.component.ts#JourneyComponent: panic: boom2",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Faults mismatch (-want +got):\n%s", diff)
	}
}

func TestFaultDisabled(t *testing.T) {
	t.Parallel()

	batch := testsource.Batch(t, testsource.Archive(journey))

	e := New()
	e.Rules = []Rule{{Detector: &detect.Detector{Name: "boom", Run: func(*detect.Pass) error { panic("boom") }}}}

	diags, err := e.Run(t.Context(), batch)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(diags) != 0 {
		t.Errorf("Expected no findings, got %v", summary(diags))
	}
}

func TestCancelled(t *testing.T) {
	t.Parallel()

	batch := testsource.Batch(t, testsource.Archive(journey))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	diags, err := New().Run(ctx, batch)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}

	if len(diags) != 0 {
		t.Errorf("Expected no findings, got %v", summary(diags))
	}
}

func TestEmptyBatch(t *testing.T) {
	t.Parallel()

	diags, err := New().Run(t.Context(), model.NewBatch(nil))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(diags) != 0 {
		t.Errorf("Expected no findings, got %v", summary(diags))
	}
}

func TestUnsupported(t *testing.T) {
	t.Parallel()

	loc := model.Location{File: "a.component.ts", Line: 3, Column: 5}
	err := errors.Join(
		&adapt.UnsupportedConstruct{Component: "AComponent", Construct: "decorator-factory", Loc: loc},
		errors.Join(&adapt.UnsupportedConstruct{Component: "BComponent", Construct: "spread", Loc: loc}),
	)

	diags := New().Unsupported(err)
	if diff := cmp.Diff([]string{"unsupported-construct AComponent", "unsupported-construct BComponent"}, summary(diags)); diff != "" {
		t.Errorf("Unsupported() mismatch (-want +got):\n%s", diff)
	}

	if !strings.Contains(diags[1].Message, "spread") {
		t.Errorf("Expected construct in message, got %q", diags[1].Message)
	}

	e := New()
	e.Rules = e.Rules[:1]

	if got := e.Unsupported(err); got != nil {
		t.Errorf("Expected no findings with the diagnostic disabled, got %v", summary(got))
	}

	if got := New().Unsupported(nil); got != nil {
		t.Errorf("Expected no findings without error, got %v", summary(got))
	}
}
