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

package report_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"fillmore-labs.com/rxguard/analyzer/level"
	"fillmore-labs.com/rxguard/internal/detect"
	"fillmore-labs.com/rxguard/internal/model"
	. "fillmore-labs.com/rxguard/internal/report"
)

func loc(file string, line, column int) model.Location {
	return model.Location{File: file, Line: line, Column: column}
}

func TestPrepare(t *testing.T) {
	t.Parallel()

	diags := []detect.Diagnostic{
		{Detector: "b", Severity: level.Info, Loc: loc("b.ts", 1, 1), Message: "first"},
		{Detector: "a", Severity: level.Info, Loc: loc("a.ts", 3, 1)},
		{Detector: "a", Severity: level.Error, Loc: loc("a.ts", 3, 9)},
		{Detector: "b", Severity: level.Info, Loc: loc("b.ts", 1, 1), Message: "duplicate"},
		{Detector: "c", Severity: level.Warning, Loc: loc("a.ts", 1, 5)},
		{Detector: "a", Severity: level.Warning, Loc: loc("a.ts", 1, 5)},
	}

	got := Prepare(diags)

	want := []detect.Diagnostic{
		{Detector: "a", Severity: level.Warning, Loc: loc("a.ts", 1, 5)},
		{Detector: "c", Severity: level.Warning, Loc: loc("a.ts", 1, 5)},
		{Detector: "a", Severity: level.Error, Loc: loc("a.ts", 3, 9)},
		{Detector: "a", Severity: level.Info, Loc: loc("a.ts", 3, 1)},
		{Detector: "b", Severity: level.Info, Loc: loc("b.ts", 1, 1), Message: "first"},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Prepare() mismatch (-want +got):\n%s", diff)
	}

	if len(diags) != 6 || diags[0].Detector != "b" {
		t.Error("Prepare() modified its input")
	}
}

func TestPrepareFaults(t *testing.T) {
	t.Parallel()

	at := loc("a.ts", 2, 1)

	diags := []detect.Diagnostic{
		{Detector: detect.DetectorFault, Component: "a.ts#A", Loc: at, Message: "detector y failed on a.ts#A: panic: y"},
		{Detector: detect.DetectorFault, Component: "a.ts#A", Loc: at, Message: "detector x failed on a.ts#A: panic: x"},
		{Detector: detect.DetectorFault, Message: "detector z failed: panic: z"},
		{Detector: detect.DetectorFault, Message: "detector w failed: panic: w"},
		{Detector: detect.DetectorFault, Component: "a.ts#A", Loc: at, Message: "detector x failed on a.ts#A: panic: x"},
	}

	var got []string
	for _, d := range Prepare(diags) {
		got = append(got, d.Message)
	}

	want := []string{
		"detector w failed: panic: w",
		"detector z failed: panic: z",
		"detector x failed on a.ts#A: panic: x",
		"detector y failed on a.ts#A: panic: y",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Prepare() mismatch (-want +got):\n%s", diff)
	}
}

func TestFailed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		severities []level.Severity
		want       bool
	}{
		{name: "empty", want: false},
		{name: "info and warning", severities: []level.Severity{level.Info, level.Warning}, want: false},
		{name: "error", severities: []level.Severity{level.Info, level.Error}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			diags := make([]detect.Diagnostic, 0, len(tt.severities))
			for _, s := range tt.severities {
				diags = append(diags, detect.Diagnostic{Severity: s})
			}

			if got := Failed(diags); got != tt.want {
				t.Errorf("Failed() = %v, want %v", got, tt.want)
			}
		})
	}
}

var sample = []detect.Diagnostic{
	{
		Detector:  "multiple-subscriptions",
		Component: "JourneyComponent",
		Severity:  level.Warning,
		Loc:       loc("journey.component.ts", 12, 3),
		Message:   "stream journey$ is subscribed 2 times",
		Evidence:  []model.Location{loc("journey.component.html", 1, 7), loc("journey.component.html", 2, 7)},
	},
	{
		Detector:  "not-unsubscribing",
		Component: "JourneyComponent",
		Severity:  level.Error,
		Loc:       loc("journey.component.ts", 20, 25),
		Message:   "subscription is never released",
	},
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, JSON, sample); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	var got []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Output is not a JSON array: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Got %d records, want 2", len(got))
	}

	want := map[string]any{
		"detectorId": "not-unsubscribing",
		"severity":   "error",
		"component":  "JourneyComponent",
		"file":       "journey.component.ts",
		"line":       float64(20),
		"column":     float64(25),
		"message":    "subscription is never released",
		"evidence":   []any{},
	}

	if diff := cmp.Diff(want, got[1]); diff != "" {
		t.Errorf("Record mismatch (-want +got):\n%s", diff)
	}

	evidence, _ := got[0]["evidence"].([]any)
	if len(evidence) != 2 {
		t.Errorf("Got %d evidence locations, want 2", len(evidence))
	}
}

func TestWriteJSONL(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, JSONL, sample); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Got %d lines, want 2", len(lines))
	}

	for i, line := range lines {
		var f Finding
		if err := json.Unmarshal([]byte(line), &f); err != nil {
			t.Fatalf("Line %d is not a record: %v", i+1, err)
		}

		if f.DetectorID != sample[i].Detector || f.Severity != sample[i].Severity {
			t.Errorf("Line %d = %s/%s, want %s/%s", i+1, f.DetectorID, f.Severity, sample[i].Detector, sample[i].Severity)
		}
	}
}

func TestWriteText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, Text, sample); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	got := buf.String()

	for _, want := range []string{
		"journey.component.ts:12:3: warning: stream journey$ is subscribed 2 times (multiple-subscriptions)",
		"see journey.component.html:2:7",
		"journey.component.ts:20:25: error: subscription is never released (not-unsubscribing)",
		"2 findings: 1 errors, 1 warnings, 0 info",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Text output misses %q:\n%s", want, got)
		}
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr error
	}{
		{in: "json", want: JSON},
		{in: "JSONL", want: JSONL},
		{in: "ndjson", want: JSONL},
		{in: "text", want: Text},
		{in: "xml", wantErr: ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			var f Format

			err := f.Set(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Set(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			}

			if err == nil && f != tt.want {
				t.Errorf("Set(%q) = %v, want %v", tt.in, f, tt.want)
			}
		})
	}
}
