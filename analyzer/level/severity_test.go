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


package level_test

import (
	"encoding/json"
	"errors"
	"testing"

	. "fillmore-labs.com/rxguard/analyzer/level"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want Severity
	}{
		{"info", Info},
		{"hint", Info},
		{"Warning", Warning},
		{" warn ", Warning},
		{"ERROR", Error},
	}

	for _, tt := range tests {
		got, err := Parse(tt.text)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tt.text, err)
			continue
		}

		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}

	if _, err := Parse("fatal"); !errors.Is(err, ErrUnknownSeverity) {
		t.Errorf("Expected ErrUnknownSeverity, got %v", err)
	}
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(map[string]Severity{"a": Warning})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	if got, want := string(b), `{"a":"warning"}`; got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}

	if _, err := Severity(7).MarshalText(); !errors.Is(err, ErrUnknownSeverity) {
		t.Errorf("Expected ErrUnknownSeverity, got %v", err)
	}

	if got := Severity(7).String(); got != "Severity(7)" {
		t.Errorf("Unexpected name %q", got)
	}
}

func TestAtLeast(t *testing.T) {
	t.Parallel()

	if !Error.AtLeast(Warning) || !Warning.AtLeast(Warning) || Info.AtLeast(Warning) {
		t.Error("Unexpected severity order")
	}
}
