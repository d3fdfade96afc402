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

package analyzer_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	. "fillmore-labs.com/rxguard/analyzer"
	"fillmore-labs.com/rxguard/internal/config"
)

func TestFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "None", args: nil, want: 0},
		{name: "Enable", args: []string{"--god-component"}, want: 1},
		{name: "Disable", args: []string{"--god-component=false", "--missing-trackby=false"}, want: 2},
		{name: "Overrides", args: []string{"--severity", "god-component=error", "--threshold", "logic-in-template=4"}, want: 2},
		{name: "Only", args: []string{"--enable-only", "god-component,logic-in-template", "--workers", "2"}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			flags := RegisterFlags(fs)

			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			opts, err := flags.Options()
			if err != nil {
				t.Fatalf("Options failed: %v", err)
			}

			if len(opts) != tt.want {
				t.Errorf("Got %d options: %s, want %d", len(opts), opts.LogValue(), tt.want)
			}

			if err := New(opts).Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestFlagDisable(t *testing.T) {
	t.Parallel()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := RegisterFlags(fs)

	if err := fs.Parse([]string{"--not-unsubscribing=false"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got := fs.Lookup("not-unsubscribing").Value.String(); got != "false" {
		t.Errorf("Flag value = %s, want false", got)
	}

	if got := fs.Lookup("god-component").Value.String(); got != "true" {
		t.Errorf("Untouched flag value = %s, want true", got)
	}

	opts, err := flags.Options()
	if err != nil {
		t.Fatalf("Options failed: %v", err)
	}

	if got := opts.LogValue().String(); !strings.Contains(got, "not-unsubscribing=false") {
		t.Errorf("Options = %s, want not-unsubscribing=false", got)
	}
}

func TestFlagErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"severity", []string{"--severity", "god-component=fatal"}, config.ErrInvalidSeverity},
		{"threshold", []string{"--threshold", "god-component=many"}, config.ErrInvalidThreshold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			flags := RegisterFlags(fs)

			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			if _, err := flags.Options(); !errors.Is(err, tt.want) {
				t.Errorf("Options() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFlagInvalidBool(t *testing.T) {
	t.Parallel()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(&strings.Builder{})
	_ = RegisterFlags(fs)

	if err := fs.Parse([]string{"--god-component=maybe"}); err == nil {
		t.Error("Parse succeeded on an invalid boolean")
	}
}

func TestUsage(t *testing.T) {
	t.Parallel()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	_ = RegisterFlags(fs)

	usage := fs.FlagUsages()

	for _, want := range []string{"--god-component", "--severity", "--threshold", "--workers", "--enable-only"} {
		if !strings.Contains(usage, want) {
			t.Errorf("Usage misses %s:\n%s", want, usage)
		}
	}
}
