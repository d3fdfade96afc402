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

package engine

import (
	"errors"
	"fmt"

	"fillmore-labs.com/rxguard/internal/adapt"
	"fillmore-labs.com/rxguard/internal/detect"
)

// DetectorFault is a detector failing on a component.
type DetectorFault struct {
	// Detector is empty when building the component graphs failed.
	Detector  string
	Component string
	Err       error
}

func (e *DetectorFault) Error() string {
	switch {
	case e.Detector == "":
		return fmt.Sprintf("analysis of %s failed: %v", e.Component, e.Err)

	case e.Component == "":
		return fmt.Sprintf("detector %s failed: %v", e.Detector, e.Err)

	default:
		return fmt.Sprintf("detector %s failed on %s: %v", e.Detector, e.Component, e.Err)
	}
}

func (e *DetectorFault) Unwrap() error { return e.Err }

// ErrPanic is wrapped by errors recovered from a panicking detector.
var ErrPanic = errors.New("panic")

// protect runs f, converting a panic into an error.
func protect(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	return f()
}

// Unsupported converts the unsupported constructs joined in err into findings.
// It returns nil when the unsupported-construct diagnostic is disabled.
func (e *Engine) Unsupported(err error) []detect.Diagnostic {
	rule, ok := e.Rule(detect.UnsupportedConstruct)
	if !ok || err == nil {
		return nil
	}

	var out []detect.Diagnostic

	for _, u := range unsupported(err) {
		out = append(out, detect.Diagnostic{
			Detector:  detect.UnsupportedConstruct,
			Component: u.Component,
			Severity:  rule.Severity,
			Loc:       u.Loc,
			Message:   fmt.Sprintf("unsupported construct %s; detectors depending on it abstain", u.Construct),
		})
	}

	return out
}

// unsupported flattens a tree of joined errors into its unsupported constructs.
func unsupported(err error) []*adapt.UnsupportedConstruct {
	switch e := err.(type) {
	case *adapt.UnsupportedConstruct:
		return []*adapt.UnsupportedConstruct{e}

	case interface{ Unwrap() []error }:
		var out []*adapt.UnsupportedConstruct
		for _, inner := range e.Unwrap() {
			out = append(out, unsupported(inner)...)
		}

		return out

	default:
		var u *adapt.UnsupportedConstruct
		if errors.As(err, &u) {
			return []*adapt.UnsupportedConstruct{u}
		}

		return nil
	}
}
