// Copyright 2025-2026 Oliver Eikemeier. All Rights Reserved.
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

// Package level defines the severity levels of rxguard findings.
package level

import (
	"errors"
	"fmt"
	"strings"
)

// Severity specifies how serious a finding is.
type Severity uint8

const (
	// Info marks findings worth a look.
	Info Severity = iota

	// Warning marks findings that likely need a change.
	Warning

	// Error marks defects, failing the run.
	Error
)

// ErrUnknownSeverity is returned when parsing an unknown severity name.
var ErrUnknownSeverity = errors.New("unknown severity")

// String returns the lower case name of the severity.
func (o Severity) String() string {
	switch o {
	case Info:
		return "info"

	case Warning:
		return "warning"

	case Error:
		return "error"

	default:
		return fmt.Sprintf("Severity(%d)", uint8(o))
	}
}

// AtLeast reports whether the severity is at or above the given one.
func (o Severity) AtLeast(s Severity) bool { return o >= s }

// MarshalText implements [encoding.TextMarshaler].
func (o Severity) MarshalText() ([]byte, error) {
	switch o {
	case Info, Warning, Error:
		return []byte(o.String()), nil

	default:
		return nil, fmt.Errorf("%w %d", ErrUnknownSeverity, o)
	}
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (o *Severity) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "info", "note", "hint":
		*o = Info

	case "warning", "warn":
		*o = Warning

	case "error":
		*o = Error

	default:
		return fmt.Errorf("%w %q", ErrUnknownSeverity, string(text))
	}

	return nil
}

// Parse returns the severity named by s.
func Parse(s string) (Severity, error) {
	var o Severity
	err := o.UnmarshalText([]byte(s))

	return o, err
}
