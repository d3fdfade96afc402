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

package config

import (
	"errors"
	"strings"
)

var (
	// ErrUnknownDetector is returned for detector IDs missing from the registry.
	ErrUnknownDetector = errors.New("unknown detector")

	// ErrInvalidThreshold is returned for thresholds that are negative, not a number or not applicable.
	ErrInvalidThreshold = errors.New("invalid threshold")

	// ErrInvalidSeverity is returned for unknown severity names.
	ErrInvalidSeverity = errors.New("invalid severity")

	// ErrInvalidWorkers is returned for a negative worker count.
	ErrInvalidWorkers = errors.New("invalid worker count")
)

// Error is a configuration error. It is fatal before any analysis starts.
type Error struct {
	// Source is the file the option was read from, if any.
	Source   string
	Option   string
	Detector string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString("configuration")

	if e.Source != "" {
		b.WriteString(" ")
		b.WriteString(e.Source)
	}

	if e.Option != "" {
		b.WriteString(" option ")
		b.WriteString(e.Option)
	}

	if e.Detector != "" {
		b.WriteString(" detector ")
		b.WriteString(e.Detector)
	}

	b.WriteString(": ")
	b.WriteString(e.Err.Error())

	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }
