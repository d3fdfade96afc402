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

package report

import (
	"errors"
	"fmt"
	"strings"
)

// Format selects the output encoding.
type Format uint8

const (
	// JSON writes a single JSON array.
	JSON Format = iota

	// JSONL writes one JSON record per line.
	JSONL

	// Text writes a styled listing for terminals.
	Text
)

// ErrUnknownFormat is returned when parsing an unknown format name.
var ErrUnknownFormat = errors.New("unknown format")

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"

	case JSONL:
		return "jsonl"

	case Text:
		return "text"

	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// Set implements [github.com/spf13/pflag.Value].
func (f *Format) Set(s string) error {
	switch strings.ToLower(s) {
	case "json":
		*f = JSON

	case "jsonl", "ndjson":
		*f = JSONL

	case "text", "txt":
		*f = Text

	default:
		return fmt.Errorf("%w %q (want json, jsonl or text)", ErrUnknownFormat, s)
	}

	return nil
}

// Type implements [github.com/spf13/pflag.Value].
func (*Format) Type() string { return "format" }
