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

package model

import (
	"cmp"
	"strconv"
)

// Location is a position in a component source or template file.
// Lines and columns are 1-based, zero means unknown.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Valid reports whether the location carries at least a file name.
func (l Location) Valid() bool {
	return l.File != ""
}

// String formats the location as file:line:column.
func (l Location) String() string {
	if !l.Valid() {
		return "-"
	}

	b := []byte(l.File)
	if l.Line > 0 {
		b = append(b, ':')
		b = strconv.AppendInt(b, int64(l.Line), 10)

		if l.Column > 0 {
			b = append(b, ':')
			b = strconv.AppendInt(b, int64(l.Column), 10)
		}
	}

	return string(b)
}

// Compare orders locations by file, line and column.
func (l Location) Compare(o Location) int {
	if c := cmp.Compare(l.File, o.File); c != 0 {
		return c
	}

	if c := cmp.Compare(l.Line, o.Line); c != 0 {
		return c
	}

	return cmp.Compare(l.Column, o.Column)
}
