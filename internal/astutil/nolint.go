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

package astutil

import (
	"regexp"
	"slices"
	"strings"
)

// Linter is the name of the linter in nolint directives.
const Linter = "rxguard"

var nolintPattern = regexp.MustCompile(`^//\s*nolint:([a-zA-Z0-9,_-]+)`)

// NoLintDirectives collects the linters named in //nolint:a,b directives of the given comments.
func NoLintDirectives(comments []string) []string {
	var linters []string

	for _, comment := range comments {
		matches := nolintPattern.FindStringSubmatch(strings.TrimSpace(comment))
		if matches == nil {
			continue
		}

		// Parse comma-separated linter list
		for linter := range strings.SplitSeq(matches[1], ",") {
			if l := strings.ToLower(strings.TrimSpace(linter)); l != "" && !slices.Contains(linters, l) {
				linters = append(linters, l)
			}
		}
	}

	return linters
}

// Suppresses reports whether a directive list silences the given detector.
func Suppresses(linters []string, detector string) bool {
	for _, l := range linters {
		if l == Linter || l == "all" || l == detector {
			return true
		}
	}

	return false
}
