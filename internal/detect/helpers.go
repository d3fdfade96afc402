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

package detect

import (
	"strconv"
	"strings"

	"fillmore-labs.com/rxguard/internal/astutil"
	"fillmore-labs.com/rxguard/internal/model"
)

// bodies returns the code of a class: field initializers and member bodies, in declaration order.
func bodies(c *model.Component) []any {
	out := make([]any, 0, len(c.Members))

	for _, m := range c.Members {
		switch {
		case m.Init != nil:
			out = append(out, m.Init)

		case m.Callable():
			out = append(out, m.Body)
		}
	}

	return out
}

// assigns reports whether body writes this.name.
func assigns(body any, name string) bool {
	for a := range astutil.AssignedThisFields(body) {
		if field, _ := astutil.AssignedField(a); field == name {
			return true
		}
	}

	return false
}

// templateNames returns the names the template reads through its implicit receiver.
func templateNames(t *model.Template) map[string]bool {
	names := make(map[string]bool)

	for _, b := range t.Bindings {
		for id := range astutil.AllIdents(b.Expr) {
			names[id.Name] = true
		}

		for _, o := range b.Options {
			for id := range astutil.AllIdents(o.Value) {
				names[id.Name] = true
			}
		}
	}

	return names
}

func quoteList(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = strconv.Quote(n)
	}

	return strings.Join(q, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}

	return many
}
